package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"wadshelf/internal/catalog"
)

func newTagsCommand(ctx *commandContext) *cobra.Command {
	tagsCmd := &cobra.Command{
		Use:   "tags",
		Short: "Manage tags and tag views",
	}
	tagsCmd.AddCommand(newTagsListCommand(ctx))
	tagsCmd.AddCommand(newTagsAddCommand(ctx))
	tagsCmd.AddCommand(newTagsRemoveCommand(ctx))
	tagsCmd.AddCommand(newTagsMappingCommand(ctx, "attach", "Tag game files"))
	tagsCmd.AddCommand(newTagsMappingCommand(ctx, "detach", "Remove a tag from game files"))
	tagsCmd.AddCommand(newTagsGamesCommand(ctx))
	return tagsCmd
}

func lookupTag(ctx context.Context, store *catalog.Store, name string) (*catalog.Tag, error) {
	tag, err := store.GetTagByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, fmt.Errorf("tag %q not found", name)
	}
	return tag, nil
}

func newTagsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				tags, err := store.ListTags(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, tags)
				}
				if len(tags) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), noResultsText)
					return nil
				}
				rows := make([][]string, 0, len(tags))
				for _, t := range tags {
					rows = append(rows, []string{strconv.FormatInt(t.ID, 10), t.Name, t.Color, yesNo(t.ShowInTabs), yesNo(t.ShowInList)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Name", "Color", "Tab", "List"},
					rows,
					[]columnAlignment{alignRight},
				))
				return nil
			})
		},
	}
}

func newTagsAddCommand(ctx *commandContext) *cobra.Command {
	var (
		color  string
		noTab  bool
		noList bool
	)
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a tag (shown as a view unless --no-tab)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				tag, err := store.InsertTag(cmd.Context(), &catalog.Tag{
					Name:       args[0],
					Color:      color,
					ShowInTabs: !noTab,
					ShowInList: !noList,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created tag %s\n", tag.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&color, "color", "", "Display color")
	cmd.Flags().BoolVar(&noTab, "no-tab", false, "Do not show the tag as a view")
	cmd.Flags().BoolVar(&noList, "no-list", false, "Do not show the tag in game file details")
	return cmd
}

func newTagsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Delete a tag and its mappings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				tag, err := lookupTag(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				if err := store.DeleteTag(cmd.Context(), tag.ID); err != nil {
					return err
				}
				// The tag view's layout goes with it.
				if err := store.ResetColumnConfig(cmd.Context(), tag.Name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed tag %s\n", tag.Name)
				return nil
			})
		},
	}
}

func newTagsMappingCommand(ctx *commandContext, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " NAME ID...",
		Short: short,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				tag, err := lookupTag(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				for _, arg := range args[1:] {
					g, err := mustGameFile(cmd.Context(), store, arg)
					if err != nil {
						return err
					}
					if use == "attach" {
						err = store.TagGameFile(cmd.Context(), tag.ID, g.ID)
					} else {
						err = store.UntagGameFile(cmd.Context(), tag.ID, g.ID)
					}
					if err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%sed %d game file(s)\n", cases.Title(language.English).String(use), len(args)-1)
				return nil
			})
		},
	}
}

func newTagsGamesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "games NAME",
		Short: "List the game files carrying a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				tag, err := lookupTag(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				games, err := store.GameFilesByTag(cmd.Context(), tag.ID)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, games)
				}
				if len(games) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), noResultsText)
					return nil
				}
				rows := make([][]string, 0, len(games))
				for _, g := range games {
					rows = append(rows, []string{strconv.FormatInt(g.ID, 10), g.Title, g.FileName, g.Author})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Title", "File", "Author"}, rows, []columnAlignment{alignRight}))
				return nil
			})
		},
	}
}
