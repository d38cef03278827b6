package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"wadshelf/internal/catalog"
	"wadshelf/internal/fields"
	"wadshelf/internal/layout"
	"wadshelf/internal/views"
)

func newViewCommand(ctx *commandContext) *cobra.Command {
	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "Inspect views and edit their column layouts",
	}
	viewCmd.AddCommand(newViewListCommand(ctx))
	viewCmd.AddCommand(newViewShowCommand(ctx))
	viewCmd.AddCommand(newViewSetColumnCommand(ctx))
	viewCmd.AddCommand(newViewMoveCommand(ctx))
	viewCmd.AddCommand(newViewResetCommand(ctx))
	viewCmd.AddCommand(newViewCloneCommand(ctx))
	return viewCmd
}

func newViewListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in and tag views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withViews(func(svc *views.Service, _ *catalog.Store) error {
				list, err := svc.List(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, list)
				}
				rows := make([][]string, 0, len(list))
				for _, v := range list {
					rows = append(rows, []string{v.Name, v.Title, v.Kind.String()})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Name", "Title", "Kind"}, rows, nil))
				return nil
			})
		},
	}
}

type columnJSON struct {
	Column string `json:"column"`
	Title  string `json:"title"`
	Width  int    `json:"width"`
	Sort   string `json:"sort"`
}

func printLayout(ctx *commandContext, cmd *cobra.Command, lay layout.Layout) error {
	if ctx.JSONMode() {
		out := make([]columnJSON, len(lay.Columns))
		for i, col := range lay.Columns {
			out[i] = columnJSON{Column: string(col.Field.Key), Title: col.Field.Title, Width: col.Width, Sort: col.Sort.String()}
		}
		return writeJSON(cmd, out)
	}
	rows := make([][]string, 0, len(lay.Columns))
	for i, col := range lay.Columns {
		rows = append(rows, []string{
			strconv.Itoa(i),
			string(col.Field.Key),
			col.Field.Title,
			strconv.Itoa(col.Width),
			col.Sort.String(),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"#", "Column", "Title", "Width", "Sort"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
	))
	return nil
}

func newViewShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show VIEW",
		Short: "Show the resolved column layout of a view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withViews(func(svc *views.Service, _ *catalog.Store) error {
				v, err := svc.Lookup(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				lay, err := svc.Layout(cmd.Context(), v.Name)
				if err != nil {
					return err
				}
				return printLayout(ctx, cmd, lay)
			})
		},
	}
}

// editLayout resolves a view's layout, applies edit and saves the result.
func editLayout(ctx *commandContext, cmd *cobra.Command, view string, edit func(layout.Layout) (layout.Layout, error)) error {
	return ctx.withViews(func(svc *views.Service, _ *catalog.Store) error {
		v, err := svc.Lookup(cmd.Context(), view)
		if err != nil {
			return err
		}
		lay, err := svc.Layout(cmd.Context(), v.Name)
		if err != nil {
			return err
		}
		lay, err = edit(lay)
		if err != nil {
			return err
		}
		if err := svc.SaveLayout(cmd.Context(), lay); err != nil {
			return err
		}
		return printLayout(ctx, cmd, lay)
	})
}

func lookupColumn(name string) (fields.Key, error) {
	f, ok := fields.Lookup(name)
	if !ok {
		return "", fmt.Errorf("unknown column %q", name)
	}
	return f.Key, nil
}

func newViewSetColumnCommand(ctx *commandContext) *cobra.Command {
	var (
		width int
		sort  string
	)
	cmd := &cobra.Command{
		Use:   "set-column VIEW COLUMN",
		Short: "Change the width or sort direction of a column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := lookupColumn(args[1])
			if err != nil {
				return err
			}
			widthSet := cmd.Flags().Changed("width")
			sortSet := cmd.Flags().Changed("sort")
			if !widthSet && !sortSet {
				return fmt.Errorf("pass --width or --sort")
			}
			var dir layout.SortDirection
			if sortSet {
				if dir, err = layout.ParseSortDirection(sort); err != nil {
					return err
				}
			}
			return editLayout(ctx, cmd, args[0], func(lay layout.Layout) (layout.Layout, error) {
				var err error
				if widthSet {
					if lay, err = lay.WithWidth(key, width); err != nil {
						return lay, err
					}
				}
				if sortSet {
					if lay, err = lay.WithSort(key, dir); err != nil {
						return lay, err
					}
				}
				return lay, nil
			})
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "Column width")
	cmd.Flags().StringVar(&sort, "sort", "", "asc, desc or none")
	return cmd
}

func newViewMoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "move VIEW COLUMN INDEX",
		Short: "Move a column to a zero-based position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := lookupColumn(args[1])
			if err != nil {
				return err
			}
			index, err := strconv.Atoi(args[2])
			if err != nil || index < 0 {
				return fmt.Errorf("invalid index %q", args[2])
			}
			return editLayout(ctx, cmd, args[0], func(lay layout.Layout) (layout.Layout, error) {
				return lay.WithMove(key, index)
			})
		},
	}
}

func newViewResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset VIEW",
		Short: "Forget a view's saved layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withViews(func(svc *views.Service, _ *catalog.Store) error {
				if err := svc.ResetLayout(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reset layout of %s\n", args[0])
				return nil
			})
		},
	}
}

func newViewCloneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clone SOURCE TARGET",
		Short: "Copy one view's layout onto another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withViews(func(svc *views.Service, _ *catalog.Store) error {
				lay, err := svc.Clone(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				return printLayout(ctx, cmd, lay)
			})
		},
	}
}
