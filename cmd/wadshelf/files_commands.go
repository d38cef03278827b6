package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"wadshelf/internal/catalog"
	"wadshelf/internal/fields"
	"wadshelf/internal/fileutil"
	"wadshelf/internal/logging"
	"wadshelf/internal/query"
	"wadshelf/internal/views"
)

func newFilesCommand(ctx *commandContext) *cobra.Command {
	filesCmd := &cobra.Command{
		Use:   "files",
		Short: "List, search and edit game files",
	}

	filesCmd.AddCommand(newFilesListCommand(ctx))
	filesCmd.AddCommand(newFilesSearchCommand(ctx))
	filesCmd.AddCommand(newFilesAddCommand(ctx))
	filesCmd.AddCommand(newFilesShowCommand(ctx))
	filesCmd.AddCommand(newFilesUpdateCommand(ctx))
	filesCmd.AddCommand(newFilesRemoveCommand(ctx))
	filesCmd.AddCommand(newFilesPlayedCommand(ctx))
	filesCmd.AddCommand(newFilesAttachCommand(ctx))
	filesCmd.AddCommand(newFilesAttachmentsCommand(ctx))

	return filesCmd
}

type queryFlags struct {
	view   string
	where  []string
	fields []string
}

func (q *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&q.view, "view", "", "View to query (defaults to views.default_view)")
	cmd.Flags().StringArrayVar(&q.where, "where", nil, "Filter such as MapCount>=10 or Title~doom (repeatable, OR-combined)")
}

func (q *queryFlags) request(terms []string) (views.Request, error) {
	req := views.Request{View: q.view, Terms: terms}
	for _, expr := range q.where {
		p, err := query.ParsePredicate(expr)
		if err != nil {
			return views.Request{}, err
		}
		req.Predicates = append(req.Predicates, p)
	}
	for _, name := range q.fields {
		f, ok := fields.Lookup(name)
		if !ok {
			return views.Request{}, fmt.Errorf("unknown field %q", name)
		}
		req.SearchFields = append(req.SearchFields, f.Key)
	}
	return req, nil
}

func runQuery(ctx *commandContext, cmd *cobra.Command, req views.Request) error {
	return ctx.withViews(func(svc *views.Service, _ *catalog.Store) error {
		page, err := svc.Query(cmd.Context(), req)
		if err != nil {
			return err
		}
		if ctx.JSONMode() {
			return writeJSON(cmd, newPageJSON(page))
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, renderPage(page, ctx.configValue().Display, shouldStyle(out)))
		return nil
	})
}

func newFilesListCommand(ctx *commandContext) *cobra.Command {
	var flags queryFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the game files of a view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(nil)
			if err != nil {
				return err
			}
			return runQuery(ctx, cmd, req)
		},
	}
	flags.register(cmd)
	return cmd
}

func newFilesSearchCommand(ctx *commandContext) *cobra.Command {
	var flags queryFlags
	cmd := &cobra.Command{
		Use:   "search TERM...",
		Short: "Search a view; a file matching any term in any search field is shown",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(args)
			if err != nil {
				return err
			}
			return runQuery(ctx, cmd, req)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringArrayVar(&flags.fields, "field", nil, "Search only this field (repeatable)")
	return cmd
}

func newFilesAddCommand(ctx *commandContext) *cobra.Command {
	var (
		title       string
		author      string
		description string
		released    string
		maps        int64
		iwad        bool
		importFile  bool
		tags        []string
	)
	cmd := &cobra.Command{
		Use:   "add PATH",
		Short: "Add a WAD or PK3 to the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			isBase, err := catalog.InspectFile(path)
			if err != nil {
				return err
			}
			g := &catalog.GameFile{
				FileName:    filepath.Base(path),
				Title:       strings.TrimSpace(title),
				Author:      author,
				Description: description,
				MapCount:    maps,
				IsBase:      isBase || iwad,
				Downloaded:  time.Now().UTC(),
			}
			if g.Title == "" {
				g.Title = inferTitle(g.FileName)
			}
			if released != "" {
				if err := g.Set(fields.ReleaseDate, released); err != nil {
					return err
				}
			}
			return ctx.withStore(func(store *catalog.Store) error {
				var imported string
				if importFile {
					imported, err = fileutil.ImportFile(path, ctx.configValue().LibraryPath())
					if err != nil {
						return err
					}
					g.FileName = filepath.Base(imported)
				}
				stored, err := store.InsertGameFile(cmd.Context(), g)
				if err != nil {
					if imported != "" {
						_ = os.Remove(imported)
					}
					return err
				}
				if imported != "" {
					ctx.loggerValue().Info("imported game file",
						logging.String(logging.FieldComponent, "files"),
						logging.String("source", path),
						logging.String("destination", imported),
					)
				}
				for _, name := range tags {
					tag, err := ensureTag(cmd.Context(), store, name)
					if err != nil {
						return err
					}
					if err := store.TagGameFile(cmd.Context(), tag.ID, stored.ID); err != nil {
						return err
					}
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, stored)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added #%d %s\n", stored.ID, stored.Title)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Title (inferred from the file name when empty)")
	cmd.Flags().StringVar(&author, "author", "", "Author")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&released, "released", "", "Release date (YYYY-MM-DD)")
	cmd.Flags().Int64Var(&maps, "maps", 0, "Number of maps")
	cmd.Flags().BoolVar(&iwad, "iwad", false, "Mark as a base game even without an IWAD header")
	cmd.Flags().BoolVar(&importFile, "import", false, "Copy the file into the library directory")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Tag to attach, created when missing (repeatable)")
	return cmd
}

// inferTitle turns "alien_vendetta-v2.wad" into "Alien Vendetta V2".
func inferTitle(fileName string) string {
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	return cases.Title(language.English).String(base)
}

func ensureTag(ctx context.Context, store *catalog.Store, name string) (*catalog.Tag, error) {
	tag, err := store.GetTagByName(ctx, name)
	if err != nil || tag != nil {
		return tag, err
	}
	return store.InsertTag(ctx, &catalog.Tag{Name: name, ShowInTabs: true, ShowInList: true})
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(arg), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func mustGameFile(ctx context.Context, store *catalog.Store, arg string) (*catalog.GameFile, error) {
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	g, err := store.GetGameFile(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, fmt.Errorf("game file %d: %w", id, catalog.ErrNotFound)
	}
	return g, nil
}

type gameFileDetails struct {
	*catalog.GameFile
	Tags        []string            `json:"tags"`
	Attachments []*catalog.FileData `json:"attachments"`
}

func newFilesShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show every field of a game file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				g, err := mustGameFile(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				tags, err := store.TagsForGameFile(cmd.Context(), g.ID)
				if err != nil {
					return err
				}
				attachments, err := store.FilesForGame(cmd.Context(), g.ID)
				if err != nil {
					return err
				}
				details := gameFileDetails{GameFile: g, Attachments: attachments}
				for _, t := range tags {
					details.Tags = append(details.Tags, t.Name)
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, details)
				}

				out := cmd.OutOrStdout()
				record := g.Record()
				dateFormat := ctx.configValue().Display.DateFormat
				fmt.Fprintf(out, "ID: %d\n", g.ID)
				for _, f := range fields.All() {
					fmt.Fprintf(out, "%s: %s\n", f.Title, record.Text(f.Key, dateFormat))
				}
				fmt.Fprintf(out, "IWAD: %s\n", yesNo(g.IsBase))
				if len(details.Tags) > 0 {
					fmt.Fprintf(out, "Tags: %s\n", strings.Join(details.Tags, ", "))
				}
				for _, a := range attachments {
					fmt.Fprintf(out, "Attachment #%d: %s %s\n", a.ID, a.Type, a.Path)
				}
				return nil
			})
		},
	}
}

func parseAssignment(expr string) (fields.Field, string, error) {
	name, value, ok := strings.Cut(expr, "=")
	if !ok {
		return fields.Field{}, "", fmt.Errorf("expected FIELD=VALUE, got %q", expr)
	}
	f, ok := fields.Lookup(name)
	if !ok {
		return fields.Field{}, "", fmt.Errorf("unknown field %q", strings.TrimSpace(name))
	}
	return f, strings.TrimSpace(value), nil
}

func newFilesUpdateCommand(ctx *commandContext) *cobra.Command {
	var (
		sets  []string
		where string
	)
	cmd := &cobra.Command{
		Use:   "update [ID]",
		Short: "Set fields of one game file, or of every file matching --where",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(sets) == 0 {
				return fmt.Errorf("nothing to update: pass --set FIELD=VALUE")
			}
			if (len(args) == 0) == (where == "") {
				return fmt.Errorf("pass either an ID or --where FIELD=VALUE")
			}
			return ctx.withStore(func(store *catalog.Store) error {
				out := cmd.OutOrStdout()
				if where != "" {
					whereField, whereValue, err := parseAssignment(where)
					if err != nil {
						return err
					}
					var total int64
					for _, expr := range sets {
						setField, setValue, err := parseAssignment(expr)
						if err != nil {
							return err
						}
						n, err := store.UpdateGameFilesWhere(cmd.Context(), whereField.Key, whereValue, setField.Key, setValue)
						if err != nil {
							return err
						}
						total += n
					}
					fmt.Fprintf(out, "Updated %d field value(s)\n", total)
					return nil
				}

				g, err := mustGameFile(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				for _, expr := range sets {
					f, value, err := parseAssignment(expr)
					if err != nil {
						return err
					}
					if err := g.Set(f.Key, value); err != nil {
						return err
					}
				}
				if err := store.UpdateGameFile(cmd.Context(), g); err != nil {
					return err
				}
				fmt.Fprintf(out, "Updated #%d %s\n", g.ID, g.Title)
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Assignment FIELD=VALUE (repeatable)")
	cmd.Flags().StringVar(&where, "where", "", "Update every file whose FIELD equals VALUE")
	return cmd
}

func newFilesRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a game file with its attachments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *catalog.Store) error {
				if err := store.DeleteGameFile(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed #%d\n", id)
				return nil
			})
		},
	}
}

func newFilesPlayedCommand(ctx *commandContext) *cobra.Command {
	var minutes int
	cmd := &cobra.Command{
		Use:   "played ID",
		Short: "Record a play session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if minutes < 0 {
				return fmt.Errorf("minutes must not be negative")
			}
			return ctx.withStore(func(store *catalog.Store) error {
				if err := store.MarkPlayed(cmd.Context(), id, time.Now(), time.Duration(minutes)*time.Minute); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded play of #%d\n", id)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Length of the session")
	return cmd
}

func newFilesAttachCommand(ctx *commandContext) *cobra.Command {
	var (
		fileType    string
		portID      int64
		description string
	)
	cmd := &cobra.Command{
		Use:   "attach ID PATH",
		Short: "Attach a demo, save game or screenshot to a game file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ft, err := catalog.ParseFileType(fileType)
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *catalog.Store) error {
				g, err := mustGameFile(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				stored, err := store.InsertFile(cmd.Context(), &catalog.FileData{
					GameFileID:   g.ID,
					SourcePortID: portID,
					Type:         ft,
					Path:         args[1],
					Description:  description,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Attached %s #%d to %s\n", stored.Type, stored.ID, g.Title)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&fileType, "type", string(catalog.FileTypeDemo), "demo, savegame, screenshot or thumbnail")
	cmd.Flags().Int64Var(&portID, "port", 0, "Source port the file was recorded with")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	return cmd
}

func newFilesAttachmentsCommand(ctx *commandContext) *cobra.Command {
	var fileType string
	cmd := &cobra.Command{
		Use:   "attachments [ID]",
		Short: "List attachments of a game file, or of one type across the library",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				var (
					files []*catalog.FileData
					err   error
				)
				switch {
				case len(args) == 1:
					var id int64
					if id, err = parseID(args[0]); err != nil {
						return err
					}
					files, err = store.FilesForGame(cmd.Context(), id)
				case fileType != "":
					var ft catalog.FileType
					if ft, err = catalog.ParseFileType(fileType); err != nil {
						return err
					}
					files, err = store.FilesByType(cmd.Context(), ft)
				default:
					return fmt.Errorf("pass a game file ID or --type")
				}
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, files)
				}
				if len(files) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), noResultsText)
					return nil
				}
				rows := make([][]string, 0, len(files))
				for _, f := range files {
					rows = append(rows, []string{
						strconv.FormatInt(f.ID, 10),
						strconv.FormatInt(f.GameFileID, 10),
						string(f.Type),
						f.Path,
						f.CreatedAt.Local().Format(ctx.configValue().Display.DateFormat),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Game", "Type", "Path", "Created"},
					rows,
					[]columnAlignment{alignRight, alignRight},
				))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&fileType, "type", "", "List every attachment of this type")
	return cmd
}
