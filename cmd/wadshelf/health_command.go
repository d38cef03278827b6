package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wadshelf/internal/catalog"
	"wadshelf/internal/deps"
)

type healthJSON struct {
	catalog.DatabaseHealth
	Directories []deps.DirStatus `json:"directories"`
	Executables []deps.Status    `json:"executables"`
}

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check catalog database health and source port executables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				resp, err := store.CheckHealth(cmd.Context())
				if err != nil {
					return err
				}
				ports, err := store.ListSourcePorts(cmd.Context(), false)
				if err != nil {
					return err
				}
				utilities, err := store.ListSourcePorts(cmd.Context(), true)
				if err != nil {
					return err
				}
				executables := deps.CheckBinaries(deps.PortRequirements(append(ports, utilities...)))
				cfg := ctx.configValue()
				directories := []deps.DirStatus{
					deps.CheckDirectory("Data", cfg.Paths.DataDir),
					deps.CheckDirectory("Logs", cfg.Paths.LogDir),
					deps.CheckDirectory("Library", cfg.LibraryPath()),
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, healthJSON{DatabaseHealth: resp, Directories: directories, Executables: executables})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Database path: %s\n", resp.DBPath)
				fmt.Fprintf(out, "Database exists: %s\n", yesNo(resp.DatabaseExists))
				fmt.Fprintf(out, "Readable: %s\n", yesNo(resp.DatabaseReadable))
				fmt.Fprintf(out, "Schema version: %d\n", resp.SchemaVersion)
				if len(resp.MissingTables) > 0 {
					fmt.Fprintf(out, "Missing tables: %s\n", strings.Join(resp.MissingTables, ", "))
				} else {
					fmt.Fprintln(out, "Missing tables: none")
				}
				fmt.Fprintf(out, "Integrity check: %s\n", yesNo(resp.IntegrityCheck))
				fmt.Fprintf(out, "Game files: %d\n", resp.GameFiles)
				fmt.Fprintf(out, "Tags: %d\n", resp.Tags)
				fmt.Fprintf(out, "Source ports: %d\n", resp.SourcePorts)
				for _, dir := range directories {
					fmt.Fprintf(out, "%s directory: %s (%s)\n", dir.Name, dir.Path, dir.Detail)
				}
				for _, status := range executables {
					if status.Available {
						fmt.Fprintf(out, "Executable %s: %s\n", status.Name, status.Resolved)
					} else {
						fmt.Fprintf(out, "Executable %s: missing (%s)\n", status.Name, status.Detail)
					}
				}
				if resp.Error != "" {
					fmt.Fprintf(out, "Error: %s\n", resp.Error)
				}
				return nil
			})
		},
	}
}
