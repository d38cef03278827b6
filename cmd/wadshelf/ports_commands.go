package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"wadshelf/internal/catalog"
)

func newPortsCommand(ctx *commandContext) *cobra.Command {
	portsCmd := &cobra.Command{
		Use:   "ports",
		Short: "Manage source ports and utilities",
	}
	portsCmd.AddCommand(newPortsListCommand(ctx))
	portsCmd.AddCommand(newPortsAddCommand(ctx))
	portsCmd.AddCommand(newPortsRemoveCommand(ctx))
	return portsCmd
}

func newPortsListCommand(ctx *commandContext) *cobra.Command {
	var utilities bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List source ports (or utilities)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				ports, err := store.ListSourcePorts(cmd.Context(), utilities)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, ports)
				}
				if len(ports) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), noResultsText)
					return nil
				}
				rows := make([][]string, 0, len(ports))
				for _, p := range ports {
					rows = append(rows, []string{
						strconv.FormatInt(p.ID, 10),
						p.Name,
						p.Executable,
						strings.Join(p.SupportedExtensions, ","),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Name", "Executable", "Extensions"},
					rows,
					[]columnAlignment{alignRight},
				))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&utilities, "utilities", false, "List utilities instead of source ports")
	return cmd
}

func newPortsAddCommand(ctx *commandContext) *cobra.Command {
	var (
		directory  string
		extensions []string
		utility    bool
	)
	cmd := &cobra.Command{
		Use:   "add NAME EXECUTABLE",
		Short: "Register a source port or utility",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				port, err := store.InsertSourcePort(cmd.Context(), &catalog.SourcePort{
					Name:                args[0],
					Executable:          args[1],
					Directory:           directory,
					SupportedExtensions: extensions,
					IsUtility:           utility,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered #%d %s\n", port.ID, port.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&directory, "dir", "", "Working directory")
	cmd.Flags().StringSliceVar(&extensions, "ext", []string{".wad", ".pk3", ".deh"}, "Supported file extensions")
	cmd.Flags().BoolVar(&utility, "utility", false, "Register as a utility rather than a source port")
	return cmd
}

func newPortsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a source port; attachments recorded with it are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *catalog.Store) error {
				detached, err := store.DetachSourcePort(cmd.Context(), id)
				if err != nil {
					return err
				}
				if err := store.DeleteSourcePort(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed #%d (%d attachment(s) detached)\n", id, detached)
				return nil
			})
		},
	}
}
