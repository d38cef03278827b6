package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"wadshelf/internal/config"
	"wadshelf/internal/fields"
)

type configReport struct {
	ConfigPath   string   `json:"config_path"`
	ConfigFound  bool     `json:"config_found"`
	Database     string   `json:"database"`
	Library      string   `json:"library"`
	Logs         string   `json:"logs"`
	DefaultView  string   `json:"default_view"`
	ExcludeBase  bool     `json:"exclude_base"`
	SearchFields []string `json:"search_fields"`
}

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the catalog configuration",
	}
	configCmd.AddCommand(newConfigValidateCommand(ctx), newConfigInitCommand())
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a starter config with catalog, library and view settings",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := configTarget(targetPath)
			if err != nil {
				return err
			}
			if _, err := os.Stat(target); err == nil && !force {
				return fmt.Errorf("%s already exists; pass --force to replace it", target)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("inspect %s: %w", target, err)
			}
			if err := config.CreateSample(target); err != nil {
				return err
			}

			cfg, _, _, err := config.Load(target)
			if err != nil {
				return fmt.Errorf("written config does not load: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %s\n", target)
			fmt.Fprintf(out, "The catalog will be created at %s on first use.\n", cfg.DatabasePath())
			fmt.Fprintf(out, "Imported game files are copied into %s.\n", cfg.LibraryPath())
			fmt.Fprintln(out, "Next: wadshelf files add <file.wad>")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Where to write the config (default: user config directory)")
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing config file")
	return cmd
}

func configTarget(flagValue string) (string, error) {
	if target := strings.TrimSpace(flagValue); target != "" {
		return config.ExpandPath(target)
	}
	path, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("locate user config directory: %w", err)
	}
	return path, nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the config and report where the catalog and library live",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var flagPath string
			if ctx.configFlag != nil {
				flagPath = *ctx.configFlag
			}
			cfg, path, found, err := config.Load(strings.TrimSpace(flagPath))
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			report := configReport{
				ConfigPath:   path,
				ConfigFound:  found,
				Database:     cfg.DatabasePath(),
				Library:      cfg.LibraryPath(),
				Logs:         cfg.Paths.LogDir,
				DefaultView:  cfg.Views.DefaultView,
				ExcludeBase:  cfg.Views.ExcludeBase,
				SearchFields: searchFieldNames(cfg.Views.SearchFields),
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, report)
			}
			printConfigReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

// searchFieldNames returns the catalog keys free-text search matches. An
// empty list searches every text field.
func searchFieldNames(names []string) []string {
	if len(names) == 0 {
		for _, key := range fields.SearchableKeys() {
			names = append(names, string(key))
		}
		return names
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		if f, ok := fields.Lookup(name); ok {
			out = append(out, string(f.Key))
		}
	}
	return out
}

func printConfigReport(out io.Writer, r configReport) {
	if r.ConfigFound {
		fmt.Fprintf(out, "Config file: %s\n", r.ConfigPath)
	} else {
		fmt.Fprintf(out, "Config file: %s (not found, using defaults)\n", r.ConfigPath)
	}
	fmt.Fprintf(out, "Catalog database: %s\n", r.Database)
	fmt.Fprintf(out, "Library directory: %s\n", r.Library)
	fmt.Fprintf(out, "Log directory: %s\n", r.Logs)
	fmt.Fprintf(out, "Default view: %s\n", r.DefaultView)
	fmt.Fprintf(out, "Hide IWADs outside the iwads view: %s\n", yesNo(r.ExcludeBase))
	fmt.Fprintf(out, "Search fields: %s\n", strings.Join(r.SearchFields, ", "))
	fmt.Fprintln(out, "Configuration valid")
}
