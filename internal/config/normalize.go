package config

import (
	"fmt"
	"os"
	"strings"
)

const envDataDir = "WADSHELF_DATA_DIR"

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeViews()
	c.normalizeDisplay()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv(envDataDir); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.LibraryDir, err = expandPath(strings.TrimSpace(c.Paths.LibraryDir)); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeViews() {
	c.Views.DefaultView = strings.ToLower(strings.TrimSpace(c.Views.DefaultView))
	if c.Views.DefaultView == "" {
		c.Views.DefaultView = defaultView
	}
	if c.Views.RecentLimit == 0 {
		c.Views.RecentLimit = defaultRecentLimit
	}
	cleaned := c.Views.SearchFields[:0]
	for _, name := range c.Views.SearchFields {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	c.Views.SearchFields = cleaned
}

func (c *Config) normalizeDisplay() {
	c.Display.DateFormat = strings.TrimSpace(c.Display.DateFormat)
	if c.Display.DateFormat == "" {
		c.Display.DateFormat = defaultDateFormat
	}
}
