package config

import (
	"errors"
	"fmt"

	"wadshelf/internal/fields"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateViews(); err != nil {
		return err
	}
	if err := c.validateDisplay(); err != nil {
		return err
	}
	if c.Store.TimeoutSeconds < 0 {
		return errors.New("store.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateViews() error {
	if c.Views.RecentLimit < 0 {
		return errors.New("views.recent_limit must not be negative")
	}
	for _, name := range c.Views.SearchFields {
		f, ok := fields.Lookup(name)
		if !ok {
			return fmt.Errorf("views.search_fields: unknown field %q", name)
		}
		if f.Kind != fields.KindText {
			return fmt.Errorf("views.search_fields: %s is not a text field", f.Key)
		}
	}
	return nil
}

func (c *Config) validateDisplay() error {
	if c.Display.MaxWidth < 0 {
		return errors.New("display.max_width must not be negative")
	}
	return nil
}
