package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/leapstack-labs/sqlplayground/internal/sandbox"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.DatabasesDir == "" {
		return fmt.Errorf("databases_dir is required")
	}
	if _, err := sandbox.LookupDriver(c.Driver); err != nil {
		return err
	}
	if c.QueryTimeout < 0 {
		return fmt.Errorf("query_timeout must not be negative, got %s", c.QueryTimeout)
	}
	if c.MaxRows < 0 {
		return fmt.Errorf("max_rows must not be negative, got %d", c.MaxRows)
	}
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("unknown output format %q (expected one of %v)", c.OutputFormat, OutputFormats)
	}
	if ui := c.GetUIConfig(); ui.Port < 1 || ui.Port > 65535 {
		return fmt.Errorf("ui.port out of range: %d", ui.Port)
	}

	// Only validate directory existence in commands that need it
	// This allows help commands to work without a valid directory
	return c.Pages.Validate()
}

// ValidateDirectories checks if the databases directory exists.
func (c *Config) ValidateDirectories() error {
	info, err := os.Stat(c.DatabasesDir)
	if os.IsNotExist(err) {
		return fmt.Errorf("databases directory does not exist: %s\nHint: Create the directory or use --databases-dir to specify a different path", c.DatabasesDir)
	}
	if err != nil {
		return fmt.Errorf("failed to stat databases directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("databases_dir is not a directory: %s", c.DatabasesDir)
	}
	return nil
}
