// Package config provides configuration management for the sqlplayground CLI.
//
// Shared value types (links, pages) and default values live in
// internal/config; this package adds layered loading from defaults, the
// config file, environment variables and command-line flags.
package config

import (
	"time"

	sharedcfg "github.com/leapstack-labs/sqlplayground/internal/config"
)

// Link is an alias for the shared link type.
type Link = sharedcfg.Link

// PagesConfig is an alias for the shared static page configuration.
type PagesConfig = sharedcfg.PagesConfig

// UIConfig holds configuration for the UI server.
type UIConfig struct {
	Port          int    `koanf:"port"`
	AutoOpen      bool   `koanf:"auto_open"`
	Watch         bool   `koanf:"watch"`
	SessionSecret string `koanf:"session_secret"`
	Title         string `koanf:"title"`
}

// DefaultUIConfig returns a UIConfig with default values.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Port:  sharedcfg.DefaultPort,
		Watch: true,
		Title: sharedcfg.DefaultTitle,
	}
}

// GetUIConfig returns the UI config with defaults applied for any unset values.
func (c *Config) GetUIConfig() *UIConfig {
	if c.UI == nil {
		return DefaultUIConfig()
	}
	ui := *c.UI
	if ui.Port == 0 {
		ui.Port = sharedcfg.DefaultPort
	}
	if ui.Title == "" {
		ui.Title = sharedcfg.DefaultTitle
	}
	return &ui
}

// Config holds all CLI configuration options.
type Config struct {
	DatabasesDir  string        `koanf:"databases_dir"`
	Extensions    []string      `koanf:"extensions"`
	Driver        string        `koanf:"driver"`
	ReadOnly      bool          `koanf:"read_only"`
	QueryTimeout  time.Duration `koanf:"query_timeout"`
	MaxRows       int           `koanf:"max_rows"`
	QuestionsFile string        `koanf:"questions_file"`
	Verbose       bool          `koanf:"verbose"`
	OutputFormat  string        `koanf:"output"`
	UI            *UIConfig     `koanf:"ui"`
	Pages         *PagesConfig  `koanf:"pages"`
}

// Default configuration values.
const (
	DefaultConfigFile    = "sqlplayground.yaml"
	DefaultConfigFileAlt = "sqlplayground.yml"
	DefaultOutput        = "table"
	EnvPrefix            = "SQLPLAYGROUND_"
)

// OutputFormats lists the accepted values of the output setting.
var OutputFormats = []string{"table", "json", "csv", "md"}
