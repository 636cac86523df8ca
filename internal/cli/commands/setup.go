package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlplayground/internal/catalog"
	"github.com/leapstack-labs/sqlplayground/internal/cli/config"
	"github.com/leapstack-labs/sqlplayground/internal/questions"
	"github.com/leapstack-labs/sqlplayground/internal/sandbox"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg       *config.Config
	Logger    *slog.Logger
	Catalog   *catalog.Catalog
	Opener    *sandbox.Opener
	Sandbox   *sandbox.Sandbox
	Questions *questions.Registry
}

// NewCommandContext builds the catalog, opener, sandbox and question registry
// from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	cat := catalog.New(cfg.DatabasesDir, cfg.Extensions)
	opener, err := sandbox.NewOpener(cat, sandbox.Options{
		Driver:   cfg.Driver,
		ReadOnly: cfg.ReadOnly,
		MaxRows:  cfg.MaxRows,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	registry, err := questions.Load(cfg.QuestionsFile)
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Cfg:       cfg,
		Logger:    logger,
		Catalog:   cat,
		Opener:    opener,
		Sandbox:   sandbox.New(opener, cfg.QueryTimeout, logger),
		Questions: registry,
	}, nil
}

// Format returns the output format, preferring a command-local override.
func (c *CommandContext) Format(cmd *cobra.Command) string {
	if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
		return f.Value.String()
	}
	return c.Cfg.OutputFormat
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise loads defaults
// and environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	cfg, err := config.LoadConfig("", nil)
	if err != nil {
		return &config.Config{
			DatabasesDir: "databases",
			Extensions:   []string{catalog.DefaultExtension},
			Driver:       sandbox.DefaultDriver,
			OutputFormat: config.DefaultOutput,
		}
	}
	return cfg
}
