package commands

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlplayground/internal/catalog"
	sharedcfg "github.com/leapstack-labs/sqlplayground/internal/config"
	"github.com/leapstack-labs/sqlplayground/internal/ui"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the browser SQL sandbox",
		Long: `Start a local web server providing the SQL playground.

The UI provides:
- A picker over the database files of the databases directory
- Example questions per database
- The schema of the selected database, with per-table columns
- A SQL editor whose results render as a table

The page refreshes its database list when files are added or removed,
unless --watch=false is given.`,
		Example: `  # Start on the default port
  sqlplayground serve

  # Serve another directory on a custom port and open a browser
  sqlplayground serve --databases-dir ./labs --port 3000 --open`,
		RunE: runServe,
	}

	// Bound to ui.* config keys; flags only override when set.
	cmd.Flags().Int("port", 0, "Port to serve on (default: 8501)")
	cmd.Flags().Bool("open", false, "Open the UI in a browser")
	cmd.Flags().Bool("watch", true, "Refresh the database list when files change")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg := cmdCtx.Cfg
	logger := cmdCtx.Logger
	uiCfg := cfg.GetUIConfig()

	// A missing directory is not fatal: the page says so.
	if names, err := cmdCtx.Catalog.List(); err != nil {
		var dirErr *catalog.DirError
		if !errors.As(err, &dirErr) {
			return err
		}
		logger.Warn("databases directory is not readable", "dir", cfg.DatabasesDir, "error", err)
	} else {
		logger.Info("databases found", "dir", cfg.DatabasesDir, "count", len(names))
	}

	secret := uiCfg.SessionSecret
	if secret == "" {
		logger.Warn("no ui.session_secret configured, sessions will not survive a restart")
	}

	var pages sharedcfg.PagesConfig
	if cfg.Pages != nil {
		pages = *cfg.Pages
	}
	sharedcfg.ApplyPageDefaults(&pages)

	server := ui.NewServer(ui.Config{
		Sandbox:       cmdCtx.Sandbox,
		Catalog:       cmdCtx.Catalog,
		Questions:     cmdCtx.Questions,
		Pages:         pages,
		Title:         uiCfg.Title,
		Port:          uiCfg.Port,
		Watch:         uiCfg.Watch,
		SessionSecret: secret,
		Logger:        logger,
	})

	url := fmt.Sprintf("http://localhost:%d", uiCfg.Port)
	if uiCfg.AutoOpen {
		go openBrowser(url)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Starting SQL Playground on %s\n", url)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return server.Serve(ctx)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
