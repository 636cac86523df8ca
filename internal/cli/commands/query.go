package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/leapstack-labs/sqlplayground/internal/sandbox"
)

// stdinIsTerminal reports whether stdin is interactive. Replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) //nolint:gosec // fd fits in int
}

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query <database> [SQL]",
		Short: "Run SQL against a database",
		Long: `Run SQL against one database of the catalog.

The statement runs exactly as given: SELECT results are printed as a table,
other statements report the number of affected rows. Engine errors are
reported with the message SQLite produced.

SQL is taken from the arguments, from --input, or from piped stdin.
When none is given and stdin is a terminal, an interactive shell starts.`,
		Example: `  # Execute SQL directly
  sqlplayground query College.db "SELECT * FROM student"

  # Read SQL from a file
  sqlplayground query Company.db --input report.sql

  # Pipe SQL and print JSON
  echo "SELECT COUNT(*) FROM movies" | sqlplayground query Movies.db -f json

  # Interactive mode
  sqlplayground query library.db`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeDatabases,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json, csv, md (default: --output)")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	cmd.Flags().Duration("timeout", 0, "Abort statements running longer than this (0 disables)")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	format := cmdCtx.Format(cmd)
	database := args[0]

	if _, err := cmdCtx.Catalog.Resolve(database); err != nil {
		return err
	}

	// Determine SQL source
	var sqlQuery string

	switch {
	case len(args) > 1:
		sqlQuery = strings.Join(args[1:], " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !stdinIsTerminal():
		// Read from stdin (piped input)
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		// No input, TTY detected - enter REPL mode
		return runQueryREPL(cmd, cmdCtx, database, format)
	}

	return executeAndRender(cmd.Context(), cmd.OutOrStdout(), cmdCtx.Sandbox, database, sqlQuery, format)
}

// executeAndRender runs one statement and renders its outcome. A failed
// statement is rendered and then returned as an error.
func executeAndRender(ctx context.Context, w io.Writer, sb *sandbox.Sandbox, database, sqlQuery, format string) error {
	out := sb.Run(ctx, database, sqlQuery)
	if err := renderOutcome(w, out, format); err != nil {
		return err
	}
	if out.Kind == sandbox.KindFailed {
		return fmt.Errorf("error executing query: %w", out.Err)
	}
	return nil
}

// completeDatabases completes the first argument with catalog entries.
func completeDatabases(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	names, err := cmdCtx.Catalog.List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
