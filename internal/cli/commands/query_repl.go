package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

const replPrompt = "%s> "

// repl is the state of an interactive query session.
type repl struct {
	cmdCtx   *CommandContext
	database string
	format   string
	out      io.Writer
	errOut   io.Writer
}

func runQueryREPL(cmd *cobra.Command, cmdCtx *CommandContext, database, format string) error {
	ctx := cmd.Context()
	r := &repl{
		cmdCtx:   cmdCtx,
		database: database,
		format:   format,
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
	}

	// Configure readline
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          fmt.Sprintf(replPrompt, database),
		HistoryFile:     historyFile(),
		AutoComplete:    r.completer(ctx),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	// Print welcome message
	_, _ = fmt.Fprintf(r.out, "SQL Playground shell (database: %s)\n", database)
	_, _ = fmt.Fprintln(r.out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(r.out)

	// REPL loop
	var multiLineBuffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			multiLineBuffer.Reset()
			rl.SetPrompt(fmt.Sprintf(replPrompt, r.database))
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Handle dot-commands
		if multiLineBuffer.Len() == 0 && strings.HasPrefix(line, ".") {
			previous := r.database
			if quit := r.handleDotCommand(ctx, line); quit {
				break
			}
			if r.database != previous {
				rl.SetPrompt(fmt.Sprintf(replPrompt, r.database))
				rl.Config.AutoComplete = r.completer(ctx)
			}
			continue
		}

		// Accumulate multi-line SQL until semicolon
		multiLineBuffer.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			multiLineBuffer.WriteString("\n")
			rl.SetPrompt("    ...> ")
			continue
		}
		rl.SetPrompt(fmt.Sprintf(replPrompt, r.database))

		query := multiLineBuffer.String()
		multiLineBuffer.Reset()
		r.execute(ctx, query)
	}

	return nil
}

// execute runs one statement. Failures are printed and the session goes on.
func (r *repl) execute(ctx context.Context, query string) {
	if err := executeAndRender(ctx, r.out, r.cmdCtx.Sandbox, r.database, query, r.format); err != nil {
		_, _ = fmt.Fprintf(r.errOut, "Error: %v\n", err)
	}
	_, _ = fmt.Fprintln(r.out)
}

// handleDotCommand runs a dot-command and reports whether the session should end.
func (r *repl) handleDotCommand(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(r.out)

	case ".databases":
		if err := listDatabases(r.out, r.cmdCtx, r.format); err != nil {
			_, _ = fmt.Fprintf(r.errOut, "Error: %v\n", err)
		}

	case ".use":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(r.errOut, "Usage: .use <database>")
			return false
		}
		if _, err := r.cmdCtx.Catalog.Resolve(parts[1]); err != nil {
			_, _ = fmt.Fprintf(r.errOut, "Error: %v\n", err)
			return false
		}
		r.database = parts[1]
		_, _ = fmt.Fprintf(r.out, "Using %s\n", r.database)

	case ".tables":
		if err := showTables(ctx, r.out, r.cmdCtx, r.database, r.format); err != nil {
			_, _ = fmt.Fprintf(r.errOut, "Error: %v\n", err)
		}

	case ".schema":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(r.errOut, "Usage: .schema <table>")
			return false
		}
		if err := showColumns(ctx, r.out, r.cmdCtx, r.database, parts[1], r.format); err != nil {
			_, _ = fmt.Fprintf(r.errOut, "Error: %v\n", err)
		}

	case ".questions":
		if err := showQuestions(r.out, r.cmdCtx, r.database, r.format); err != nil {
			_, _ = fmt.Fprintf(r.errOut, "Error: %v\n", err)
		}

	case ".clear":
		_, _ = fmt.Fprint(r.out, "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(r.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help              Show this help message
  .databases         List the databases of the catalog
  .use <database>    Switch to another database
  .tables            List the tables of the current database
  .schema <table>    Show the columns of a table
  .questions         Show the example questions for the current database
  .clear             Clear the screen
  .quit / .exit      Exit the shell

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for table names
`
	_, _ = fmt.Fprintln(w, help)
}

// completer creates a readline completer for table names of the current database.
func (r *repl) completer(ctx context.Context) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface

	if records, err := r.cmdCtx.Sandbox.Schema(ctx, r.database); err == nil {
		for _, rec := range records {
			items = append(items, readline.PcItem(rec.Name))
		}
	}
	if names, err := r.cmdCtx.Catalog.List(); err == nil {
		dbItems := make([]readline.PrefixCompleterInterface, 0, len(names))
		for _, name := range names {
			dbItems = append(dbItems, readline.PcItem(name))
		}
		items = append(items, readline.PcItem(".use", dbItems...))
	}

	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".databases"),
		readline.PcItem(".tables"),
		readline.PcItem(".schema"),
		readline.PcItem(".questions"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)

	return readline.NewPrefixCompleter(items...)
}

// historyFile returns the per-user history path, or "" to disable history.
func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "sqlplayground")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return ""
	}
	return filepath.Join(dir, "query_history")
}
