package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// databaseEntry is one catalog entry as printed by list.
type databaseEntry struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	Questions int    `json:"questions"`
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the databases of the catalog",
		Long: `List the database files found in the databases directory.

Only regular files carrying one of the configured extensions are listed.
A missing databases directory is an error.`,
		Example: `  # List databases
  sqlplayground list

  # List databases from another directory as JSON
  sqlplayground list --databases-dir ./fixtures -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return listDatabases(cmd.OutOrStdout(), cmdCtx, cmdCtx.Cfg.OutputFormat)
		},
	}
}

func listDatabases(w io.Writer, cmdCtx *CommandContext, format string) error {
	names, err := cmdCtx.Catalog.List()
	if err != nil {
		return err
	}

	entries := make([]databaseEntry, 0, len(names))
	rows := make([][]any, 0, len(names))
	for _, name := range names {
		entry := databaseEntry{
			Name:      name,
			Questions: len(cmdCtx.Questions.Lookup(name)),
		}
		// Names come straight from List.
		if info, err := os.Stat(filepath.Join(cmdCtx.Catalog.Dir(), name)); err == nil {
			entry.Size = info.Size()
		}
		entries = append(entries, entry)
		rows = append(rows, []any{entry.Name, humanize.IBytes(uint64(entry.Size)), entry.Questions}) //nolint:gosec // sizes are non-negative
	}

	if len(entries) == 0 && format != "json" {
		_, _ = fmt.Fprintf(w, "No databases found in %s\n", cmdCtx.Catalog.Dir())
		return nil
	}
	return renderRecords(w, []string{"Database", "Size", "Questions"}, rows, entries, format)
}
