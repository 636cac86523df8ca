package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <database> [table]",
		Short: "Show the tables of a database, or the columns of one table",
		Example: `  # Tables with their CREATE statements
  sqlplayground schema College.db

  # Columns of one table
  sqlplayground schema College.db student -o json`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeDatabases,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			format := cmdCtx.Cfg.OutputFormat
			if len(args) == 2 {
				return showColumns(cmd.Context(), cmd.OutOrStdout(), cmdCtx, args[0], args[1], format)
			}
			return showTables(cmd.Context(), cmd.OutOrStdout(), cmdCtx, args[0], format)
		},
	}
}

func showTables(ctx context.Context, w io.Writer, cmdCtx *CommandContext, database, format string) error {
	records, err := cmdCtx.Sandbox.Schema(ctx, database)
	if err != nil {
		return err
	}

	rows := make([][]any, len(records))
	for i, rec := range records {
		rows[i] = []any{rec.Name, rec.SQL}
	}
	return renderRecords(w, []string{"Name", "SQL"}, rows, records, format)
}

func showColumns(ctx context.Context, w io.Writer, cmdCtx *CommandContext, database, table, format string) error {
	columns, err := cmdCtx.Sandbox.Columns(ctx, database, table)
	if err != nil {
		return err
	}

	rows := make([][]any, len(columns))
	for i, col := range columns {
		nullable := "YES"
		if col.NotNull {
			nullable = "NO"
		}
		key := ""
		if col.PrimaryKey {
			key = "PK"
		}
		rows[i] = []any{col.Name, col.Type, nullable, col.Default, key}
	}
	return renderRecords(w, []string{"Column", "Type", "Nullable", "Default", "Key"}, rows, columns, format)
}
