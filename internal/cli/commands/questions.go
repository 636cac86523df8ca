package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// questionSet is the JSON form of the questions of one database.
type questionSet struct {
	Database  string   `json:"database"`
	Questions []string `json:"questions"`
}

// NewQuestionsCommand creates the questions command.
func NewQuestionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "questions [database]",
		Short: "Show example questions",
		Long: `Show the example questions suggested for a database.

Without an argument, every database that has questions is listed with
its question count. Names must match the catalog entry exactly.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeDatabases,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return showQuestions(cmd.OutOrStdout(), cmdCtx, args[0], cmdCtx.Cfg.OutputFormat)
			}
			return listQuestionSets(cmd.OutOrStdout(), cmdCtx, cmdCtx.Cfg.OutputFormat)
		},
	}
}

func showQuestions(w io.Writer, cmdCtx *CommandContext, database, format string) error {
	list := cmdCtx.Questions.Lookup(database)
	if format == "json" {
		if list == nil {
			list = []string{}
		}
		return renderJSON(w, questionSet{Database: database, Questions: list})
	}
	if len(list) == 0 {
		_, _ = fmt.Fprintf(w, "No example questions for %s\n", database)
		return nil
	}

	rows := make([][]any, len(list))
	for i, q := range list {
		rows[i] = []any{i + 1, q}
	}
	return renderRecords(w, []string{"#", "Question"}, rows, nil, format)
}

func listQuestionSets(w io.Writer, cmdCtx *CommandContext, format string) error {
	names := cmdCtx.Questions.Names()
	sets := make([]questionSet, len(names))
	rows := make([][]any, len(names))
	for i, name := range names {
		list := cmdCtx.Questions.Lookup(name)
		if list == nil {
			list = []string{}
		}
		sets[i] = questionSet{Database: name, Questions: list}
		rows[i] = []any{name, len(list)}
	}
	return renderRecords(w, []string{"Database", "Questions"}, rows, sets, format)
}
