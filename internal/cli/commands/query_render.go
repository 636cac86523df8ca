package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/sqlplayground/internal/sandbox"
)

// timeRounding is the precision of printed query durations.
const timeRounding = 100 * time.Microsecond

// outcomeJSON is the machine-readable form of a query outcome.
type outcomeJSON struct {
	Database     string   `json:"database"`
	Outcome      string   `json:"outcome"`
	Message      string   `json:"message,omitempty"`
	Error        string   `json:"error,omitempty"`
	Columns      []string `json:"columns,omitempty"`
	Rows         [][]any  `json:"rows,omitempty"`
	RowCount     int      `json:"row_count"`
	RowsAffected int64    `json:"rows_affected,omitempty"`
	Truncated    bool     `json:"truncated,omitempty"`
}

func newOutcomeJSON(out sandbox.Outcome) outcomeJSON {
	o := outcomeJSON{
		Database: out.Database,
		Outcome:  out.Kind.String(),
		Message:  out.Message,
	}
	if out.Err != nil {
		o.Error = out.Err.Error()
		o.Message = ""
	}
	if res := out.Result; res != nil {
		o.Columns = res.Columns
		o.RowCount = res.RowCount()
		o.RowsAffected = res.RowsAffected
		o.Truncated = res.Truncated
		o.Rows = make([][]any, len(res.Rows))
		for i, row := range res.Rows {
			o.Rows[i] = jsonRow(row)
		}
	}
	return o
}

// jsonRow converts []byte cells to strings for readability.
func jsonRow(row []any) []any {
	out := make([]any, len(row))
	for i, v := range row {
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		out[i] = v
	}
	return out
}

// renderOutcome writes a query outcome in the requested format.
func renderOutcome(w io.Writer, out sandbox.Outcome, format string) error {
	if format == "json" {
		return renderJSON(w, newOutcomeJSON(out))
	}

	switch out.Kind {
	case sandbox.KindRows:
		res := out.Result
		cells := res.StringRows()
		rows := make([][]any, len(cells))
		for i, row := range cells {
			rows[i] = stringsToRow(row)
		}
		renderTable(w, res.Columns, rows, format)
		if format == "table" {
			_, _ = fmt.Fprintf(w, "(%d rows, %s)\n", res.RowCount(), res.Duration.Round(timeRounding))
			if res.Truncated {
				_, _ = fmt.Fprintln(w, "(result truncated by max_rows)")
			}
		}
	case sandbox.KindFailed:
		// Reported by the caller through the returned error.
	default:
		_, _ = fmt.Fprintln(w, out.Message)
	}
	return nil
}

// renderRecords writes a list of records: value is encoded as is for JSON,
// cols and rows drive the other formats.
func renderRecords(w io.Writer, cols []string, rows [][]any, value any, format string) error {
	if format == "json" {
		return renderJSON(w, value)
	}
	if len(rows) == 0 && format == "table" {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}
	renderTable(w, cols, rows, format)
	return nil
}

func renderTable(w io.Writer, cols []string, rows [][]any, format string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	t.AppendHeader(header)
	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}

	switch format {
	case "csv":
		t.RenderCSV()
	case "md", "markdown":
		t.RenderMarkdown()
	default:
		t.Render()
	}
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func stringsToRow(cells []string) []any {
	row := make([]any, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
