package home

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/leapstack-labs/sqlplayground/internal/sandbox"
	"github.com/leapstack-labs/sqlplayground/internal/ui/notifier"
)

// pickerView builds the database picker. An unreadable or empty directory
// shows a warning in place of the select.
func pickerView(dir string, snap notifier.Snapshot, selected string) map[string]any {
	if snap.Err != nil || len(snap.Databases) == 0 {
		return map[string]any{"missing": fmt.Sprintf("No databases found in %s", dir)}
	}
	dbs := make([]map[string]any, len(snap.Databases))
	for i, name := range snap.Databases {
		dbs[i] = map[string]any{"name": name, "selected": name == selected}
	}
	return map[string]any{"databases": dbs}
}

func questionsView(items []string) map[string]any {
	return map[string]any{"items": items}
}

func schemaView(records []sandbox.SchemaRecord, err error) map[string]any {
	if err != nil {
		return map[string]any{"error": errorMessage(err)}
	}
	tables := make([]map[string]any, len(records))
	for i, rec := range records {
		tables[i] = map[string]any{
			"name": rec.Name,
			"sql":  rec.SQL,
			"href": tableHref(rec.Name),
		}
	}
	return map[string]any{"shown": true, "tables": tables}
}

// tableHref is the column detail URL of a table. The URL is embedded in a
// single-quoted datastar expression, so quotes are escaped too.
func tableHref(name string) string {
	return "/api/schema/" + strings.ReplaceAll(url.PathEscape(name), "'", "%27")
}

func schemaDetailView(table string, columns []sandbox.Column, err error) map[string]any {
	if err != nil {
		return map[string]any{"error": errorMessage(err)}
	}
	cols := make([]map[string]any, len(columns))
	for i, c := range columns {
		cols[i] = map[string]any{
			"name":       c.Name,
			"type":       c.Type,
			"notNull":    c.NotNull,
			"default":    c.Default,
			"primaryKey": c.PrimaryKey,
		}
	}
	return map[string]any{"table": table, "columns": cols}
}

// resultsView maps an outcome to exactly one of: warning, success, error or table.
func resultsView(out sandbox.Outcome) map[string]any {
	switch out.Kind {
	case sandbox.KindEmptyQuery, sandbox.KindNoResults:
		return map[string]any{"warning": out.Message}
	case sandbox.KindAffected:
		return map[string]any{"success": out.Message}
	case sandbox.KindFailed:
		return map[string]any{"error": out.Message}
	}

	res := out.Result
	return map[string]any{
		"table":     true,
		"id":        out.ID,
		"columns":   res.Columns,
		"rows":      res.StringRows(),
		"rowCount":  res.RowCount(),
		"duration":  res.Duration.Round(durationRounding).String(),
		"truncated": res.Truncated,
	}
}

func errorResultsView(err error) map[string]any {
	return map[string]any{"error": errorMessage(err)}
}

// emptyView renders a fragment with nothing but its container.
func emptyView() map[string]any {
	return map[string]any{}
}

func errorMessage(err error) string {
	return "Error: " + err.Error()
}

// signalsJSON encodes the initial page signals.
func signalsJSON(s Signals) string {
	data, err := json.Marshal(s)
	if err != nil {
		return "{}"
	}
	return string(data)
}
