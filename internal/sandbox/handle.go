package sandbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ErrUnknownTable is returned by Columns for a name missing from sqlite_master.
var ErrUnknownTable = errors.New("table not found")

// ErrClosed is returned when a closed handle is used.
var ErrClosed = errors.New("handle is closed")

// schemaQuery lists user tables with their defining statement. Only the
// literal sqlite_ prefix is reserved, so the comparison avoids LIKE wildcards.
const schemaQuery = `SELECT name, sql FROM sqlite_master WHERE type = 'table' AND substr(name, 1, 7) <> 'sqlite_'`

// SchemaRecord is one table of a database schema.
type SchemaRecord struct {
	Name string `json:"name"`
	SQL  string `json:"sql"`
}

// Column describes one column of a table or view.
type Column struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	NotNull    bool   `json:"not_null"`
	PrimaryKey bool   `json:"primary_key"`
	Default    string `json:"default,omitempty"`
}

// Result is the eagerly fetched output of one statement.
type Result struct {
	Columns []string
	Rows    [][]any
	// HasResultSet is false for statements without columns (UPDATE, DDL, ...).
	HasResultSet bool
	// RowsAffected is only set when HasResultSet is false.
	RowsAffected int64
	Truncated    bool
	Duration     time.Duration
}

// RowCount returns the number of fetched rows.
func (r *Result) RowCount() int {
	return len(r.Rows)
}

// StringRows returns the rows formatted for display.
func (r *Result) StringRows() [][]string {
	out := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = FormatValue(v)
		}
		out[i] = cells
	}
	return out
}

// Handle is an open session on one database file. All statements run on a
// single pinned connection so per-connection state such as changes() holds.
type Handle struct {
	name    string
	db      *sql.DB
	conn    *sql.Conn
	maxRows int

	closeOnce sync.Once
	closeErr  error
	closed    bool
	mu        sync.Mutex
}

func newHandle(ctx context.Context, name string, db *sql.DB, maxRows int) (*Handle, error) {
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &Handle{
		name:    name,
		db:      db,
		conn:    conn,
		maxRows: maxRows,
	}, nil
}

// Name returns the catalog name the handle was opened on.
func (h *Handle) Name() string {
	return h.name
}

// Close releases the connection and the database exactly once.
func (h *Handle) Close() error {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		h.closed = true
		h.mu.Unlock()
		h.closeErr = errors.Join(h.conn.Close(), h.db.Close())
	})
	return h.closeErr
}

// Closed reports whether Close has been called.
func (h *Handle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// Schema returns every user table and its CREATE statement.
func (h *Handle) Schema(ctx context.Context) ([]SchemaRecord, error) {
	if h.Closed() {
		return nil, ErrClosed
	}

	rows, err := h.conn.QueryContext(ctx, schemaQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []SchemaRecord{}
	for rows.Next() {
		var name string
		var def sql.NullString
		if err := rows.Scan(&name, &def); err != nil {
			return nil, fmt.Errorf("failed to scan schema: %w", err)
		}
		records = append(records, SchemaRecord{Name: name, SQL: def.String})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schema: %w", err)
	}
	return records, nil
}

// Columns returns column metadata for a table or view.
func (h *Handle) Columns(ctx context.Context, table string) ([]Column, error) {
	if h.Closed() {
		return nil, ErrClosed
	}

	var count int
	err := h.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type IN ('table', 'view') AND name = ?`, table,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("failed to look up table: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	// PRAGMA takes no bind parameters; the name was checked above and is quoted.
	rows, err := h.conn.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []Column
	for rows.Next() {
		var cid, notNull, pk int
		var name, colType string
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		columns = append(columns, Column{
			Name:       name,
			Type:       colType,
			NotNull:    notNull == 1,
			PrimaryKey: pk > 0,
			Default:    dflt.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}
	return columns, nil
}

// Execute runs query exactly as given and fetches every row.
// Engine errors are returned unwrapped so their message reaches the user as is.
//
// Input holding several statements runs all of them; the result set is the
// last statement's and RowsAffected sums every statement's changes.
func (h *Handle) Execute(ctx context.Context, query string) (*Result, error) {
	if h.Closed() {
		return nil, ErrClosed
	}

	changesBefore, err := h.totalChanges(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := h.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	res := &Result{
		Columns:      cols,
		Rows:         [][]any{},
		HasResultSet: len(cols) > 0,
	}

	// Next is called even without columns: some drivers only step the
	// statement there.
	for rows.Next() {
		if !res.HasResultSet {
			continue
		}
		if h.maxRows > 0 && len(res.Rows) >= h.maxRows {
			res.Truncated = true
			break
		}

		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		res.Rows = append(res.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !res.HasResultSet {
		_ = rows.Close()
		if after, err := h.totalChanges(ctx); err == nil {
			res.RowsAffected = after - changesBefore
		}
	}

	res.Duration = time.Since(start)
	return res, nil
}

// totalChanges returns the rows changed on the pinned connection since it
// was opened. changes() only covers the last statement of a batch.
func (h *Handle) totalChanges(ctx context.Context) (int64, error) {
	var n int64
	if err := h.conn.QueryRowContext(ctx, "SELECT total_changes()").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to read change count: %w", err)
	}
	return n, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// FormatValue renders a driver value for display.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}
