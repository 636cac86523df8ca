package sandbox

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User-facing messages.
const (
	MsgEmptyQuery  = "Please enter a SQL query."
	MsgNoResults   = "No results found."
	msgFailedQuery = "Error executing query: "
)

// Kind classifies the outcome of a run. Kinds are mutually exclusive.
type Kind int

// Outcome kinds.
const (
	KindEmptyQuery Kind = iota
	KindNoResults
	KindRows
	KindAffected
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindEmptyQuery:
		return "empty"
	case KindNoResults:
		return "no_results"
	case KindRows:
		return "rows"
	case KindAffected:
		return "affected"
	case KindFailed:
		return "failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is what one query run produced, ready for rendering.
type Outcome struct {
	ID       string
	Kind     Kind
	Database string
	Query    string
	Result   *Result
	// Err is the engine error for KindFailed.
	Err     error
	Message string
}

// Connector opens scoped handles. *Opener implements it.
type Connector interface {
	With(ctx context.Context, name string, fn func(context.Context, *Handle) error) error
}

// Sandbox runs schema reads and user queries, one handle per call.
type Sandbox struct {
	conn    Connector
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a Sandbox. A zero timeout leaves queries unbounded.
func New(conn Connector, timeout time.Duration, logger *slog.Logger) *Sandbox {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Sandbox{
		conn:    conn,
		timeout: timeout,
		logger:  logger,
	}
}

// Schema reads the table list of database.
func (s *Sandbox) Schema(ctx context.Context, database string) ([]SchemaRecord, error) {
	var records []SchemaRecord
	err := s.conn.With(ctx, database, func(ctx context.Context, h *Handle) error {
		var err error
		records, err = h.Schema(ctx)
		return err
	})
	return records, err
}

// Columns reads the columns of one table of database.
func (s *Sandbox) Columns(ctx context.Context, database, table string) ([]Column, error) {
	var columns []Column
	err := s.conn.With(ctx, database, func(ctx context.Context, h *Handle) error {
		var err error
		columns, err = h.Columns(ctx, table)
		return err
	})
	return columns, err
}

// Run executes query against database and classifies the result.
// It never returns an error: failures become a KindFailed outcome.
func (s *Sandbox) Run(ctx context.Context, database, query string) Outcome {
	out := Outcome{
		ID:       uuid.NewString(),
		Database: database,
		Query:    query,
	}

	if strings.TrimSpace(query) == "" {
		out.Kind = KindEmptyQuery
		out.Message = MsgEmptyQuery
		return out
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var res *Result
	err := s.conn.With(ctx, database, func(ctx context.Context, h *Handle) error {
		var err error
		res, err = h.Execute(ctx, query)
		return err
	})
	if err != nil {
		out.Kind = KindFailed
		out.Err = err
		out.Message = msgFailedQuery + err.Error()
		s.logger.Debug("query failed", "id", out.ID, "database", database, "error", err)
		return out
	}

	out.Result = res
	switch {
	case !res.HasResultSet:
		out.Kind = KindAffected
		out.Message = fmt.Sprintf("Statement executed successfully. %d row(s) affected.", res.RowsAffected)
	case res.RowCount() == 0:
		out.Kind = KindNoResults
		out.Message = MsgNoResults
	default:
		out.Kind = KindRows
	}

	s.logger.Debug("query executed",
		"id", out.ID,
		"database", database,
		"outcome", out.Kind.String(),
		"rows", res.RowCount(),
		"duration", res.Duration,
	)
	return out
}
