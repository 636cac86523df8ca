package sandbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withHandle runs fn on a College.db handle from a fresh opener.
func withHandle(t *testing.T, opts Options, fn func(ctx context.Context, h *Handle)) {
	t.Helper()
	o := setupOpener(t, opts)
	require.NoError(t, o.With(context.Background(), "College.db", func(ctx context.Context, h *Handle) error {
		fn(ctx, h)
		return nil
	}))
}

func TestHandle_Schema(t *testing.T) {
	withHandle(t, Options{}, func(ctx context.Context, h *Handle) {
		records, err := h.Schema(ctx)
		require.NoError(t, err)
		require.Len(t, records, 2)

		names := []string{records[0].Name, records[1].Name}
		assert.ElementsMatch(t, []string{"student", "course"}, names)
		for _, r := range records {
			assert.Contains(t, r.SQL, "CREATE TABLE "+r.Name)
		}
	})
}

func TestHandle_Schema_EmptyDatabase(t *testing.T) {
	o := setupOpener(t, Options{})
	err := o.With(context.Background(), "Empty.db", func(ctx context.Context, h *Handle) error {
		records, err := h.Schema(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)
		assert.NotNil(t, records)
		return nil
	})
	require.NoError(t, err)
}

func TestHandle_Columns(t *testing.T) {
	withHandle(t, Options{}, func(ctx context.Context, h *Handle) {
		cols, err := h.Columns(ctx, "student")
		require.NoError(t, err)
		require.Len(t, cols, 4)

		assert.Equal(t, Column{Name: "usn", Type: "TEXT", PrimaryKey: true}, cols[0])
		assert.Equal(t, Column{Name: "name", Type: "TEXT", NotNull: true}, cols[1])
		assert.Equal(t, "'A'", cols[3].Default)

		_, err = h.Columns(ctx, `student"; DROP TABLE student; --`)
		assert.ErrorIs(t, err, ErrUnknownTable)
	})
}

func TestHandle_Execute_Select(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantCols []string
		wantRows int
	}{
		{"all rows", "SELECT * FROM student", []string{"usn", "name", "sem", "section"}, 3},
		{"projection", "SELECT name, sem FROM student WHERE sem = 4", []string{"name", "sem"}, 2},
		{"aggregate", "SELECT sem, COUNT(*) AS n FROM student GROUP BY sem", []string{"sem", "n"}, 2},
		{"zero rows", "SELECT * FROM course WHERE code = 'none'", []string{"code", "title"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withHandle(t, Options{}, func(ctx context.Context, h *Handle) {
				res, err := h.Execute(ctx, tt.query)
				require.NoError(t, err)
				assert.True(t, res.HasResultSet)
				assert.Equal(t, tt.wantCols, res.Columns)
				assert.Equal(t, tt.wantRows, res.RowCount())
				for _, row := range res.Rows {
					assert.Len(t, row, len(tt.wantCols))
				}
			})
		})
	}
}

func TestHandle_Execute_Idempotent(t *testing.T) {
	withHandle(t, Options{}, func(ctx context.Context, h *Handle) {
		const q = "SELECT usn, name FROM student ORDER BY usn"
		first, err := h.Execute(ctx, q)
		require.NoError(t, err)
		second, err := h.Execute(ctx, q)
		require.NoError(t, err)

		assert.Equal(t, first.Columns, second.Columns)
		assert.Equal(t, first.StringRows(), second.StringRows())
	})
}

func TestHandle_Execute_Statements(t *testing.T) {
	withHandle(t, Options{}, func(ctx context.Context, h *Handle) {
		res, err := h.Execute(ctx, "UPDATE student SET section = 'B' WHERE sem = 4")
		require.NoError(t, err)
		assert.False(t, res.HasResultSet)
		assert.Empty(t, res.Columns)
		assert.Equal(t, int64(2), res.RowsAffected)

		res, err = h.Execute(ctx, "CREATE TABLE marks (usn TEXT, score INTEGER)")
		require.NoError(t, err)
		assert.False(t, res.HasResultSet)

		check, err := h.Execute(ctx, "SELECT COUNT(*) FROM student WHERE section = 'B'")
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"2"}}, check.StringRows())
	})
}

func TestHandle_Execute_SyntaxError(t *testing.T) {
	withHandle(t, Options{}, func(ctx context.Context, h *Handle) {
		res, err := h.Execute(ctx, "SELEC * FROM student")
		require.Error(t, err)
		assert.Nil(t, res)
		assert.Contains(t, err.Error(), "syntax error")
	})
}

func TestHandle_Execute_MaxRows(t *testing.T) {
	withHandle(t, Options{MaxRows: 2}, func(ctx context.Context, h *Handle) {
		res, err := h.Execute(ctx, "SELECT * FROM student ORDER BY usn")
		require.NoError(t, err)
		assert.Equal(t, 2, res.RowCount())
		assert.True(t, res.Truncated)

		res, err = h.Execute(ctx, "SELECT * FROM course")
		require.NoError(t, err)
		assert.Equal(t, 2, res.RowCount())
		assert.False(t, res.Truncated, "exactly MaxRows rows is not a truncation")
	})
}

func newMockHandle(t *testing.T, maxRows int) (*Handle, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	h, err := newHandle(context.Background(), "mock.db", db, maxRows)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h, mock
}

func TestHandle_Execute_DriverFailures(t *testing.T) {
	ioErr := errors.New("disk I/O error")

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name: "query error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM t").WillReturnError(ioErr)
			},
			wantErr: ioErr,
		},
		{
			name: "error while fetching",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"a"}).AddRow(1).AddRow(2).RowError(1, ioErr)
				mock.ExpectQuery("SELECT \\* FROM t").WillReturnRows(rows)
			},
			wantErr: ioErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock := newMockHandle(t, 0)
			expectTotalChanges(mock, 0)
			tt.setupMock(mock)

			res, err := h.Execute(context.Background(), "SELECT * FROM t")
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func expectTotalChanges(mock sqlmock.Sqlmock, n int64) {
	mock.ExpectQuery("SELECT total_changes\\(\\)").
		WillReturnRows(sqlmock.NewRows([]string{"total_changes()"}).AddRow(n))
}

func TestHandle_Execute_ChangesOnSameConnection(t *testing.T) {
	h, mock := newMockHandle(t, 0)
	expectTotalChanges(mock, 10)
	mock.ExpectQuery("DELETE FROM t").WillReturnRows(sqlmock.NewRows([]string{}))
	expectTotalChanges(mock, 17)

	res, err := h.Execute(context.Background(), "DELETE FROM t")
	require.NoError(t, err)
	assert.False(t, res.HasResultSet)
	assert.Equal(t, int64(7), res.RowsAffected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandle_Execute_ChangeCountUnavailable(t *testing.T) {
	h, mock := newMockHandle(t, 0)
	mock.ExpectQuery("SELECT total_changes\\(\\)").WillReturnError(errors.New("disk I/O error"))

	res, err := h.Execute(context.Background(), "DELETE FROM t")
	assert.Nil(t, res)
	assert.ErrorContains(t, err, "failed to read change count")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandle_Execute_MultipleStatements(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantAffected int64
		wantRows     [][]string
	}{
		{
			name:         "two writes add up",
			query:        "UPDATE student SET section = 'Z'; DELETE FROM course",
			wantAffected: 5,
		},
		{
			name:         "write then DDL",
			query:        "UPDATE student SET section = 'Z' WHERE sem = 4; CREATE TABLE zz (a)",
			wantAffected: 2,
		},
		{
			name:     "last result set wins",
			query:    "SELECT 1; SELECT 2",
			wantRows: [][]string{{"2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withHandle(t, Options{}, func(ctx context.Context, h *Handle) {
				res, err := h.Execute(ctx, tt.query)
				require.NoError(t, err)
				assert.Equal(t, tt.wantAffected, res.RowsAffected)
				if tt.wantRows != nil {
					assert.Equal(t, tt.wantRows, res.StringRows())
				}
			})
		})
	}
}

func TestHandle_Execute_DDLAfterWrite(t *testing.T) {
	withHandle(t, Options{}, func(ctx context.Context, h *Handle) {
		res, err := h.Execute(ctx, "UPDATE student SET sem = 5 WHERE sem = 4")
		require.NoError(t, err)
		assert.Equal(t, int64(2), res.RowsAffected)

		res, err = h.Execute(ctx, "CREATE TABLE notes (body TEXT)")
		require.NoError(t, err)
		assert.False(t, res.HasResultSet)
		assert.Zero(t, res.RowsAffected, "DDL does not inherit the previous count")
	})
}

func TestHandle_Schema_SqlitePrefixedUserTable(t *testing.T) {
	withHandle(t, Options{}, func(ctx context.Context, h *Handle) {
		_, err := h.Execute(ctx, "CREATE TABLE sqlitebrowser_notes (body TEXT)")
		require.NoError(t, err)
		_, err = h.Execute(ctx, "CREATE TABLE t2 (a INTEGER PRIMARY KEY AUTOINCREMENT)")
		require.NoError(t, err)

		records, err := h.Schema(ctx)
		require.NoError(t, err)

		names := make([]string, len(records))
		for i, r := range records {
			names[i] = r.Name
		}
		assert.ElementsMatch(t, []string{"student", "course", "sqlitebrowser_notes", "t2"}, names,
			"internal sqlite_sequence stays hidden")
	})
}

func TestHandle_Close_ReportsError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	h, err := newHandle(context.Background(), "mock.db", db, 0)
	require.NoError(t, err)

	mock.ExpectClose().WillReturnError(errors.New("locked"))
	err = h.Close()
	assert.ErrorContains(t, err, "locked")
	assert.True(t, h.Closed())
	assert.Equal(t, err, h.Close(), "close result is remembered")
}

func TestFormatValue(t *testing.T) {
	ts := time.Date(2017, 1, 15, 10, 30, 0, 0, time.UTC)
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"nil", nil, "NULL"},
		{"string", "hello", "hello"},
		{"int", 42, "42"},
		{"int64", int64(100), "100"},
		{"float", 3.14, "3.14"},
		{"bytes", []byte("world"), "world"},
		{"bool", true, "true"},
		{"time", ts, "2017-01-15T10:30:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatValue(tt.input))
		})
	}
}
