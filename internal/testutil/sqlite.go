package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	// sqlite driver for fixture databases.
	_ "modernc.org/sqlite"
)

// StudentsSchema is a small two-table fixture shared by package tests.
var StudentsSchema = []string{
	`CREATE TABLE student (usn TEXT PRIMARY KEY, name TEXT NOT NULL, sem INTEGER, section TEXT DEFAULT 'A')`,
	`CREATE TABLE course (code TEXT PRIMARY KEY, title TEXT NOT NULL)`,
	`INSERT INTO student (usn, name, sem, section) VALUES
		('1BI15CS101', 'Asha', 4, 'C'),
		('1BI15CS102', 'Ravi', 4, 'C'),
		('1BI15CS103', 'Meena', 8, 'A')`,
	`INSERT INTO course (code, title) VALUES ('CS41', 'Databases'), ('CS42', 'Networks')`,
}

// CreateDatabase creates a SQLite file named name inside dir, runs the
// statements in order and returns the file path.
func CreateDatabase(t testing.TB, dir, name string, statements ...string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	// An empty file is still a valid database; force it onto disk.
	_, err = db.ExecContext(ctx, "PRAGMA user_version = 1")
	require.NoError(t, err)

	for _, stmt := range statements {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err, "fixture statement: %s", stmt)
	}
	return path
}
