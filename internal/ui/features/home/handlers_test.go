package home

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlplayground/internal/testutil"
	"github.com/leapstack-labs/sqlplayground/internal/ui/features"
	"github.com/leapstack-labs/sqlplayground/internal/ui/notifier"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func setupTestHandlers(t *testing.T) (*Handlers, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t)
	return NewHandlers(fixture.App), fixture
}

func signalsBody(t *testing.T, s Signals) *strings.Reader {
	t.Helper()
	data, err := json.Marshal(s)
	require.NoError(t, err)
	return strings.NewReader(string(data))
}

func post(t *testing.T, handler http.HandlerFunc, path string, s Signals, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, signalsBody(t, s))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

// =============================================================================
// HomePage Tests - Full HTML page responses with server-rendered content
// =============================================================================

func TestHomePage(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.HomePage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	for _, want := range []string{
		"<!doctype html>",
		"<title>Home - SQL Playground</title>",
		"Main Menu",
		"bi-cast",
		"bi-house",
		"bi-book",
		"bi-envelope",
		"data-init",
		"/updates",
		"data-signals",
		"Welcome to SQL Playground",
		"How to Use",
		"Select Database",
		" selected>College.db</option>",
		">Movies.db</option>",
		"See Schema",
		"Execute SQL Query",
		"List all the student details studying in fourth semester",
	} {
		assert.Contains(t, body, want, "response should contain %q", want)
	}

	assert.NotContains(t, body, "<table", "schema and results start blank")
	assert.NotContains(t, body, "ui-banner")
}

func TestHomePage_SelectsFromQuery(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/?db=Movies.db", nil)
	rec := httptest.NewRecorder()
	h.HomePage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, " selected>Movies.db</option>")
	assert.Contains(t, body, "List the titles of all movies directed by")
	assert.NotContains(t, body, "List all the student details")

	// The selection survives into the next request through the session.
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies, "selection should be stored in the session cookie")

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	h.HomePage(rec, next)
	assert.Contains(t, rec.Body.String(), " selected>Movies.db</option>")
}

func TestHomePage_UnknownDatabaseInQuery(t *testing.T) {
	h, _ := setupTestHandlers(t)

	for _, name := range []string{"nope.db", "../College.db", "notes.txt"} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?db="+name, nil)
			rec := httptest.NewRecorder()
			h.HomePage(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, "unknown database")
			assert.Contains(t, body, " selected>College.db</option>", "falls back to the first database")
			assert.Empty(t, rec.Result().Cookies(), "rejected names are never stored")
		})
	}
}

func TestHomePage_MissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	fixture := features.SetupTestFixtureDir(t, dir)
	h := NewHandlers(fixture.App)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.HomePage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "No databases found in "+dir)
	assert.NotContains(t, body, "<select")
}

// =============================================================================
// Execute Tests - result rendering through SSE patches
// =============================================================================

func TestExecute(t *testing.T) {
	tests := []struct {
		name     string
		signals  Signals
		want     []string
		wantNot  []string
		wantRows int // <tr> count including the header, -1 to skip
	}{
		{
			name:     "select renders a table",
			signals:  Signals{Database: "College.db", SQL: "SELECT usn, name FROM student ORDER BY usn"},
			want:     []string{"<table", "<th>usn</th>", "<th>name</th>", "<td>Asha</td>", "<td>Meena</td>", "3 row(s) in"},
			wantNot:  []string{"ui-banner"},
			wantRows: 4,
		},
		{
			name:     "null values",
			signals:  Signals{Database: "College.db", SQL: "SELECT NULL AS nothing"},
			want:     []string{"<td>NULL</td>", "1 row(s) in"},
			wantRows: 2,
		},
		{
			name:     "empty query warns",
			signals:  Signals{Database: "College.db", SQL: "   \n\t"},
			want:     []string{"Please enter a SQL query.", "ui-banner-warning"},
			wantNot:  []string{"<table"},
			wantRows: 0,
		},
		{
			name:     "zero rows warns",
			signals:  Signals{Database: "College.db", SQL: "SELECT * FROM student WHERE sem = 99"},
			want:     []string{"No results found.", "ui-banner-warning"},
			wantNot:  []string{"<table"},
			wantRows: 0,
		},
		{
			name:     "update reports affected rows",
			signals:  Signals{Database: "College.db", SQL: "UPDATE student SET section = 'B' WHERE sem = 4"},
			want:     []string{"Statement executed successfully. 2 row(s) affected.", "ui-banner-success"},
			wantNot:  []string{"<table"},
			wantRows: 0,
		},
		{
			name:     "syntax error",
			signals:  Signals{Database: "College.db", SQL: "SELEC * FROM student"},
			want:     []string{"Error executing query: ", "syntax error", "ui-banner-error"},
			wantNot:  []string{"<table"},
			wantRows: 0,
		},
		{
			name:     "unknown database",
			signals:  Signals{Database: "../secret.db", SQL: "SELECT 1"},
			want:     []string{"Error executing query: ", "unknown database"},
			wantNot:  []string{"<table"},
			wantRows: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupTestHandlers(t)

			rec := post(t, h.Execute, "/api/execute", tt.signals)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/event-stream")

			body := rec.Body.String()
			assert.Contains(t, body, "event: datastar-patch-elements")
			assert.Contains(t, body, `<div id="results">`)
			for _, want := range tt.want {
				assert.Contains(t, body, want)
			}
			for _, notWant := range tt.wantNot {
				assert.NotContains(t, body, notWant)
			}
			if tt.wantRows >= 0 {
				assert.Equal(t, tt.wantRows, strings.Count(body, "<tr>"))
			}
		})
	}
}

func TestExecute_Repeatable(t *testing.T) {
	h, _ := setupTestHandlers(t)
	s := Signals{Database: "College.db", SQL: "SELECT code, title FROM course ORDER BY code"}

	first := post(t, h.Execute, "/api/execute", s).Body.String()
	second := post(t, h.Execute, "/api/execute", s).Body.String()

	// Execution IDs differ, the rendered rows do not.
	for _, body := range []string{first, second} {
		assert.Contains(t, body, "<td>CS41</td>")
		assert.Contains(t, body, "<td>Networks</td>")
		assert.Equal(t, 3, strings.Count(body, "<tr>"))
	}
}

func TestExecute_BadSignals(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/api/execute", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Execute(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// Schema Tests
// =============================================================================

func TestSchema(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := post(t, h.Schema, "/api/schema", Signals{Database: "College.db"})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<div id="schema">`)
	assert.Contains(t, body, "Database Schema:")
	assert.Contains(t, body, ">student</a>")
	assert.Contains(t, body, ">course</a>")
	assert.Contains(t, body, "/api/schema/student")
	assert.Contains(t, body, "CREATE TABLE student")
	assert.Equal(t, 2, strings.Count(body, "<tr><td>"), "exactly the two fixture tables")
}

func TestSchema_UnknownDatabase(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := post(t, h.Schema, "/api/schema", Signals{Database: "nope.db"})

	body := rec.Body.String()
	assert.Contains(t, body, "unknown database")
	assert.NotContains(t, body, "<table")
}

func TestTableColumns(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		want    []string
		wantNot []string
	}{
		{
			name:  "known table",
			table: "student",
			want:  []string{`<div id="schema-detail">`, "<h4>student</h4>", "<td>usn</td>", "<td>section</td>", "<td>TEXT</td>", "<td>yes</td>"},
		},
		{
			name:    "unknown table",
			table:   "missing",
			want:    []string{"table not found", "ui-banner-error"},
			wantNot: []string{"<table"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupTestHandlers(t)

			req := httptest.NewRequest(http.MethodGet,
				"/api/schema/"+tt.table+"?"+features.SignalsQuery(`{"database":"College.db"}`), nil)
			req = features.RequestWithPathParam(req, "table", tt.table)
			rec := httptest.NewRecorder()
			h.TableColumns(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			for _, want := range tt.want {
				assert.Contains(t, body, want)
			}
			for _, notWant := range tt.wantNot {
				assert.NotContains(t, body, notWant)
			}
		})
	}
}

func TestTableColumns_QuotedTableName(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	testutil.CreateDatabase(t, fixture.Dir, "College.db", `CREATE TABLE "odd name's" (note TEXT)`)

	rec := post(t, h.Schema, "/api/schema", Signals{Database: "College.db"})
	body := rec.Body.String()
	assert.Contains(t, body, "@get('/api/schema/odd%20name%27s')")
	assert.NotContains(t, body, "@get('/api/schema/odd%20name's')")

	req := httptest.NewRequest(http.MethodGet,
		"/api/schema/odd%20name%27s?"+features.SignalsQuery(`{"database":"College.db"}`), nil)
	req = features.RequestWithPathParam(req, "table", "odd%20name%27s")
	rec = httptest.NewRecorder()
	h.TableColumns(rec, req)

	assert.Contains(t, rec.Body.String(), "<td>note</td>")
	assert.NotContains(t, rec.Body.String(), "table not found")
}

// =============================================================================
// SelectDatabase Tests
// =============================================================================

func assertPanelsCleared(t *testing.T, body string) {
	t.Helper()
	assert.Contains(t, body, `<div id="schema">`)
	assert.Contains(t, body, `<div id="schema-detail"></div>`)
	assert.Contains(t, body, `<div id="results">`)
	assert.NotContains(t, body, "<table")
	assert.NotContains(t, body, "ui-banner")
}

func TestSelectDatabase_RoundTripClearsPanels(t *testing.T) {
	h, _ := setupTestHandlers(t)

	// Fill both panels on A first.
	body := post(t, h.Schema, "/api/schema", Signals{Database: "College.db"}).Body.String()
	require.Contains(t, body, "<table")
	body = post(t, h.Execute, "/api/execute", Signals{Database: "College.db", SQL: "SELECT * FROM student"}).Body.String()
	require.Contains(t, body, "<table")

	steps := []struct {
		database string
		question string
	}{
		{"Movies.db", "List the titles of all movies directed by"},
		{"College.db", "List all the student details"},
		{"Movies.db", "List the titles of all movies directed by"},
	}

	for _, step := range steps {
		rec := post(t, h.SelectDatabase, "/api/database", Signals{Database: step.database})
		require.Equal(t, http.StatusOK, rec.Code)

		body := rec.Body.String()
		assert.Contains(t, body, `<div id="questions">`)
		assert.Contains(t, body, step.question)
		assertPanelsCleared(t, body)
		assert.NotEmpty(t, rec.Result().Cookies(), "selection should be saved")
	}
}

func TestSelectDatabase_Unknown(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := post(t, h.SelectDatabase, "/api/database", Signals{Database: "../../etc/passwd"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown database")
	assert.Empty(t, rec.Result().Cookies())
}

func TestSelectDatabase_NoQuestions(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	testutil.CreateDatabase(t, fixture.Dir, "Scratch.db")

	rec := post(t, h.SelectDatabase, "/api/database", Signals{Database: "Scratch.db"})

	body := rec.Body.String()
	assert.Contains(t, body, `<div id="questions">`)
	assert.NotContains(t, body, "<li>")
	assertPanelsCleared(t, body)
}

// =============================================================================
// HomePageUpdates Tests - SSE endpoint for live updates only
// =============================================================================

func runUpdates(t *testing.T, h *Handlers, timeout time.Duration, during func()) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/updates", nil)
	ctx, cancel := context.WithTimeout(req.Context(), timeout)
	defer cancel()
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.HomePageUpdates(rec, req)
		close(done)
	}()

	during()
	<-done
	return rec.Body.String()
}

func TestHomePageUpdates_SendsPickerOnBroadcast(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	body := runUpdates(t, h, 500*time.Millisecond, func() {
		require.Eventually(t, func() bool { return fixture.Notifier.Len() == 1 }, time.Second, 5*time.Millisecond)
		fixture.Notifier.Broadcast(notifier.Snapshot{Databases: []string{"College.db", "Movies.db", "New.db"}})
	})

	assert.GreaterOrEqual(t, strings.Count(body, "event:"), 1)
	assert.Contains(t, body, `<div id="database-picker">`)
	assert.Contains(t, body, ">New.db</option>")
	assert.Equal(t, 0, fixture.Notifier.Len(), "listener should unsubscribe on disconnect")
}

func TestHomePageUpdates_DirectoryGone(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	body := runUpdates(t, h, 500*time.Millisecond, func() {
		require.Eventually(t, func() bool { return fixture.Notifier.Len() == 1 }, time.Second, 5*time.Millisecond)
		fixture.Notifier.Broadcast(notifier.Snapshot{Err: assert.AnError})
	})

	assert.Contains(t, body, "No databases found in "+fixture.Dir)
}

func TestHomePageUpdates_NoInitialState(t *testing.T) {
	h, _ := setupTestHandlers(t)

	body := runUpdates(t, h, 50*time.Millisecond, func() {})

	assert.Equal(t, 0, strings.Count(body, "event:"), "should have no SSE events without broadcast")
}
