// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlplayground/internal/catalog"
	"github.com/leapstack-labs/sqlplayground/internal/config"
	"github.com/leapstack-labs/sqlplayground/internal/questions"
	"github.com/leapstack-labs/sqlplayground/internal/sandbox"
	"github.com/leapstack-labs/sqlplayground/internal/testutil"
	"github.com/leapstack-labs/sqlplayground/internal/ui/features/common"
	"github.com/leapstack-labs/sqlplayground/internal/ui/notifier"
)

// MoviesSchema is the second fixture database.
var MoviesSchema = []string{
	`CREATE TABLE movies (id INTEGER PRIMARY KEY, title TEXT NOT NULL, director TEXT)`,
	`CREATE TABLE rating (movie_id INTEGER REFERENCES movies(id), stars INTEGER)`,
	`INSERT INTO movies (id, title, director) VALUES (1, 'Vertigo', 'Hitchcock'), (2, 'Jaws', 'Steven Spielberg')`,
}

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	App          *common.App
	Dir          string
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
}

// SetupTestFixture creates a databases directory holding College.db and
// Movies.db and wires an App over it.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	dir := t.TempDir()
	testutil.CreateDatabase(t, dir, "College.db", testutil.StudentsSchema...)
	testutil.CreateDatabase(t, dir, "Movies.db", MoviesSchema...)

	return SetupTestFixtureDir(t, dir)
}

// SetupTestFixtureDir wires an App over an existing (or missing) directory.
func SetupTestFixtureDir(t *testing.T, dir string) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	cat := catalog.New(dir, nil)
	opener, err := sandbox.NewOpener(cat, sandbox.Options{Logger: logger})
	require.NoError(t, err)

	pages := config.PagesConfig{}
	config.ApplyPageDefaults(&pages)

	fixture := &TestFixture{
		Dir:          dir,
		Notifier:     notifier.New(),
		SessionStore: NewTestSessionStore(),
	}
	fixture.App = &common.App{
		Sandbox:   sandbox.New(opener, 5*time.Second, logger),
		Catalog:   cat,
		Questions: questions.Default(),
		Pages:     pages,
		Title:     config.DefaultTitle,
		Sessions:  fixture.SessionStore,
		Notifier:  fixture.Notifier,
		Logger:    logger,
	}
	return fixture
}

// Path returns the path of a file inside the fixture directory.
func (f *TestFixture) Path(name string) string {
	return filepath.Join(f.Dir, name)
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// SignalsQuery encodes datastar signals for a GET request.
func SignalsQuery(signals string) string {
	return "datastar=" + url.QueryEscape(signals)
}

// CookiesFrom copies the Set-Cookie headers of a response onto a request.
func CookiesFrom(resp *http.Response, r *http.Request) *http.Request {
	for _, c := range resp.Cookies() {
		r.AddCookie(c)
	}
	return r
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}
