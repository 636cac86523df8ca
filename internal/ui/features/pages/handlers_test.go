package pages

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/sqlplayground/internal/config"
	"github.com/leapstack-labs/sqlplayground/internal/ui/features"
)

func TestPages(t *testing.T) {
	tests := []struct {
		name    string
		handler func(*Handlers) http.HandlerFunc
		want    []string
	}{
		{
			name:    "projects",
			handler: func(h *Handlers) http.HandlerFunc { return h.Projects },
			want: []string{
				"<title>Projects - SQL Playground</title>",
				"<h1>Projects Page</h1>",
				"<p>Explore My Projects here!</p>",
				">Django documentation</a>",
				">Terminal Portfolio</a>",
				"https://shashankvh.pythonanywhere.com/terminal",
			},
		},
		{
			name:    "contact",
			handler: func(h *Handlers) http.HandlerFunc { return h.Contact },
			want: []string{
				"<title>Contact - SQL Playground</title>",
				"<h1>Contact Page</h1>",
				"<p>For any queries or assistance, please contact me.</p>",
				">email</a>",
				">linkedin</a>",
				"https://www.linkedin.com/in/shashank-v-h-a13538229/",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := features.SetupTestFixture(t)
			h := NewHandlers(fixture.App)

			rec := httptest.NewRecorder()
			tt.handler(h)(rec, httptest.NewRequest(http.MethodGet, "/"+tt.name, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			for _, want := range tt.want {
				assert.Contains(t, body, want)
			}
			assert.Contains(t, body, "ui-menu-item active", "current page is highlighted")
			assert.Contains(t, body, `target="_blank"`)
		})
	}
}

func TestPages_ConfiguredLinks(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	fixture.App.Pages.Projects = []config.Link{{Label: "Playground source", URL: "https://example.com/src"}}
	h := NewHandlers(fixture.App)

	rec := httptest.NewRecorder()
	h.Projects(rec, httptest.NewRequest(http.MethodGet, "/projects", nil))

	body := rec.Body.String()
	assert.Contains(t, body, ">Playground source</a>")
	assert.NotContains(t, body, "Django documentation")
}

func TestPages_DevReloadClient(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	h := NewHandlers(fixture.App)

	rec := httptest.NewRecorder()
	h.Contact(rec, httptest.NewRequest(http.MethodGet, "/contact", nil))
	assert.NotContains(t, rec.Body.String(), `id="dev-reload"`)

	fixture.App.Dev = true
	rec = httptest.NewRecorder()
	h.Contact(rec, httptest.NewRequest(http.MethodGet, "/contact", nil))
	assert.Contains(t, rec.Body.String(), `<div id="dev-reload"`)
}
