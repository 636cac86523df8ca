// Package pages provides the static Projects and Contact pages.
package pages

import (
	"net/http"

	"github.com/leapstack-labs/sqlplayground/internal/config"
	"github.com/leapstack-labs/sqlplayground/internal/ui/features/common"
	"github.com/leapstack-labs/sqlplayground/internal/ui/views"
)

// Handlers serves the link pages.
type Handlers struct {
	app *common.App
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(app *common.App) *Handlers {
	return &Handlers{app: app}
}

// Projects lists the configured project links.
func (h *Handlers) Projects(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Projects", "/projects", "Projects Page", "Explore My Projects here!", h.app.Pages.Projects)
}

// Contact lists the configured contact links.
func (h *Handlers) Contact(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Contact", "/contact", "Contact Page", "For any queries or assistance, please contact me.", h.app.Pages.Contact)
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, title, path, heading, intro string, links []config.Link) {
	items := make([]map[string]any, len(links))
	for i, l := range links {
		items[i] = map[string]any{"label": l.Label, "url": l.URL}
	}
	data := map[string]any{
		"heading": heading,
		"intro":   intro,
		"links":   items,
	}
	h.app.RenderPage(w, r, title, path, views.Component(views.Links, data))
}
