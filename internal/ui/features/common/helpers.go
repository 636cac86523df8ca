package common

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/sqlplayground/internal/ui/views"
)

// SessionName is the cookie name of the UI session.
const SessionName = "sqlplayground"

const sessionDatabaseKey = "database"

// SelectedDatabase returns the database stored in the session, or "".
func SelectedDatabase(store sessions.Store, r *http.Request) string {
	session, err := store.Get(r, SessionName)
	if err != nil {
		return ""
	}
	name, _ := session.Values[sessionDatabaseKey].(string)
	return name
}

// SaveSelectedDatabase stores name in the session.
// It writes a cookie header, so it must run before any body is written.
func SaveSelectedDatabase(store sessions.Store, w http.ResponseWriter, r *http.Request, name string) error {
	// A tampered or stale cookie yields a fresh session alongside the error.
	session, _ := store.Get(r, SessionName)
	session.Values[sessionDatabaseKey] = name
	return session.Save(r, w)
}

// Layout returns the layout data of a page. currentPath marks the active menu item.
func (a *App) Layout(pageTitle, currentPath string) map[string]any {
	menu := make([]map[string]any, len(Menu))
	for i, item := range Menu {
		menu[i] = map[string]any{
			"label":  item.Label,
			"path":   item.Path,
			"icon":   item.Icon,
			"active": item.Path == currentPath,
		}
	}
	return map[string]any{
		"title":     a.Title,
		"pageTitle": pageTitle,
		"menuTitle": MenuTitle,
		"menuIcon":  MenuIcon,
		"menu":      menu,
		"dev":       a.Dev,
	}
}

// RenderPage writes a full page with the layout around content.
func (a *App) RenderPage(w http.ResponseWriter, r *http.Request, pageTitle, currentPath string, content templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.Page(a.Layout(pageTitle, currentPath), content).Render(r.Context(), w); err != nil {
		a.Logger.Error("failed to render page", "path", r.URL.Path, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
