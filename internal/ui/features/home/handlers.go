package home

import (
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/sqlplayground/internal/ui/features/common"
	"github.com/leapstack-labs/sqlplayground/internal/ui/notifier"
	"github.com/leapstack-labs/sqlplayground/internal/ui/views"
)

// durationRounding is the precision of displayed query durations.
const durationRounding = 100 * time.Microsecond

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	app *common.App
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(app *common.App) *Handlers {
	return &Handlers{app: app}
}

// HomePage renders the sandbox page. A valid ?db= selects that database
// and the page starts with blank schema and results panels.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot()
	selected := common.SelectedDatabase(h.app.Sessions, r)
	results := emptyView()

	if requested := r.URL.Query().Get("db"); requested != "" {
		if _, err := h.app.Catalog.Resolve(requested); err != nil {
			results = errorResultsView(err)
		} else {
			selected = requested
			if err := common.SaveSelectedDatabase(h.app.Sessions, w, r, selected); err != nil {
				h.app.Logger.Warn("failed to save session", "error", err)
			}
		}
	}

	if !slices.Contains(snap.Databases, selected) {
		selected = ""
		if len(snap.Databases) > 0 {
			selected = snap.Databases[0]
		}
	}

	data := map[string]any{
		"title":     h.app.Title,
		"signals":   signalsJSON(Signals{Database: selected}),
		"picker":    pickerView(h.app.Catalog.Dir(), snap, selected),
		"questions": questionsView(h.app.Questions.Lookup(selected)),
		"schema":    emptyView(),
		"results":   results,
	}
	h.app.RenderPage(w, r, "Home", "/", views.Component(views.Home, data))
}

// SelectDatabase stores the picked database, shows its example questions
// and clears the schema and results panels.
func (h *Handlers) SelectDatabase(w http.ResponseWriter, r *http.Request) {
	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Resolve and save before the SSE stream commits the headers.
	_, resolveErr := h.app.Catalog.Resolve(signals.Database)
	if resolveErr == nil {
		if err := common.SaveSelectedDatabase(h.app.Sessions, w, r, signals.Database); err != nil {
			h.app.Logger.Warn("failed to save session", "error", err)
		}
	}

	sse := datastar.NewSSE(w, r)
	if resolveErr != nil {
		h.patch(sse, views.Results, errorResultsView(resolveErr))
		return
	}

	h.app.Logger.Debug("database selected", "database", signals.Database)
	h.patch(sse, views.Questions, questionsView(h.app.Questions.Lookup(signals.Database)))
	h.patch(sse, views.Schema, emptyView())
	h.patch(sse, views.Results, emptyView())
}

// Schema patches the schema panel with the tables of the selected database.
func (h *Handlers) Schema(w http.ResponseWriter, r *http.Request) {
	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sse := datastar.NewSSE(w, r)
	records, err := h.app.Sandbox.Schema(r.Context(), signals.Database)
	if err != nil {
		h.app.Logger.Info("schema read failed", "database", signals.Database, "error", err)
	}
	h.patch(sse, views.Schema, schemaView(records, err))
}

// TableColumns patches the schema detail with the columns of one table.
func (h *Handlers) TableColumns(w http.ResponseWriter, r *http.Request) {
	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	table := chi.URLParam(r, "table")
	if unescaped, err := url.PathUnescape(table); err == nil {
		table = unescaped
	}

	sse := datastar.NewSSE(w, r)
	columns, err := h.app.Sandbox.Columns(r.Context(), signals.Database, table)
	h.patch(sse, views.SchemaDetail, schemaDetailView(table, columns, err))
}

// Execute runs the SQL signal against the selected database and patches the results.
// Query failures are part of the outcome, so the response is always 200.
func (h *Handlers) Execute(w http.ResponseWriter, r *http.Request) {
	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sse := datastar.NewSSE(w, r)
	out := h.app.Sandbox.Run(r.Context(), signals.Database, signals.SQL)
	h.patch(sse, views.Results, resultsView(out))
}

// HomePageUpdates is the long-lived SSE endpoint of the home page.
// It re-renders the database picker whenever the catalog changes.
// No initial state is sent: HomePage already rendered it.
func (h *Handlers) HomePageUpdates(w http.ResponseWriter, r *http.Request) {
	selected := common.SelectedDatabase(h.app.Sessions, r)
	sse := datastar.NewSSE(w, r)

	updates := h.app.Notifier.Subscribe()
	defer h.app.Notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			// Keep going on failure: the next snapshot may render.
			h.patch(sse, views.Picker, pickerView(h.app.Catalog.Dir(), snap, selected))
		}
	}
}

// snapshot lists the catalog now.
func (h *Handlers) snapshot() notifier.Snapshot {
	names, err := h.app.Catalog.List()
	if err != nil {
		h.app.Logger.Warn("failed to list databases", "error", err)
	}
	return notifier.Snapshot{Databases: names, Err: err}
}

// patch sends one fragment, reporting failures to the browser console.
func (h *Handlers) patch(sse *datastar.ServerSentEventGenerator, name string, data map[string]any) {
	if err := sse.PatchElementTempl(views.Component(name, data)); err != nil {
		h.app.Logger.Error("failed to patch element", "template", name, "error", err)
		_ = sse.ConsoleError(err)
	}
}
