package pages

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/sqlplayground/internal/ui/features/common"
)

// SetupRoutes configures routes for the static pages.
func SetupRoutes(router chi.Router, app *common.App) error {
	handlers := NewHandlers(app)

	router.Get("/projects", handlers.Projects)
	router.Get("/contact", handlers.Contact)

	return nil
}
