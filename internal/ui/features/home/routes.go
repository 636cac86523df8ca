package home

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/sqlplayground/internal/ui/features/common"
)

// SetupRoutes configures routes for the home feature.
func SetupRoutes(router chi.Router, app *common.App) error {
	handlers := NewHandlers(app)

	router.Get("/", handlers.HomePage)
	router.Get("/updates", handlers.HomePageUpdates)

	router.Route("/api", func(r chi.Router) {
		r.Post("/database", handlers.SelectDatabase)
		r.Post("/schema", handlers.Schema)
		r.Get("/schema/{table}", handlers.TableColumns)
		r.Post("/execute", handlers.Execute)
	})

	return nil
}
