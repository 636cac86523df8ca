// Package common provides shared types and utilities for UI features.
package common

import (
	"log/slog"

	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/sqlplayground/internal/catalog"
	"github.com/leapstack-labs/sqlplayground/internal/config"
	"github.com/leapstack-labs/sqlplayground/internal/questions"
	"github.com/leapstack-labs/sqlplayground/internal/sandbox"
	"github.com/leapstack-labs/sqlplayground/internal/ui/notifier"
)

// Sidebar heading and its icon.
const (
	MenuTitle = "Main Menu"
	MenuIcon  = "cast"
)

// MenuItem is one entry of the sidebar menu.
type MenuItem struct {
	Label string
	Path  string
	Icon  string // bootstrap icon name
}

// Menu is the sidebar menu in display order. Home is the initial page.
var Menu = []MenuItem{
	{Label: "Home", Path: "/", Icon: "house"},
	{Label: "Projects", Path: "/projects", Icon: "book"},
	{Label: "Contact", Path: "/contact", Icon: "envelope"},
}

// App holds the dependencies shared by all feature handlers.
// Everything in it is safe for concurrent use by request handlers.
type App struct {
	Sandbox   *sandbox.Sandbox
	Catalog   *catalog.Catalog
	Questions *questions.Registry
	Pages     config.PagesConfig
	Title     string
	Sessions  sessions.Store
	Notifier  *notifier.Notifier
	Logger    *slog.Logger
	// Dev adds the hot reload client to every page.
	Dev bool
}
