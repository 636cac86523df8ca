// Package ui provides the browser SQL sandbox.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/sqlplayground/internal/catalog"
	"github.com/leapstack-labs/sqlplayground/internal/config"
	"github.com/leapstack-labs/sqlplayground/internal/questions"
	"github.com/leapstack-labs/sqlplayground/internal/sandbox"
	"github.com/leapstack-labs/sqlplayground/internal/ui/features/common"
	"github.com/leapstack-labs/sqlplayground/internal/ui/notifier"
	"github.com/leapstack-labs/sqlplayground/internal/ui/resources"
	"github.com/leapstack-labs/sqlplayground/internal/ui/router"
)

// catalogDebounce collapses bursts of file events (copying a database
// produces a create and several writes) into one broadcast.
const catalogDebounce = 100 * time.Millisecond

// Server is the main UI server.
type Server struct {
	app      *common.App
	port     int
	watch    bool
	logger   *slog.Logger
	notifier *notifier.Notifier
	debounce time.Duration
}

// Config holds configuration for the UI server.
type Config struct {
	Sandbox       *sandbox.Sandbox
	Catalog       *catalog.Catalog
	Questions     *questions.Registry
	Pages         config.PagesConfig
	Title         string
	Port          int
	Watch         bool
	SessionSecret string
	Logger        *slog.Logger
}

// NewServer creates a new UI server instance.
// An empty SessionSecret gets a random one, so sessions end with the process.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	secret := cfg.SessionSecret
	if secret == "" {
		secret = uuid.NewString()
	}
	title := cfg.Title
	if title == "" {
		title = config.DefaultTitle
	}
	registry := cfg.Questions
	if registry == nil {
		registry = questions.Default()
	}

	sessionStore := sessions.NewCookieStore([]byte(secret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	notify := notifier.New()

	return &Server{
		app: &common.App{
			Sandbox:   cfg.Sandbox,
			Catalog:   cfg.Catalog,
			Questions: registry,
			Pages:     cfg.Pages,
			Title:     title,
			Sessions:  sessionStore,
			Notifier:  notify,
			Logger:    logger,
			Dev:       resources.IsDev,
		},
		port:     cfg.Port,
		watch:    cfg.Watch,
		logger:   logger,
		notifier: notify,
		debounce: catalogDebounce,
	}
}

// Handler returns the router with middleware and all feature routes.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s.app, s.IsDev()); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start catalog watcher if enabled
	if s.watch {
		eg.Go(func() error {
			return s.watchCatalog(egctx)
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// IsDev returns true when built with the dev tag.
func (s *Server) IsDev() bool {
	return resources.IsDev
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchCatalog watches the databases directory and broadcasts a fresh
// listing when database files appear, disappear or are renamed.
func (s *Server) watchCatalog(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	dir := s.app.Catalog.Dir()
	if err := watcher.Add(dir); err != nil {
		// Don't fail - the UI still works, it just won't refresh.
		s.logger.Warn("failed to watch databases directory", "dir", dir, "error", err)
		return nil
	}
	s.logger.Debug("watching databases directory", "dir", dir)

	var (
		timer    *time.Timer
		debounce <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !s.app.Catalog.Matches(filepath.Base(event.Name)) {
				continue
			}
			s.logger.Debug("catalog changed", "file", event.Name, "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				timer.Reset(s.debounce)
			}
			debounce = timer.C

		case <-debounce:
			debounce = nil
			s.publishCatalog()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// publishCatalog lists the catalog and sends the snapshot to all SSE clients.
func (s *Server) publishCatalog() {
	names, err := s.app.Catalog.List()
	if err != nil {
		s.logger.Warn("failed to list databases", "error", err)
	}
	s.notifier.Broadcast(notifier.Snapshot{Databases: names, Err: err})
}
