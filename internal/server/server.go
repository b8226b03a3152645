// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer: it opens the store, builds the
// service and the handler on top of it, installs middleware and runs the
// listener until a signal (or the context) says stop.
//
// DEPENDENCY INJECTION FLOW:
//
//	Server.New() creates: sqlite.DB → MoodService → MoodHandler
//
// LOOPBACK BY DEFAULT:
// moodlog is a single-user journal with no authentication, so the default
// address is 127.0.0.1. Binding anything else is an explicit choice made
// in the config.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/moodlog/internal/handler"
	"github.com/sakif/moodlog/internal/middleware"
	sqliteRepo "github.com/sakif/moodlog/internal/repository/sqlite"
	"github.com/sakif/moodlog/internal/service"
)

// Config holds server configuration.
type Config struct {
	Addr        string         // host:port to listen on
	DBPath      string         // SQLite file, or ":memory:"
	HeatmapDays int            // default heatmap window
	Location    *time.Location // calendar days are computed here; nil means time.Local
}

// shutdownTimeout is how long in-flight requests get after a stop signal.
const shutdownTimeout = 10 * time.Second

// Server represents the HTTP server and all its dependencies.
//
// The Server owns the database connection and closes it when Run returns.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the store and wires the full request path.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes()
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures middleware and mounts the API.
//
// MIDDLEWARE ORDER MATTERS:
//  1. RequestID: assigns an ID the logger picks up
//  2. RealIP: extracts the client IP from proxy headers
//  3. Recoverer: turns a panic into a 500 instead of a crash
//  4. Logger: one line per request
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	moodService := service.NewMoodService(s.db, s.logger, service.WithLocation(s.config.Location))
	moodHandler := handler.NewMoodHandler(moodService, s.logger, s.config.HeatmapDays)

	s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	s.router.Route("/api", moodHandler.Routes)
}

// Run listens on the configured address until ctx is cancelled or the
// process gets SIGINT/SIGTERM, then shuts down gracefully:
//  1. stop accepting connections
//  2. wait for in-flight requests (up to shutdownTimeout)
//  3. close the database
func (s *Server) Run(ctx context.Context) error {
	defer s.db.Close()

	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.config.Addr, err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.String("addr", ln.Addr().String()),
			slog.String("url", "http://"+ln.Addr().String()),
			slog.String("database", s.db.Path()),
		)
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case <-ctx.Done():
		s.logger.Info("shutdown requested")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
		return nil
	}
}
