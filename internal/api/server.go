package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/ghost/mediabolt/internal/api/handlers"
	"github.com/ghost/mediabolt/internal/api/middleware"
	"github.com/ghost/mediabolt/internal/config"
	"github.com/ghost/mediabolt/internal/repository"
	"github.com/ghost/mediabolt/internal/store"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	db     *store.Database
	repo   *repository.Repository
	logger *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, db *store.Database, repo *repository.Repository, logger *logrus.Logger) *Server {
	s := &Server{
		db:     db,
		repo:   repo,
		logger: logger,
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux)

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(mux, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	// Health check
	healthHandler := handlers.NewHealthHandler(s.db, s.logger)
	mux.HandleFunc("/health", healthHandler.ServeHTTP)

	// Status endpoint
	statusHandler := handlers.NewStatusHandler(s.db, s.logger)
	mux.HandleFunc("/status", statusHandler.ServeHTTP)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// Paged feeds
	feedHandler := handlers.NewFeedHandler(s.repo, s.logger)
	mux.HandleFunc("GET /api/feeds/{category}/{mediaType}", feedHandler.Category)
	mux.HandleFunc("GET /api/search", feedHandler.Search)
	mux.HandleFunc("POST /api/discover", feedHandler.Discover)

	// Composite detail
	detailHandler := handlers.NewDetailHandler(s.repo, s.logger)
	mux.HandleFunc("GET /api/media/{source}/{mediaType}/{id}", detailHandler.Get)
	mux.HandleFunc("POST /api/media/{source}/{mediaType}/{id}/refresh", detailHandler.Refresh)
	mux.HandleFunc("PUT /api/media/{source}/{mediaType}/{id}/theme-color", detailHandler.SetThemeColor)
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
