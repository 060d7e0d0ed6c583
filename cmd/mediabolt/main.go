package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ghost/mediabolt/internal/api"
	"github.com/ghost/mediabolt/internal/catalog"
	"github.com/ghost/mediabolt/internal/config"
	"github.com/ghost/mediabolt/internal/models"
	"github.com/ghost/mediabolt/internal/repository"
	"github.com/ghost/mediabolt/internal/scheduler"
	"github.com/ghost/mediabolt/internal/services/tmdb"
	"github.com/ghost/mediabolt/internal/store"
	"github.com/ghost/mediabolt/internal/utils"
)

func main() {
	root := &cobra.Command{
		Use:   "mediabolt",
		Short: "Offline-first media catalog sync service",
	}

	root.AddCommand(serveCmd(), refreshCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the catalog API server and refresh scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh <source> <mediaType> <id>",
		Short: "Fetch and cache one item's full detail",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefresh(args[0], args[1], args[2])
		},
	}
}

func runServe() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting Mediabolt")
	logger.WithField("config_dir", filepath.Dir(cfg.DatabaseFile)).Info("Configuration loaded")

	// 3. Initialize database
	db, err := store.Open(cfg.DatabaseFile, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Database initialized")

	// 4. Initialize TMDB client
	client, err := tmdb.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize TMDB client: %w", err)
	}
	logger.Info("TMDB client initialized")

	// 5. Initialize repository
	repo := repository.New(db, client, cfg, logger)

	// 6. Initialize scheduler
	sched := scheduler.NewScheduler(db, client, cfg, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 7. Initialize HTTP server
	server := api.NewServer(cfg, db, repo, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 8. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Mediabolt is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Mediabolt stopped")
	return nil
}

func runRefresh(sourceArg, typeArg, idArg string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := utils.NewLogger(cfg.LogLevel)

	source, ok := models.ParseMediaSource(sourceArg)
	if !ok {
		return fmt.Errorf("unknown media source %q", sourceArg)
	}
	mediaType, ok := models.ParseMediaType(typeArg)
	if !ok {
		return fmt.Errorf("unknown media type %q", typeArg)
	}
	id, err := strconv.Atoi(idArg)
	if err != nil {
		return fmt.Errorf("invalid media id %q", idArg)
	}

	db, err := store.Open(cfg.DatabaseFile, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	client, err := tmdb.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize TMDB client: %w", err)
	}

	refresher := catalog.NewRefresher(db, client, cfg, logger)
	identity := models.Identity{ID: id, MediaType: mediaType, MediaSource: source}
	if err := refresher.Refresh(context.Background(), identity); err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	logger.WithField("media", identity.String()).Info("Detail refreshed")
	return nil
}
