package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/ghost/mediabolt/internal/catalog"
	"github.com/ghost/mediabolt/internal/config"
	"github.com/ghost/mediabolt/internal/models"
	"github.com/ghost/mediabolt/internal/services/tmdb"
	"github.com/ghost/mediabolt/internal/store"
)

// The browse feeds the sweep keeps warm. Seasonal is skipped: no
// provider endpoint serves it.
var sweepCategories = []int{
	models.CategoryPopular,
	models.CategoryTrending,
	models.CategoryTopRated,
	models.CategoryUpcoming,
	models.CategoryNowPlaying,
}

var sweepTypes = []models.MediaType{models.MediaTypeMovie, models.MediaTypeTV}

// Scheduler re-runs page-1 refreshes for browse feeds whose cache has
// gone stale, so the app opens onto fresh rows without waiting on the
// network. Each feed's own freshness gate decides whether anything is
// fetched, so running the sweep more often than the shortest window is
// harmless.
type Scheduler struct {
	cron   *cron.Cron
	db     *store.Database
	client *tmdb.Client
	cfg    *config.Config
	logger *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(db *store.Database, client *tmdb.Client, cfg *config.Config, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		db:     db,
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	_, err := s.cron.AddFunc(s.cfg.RefreshCron, func() {
		s.runSweep()
	})
	if err != nil {
		return fmt.Errorf("failed to add refresh job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")

	// Warm the feeds immediately on startup
	go s.runSweep()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// runSweep executes one pass over every browse feed.
func (s *Scheduler) runSweep() {
	s.logger.Info("Running feed refresh sweep")
	ctx := context.Background()

	refreshed := 0
	for _, categoryID := range sweepCategories {
		for _, mediaType := range sweepTypes {
			if s.refreshFeed(ctx, categoryID, mediaType) {
				refreshed++
			}
		}
	}

	s.logger.WithField("refreshed", refreshed).Info("Feed refresh sweep completed")
}

// refreshFeed refreshes one feed if its cache is stale. Reports whether
// a refresh actually ran.
func (s *Scheduler) refreshFeed(ctx context.Context, categoryID int, mediaType models.MediaType) bool {
	mediator, err := catalog.NewCategoryFeed(s.db, s.client, s.cfg, categoryID, mediaType, s.logger)
	if err != nil {
		var cfgErr *catalog.ConfigError
		if !errors.As(err, &cfgErr) {
			s.logger.WithError(err).Error("Failed to build feed mediator")
		}
		return false
	}

	action, err := mediator.Initialize(ctx)
	if err != nil {
		s.logger.WithError(err).WithField("feed", mediator.Label()).Error("Feed initialize failed")
		return false
	}
	if action == catalog.SkipRefresh {
		return false
	}

	if result := mediator.Load(ctx, catalog.LoadRefresh); result.Err != nil {
		s.logger.WithError(result.Err).WithField("feed", mediator.Label()).Error("Feed refresh failed")
		return false
	}

	s.logger.WithField("feed", mediator.Label()).Info("Feed refreshed")
	return true
}
