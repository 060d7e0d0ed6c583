package catalog

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ghost/mediabolt/internal/config"
	"github.com/ghost/mediabolt/internal/models"
	"github.com/ghost/mediabolt/internal/services/tmdb"
)

// Sub-resources folded into the single detail call.
var detailAppend = []string{"credits", "keywords", "recommendations", "similar"}

// DetailStore persists a decomposed detail response atomically.
type DetailStore interface {
	SaveDecomposition(ctx context.Context, dec models.Decomposition) error
}

// Refresher fetches one item's full detail in a single network call and
// commits the decomposed rows in one transaction.
type Refresher struct {
	store  DetailStore
	client *tmdb.Client
	cfg    *config.Config
	now    func() time.Time
	logger *logrus.Logger
}

func NewRefresher(store DetailStore, client *tmdb.Client, cfg *config.Config, logger *logrus.Logger) *Refresher {
	return &Refresher{
		store:  store,
		client: client,
		cfg:    cfg,
		now:    time.Now,
		logger: logger,
	}
}

// WithClock substitutes the time source, for tests.
func (r *Refresher) WithClock(now func() time.Time) *Refresher {
	r.now = now
	return r
}

// Refresh fetches the item's detail with credits, keywords,
// recommendations and similar appended, decomposes the response and
// saves everything in one transaction. The previous cached detail stays
// visible until the commit lands; on error the cache is untouched.
func (r *Refresher) Refresh(ctx context.Context, id models.Identity) error {
	if id.MediaSource != models.SourceTMDB {
		return &ConfigError{Provider: id.MediaSource, Detail: "detail refresh"}
	}

	fetchedAt := r.now().UnixMilli()

	var dec models.Decomposition
	switch id.MediaType {
	case models.MediaTypeMovie:
		detail, err := r.client.GetMovieDetails(ctx, id.ID, r.cfg.Language, detailAppend)
		if err != nil {
			return err
		}
		dec = DecomposeMovie(detail, fetchedAt)
	case models.MediaTypeTV:
		detail, err := r.client.GetTVDetails(ctx, id.ID, r.cfg.Language, detailAppend)
		if err != nil {
			return err
		}
		dec = DecomposeTV(detail, fetchedAt)
	default:
		return unsupportedMediaType(id.MediaSource, id.MediaType)
	}

	if err := r.store.SaveDecomposition(ctx, dec); err != nil {
		r.logger.WithError(err).WithField("media", id.String()).Error("Detail commit failed")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"media": id.String(),
		"cast":  len(dec.Cast),
		"recs":  len(dec.Recommendations),
	}).Debug("Detail refreshed")
	return nil
}
