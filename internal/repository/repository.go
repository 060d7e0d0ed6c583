// Package repository is the application-facing façade over the catalog
// sync engine and the relational store. Reads always come from the
// store; the network only ever lands there first.
package repository

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ghost/mediabolt/internal/catalog"
	"github.com/ghost/mediabolt/internal/config"
	"github.com/ghost/mediabolt/internal/models"
	"github.com/ghost/mediabolt/internal/services/tmdb"
	"github.com/ghost/mediabolt/internal/store"
	"github.com/ghost/mediabolt/internal/themecache"
)

// DefaultPageSize matches the page size of the upstream list endpoints.
const DefaultPageSize = 20

type Repository struct {
	store     *store.Database
	client    *tmdb.Client
	cfg       *config.Config
	refresher *catalog.Refresher
	themes    *themecache.Cache
	logger    *logrus.Logger
}

func New(db *store.Database, client *tmdb.Client, cfg *config.Config, logger *logrus.Logger) *Repository {
	return &Repository{
		store:     db,
		client:    client,
		cfg:       cfg,
		refresher: catalog.NewRefresher(db, client, cfg, logger),
		themes:    themecache.New(),
		logger:    logger,
	}
}

// Store exposes the underlying database for point reads.
func (r *Repository) Store() *store.Database { return r.store }

// CategoryFeed opens a forward-only pager over one browse category.
// Items come from the local cache in placement order; the mediator
// tops the cache up from the network as the pager advances.
func (r *Repository) CategoryFeed(categoryID int, mediaType models.MediaType) (*Pager, error) {
	mediator, err := catalog.NewCategoryFeed(r.store, r.client, r.cfg, categoryID, mediaType, r.logger)
	if err != nil {
		return nil, err
	}
	mt := mediaType
	return newPager(mediator, func(ctx context.Context, limit, offset int) ([]models.Media, error) {
		return r.store.ListByCategory(ctx, categoryID, &mt, limit, offset)
	}), nil
}

// SearchFeed opens a forward-only pager over a title search.
func (r *Repository) SearchFeed(mediaType models.MediaType, query string) (*Pager, error) {
	mediator, err := catalog.NewSearchFeed(r.store, r.client, r.cfg, mediaType, query, r.logger)
	if err != nil {
		return nil, err
	}
	mt := mediaType
	return newPager(mediator, func(ctx context.Context, limit, offset int) ([]models.Media, error) {
		return r.store.SearchByTitle(ctx, query, &mt, limit, offset)
	}), nil
}

// DiscoverFeed opens a forward-only pager over a discover filter. The
// local read applies the filter's constraints so cached rows from other
// feeds never leak into the result.
func (r *Repository) DiscoverFeed(filter catalog.DiscoverFilter) (*Pager, error) {
	mediator, err := catalog.NewDiscoverFeed(r.store, r.client, r.cfg, filter, r.logger)
	if err != nil {
		return nil, err
	}
	local := localFilter(filter)
	return newPager(mediator, func(ctx context.Context, limit, offset int) ([]models.Media, error) {
		return r.store.ListByFilter(ctx, local, limit, offset)
	}), nil
}

// localFilter translates the network-side discover filter into the
// cache-side query, mirroring field for field where the store can.
func localFilter(f catalog.DiscoverFilter) store.LocalFilter {
	mt := f.MediaType
	lf := store.LocalFilter{
		MediaType:    &mt,
		MinVote:      f.MinVote,
		IncludeAdult: f.IncludeAdult,
	}
	if f.MinYear != nil {
		millis := time.Date(*f.MinYear, time.January, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
		lf.MinYearMilli = &millis
	}
	if f.MaxYear != nil {
		millis := time.Date(*f.MaxYear, time.December, 31, 23, 59, 59, 0, time.UTC).UnixMilli()
		lf.MaxYearMilli = &millis
	}
	switch f.Sort {
	case catalog.SortVoteAverage:
		lf.SortColumn = "vote_average"
	case catalog.SortVoteCount:
		lf.SortColumn = "vote_count"
	case catalog.SortReleaseDate, catalog.SortFirstAirDate:
		lf.SortColumn = "release_date"
	case catalog.SortRevenue:
		lf.SortColumn = "revenue"
	default:
		lf.SortColumn = "popularity"
	}
	return lf
}

// GetDetail reads the composite detail from the cache. ErrNotFound when
// the item has never been cached. A shallow row is returned as-is and a
// background refresh is started so the next read is full.
func (r *Repository) GetDetail(ctx context.Context, id models.Identity) (*models.MediaDetail, error) {
	detail, err := r.store.GetMediaDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if !detail.Complete() {
		go func() {
			if err := r.refresher.Refresh(context.Background(), id); err != nil {
				r.logger.WithError(err).WithField("media", id.String()).Warn("Background detail refresh failed")
			}
		}()
	}
	return detail, nil
}

// RefreshDetail forces a network refresh of one item's full detail.
func (r *Repository) RefreshDetail(ctx context.Context, id models.Identity) error {
	return r.refresher.Refresh(ctx, id)
}

// ThemeColor resolves the poster theme color for one item, memory first,
// then the cached row.
func (r *Repository) ThemeColor(ctx context.Context, id models.Identity) (uint32, bool) {
	media, err := r.store.GetMedia(ctx, id)
	if err != nil || media.PosterPath == nil {
		return 0, false
	}
	url := media.PosterURL("w500")
	if color, ok := r.themes.Get(*url); ok {
		return color, true
	}
	if media.ThemeColor != nil {
		r.themes.Put(*url, *media.ThemeColor)
		return *media.ThemeColor, true
	}
	return 0, false
}

// SetThemeColor persists a UI-derived theme color and memoizes it
// against the poster URL.
func (r *Repository) SetThemeColor(ctx context.Context, id models.Identity, color uint32) error {
	if err := r.store.UpdateThemeColor(ctx, id, color); err != nil {
		return err
	}
	if media, err := r.store.GetMedia(ctx, id); err == nil && media.PosterPath != nil {
		r.themes.Put(*media.PosterURL("w500"), color)
	}
	return nil
}

// WatchDetail streams the item's composite detail: the cached row
// immediately (nil if absent), then a fresh read after every committed
// write that touches the item. If the cached detail is shallow, a
// background network refresh is kicked off so the stream upgrades
// itself. The stream ends when ctx is done.
func (r *Repository) WatchDetail(ctx context.Context, id models.Identity) <-chan *models.MediaDetail {
	out := make(chan *models.MediaDetail, 1)
	changes, cancel := r.store.Notifier().Subscribe(store.MediaTopic(id))

	emit := func() *models.MediaDetail {
		detail, err := r.store.GetMediaDetail(ctx, id)
		if err != nil {
			if ctx.Err() == nil {
				r.logger.WithError(err).WithField("media", id.String()).Warn("Detail read failed")
			}
			return nil
		}
		return detail
	}

	go func() {
		defer close(out)
		defer cancel()

		detail := emit()
		select {
		case out <- detail:
		case <-ctx.Done():
			return
		}

		if detail == nil || !detail.Complete() {
			go func() {
				if err := r.refresher.Refresh(ctx, id); err != nil && ctx.Err() == nil {
					r.logger.WithError(err).WithField("media", id.String()).Warn("Background detail refresh failed")
				}
			}()
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-changes:
				select {
				case out <- emit():
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
