package catalog

import (
	"context"
	"time"

	"github.com/ghost/mediabolt/internal/models"
	"github.com/sirupsen/logrus"
)

// LoadType is the direction of one paging load.
type LoadType int

const (
	LoadRefresh LoadType = iota
	LoadPrepend
	LoadAppend
)

func (t LoadType) String() string {
	switch t {
	case LoadRefresh:
		return "refresh"
	case LoadPrepend:
		return "prepend"
	default:
		return "append"
	}
}

// InitializeAction is the outcome of the freshness gate.
type InitializeAction int

const (
	// LaunchRefresh means the cache is stale (or cold) and page 1 should
	// be refetched before serving.
	LaunchRefresh InitializeAction = iota
	// SkipRefresh means the cached feed is fresh enough to serve as-is.
	SkipRefresh
)

// Result is the outcome of one load, surfaced to the paging consumer as
// a value rather than a raw error.
type Result struct {
	// EndOfPagination is set when the feed is exhausted. Meaningless when
	// Err is non-nil.
	EndOfPagination bool
	Err             error
}

func success(end bool) Result { return Result{EndOfPagination: end} }
func failure(err error) Result { return Result{Err: err} }

// PageFetcher fetches one network page for a feed and maps it to shallow
// media rows. Per-provider and per-category specifics live behind this
// interface; the engine owns freshness and transaction orchestration.
type PageFetcher interface {
	FetchPage(ctx context.Context, page int) ([]models.Media, error)
}

// FetchFunc adapts a function to PageFetcher.
type FetchFunc func(ctx context.Context, page int) ([]models.Media, error)

func (f FetchFunc) FetchPage(ctx context.Context, page int) ([]models.Media, error) {
	return f(ctx, page)
}

// FreshnessFunc computes the feed's freshness window at initialize time.
type FreshnessFunc func(ctx context.Context) (time.Duration, error)

// FixedWindow is the freshness policy of search and discover feeds.
func FixedWindow(window time.Duration) FreshnessFunc {
	return func(context.Context) (time.Duration, error) {
		return window, nil
	}
}

// Store is the slice of the relational store the mediator needs. The
// CommitPage implementation must be atomic.
type Store interface {
	GetRemoteKey(ctx context.Context, label string) (*models.RemoteKey, error)
	GetCategory(ctx context.Context, id int) (*models.Category, error)
	CommitPage(ctx context.Context, commit models.PageCommit) error
}

// Mediator drives one feed's sync cycle: the freshness gate at
// initialize, then sequential page loads that commit network pages into
// the store and advance the cursor. Callers must not run two loads for
// the same feed label concurrently; cursor read-modify-write is not
// optimistically locked.
type Mediator struct {
	store     Store
	fetcher   PageFetcher
	label     string
	freshness FreshnessFunc
	// Set only for category feeds, which own placement rows.
	categoryID *int

	now    func() time.Time
	logger *logrus.Logger
}

// NewMediator builds a mediator for a feed without placement ownership
// (search, discover).
func NewMediator(store Store, fetcher PageFetcher, label string, freshness FreshnessFunc, logger *logrus.Logger) *Mediator {
	return &Mediator{
		store:     store,
		fetcher:   fetcher,
		label:     label,
		freshness: freshness,
		now:       time.Now,
		logger:    logger,
	}
}

// NewCategoryMediator builds a mediator that owns a category's placement
// rows and gates refreshes on the category's refresh frequency.
func NewCategoryMediator(store Store, fetcher PageFetcher, categoryID int, label string, logger *logrus.Logger) *Mediator {
	m := NewMediator(store, fetcher, label, nil, logger)
	m.categoryID = &categoryID
	m.freshness = func(ctx context.Context) (time.Duration, error) {
		category, err := store.GetCategory(ctx, categoryID)
		if err != nil || category == nil {
			// Missing category row: daily, the safe default.
			return models.RefreshDaily.Window(), nil
		}
		return category.RefreshFrequency.Window(), nil
	}
	return m
}

// Label returns the feed's cursor label.
func (m *Mediator) Label() string { return m.label }

// WithClock substitutes the time source, for tests.
func (m *Mediator) WithClock(now func() time.Time) *Mediator {
	m.now = now
	return m
}

// Initialize reads the feed's cursor and decides whether the first load
// should refresh or serve cache. A feed with no cursor always refreshes.
func (m *Mediator) Initialize(ctx context.Context) (InitializeAction, error) {
	key, err := m.store.GetRemoteKey(ctx, m.label)
	if err != nil {
		return LaunchRefresh, err
	}
	if key == nil || key.LastUpdated == 0 {
		return LaunchRefresh, nil
	}

	window, err := m.freshness(ctx)
	if err != nil {
		return LaunchRefresh, err
	}

	age := m.now().UnixMilli() - key.LastUpdated
	if age < window.Milliseconds() {
		m.logger.WithFields(logrus.Fields{
			"feed":   m.label,
			"age_ms": age,
		}).Debug("Cache fresh, skipping initial refresh")
		refreshSkips.Inc()
		return SkipRefresh, nil
	}
	return LaunchRefresh, nil
}

// Load executes one paging load. Refresh fetches page 1 and clears the
// feed's prior state inside the commit transaction; append continues
// from the cursor; prepend always reports end-of-pagination since there
// is nothing newer than page 1 short of a refresh. Errors from the
// network or commit are returned as a Result value, with the store left
// exactly as the last successful commit left it.
func (m *Mediator) Load(ctx context.Context, loadType LoadType) Result {
	result, items := m.load(ctx, loadType)
	recordLoad(loadType, result, items)
	return result
}

func (m *Mediator) load(ctx context.Context, loadType LoadType) (Result, int) {
	var page int
	switch loadType {
	case LoadRefresh:
		page = 1
	case LoadPrepend:
		return success(true), 0
	case LoadAppend:
		key, err := m.store.GetRemoteKey(ctx, m.label)
		if err != nil {
			return failure(err), 0
		}
		if key == nil || key.NextPage == nil {
			return success(true), 0
		}
		page = *key.NextPage
	}

	m.logger.WithFields(logrus.Fields{
		"feed": m.label,
		"page": page,
		"load": loadType.String(),
	}).Debug("Loading feed page")

	media, err := m.fetcher.FetchPage(ctx, page)
	if err != nil {
		m.logger.WithError(err).WithField("feed", m.label).Error("Feed page load failed")
		return failure(err), 0
	}

	endOfPagination := len(media) == 0
	var nextPage *int
	if !endOfPagination {
		next := page + 1
		nextPage = &next
	}

	commit := models.PageCommit{
		Label:      m.label,
		Refresh:    loadType == LoadRefresh,
		CategoryID: m.categoryID,
		NextPage:   nextPage,
		FetchedAt:  m.now().UnixMilli(),
		Media:      media,
	}
	if err := m.store.CommitPage(ctx, commit); err != nil {
		m.logger.WithError(err).WithField("feed", m.label).Error("Feed page commit failed")
		return failure(err), 0
	}

	return success(endOfPagination), len(media)
}
