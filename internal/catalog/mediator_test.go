package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghost/mediabolt/internal/models"
)

// fakeStore records commits and serves cursors from memory.
type fakeStore struct {
	keys       map[string]models.RemoteKey
	categories map[int]models.Category
	commits    []models.PageCommit

	keyErr    error
	commitErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		keys:       make(map[string]models.RemoteKey),
		categories: make(map[int]models.Category),
	}
}

func (s *fakeStore) GetRemoteKey(_ context.Context, label string) (*models.RemoteKey, error) {
	if s.keyErr != nil {
		return nil, s.keyErr
	}
	key, ok := s.keys[label]
	if !ok {
		return nil, nil
	}
	return &key, nil
}

func (s *fakeStore) GetCategory(_ context.Context, id int) (*models.Category, error) {
	category, ok := s.categories[id]
	if !ok {
		return nil, errors.New("no such category")
	}
	return &category, nil
}

// CommitPage mirrors the real store: cursor and rows land together or
// not at all.
func (s *fakeStore) CommitPage(_ context.Context, commit models.PageCommit) error {
	if s.commitErr != nil {
		return s.commitErr
	}
	s.commits = append(s.commits, commit)
	s.keys[commit.Label] = models.RemoteKey{
		Label:       commit.Label,
		NextPage:    commit.NextPage,
		LastUpdated: commit.FetchedAt,
	}
	return nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

// pagedFetcher serves totalPages pages of pageSize items, then empties.
type pagedFetcher struct {
	totalPages int
	pageSize   int
	fetched    []int
	err        error
}

func (f *pagedFetcher) FetchPage(_ context.Context, page int) ([]models.Media, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.fetched = append(f.fetched, page)
	if page > f.totalPages {
		return nil, nil
	}
	media := make([]models.Media, f.pageSize)
	for i := range media {
		media[i] = models.Media{
			ID:          (page-1)*f.pageSize + i + 1,
			MediaType:   models.MediaTypeMovie,
			MediaSource: models.SourceTMDB,
			Title:       fmt.Sprintf("Movie %d", (page-1)*f.pageSize+i+1),
		}
	}
	return media, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestInitializeColdStart(t *testing.T) {
	store := newFakeStore()
	m := NewMediator(store, &pagedFetcher{totalPages: 3, pageSize: 2}, "popular_movie", FixedWindow(time.Hour), testLogger())

	action, err := m.Initialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, LaunchRefresh, action)
}

func TestInitializeFreshnessGate(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	two := 2
	store.keys["popular_movie"] = models.RemoteKey{
		Label:       "popular_movie",
		NextPage:    &two,
		LastUpdated: now.Add(-2 * time.Hour).UnixMilli(),
	}

	// A 2h-old cursor is stale against a 1h window.
	m := NewMediator(store, &pagedFetcher{}, "popular_movie", FixedWindow(time.Hour), testLogger()).WithClock(fixedClock(now))
	action, err := m.Initialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, LaunchRefresh, action)

	// The same cursor is fresh against a 6h window.
	m = NewMediator(store, &pagedFetcher{}, "popular_movie", FixedWindow(6*time.Hour), testLogger()).WithClock(fixedClock(now))
	action, err = m.Initialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SkipRefresh, action)
}

func TestInitializeCategoryWindow(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	store.categories[models.CategoryTopRated] = models.Category{
		ID:               models.CategoryTopRated,
		Name:             "Top Rated",
		RefreshFrequency: models.RefreshWeekly,
	}
	two := 2
	store.keys["top_rated_movie"] = models.RemoteKey{
		Label:       "top_rated_movie",
		NextPage:    &two,
		LastUpdated: now.Add(-48 * time.Hour).UnixMilli(),
	}

	// Two days old is fresh for a weekly category.
	m := NewCategoryMediator(store, &pagedFetcher{}, models.CategoryTopRated, "top_rated_movie", testLogger()).WithClock(fixedClock(now))
	action, err := m.Initialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SkipRefresh, action)

	// A missing category row falls back to the daily window.
	m = NewCategoryMediator(store, &pagedFetcher{}, models.CategoryPopular, "top_rated_movie", testLogger()).WithClock(fixedClock(now))
	action, err = m.Initialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, LaunchRefresh, action)
}

func TestLoadRefreshCommitsPageOne(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	categoryID := models.CategoryPopular
	m := NewCategoryMediator(store, &pagedFetcher{totalPages: 3, pageSize: 2}, categoryID, "popular_movie", testLogger()).WithClock(fixedClock(now))

	result := m.Load(context.Background(), LoadRefresh)
	require.NoError(t, result.Err)
	assert.False(t, result.EndOfPagination)

	require.Len(t, store.commits, 1)
	commit := store.commits[0]
	assert.True(t, commit.Refresh)
	require.NotNil(t, commit.CategoryID)
	assert.Equal(t, categoryID, *commit.CategoryID)
	require.NotNil(t, commit.NextPage)
	assert.Equal(t, 2, *commit.NextPage)
	assert.Equal(t, now.UnixMilli(), commit.FetchedAt)
	assert.Len(t, commit.Media, 2)
}

func TestLoadAppendCursorMonotonicity(t *testing.T) {
	store := newFakeStore()
	fetcher := &pagedFetcher{totalPages: 3, pageSize: 2}
	m := NewMediator(store, fetcher, "popular_movie", FixedWindow(time.Hour), testLogger())

	result := m.Load(context.Background(), LoadRefresh)
	require.NoError(t, result.Err)

	// Appends walk 2, 3, then 4 which comes back empty.
	for i := 0; i < 2; i++ {
		result = m.Load(context.Background(), LoadAppend)
		require.NoError(t, result.Err)
		assert.False(t, result.EndOfPagination)
	}
	result = m.Load(context.Background(), LoadAppend)
	require.NoError(t, result.Err)
	assert.True(t, result.EndOfPagination)

	assert.Equal(t, []int{1, 2, 3, 4}, fetcher.fetched)

	// The empty page nils the cursor.
	key := store.keys["popular_movie"]
	assert.Nil(t, key.NextPage)
}

func TestLoadAppendExhaustedCursorSkipsNetwork(t *testing.T) {
	store := newFakeStore()
	store.keys["popular_movie"] = models.RemoteKey{
		Label:       "popular_movie",
		NextPage:    nil,
		LastUpdated: time.Now().UnixMilli(),
	}
	fetcher := &pagedFetcher{totalPages: 3, pageSize: 2}
	m := NewMediator(store, fetcher, "popular_movie", FixedWindow(time.Hour), testLogger())

	result := m.Load(context.Background(), LoadAppend)
	require.NoError(t, result.Err)
	assert.True(t, result.EndOfPagination)
	assert.Empty(t, fetcher.fetched, "exhausted cursor must not hit the network")
	assert.Empty(t, store.commits)
}

func TestLoadAppendMissingCursorEndsPagination(t *testing.T) {
	store := newFakeStore()
	m := NewMediator(store, &pagedFetcher{totalPages: 3, pageSize: 2}, "popular_movie", FixedWindow(time.Hour), testLogger())

	result := m.Load(context.Background(), LoadAppend)
	require.NoError(t, result.Err)
	assert.True(t, result.EndOfPagination)
	assert.Empty(t, store.commits)
}

func TestLoadPrependAlwaysEnds(t *testing.T) {
	store := newFakeStore()
	fetcher := &pagedFetcher{totalPages: 3, pageSize: 2}
	m := NewMediator(store, fetcher, "popular_movie", FixedWindow(time.Hour), testLogger())

	result := m.Load(context.Background(), LoadPrepend)
	require.NoError(t, result.Err)
	assert.True(t, result.EndOfPagination)
	assert.Empty(t, fetcher.fetched)
}

func TestLoadFetchErrorLeavesStoreUntouched(t *testing.T) {
	store := newFakeStore()
	fetchErr := errors.New("boom")
	m := NewMediator(store, &pagedFetcher{err: fetchErr}, "popular_movie", FixedWindow(time.Hour), testLogger())

	result := m.Load(context.Background(), LoadRefresh)
	require.ErrorIs(t, result.Err, fetchErr)
	assert.Empty(t, store.commits)
	_, ok := store.keys["popular_movie"]
	assert.False(t, ok, "failed load must not advance the cursor")
}

func TestLoadCommitErrorSurfaces(t *testing.T) {
	store := newFakeStore()
	store.commitErr = errors.New("disk full")
	m := NewMediator(store, &pagedFetcher{totalPages: 3, pageSize: 2}, "popular_movie", FixedWindow(time.Hour), testLogger())

	result := m.Load(context.Background(), LoadRefresh)
	require.ErrorIs(t, result.Err, store.commitErr)
	_, ok := store.keys["popular_movie"]
	assert.False(t, ok)
}

func TestRefreshAfterStaleRestartsAtPageOne(t *testing.T) {
	store := newFakeStore()
	fetcher := &pagedFetcher{totalPages: 5, pageSize: 2}
	m := NewMediator(store, fetcher, "popular_movie", FixedWindow(time.Hour), testLogger())

	require.NoError(t, m.Load(context.Background(), LoadRefresh).Err)
	require.NoError(t, m.Load(context.Background(), LoadAppend).Err)

	// A later refresh starts over and flags the feed for clearing.
	result := m.Load(context.Background(), LoadRefresh)
	require.NoError(t, result.Err)

	last := store.commits[len(store.commits)-1]
	assert.True(t, last.Refresh)
	require.NotNil(t, last.NextPage)
	assert.Equal(t, 2, *last.NextPage)
	assert.Equal(t, []int{1, 2, 1}, fetcher.fetched)
}
