package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghost/mediabolt/internal/config"
	"github.com/ghost/mediabolt/internal/models"
	"github.com/ghost/mediabolt/internal/services/tmdb"
	"github.com/ghost/mediabolt/internal/store"
)

func openTestRepo(t *testing.T) (*Repository, *store.Database) {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{TMDBAPIKey: "test-key", Language: "en-US"}
	client, err := tmdb.NewClient(cfg, logger)
	require.NoError(t, err)

	return New(db, client, cfg, logger), db
}

func fightClub() models.Media {
	poster := "/poster.jpg"
	stamp := int64(1000)
	return models.Media{
		ID:              550,
		MediaType:       models.MediaTypeMovie,
		MediaSource:     models.SourceTMDB,
		Title:           "Fight Club",
		PosterPath:      &poster,
		DetailFetchedAt: &stamp,
	}
}

func TestThemeColorRoundTrip(t *testing.T) {
	repo, db := openTestRepo(t)
	ctx := context.Background()

	media := fightClub()
	require.NoError(t, db.UpsertMedia(ctx, []models.Media{media}))
	id := media.Identity()

	_, ok := repo.ThemeColor(ctx, id)
	assert.False(t, ok, "no color stored yet")

	require.NoError(t, repo.SetThemeColor(ctx, id, 0xFF336699))

	color, ok := repo.ThemeColor(ctx, id)
	require.True(t, ok)
	assert.Equal(t, uint32(0xFF336699), color)

	// A list-page overwrite wipes the row's color; the memo keyed by
	// poster URL still answers.
	require.NoError(t, db.UpsertMedia(ctx, []models.Media{fightClub()}))
	color, ok = repo.ThemeColor(ctx, id)
	require.True(t, ok)
	assert.Equal(t, uint32(0xFF336699), color)
}

func TestThemeColorWithoutPoster(t *testing.T) {
	repo, db := openTestRepo(t)
	ctx := context.Background()

	media := fightClub()
	media.PosterPath = nil
	require.NoError(t, db.UpsertMedia(ctx, []models.Media{media}))

	_, ok := repo.ThemeColor(ctx, media.Identity())
	assert.False(t, ok)
}

func TestWatchDetailEmitsOnChange(t *testing.T) {
	repo, db := openTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	media := fightClub()
	require.NoError(t, db.UpsertMedia(context.Background(), []models.Media{media}))
	id := media.Identity()

	ch := repo.WatchDetail(ctx, id)

	select {
	case detail := <-ch:
		require.NotNil(t, detail)
		assert.Equal(t, "Fight Club", detail.Media.Title)
		assert.True(t, detail.Complete())
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for initial detail")
	}

	// A committed write to the item re-emits a fresh read.
	require.NoError(t, db.UpdateThemeColor(context.Background(), id, 0xFF000000))

	select {
	case detail := <-ch:
		require.NotNil(t, detail)
		require.NotNil(t, detail.Media.ThemeColor)
		assert.Equal(t, uint32(0xFF000000), *detail.Media.ThemeColor)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change emission")
	}

	cancel()
	select {
	case _, open := <-ch:
		assert.False(t, open, "stream should end with the context")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for stream close")
	}
}
