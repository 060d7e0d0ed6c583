package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghost/mediabolt/internal/models"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	db, err := Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func movie(id int, title string) models.Media {
	return models.Media{
		ID:          id,
		MediaType:   models.MediaTypeMovie,
		MediaSource: models.SourceTMDB,
		Title:       title,
	}
}

func movieID(id int) models.Identity {
	return models.Identity{ID: id, MediaType: models.MediaTypeMovie, MediaSource: models.SourceTMDB}
}

func TestOpenSeedsCategories(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	category, err := db.GetCategory(ctx, models.CategoryTopRated)
	require.NoError(t, err)
	assert.Equal(t, "Top Rated", category.Name)
	assert.Equal(t, models.RefreshWeekly, category.RefreshFrequency)

	_, err = db.GetCategory(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoteKeyRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	// Absent cursor is not an error.
	key, err := db.GetRemoteKey(ctx, "popular_movie")
	require.NoError(t, err)
	assert.Nil(t, key)

	two := 2
	require.NoError(t, db.UpsertRemoteKey(ctx, models.RemoteKey{
		Label: "popular_movie", NextPage: &two, LastUpdated: 1000,
	}))

	key, err = db.GetRemoteKey(ctx, "popular_movie")
	require.NoError(t, err)
	require.NotNil(t, key)
	require.NotNil(t, key.NextPage)
	assert.Equal(t, 2, *key.NextPage)

	// Upsert overwrites, including a nil next page.
	require.NoError(t, db.UpsertRemoteKey(ctx, models.RemoteKey{
		Label: "popular_movie", NextPage: nil, LastUpdated: 2000,
	}))
	key, err = db.GetRemoteKey(ctx, "popular_movie")
	require.NoError(t, err)
	require.NotNil(t, key)
	assert.Nil(t, key.NextPage)
	assert.Equal(t, int64(2000), key.LastUpdated)

	require.NoError(t, db.DeleteRemoteKey(ctx, "popular_movie"))
	key, err = db.GetRemoteKey(ctx, "popular_movie")
	require.NoError(t, err)
	assert.Nil(t, key)

	// Deleting an absent cursor is fine.
	require.NoError(t, db.DeleteRemoteKey(ctx, "never_existed"))
}

func TestGetMediaByIdentityTriple(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	// Same numeric ID under two kinds must stay two rows.
	require.NoError(t, db.UpsertMedia(ctx, []models.Media{
		movie(100, "Movie 100"),
		{ID: 100, MediaType: models.MediaTypeTV, MediaSource: models.SourceTMDB, Title: "Show 100"},
	}))

	m, err := db.GetMedia(ctx, movieID(100))
	require.NoError(t, err)
	assert.Equal(t, "Movie 100", m.Title)

	tv, err := db.GetMedia(ctx, models.Identity{ID: 100, MediaType: models.MediaTypeTV, MediaSource: models.SourceTMDB})
	require.NoError(t, err)
	assert.Equal(t, "Show 100", tv.Title)

	_, err = db.GetMedia(ctx, movieID(101))
	assert.ErrorIs(t, err, ErrNotFound)
}

func commitPage(t *testing.T, db *Database, categoryID int, page int, media []models.Media) {
	t.Helper()
	next := page + 1
	require.NoError(t, db.CommitPage(context.Background(), models.PageCommit{
		Label:      "popular_movie",
		Refresh:    page == 1,
		CategoryID: &categoryID,
		NextPage:   &next,
		FetchedAt:  int64(page) * 1000,
		Media:      media,
	}))
}

func TestCommitPagePlacements(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	mt := models.MediaTypeMovie

	commitPage(t, db, models.CategoryPopular, 1, []models.Media{
		movie(1, "X"), movie(2, "Y"), movie(3, "Z"),
	})

	items, err := db.ListByCategory(ctx, models.CategoryPopular, &mt, 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "X", items[0].Title)
	assert.Equal(t, "Z", items[2].Title)

	// The appended page lands after the existing placements.
	commitPage(t, db, models.CategoryPopular, 2, []models.Media{movie(4, "W")})

	items, err = db.ListByCategory(ctx, models.CategoryPopular, &mt, 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, "W", items[3].Title)

	last, err := db.LastPositionInCategory(ctx, models.CategoryPopular)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, 3, *last)
}

func TestCommitPageRefreshClearsFeed(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	mt := models.MediaTypeMovie

	commitPage(t, db, models.CategoryPopular, 1, []models.Media{movie(1, "X"), movie(2, "Y")})
	commitPage(t, db, models.CategoryPopular, 2, []models.Media{movie(3, "Z")})

	// Refresh replaces all placements and restarts positions at zero.
	commitPage(t, db, models.CategoryPopular, 1, []models.Media{movie(5, "New")})

	items, err := db.ListByCategory(ctx, models.CategoryPopular, &mt, 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "New", items[0].Title)

	// Old rows stay in media, only placements were cleared.
	_, err = db.GetMedia(ctx, movieID(1))
	require.NoError(t, err)

	key, err := db.GetRemoteKey(ctx, "popular_movie")
	require.NoError(t, err)
	require.NotNil(t, key)
	require.NotNil(t, key.NextPage)
	assert.Equal(t, 2, *key.NextPage)
}

func sampleDecomposition(id int, cast ...int) models.Decomposition {
	m := movie(id, "Decomposed")
	stamp := int64(5000)
	m.DetailFetchedAt = &stamp
	owner := m.Identity()

	dec := models.Decomposition{
		Media:     m,
		Genres:    []models.Genre{{ID: 18, Name: "Drama"}},
		GenreRefs: []models.MediaGenre{{MediaID: owner.ID, MediaType: owner.MediaType, MediaSource: owner.MediaSource, GenreID: 18}},
	}
	for i, personID := range cast {
		dec.Cast = append(dec.Cast, models.Person{ID: personID, Name: "Person"})
		dec.CastRefs = append(dec.CastRefs, models.MediaCast{
			MediaID: owner.ID, MediaType: owner.MediaType, MediaSource: owner.MediaSource,
			PersonID: personID, CreditOrder: i,
		})
	}
	return dec
}

func TestSaveDecompositionReplacesCast(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SaveDecomposition(ctx, sampleDecomposition(10, 1, 2)))

	detail, err := db.GetMediaDetail(ctx, movieID(10))
	require.NoError(t, err)
	require.Len(t, detail.Cast, 2)
	assert.True(t, detail.Complete())

	// The next refresh credits only one person; the stale edge must go.
	require.NoError(t, db.SaveDecomposition(ctx, sampleDecomposition(10, 1)))

	detail, err = db.GetMediaDetail(ctx, movieID(10))
	require.NoError(t, err)
	require.Len(t, detail.Cast, 1)
	assert.Equal(t, 1, detail.Cast[0].Person.ID)
}

func TestReferenceEntitiesInsertIfAbsent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.InsertGenres(ctx, []models.Genre{{ID: 18, Name: "Drama"}}))
	// A later sighting with a different spelling does not clobber.
	require.NoError(t, db.InsertGenres(ctx, []models.Genre{{ID: 18, Name: "DRAMA!!"}}))

	dec := sampleDecomposition(11)
	require.NoError(t, db.SaveDecomposition(ctx, dec))

	detail, err := db.GetMediaDetail(ctx, movieID(11))
	require.NoError(t, err)
	require.Len(t, detail.Genres, 1)
	assert.Equal(t, "Drama", detail.Genres[0].Name)
}

func TestSearchByTitle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	mt := models.MediaTypeMovie

	pop := func(p float32) *float32 { return &p }
	a := movie(1, "Fight Club")
	a.Popularity = pop(60)
	b := movie(2, "Fight Club 2")
	b.Popularity = pop(90)
	c := movie(3, "Unrelated")
	require.NoError(t, db.UpsertMedia(ctx, []models.Media{a, b, c}))

	items, err := db.SearchByTitle(ctx, "fight", &mt, 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Fight Club 2", items[0].Title, "popularity orders results")
}

func TestWithTxRollsBack(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	failure := errors.New("abort")
	err := db.WithTx(ctx, func(tx *Database) error {
		if err := tx.UpsertMedia(ctx, []models.Media{movie(50, "Ghost")}); err != nil {
			return err
		}
		return failure
	})
	require.ErrorIs(t, err, failure)

	_, err = db.GetMedia(ctx, movieID(50))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotifierPublishOnCommit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	ch, cancel := db.Notifier().Subscribe(MediaTopic(movieID(10)))
	defer cancel()

	require.NoError(t, db.SaveDecomposition(ctx, sampleDecomposition(10, 1)))

	select {
	case <-ch:
	default:
		t.Fatal("expected a change notification after commit")
	}
}
