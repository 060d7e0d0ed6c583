package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghost/mediabolt/internal/models"
	"github.com/ghost/mediabolt/internal/services/tmdb"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func sampleMovieDetail() *tmdb.MovieDetail {
	order0, order2 := 0, 2
	return &tmdb.MovieDetail{
		Movie: tmdb.Movie{
			ID:          550,
			Title:       strPtr("Fight Club"),
			Overview:    strPtr("An insomniac office worker..."),
			ReleaseDate: strPtr("1999-10-15"),
		},
		Status:  strPtr("Released"),
		Runtime: intPtr(139),
		Genres: []tmdb.Genre{
			{ID: 18, Name: "Drama"},
			{ID: 18, Name: "Drama"},
			{ID: 53, Name: "Thriller"},
		},
		ProductionCompanies: []tmdb.ProductionCompany{{ID: 508, Name: "Regency"}},
		ProductionCountries: []tmdb.ProductionCountry{
			{ISOCode: "US", Name: "United States of America"},
			{ISOCode: "DE", Name: "Germany"},
		},
		SpokenLanguages: []tmdb.SpokenLanguage{{ISOCode: "en", Name: "English"}},
		Credits: &tmdb.Credits{Cast: []tmdb.CastMember{
			{ID: 819, Name: strPtr("Edward Norton"), Character: strPtr("The Narrator"), Order: &order0},
			{ID: 287, Name: strPtr("Brad Pitt"), Character: strPtr("Tyler Durden")},
			{ID: 819, Name: strPtr("Edward Norton"), Character: strPtr("Duplicate"), Order: &order2},
		}},
		Keywords: &tmdb.Keywords{Keywords: []tmdb.Keyword{{ID: 825, Name: "support group"}}},
		Recommendations: &tmdb.Page[tmdb.Movie]{Results: []tmdb.Movie{
			{ID: 680, Title: strPtr("Pulp Fiction")},
			{ID: 807, Title: strPtr("Se7en")},
			{ID: 680, Title: strPtr("Pulp Fiction")},
		}},
		Similar: &tmdb.Page[tmdb.Movie]{Results: []tmdb.Movie{
			{ID: 1359, Title: strPtr("American Psycho")},
		}},
	}
}

func TestDecomposeMovieStampsCompleteness(t *testing.T) {
	dec := DecomposeMovie(sampleMovieDetail(), 1700000000000)

	require.NotNil(t, dec.Media.DetailFetchedAt)
	assert.Equal(t, int64(1700000000000), *dec.Media.DetailFetchedAt)
	assert.True(t, dec.Media.Complete())
	assert.Equal(t, models.MediaTypeMovie, dec.Media.MediaType)
	assert.Equal(t, models.SourceTMDB, dec.Media.MediaSource)
}

func TestDecomposeMovieDedupsGenres(t *testing.T) {
	dec := DecomposeMovie(sampleMovieDetail(), 1)

	assert.Len(t, dec.Genres, 2)
	assert.Len(t, dec.GenreRefs, 2)
	for _, ref := range dec.GenreRefs {
		assert.Equal(t, 550, ref.MediaID)
		assert.Equal(t, models.MediaTypeMovie, ref.MediaType)
	}
}

func TestDecomposeMovieCastFirstCreditWins(t *testing.T) {
	dec := DecomposeMovie(sampleMovieDetail(), 1)

	require.Len(t, dec.Cast, 2)
	require.Len(t, dec.CastRefs, 2)

	// Norton is credited twice; the first credit's character sticks.
	assert.Equal(t, 819, dec.CastRefs[0].PersonID)
	require.NotNil(t, dec.CastRefs[0].CharacterName)
	assert.Equal(t, "The Narrator", *dec.CastRefs[0].CharacterName)
	assert.Equal(t, 0, dec.CastRefs[0].CreditOrder)

	// Pitt has no order field: defaults to 0, not last.
	assert.Equal(t, 287, dec.CastRefs[1].PersonID)
	assert.Equal(t, 0, dec.CastRefs[1].CreditOrder)
}

func TestDecomposeMovieRelatedDisplayOrder(t *testing.T) {
	dec := DecomposeMovie(sampleMovieDetail(), 1)

	// The duplicate recommendation is dropped but order follows the
	// source list.
	require.Len(t, dec.Recommendations, 2)
	require.Len(t, dec.RecommendationRefs, 2)
	assert.Equal(t, 680, dec.RecommendationRefs[0].TargetID)
	assert.Equal(t, 0, dec.RecommendationRefs[0].DisplayOrder)
	assert.Equal(t, 807, dec.RecommendationRefs[1].TargetID)
	assert.Equal(t, 1, dec.RecommendationRefs[1].DisplayOrder)

	require.Len(t, dec.SimilarRefs, 1)
	assert.Equal(t, 1359, dec.SimilarRefs[0].TargetID)
	assert.Equal(t, 0, dec.SimilarRefs[0].DisplayOrder)
}

func TestDecomposeMovieISOKeysStable(t *testing.T) {
	first := DecomposeMovie(sampleMovieDetail(), 1)
	second := DecomposeMovie(sampleMovieDetail(), 2)

	require.Len(t, first.Countries, 2)
	require.Len(t, second.Countries, 2)
	assert.Equal(t, first.Countries[0].ID, second.Countries[0].ID)
	assert.Equal(t, CodeKey("US"), first.Countries[0].ID)
	assert.NotEqual(t, first.Countries[0].ID, first.Countries[1].ID)

	require.Len(t, first.Languages, 1)
	assert.Equal(t, CodeKey("en"), first.Languages[0].ID)
	assert.Equal(t, CodeKey("en"), first.LanguageRefs[0].LanguageID)
}

func TestDecomposeMovieAbsentCollections(t *testing.T) {
	detail := &tmdb.MovieDetail{Movie: tmdb.Movie{ID: 1, Title: strPtr("Bare")}}
	dec := DecomposeMovie(detail, 1)

	assert.Empty(t, dec.Genres)
	assert.Empty(t, dec.Keywords)
	assert.Empty(t, dec.Cast)
	assert.Empty(t, dec.CastRefs)
	assert.Empty(t, dec.Recommendations)
	assert.Empty(t, dec.Similar)
	require.NotNil(t, dec.Media.DetailFetchedAt)
}

func TestDecomposeTV(t *testing.T) {
	detail := &tmdb.TVDetail{
		TV: tmdb.TV{
			ID:           1399,
			Name:         strPtr("Game of Thrones"),
			FirstAirDate: strPtr("2011-04-17"),
		},
		Status:           strPtr("Ended"),
		LastAirDate:      strPtr("2019-05-19"),
		NumberOfEpisodes: intPtr(73),
		EpisodeRunTime:   []int{60},
		Genres:           []tmdb.Genre{{ID: 10765, Name: "Sci-Fi & Fantasy"}},
		Credits: &tmdb.Credits{Cast: []tmdb.CastMember{
			{ID: 22970, Name: strPtr("Peter Dinklage"), Character: strPtr("Tyrion Lannister")},
		}},
	}

	dec := DecomposeTV(detail, 42)

	assert.Equal(t, models.MediaTypeTV, dec.Media.MediaType)
	require.NotNil(t, dec.Media.Status)
	assert.Equal(t, models.StatusEnded, *dec.Media.Status)
	require.NotNil(t, dec.Media.FinishDate)
	require.NotNil(t, dec.Media.Episodes)
	assert.Equal(t, 73, *dec.Media.Episodes)
	require.NotNil(t, dec.Media.Runtime)
	assert.Equal(t, 60, *dec.Media.Runtime)
	assert.Len(t, dec.GenreRefs, 1)
	assert.Equal(t, models.MediaTypeTV, dec.GenreRefs[0].MediaType)
	assert.Len(t, dec.CastRefs, 1)
}
