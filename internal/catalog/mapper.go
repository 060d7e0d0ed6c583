package catalog

import (
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/ghost/mediabolt/internal/models"
	"github.com/ghost/mediabolt/internal/services/tmdb"
)

// CodeKey derives the stable numeric key for reference entities the
// provider only identifies by a string code (ISO country and language
// codes). It must stay a pure function of the code: repeated
// decomposition of the same input has to produce identical keys.
func CodeKey(code string) int64 {
	return int64(xxhash.Sum64String(code))
}

// epochMillis parses a provider "YYYY-MM-DD" date to epoch millis at
// UTC midnight. Malformed or empty dates yield nil.
func epochMillis(date *string) *int64 {
	if date == nil || *date == "" {
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", *date, time.UTC)
	if err != nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func orUnknown(s *string) string {
	if s == nil {
		return "Unknown"
	}
	return *s
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toFloat32(f *float64) *float32 {
	if f == nil {
		return nil
	}
	v := float32(*f)
	return &v
}

// MovieToMedia maps a shallow list-endpoint movie. Detail-only fields
// stay nil; a later detail refresh fills them.
func MovieToMedia(m tmdb.Movie) models.Media {
	return models.Media{
		ID:          m.ID,
		MediaType:   models.MediaTypeMovie,
		MediaSource: models.SourceTMDB,

		Title:            orUnknown(m.Title),
		Overview:         orEmpty(m.Overview),
		PosterPath:       m.PosterPath,
		BackdropPath:     m.BackdropPath,
		VoteAverage:      toFloat32(m.VoteAverage),
		VoteCount:        m.VoteCount,
		Popularity:       toFloat32(m.Popularity),
		ReleaseDate:      epochMillis(m.ReleaseDate),
		OriginalLanguage: m.OriginalLanguage,
		OriginalTitle:    m.OriginalTitle,
		Adult:            m.Adult,
	}
}

// TVToMedia maps a shallow list-endpoint tv show.
func TVToMedia(t tmdb.TV) models.Media {
	return models.Media{
		ID:          t.ID,
		MediaType:   models.MediaTypeTV,
		MediaSource: models.SourceTMDB,

		Title:            orUnknown(t.Name),
		Overview:         orEmpty(t.Overview),
		PosterPath:       t.PosterPath,
		BackdropPath:     t.BackdropPath,
		VoteAverage:      toFloat32(t.VoteAverage),
		VoteCount:        t.VoteCount,
		Popularity:       toFloat32(t.Popularity),
		ReleaseDate:      epochMillis(t.FirstAirDate),
		OriginalLanguage: t.OriginalLanguage,
		OriginalTitle:    t.OriginalName,
		Adult:            t.Adult,
	}
}

func movieDetailToMedia(d *tmdb.MovieDetail) models.Media {
	media := MovieToMedia(d.Movie)
	if d.Status != nil {
		media.Status = models.ParseStatus(*d.Status)
	}
	media.Homepage = d.Homepage
	media.ImdbID = d.ImdbID
	media.Tagline = d.Tagline
	media.Revenue = d.Revenue
	media.Runtime = d.Runtime
	media.Budget = d.Budget
	return media
}

func tvDetailToMedia(d *tmdb.TVDetail) models.Media {
	media := TVToMedia(d.TV)
	if d.Status != nil {
		media.Status = models.ParseStatus(*d.Status)
	}
	media.Homepage = d.Homepage
	media.Tagline = d.Tagline
	media.FinishDate = epochMillis(d.LastAirDate)
	media.Episodes = d.NumberOfEpisodes
	// Movies report a single runtime; tv reports per-episode runtimes and
	// the first entry wins.
	if len(d.EpisodeRunTime) > 0 {
		runtime := d.EpisodeRunTime[0]
		media.Runtime = &runtime
	}
	return media
}

func mapMovies(movies []tmdb.Movie) []models.Media {
	media := make([]models.Media, 0, len(movies))
	for _, m := range movies {
		media = append(media, MovieToMedia(m))
	}
	return media
}

func mapTV(shows []tmdb.TV) []models.Media {
	media := make([]models.Media, 0, len(shows))
	for _, t := range shows {
		media = append(media, TVToMedia(t))
	}
	return media
}
