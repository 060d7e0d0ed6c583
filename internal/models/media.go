package models

import "fmt"

// Media represents one movie or TV show row. Rows come in two shapes:
// shallow (list-endpoint fields only, written by feed page loads) and
// full (detail fields populated, DetailFetchedAt set).
type Media struct {
	ID          int         `gorm:"primaryKey;autoIncrement:false"`
	MediaType   MediaType   `gorm:"primaryKey;size:16"`
	MediaSource MediaSource `gorm:"primaryKey;size:16"`

	Title            string `gorm:"index;not null"`
	Overview         string
	PosterPath       *string
	BackdropPath     *string
	VoteAverage      *float32
	VoteCount        *int
	Popularity       *float32
	OriginalLanguage *string
	OriginalTitle    *string
	Adult            *bool

	// Epoch millis; first air date for TV, release date for movies.
	ReleaseDate *int64
	// Epoch millis of the last air date, finished TV only.
	FinishDate *int64

	Status   *Status `gorm:"size:32"`
	Tagline  *string
	Homepage *string
	ImdbID   *string
	Runtime  *int
	Budget   *int64
	Revenue  *int64
	Episodes *int

	// ARGB color derived from poster art by the UI layer, never by sync.
	ThemeColor *uint32

	// Epoch millis of the last successful detail decomposition. Nil means
	// only shallow list fields have ever been written for this row.
	DetailFetchedAt *int64
}

func (Media) TableName() string { return "media" }

// Identity is the composite key of a Media row.
type Identity struct {
	ID          int
	MediaType   MediaType
	MediaSource MediaSource
}

func (id Identity) String() string {
	return fmt.Sprintf("%s/%s/%d", id.MediaSource, id.MediaType, id.ID)
}

// Identity returns the composite key of the row.
func (m *Media) Identity() Identity {
	return Identity{ID: m.ID, MediaType: m.MediaType, MediaSource: m.MediaSource}
}

// Complete reports whether this row carries full detail fields rather
// than only shallow list-page fields.
func (m *Media) Complete() bool {
	return m.DetailFetchedAt != nil
}

const tmdbImageBase = "https://image.tmdb.org/t/p/"

// PosterURL builds the full image URL for the given TMDB size code
// (w92, w154, w342, w500, w780, original). Nil when no poster exists.
func (m *Media) PosterURL(size string) *string {
	if m.PosterPath == nil {
		return nil
	}
	url := tmdbImageBase + size + *m.PosterPath
	return &url
}

// BackdropURL builds the full backdrop URL (w300, w780, w1280, original).
func (m *Media) BackdropURL(size string) *string {
	if m.BackdropPath == nil {
		return nil
	}
	url := tmdbImageBase + size + *m.BackdropPath
	return &url
}
