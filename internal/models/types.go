package models

import (
	"strings"
	"time"
)

// MediaType represents the kind of media (movie, tv show or anime)
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
	MediaTypeAnime MediaType = "anime"
)

// ParseMediaType parses a media type string case-insensitively.
// Unknown values return false.
func ParseMediaType(value string) (MediaType, bool) {
	switch strings.ToLower(value) {
	case "movie":
		return MediaTypeMovie, true
	case "tv":
		return MediaTypeTV, true
	case "anime":
		return MediaTypeAnime, true
	}
	return "", false
}

// MediaSource represents the catalog provider a media item came from.
// The same numeric ID can collide across providers, so identity is
// always (ID, MediaType, MediaSource), never the bare integer.
type MediaSource string

const (
	SourceTMDB    MediaSource = "tmdb"
	SourceAniList MediaSource = "anilist"
)

// ParseMediaSource parses a provider string case-insensitively.
func ParseMediaSource(value string) (MediaSource, bool) {
	switch strings.ToLower(value) {
	case "tmdb":
		return SourceTMDB, true
	case "anilist":
		return SourceAniList, true
	}
	return "", false
}

// Status represents the lifecycle status of a media item as reported
// by the provider
type Status string

const (
	StatusRumored         Status = "RUMORED"
	StatusPlanned         Status = "PLANNED"
	StatusInProduction    Status = "IN_PRODUCTION"
	StatusPostProduction  Status = "POST_PRODUCTION"
	StatusReleased        Status = "RELEASED"
	StatusCanceled        Status = "CANCELED"
	StatusEnded           Status = "ENDED"
	StatusReturningSeries Status = "RETURNING_SERIES"
)

var knownStatuses = []Status{
	StatusRumored, StatusPlanned, StatusInProduction, StatusPostProduction,
	StatusReleased, StatusCanceled, StatusEnded, StatusReturningSeries,
}

// ParseStatus maps a provider status string ("Released", "Returning Series")
// to a Status. Matching is case-insensitive with spaces treated as
// underscores; unknown values yield nil.
func ParseStatus(value string) *Status {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(value), " ", "_"))
	for _, s := range knownStatuses {
		if string(s) == normalized {
			status := s
			return &status
		}
	}
	return nil
}

// RefreshFrequency controls how often a category feed is refreshed
// from the network instead of served from cache.
type RefreshFrequency string

const (
	RefreshDaily   RefreshFrequency = "daily"
	RefreshWeekly  RefreshFrequency = "weekly"
	RefreshMonthly RefreshFrequency = "monthly"
	RefreshYearly  RefreshFrequency = "yearly"
)

// Window returns the wall-clock duration a cached feed stays fresh.
func (f RefreshFrequency) Window() time.Duration {
	switch f {
	case RefreshWeekly:
		return 7 * 24 * time.Hour
	case RefreshMonthly:
		return 30 * 24 * time.Hour
	case RefreshYearly:
		return 365 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}
