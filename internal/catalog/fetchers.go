package catalog

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/sirupsen/logrus"

	"github.com/ghost/mediabolt/internal/config"
	"github.com/ghost/mediabolt/internal/models"
	"github.com/ghost/mediabolt/internal/services/tmdb"
)

// Freshness windows for the feeds without a category row of their own.
const (
	SearchFreshness   = time.Hour
	DiscoverFreshness = 6 * time.Hour
)

// Trending time window sent to the trending endpoint.
const trendingWindow = "day"

// listPath maps a browse category to the TMDB list endpoint for a media
// type. Upcoming and Now Playing only exist for movies on TMDB; the TV
// side uses the closest equivalents, on_the_air and airing_today.
func listPath(categoryID int, mediaType models.MediaType) (string, error) {
	switch categoryID {
	case models.CategoryPopular:
		return "popular", nil
	case models.CategoryTopRated:
		return "top_rated", nil
	case models.CategoryTrending:
		return "trending", nil
	case models.CategoryUpcoming:
		if mediaType == models.MediaTypeTV {
			return "on_the_air", nil
		}
		return "upcoming", nil
	case models.CategoryNowPlaying:
		if mediaType == models.MediaTypeTV {
			return "airing_today", nil
		}
		return "now_playing", nil
	default:
		return "", unsupportedCategory(models.SourceTMDB, strconv.Itoa(categoryID), mediaType)
	}
}

// CategoryFeedLabel is the cursor label for a browse feed, e.g.
// "popular_movie".
func CategoryFeedLabel(categoryID int, mediaType models.MediaType) (string, error) {
	path, err := listPath(categoryID, mediaType)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", path, mediaType), nil
}

// SearchFeedLabel is the cursor label for a search feed. Each distinct
// query owns its own cursor so pages of different queries never mix.
func SearchFeedLabel(mediaType models.MediaType, query string) string {
	return fmt.Sprintf("search_query_%s_%s", mediaType, query)
}

// NewCategoryFetcher builds the page fetcher for one browse feed.
// Seasonal has no TMDB endpoint and anime is not served by TMDB at all;
// both fail with a ConfigError before any network traffic.
func NewCategoryFetcher(client *tmdb.Client, cfg *config.Config, categoryID int, mediaType models.MediaType) (PageFetcher, error) {
	if mediaType == models.MediaTypeAnime {
		return nil, unsupportedMediaType(models.SourceTMDB, mediaType)
	}
	path, err := listPath(categoryID, mediaType)
	if err != nil {
		return nil, err
	}

	var region *string
	if cfg.Region != "" {
		region = &cfg.Region
	}
	language := cfg.Language

	if categoryID == models.CategoryTrending {
		return FetchFunc(func(ctx context.Context, page int) ([]models.Media, error) {
			if mediaType == models.MediaTypeTV {
				resp, err := client.GetTrendingTV(ctx, trendingWindow, page, language)
				if err != nil {
					return nil, err
				}
				return mapTV(resp.Results), nil
			}
			resp, err := client.GetTrendingMovies(ctx, trendingWindow, page, language)
			if err != nil {
				return nil, err
			}
			return mapMovies(resp.Results), nil
		}), nil
	}

	return FetchFunc(func(ctx context.Context, page int) ([]models.Media, error) {
		if mediaType == models.MediaTypeTV {
			resp, err := client.GetTVList(ctx, path, page, language, region)
			if err != nil {
				return nil, err
			}
			return mapTV(resp.Results), nil
		}
		resp, err := client.GetMovieList(ctx, path, page, language, region)
		if err != nil {
			return nil, err
		}
		return mapMovies(resp.Results), nil
	}), nil
}

// NewSearchFetcher builds the page fetcher for a title search feed.
func NewSearchFetcher(client *tmdb.Client, cfg *config.Config, mediaType models.MediaType, query string) (PageFetcher, error) {
	if mediaType == models.MediaTypeAnime {
		return nil, unsupportedMediaType(models.SourceTMDB, mediaType)
	}
	return FetchFunc(func(ctx context.Context, page int) ([]models.Media, error) {
		if mediaType == models.MediaTypeTV {
			resp, err := client.SearchTV(ctx, query, page, cfg.IncludeAdult, cfg.Language)
			if err != nil {
				return nil, err
			}
			return mapTV(resp.Results), nil
		}
		resp, err := client.SearchMovies(ctx, query, page, cfg.IncludeAdult, cfg.Language)
		if err != nil {
			return nil, err
		}
		return mapMovies(resp.Results), nil
	}), nil
}

// LogicMode selects how multi-valued discover constraints combine.
// TMDB encodes OR with "," and AND with "|".
type LogicMode int

const (
	LogicOr LogicMode = iota
	LogicAnd
)

func (m LogicMode) separator() string {
	if m == LogicAnd {
		return "|"
	}
	return ","
}

// DiscoverSort is a discover ordering field.
type DiscoverSort string

const (
	SortPopularity   DiscoverSort = "popularity"
	SortReleaseDate  DiscoverSort = "primary_release_date"
	SortFirstAirDate DiscoverSort = "first_air_date"
	SortVoteAverage  DiscoverSort = "vote_average"
	SortVoteCount    DiscoverSort = "vote_count"
	SortRevenue      DiscoverSort = "revenue"
)

// DiscoverFilter is a structured discover query. The zero value means
// "everything, most popular first".
type DiscoverFilter struct {
	MediaType  models.MediaType `json:"mediaType"`
	Genres     []int            `json:"genres,omitempty"`
	GenreLogic LogicMode        `json:"genreLogic,omitempty"`
	Cast       []int            `json:"cast,omitempty"`
	Keywords   []int            `json:"keywords,omitempty"`

	MinYear *int     `json:"minYear,omitempty"`
	MaxYear *int     `json:"maxYear,omitempty"`
	MinVote *float32 `json:"minVote,omitempty"`

	IncludeAdult bool         `json:"includeAdult,omitempty"`
	Sort         DiscoverSort `json:"sort,omitempty"`
}

func joinIDs(ids []int, sep string) *string {
	if len(ids) == 0 {
		return nil
	}
	// Sorted so the same set always encodes to the same string.
	sorted := make([]int, len(ids))
	copy(sorted, ids)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.Itoa(id)
	}
	s := strings.Join(parts, sep)
	return &s
}

func (f DiscoverFilter) minDate() *string {
	if f.MinYear == nil {
		return nil
	}
	s := fmt.Sprintf("%d-01-01", *f.MinYear)
	return &s
}

func (f DiscoverFilter) maxDate() *string {
	if f.MaxYear == nil {
		return nil
	}
	s := fmt.Sprintf("%d-12-31", *f.MaxYear)
	return &s
}

func (f DiscoverFilter) sortBy() *string {
	field := f.Sort
	if field == "" {
		field = SortPopularity
	}
	s := string(field) + ".desc"
	return &s
}

func (f DiscoverFilter) params() tmdb.DiscoverParams {
	return tmdb.DiscoverParams{
		WithGenres:     joinIDs(f.Genres, f.GenreLogic.separator()),
		WithCast:       joinIDs(f.Cast, ","),
		WithKeywords:   joinIDs(f.Keywords, ","),
		VoteAverageGte: f.MinVote,
		DateGte:        f.minDate(),
		DateLte:        f.maxDate(),
		SortBy:         f.sortBy(),
		IncludeAdult:   f.IncludeAdult,
	}
}

// Label derives the discover feed's cursor label. Equal filters always
// produce the same label, so a re-opened filter resumes its cached
// pages, and distinct filters never share a cursor.
func (f DiscoverFilter) Label() string {
	var b strings.Builder
	p := f.params()
	for _, s := range []*string{p.WithGenres, p.WithCast, p.WithKeywords, p.DateGte, p.DateLte, p.SortBy} {
		if s != nil {
			b.WriteString(*s)
		}
		b.WriteByte(';')
	}
	if f.MinVote != nil {
		fmt.Fprintf(&b, "%g", *f.MinVote)
	}
	fmt.Fprintf(&b, ";%t;%d", f.IncludeAdult, f.GenreLogic)
	return fmt.Sprintf("discover_%s_%x", f.MediaType, xxhash.Sum64String(b.String()))
}

// NewDiscoverFetcher builds the page fetcher for a discover feed.
func NewDiscoverFetcher(client *tmdb.Client, cfg *config.Config, filter DiscoverFilter) (PageFetcher, error) {
	if filter.MediaType == models.MediaTypeAnime {
		return nil, unsupportedMediaType(models.SourceTMDB, filter.MediaType)
	}
	params := filter.params()
	return FetchFunc(func(ctx context.Context, page int) ([]models.Media, error) {
		if filter.MediaType == models.MediaTypeTV {
			resp, err := client.DiscoverTV(ctx, page, cfg.Language, params)
			if err != nil {
				return nil, err
			}
			return mapTV(resp.Results), nil
		}
		resp, err := client.DiscoverMovies(ctx, page, cfg.Language, params)
		if err != nil {
			return nil, err
		}
		return mapMovies(resp.Results), nil
	}), nil
}

// NewCategoryFeed wires a browse feed's mediator end to end.
func NewCategoryFeed(store Store, client *tmdb.Client, cfg *config.Config, categoryID int, mediaType models.MediaType, logger *logrus.Logger) (*Mediator, error) {
	fetcher, err := NewCategoryFetcher(client, cfg, categoryID, mediaType)
	if err != nil {
		return nil, err
	}
	label, err := CategoryFeedLabel(categoryID, mediaType)
	if err != nil {
		return nil, err
	}
	return NewCategoryMediator(store, fetcher, categoryID, label, logger), nil
}

// NewSearchFeed wires a search feed's mediator end to end.
func NewSearchFeed(store Store, client *tmdb.Client, cfg *config.Config, mediaType models.MediaType, query string, logger *logrus.Logger) (*Mediator, error) {
	fetcher, err := NewSearchFetcher(client, cfg, mediaType, query)
	if err != nil {
		return nil, err
	}
	label := SearchFeedLabel(mediaType, query)
	return NewMediator(store, fetcher, label, FixedWindow(SearchFreshness), logger), nil
}

// NewDiscoverFeed wires a discover feed's mediator end to end.
func NewDiscoverFeed(store Store, client *tmdb.Client, cfg *config.Config, filter DiscoverFilter, logger *logrus.Logger) (*Mediator, error) {
	fetcher, err := NewDiscoverFetcher(client, cfg, filter)
	if err != nil {
		return nil, err
	}
	return NewMediator(store, fetcher, filter.Label(), FixedWindow(DiscoverFreshness), logger), nil
}
