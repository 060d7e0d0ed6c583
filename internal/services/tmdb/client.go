// Package tmdb wraps the TMDB v3 HTTP API with typed requests. The sync
// layer treats this client as an external collaborator: it owns timeouts
// and transient-error retries, nothing else.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ghost/mediabolt/internal/config"
	"github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

// StatusError is a non-2xx response surfaced with its body for logging.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb API returned status %d: %s", e.StatusCode, e.Body)
}

// Client handles communication with the TMDB API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new TMDB API client.
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.TMDBAPIKey == "" {
		return nil, fmt.Errorf("tmdb API key is required")
	}
	baseURL := cfg.TMDBBaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.TMDBAPIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}, nil
}

// get performs one API request, retrying 429 and 5xx responses with
// exponential backoff. 4xx responses and decode failures are permanent.
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	fullURL := c.baseURL + path + "?" + params.Encode()

	c.logger.WithFields(logrus.Fields{
		"path": path,
	}).Debug("Making TMDB API request")

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("tmdb API request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	return backoff.Retry(operation, policy)
}

func pageParams(page int, language string) url.Values {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	if language != "" {
		params.Set("language", language)
	}
	return params
}

// GetMovieList fetches one page of a movie list category (popular,
// top_rated, upcoming, now_playing).
func (c *Client) GetMovieList(ctx context.Context, category string, page int, language string, region *string) (*Page[Movie], error) {
	params := pageParams(page, language)
	if region != nil {
		params.Set("region", *region)
	}
	var result Page[Movie]
	if err := c.get(ctx, "/movie/"+category, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTVList fetches one page of a tv list category (popular, top_rated,
// airing_today, on_the_air).
func (c *Client) GetTVList(ctx context.Context, category string, page int, language string, region *string) (*Page[TV], error) {
	params := pageParams(page, language)
	if region != nil {
		params.Set("region", *region)
	}
	var result Page[TV]
	if err := c.get(ctx, "/tv/"+category, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTrendingMovies fetches one trending page for a time window ("day"
// or "week").
func (c *Client) GetTrendingMovies(ctx context.Context, window string, page int, language string) (*Page[Movie], error) {
	var result Page[Movie]
	if err := c.get(ctx, "/trending/movie/"+window, pageParams(page, language), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTrendingTV fetches one trending tv page.
func (c *Client) GetTrendingTV(ctx context.Context, window string, page int, language string) (*Page[TV], error) {
	var result Page[TV]
	if err := c.get(ctx, "/trending/tv/"+window, pageParams(page, language), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMovieDetails fetches a full movie with the named sub-resources
// embedded via append_to_response.
func (c *Client) GetMovieDetails(ctx context.Context, id int, language string, appendTo []string) (*MovieDetail, error) {
	params := url.Values{}
	if language != "" {
		params.Set("language", language)
	}
	if len(appendTo) > 0 {
		params.Set("append_to_response", strings.Join(appendTo, ","))
	}
	var result MovieDetail
	if err := c.get(ctx, "/movie/"+strconv.Itoa(id), params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTVDetails fetches a full tv show with embedded sub-resources.
func (c *Client) GetTVDetails(ctx context.Context, id int, language string, appendTo []string) (*TVDetail, error) {
	params := url.Values{}
	if language != "" {
		params.Set("language", language)
	}
	if len(appendTo) > 0 {
		params.Set("append_to_response", strings.Join(appendTo, ","))
	}
	var result TVDetail
	if err := c.get(ctx, "/tv/"+strconv.Itoa(id), params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchMovies fetches one page of a free-text movie search.
func (c *Client) SearchMovies(ctx context.Context, query string, page int, includeAdult bool, language string) (*Page[Movie], error) {
	params := pageParams(page, language)
	params.Set("query", query)
	params.Set("include_adult", strconv.FormatBool(includeAdult))
	var result Page[Movie]
	if err := c.get(ctx, "/search/movie", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchTV fetches one page of a free-text tv search.
func (c *Client) SearchTV(ctx context.Context, query string, page int, includeAdult bool, language string) (*Page[TV], error) {
	params := pageParams(page, language)
	params.Set("query", query)
	params.Set("include_adult", strconv.FormatBool(includeAdult))
	var result Page[TV]
	if err := c.get(ctx, "/search/tv", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DiscoverParams are the optional discover query parameters, already
// rendered to the API's string forms (the caller owns OR/AND joining).
type DiscoverParams struct {
	WithGenres     *string
	WithCast       *string
	WithKeywords   *string
	VoteAverageGte *float32
	DateGte        *string
	DateLte        *string
	SortBy         *string
	IncludeAdult   bool
}

func (p DiscoverParams) apply(params url.Values, dateField string) {
	if p.WithGenres != nil {
		params.Set("with_genres", *p.WithGenres)
	}
	if p.WithCast != nil {
		params.Set("with_cast", *p.WithCast)
	}
	if p.WithKeywords != nil {
		params.Set("with_keywords", *p.WithKeywords)
	}
	if p.VoteAverageGte != nil {
		params.Set("vote_average.gte", strconv.FormatFloat(float64(*p.VoteAverageGte), 'f', -1, 32))
	}
	if p.DateGte != nil {
		params.Set(dateField+".gte", *p.DateGte)
	}
	if p.DateLte != nil {
		params.Set(dateField+".lte", *p.DateLte)
	}
	if p.SortBy != nil {
		params.Set("sort_by", *p.SortBy)
	}
	params.Set("include_adult", strconv.FormatBool(p.IncludeAdult))
}

// DiscoverMovies fetches one filtered movie page.
func (c *Client) DiscoverMovies(ctx context.Context, page int, language string, filter DiscoverParams) (*Page[Movie], error) {
	params := pageParams(page, language)
	filter.apply(params, "primary_release_date")
	var result Page[Movie]
	if err := c.get(ctx, "/discover/movie", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DiscoverTV fetches one filtered tv page.
func (c *Client) DiscoverTV(ctx context.Context, page int, language string, filter DiscoverParams) (*Page[TV], error) {
	params := pageParams(page, language)
	filter.apply(params, "first_air_date")
	var result Page[TV]
	if err := c.get(ctx, "/discover/tv", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
