package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ghost/mediabolt/internal/catalog"
	"github.com/ghost/mediabolt/internal/models"
	"github.com/ghost/mediabolt/internal/repository"
)

// Browse category names accepted on the feed routes.
var categoryNames = map[string]int{
	"popular":     models.CategoryPopular,
	"trending":    models.CategoryTrending,
	"top_rated":   models.CategoryTopRated,
	"upcoming":    models.CategoryUpcoming,
	"now_playing": models.CategoryNowPlaying,
	"seasonal":    models.CategorySeasonal,
}

// FeedHandler serves paged feeds. Pagers are stateful forward-only
// cursors, so the handler keeps one per feed label across requests; the
// mutex enforces the one-loader-per-feed contract.
type FeedHandler struct {
	repo   *repository.Repository
	logger *logrus.Logger

	mu     sync.Mutex
	pagers map[string]*repository.Pager
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(repo *repository.Repository, logger *logrus.Logger) *FeedHandler {
	return &FeedHandler{
		repo:   repo,
		logger: logger,
		pagers: make(map[string]*repository.Pager),
	}
}

// feedResponse is one page of a feed.
type feedResponse struct {
	Feed      string      `json:"feed"`
	Items     []mediaJSON `json:"items"`
	Exhausted bool        `json:"exhausted"`
}

func (h *FeedHandler) next(r *http.Request, label string, open func() (*repository.Pager, error)) (*feedResponse, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	pager, ok := h.pagers[label]
	if r.URL.Query().Get("reset") == "1" {
		// Drop the cursor so the feed restarts from the top.
		ok = false
	}
	if !ok {
		var err error
		pager, err = open()
		if err != nil {
			return nil, err
		}
		h.pagers[label] = pager
	}

	items, err := pager.Next(r.Context())
	if err != nil {
		return nil, err
	}
	return &feedResponse{
		Feed:      pager.Label(),
		Items:     toMediaJSONs(items),
		Exhausted: len(items) == 0,
	}, nil
}

func (h *FeedHandler) respond(w http.ResponseWriter, resp *feedResponse, err error) {
	if err != nil {
		var cfgErr *catalog.ConfigError
		if errors.As(err, &cfgErr) {
			http.Error(w, cfgErr.Error(), http.StatusBadRequest)
			return
		}
		h.logger.WithError(err).Error("Feed page failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Category handles GET /api/feeds/{category}/{mediaType}
func (h *FeedHandler) Category(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := categoryNames[r.PathValue("category")]
	if !ok {
		http.Error(w, "Unknown category", http.StatusNotFound)
		return
	}
	mediaType, ok := models.ParseMediaType(r.PathValue("mediaType"))
	if !ok {
		http.Error(w, "Unknown media type", http.StatusNotFound)
		return
	}

	label, err := catalog.CategoryFeedLabel(categoryID, mediaType)
	if err != nil {
		h.respond(w, nil, err)
		return
	}
	resp, err := h.next(r, label, func() (*repository.Pager, error) {
		return h.repo.CategoryFeed(categoryID, mediaType)
	})
	h.respond(w, resp, err)
}

// Search handles GET /api/search?type=movie&q=...
func (h *FeedHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "Missing query", http.StatusBadRequest)
		return
	}
	mediaType, ok := models.ParseMediaType(r.URL.Query().Get("type"))
	if !ok {
		http.Error(w, "Unknown media type", http.StatusBadRequest)
		return
	}

	label := catalog.SearchFeedLabel(mediaType, query)
	resp, err := h.next(r, label, func() (*repository.Pager, error) {
		return h.repo.SearchFeed(mediaType, query)
	})
	h.respond(w, resp, err)
}

// Discover handles POST /api/discover with a filter body.
func (h *FeedHandler) Discover(w http.ResponseWriter, r *http.Request) {
	var filter catalog.DiscoverFilter
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		http.Error(w, "Invalid filter", http.StatusBadRequest)
		return
	}
	if filter.MediaType == "" {
		filter.MediaType = models.MediaTypeMovie
	}

	resp, err := h.next(r, filter.Label(), func() (*repository.Pager, error) {
		return h.repo.DiscoverFeed(filter)
	})
	h.respond(w, resp, err)
}
