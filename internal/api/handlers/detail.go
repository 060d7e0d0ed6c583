package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/ghost/mediabolt/internal/catalog"
	"github.com/ghost/mediabolt/internal/models"
	"github.com/ghost/mediabolt/internal/repository"
	"github.com/ghost/mediabolt/internal/store"
)

// DetailHandler serves composite media detail reads and refreshes.
type DetailHandler struct {
	repo   *repository.Repository
	logger *logrus.Logger
}

// NewDetailHandler creates a new detail handler
func NewDetailHandler(repo *repository.Repository, logger *logrus.Logger) *DetailHandler {
	return &DetailHandler{repo: repo, logger: logger}
}

func identityFromPath(r *http.Request) (models.Identity, bool) {
	source, ok := models.ParseMediaSource(r.PathValue("source"))
	if !ok {
		return models.Identity{}, false
	}
	mediaType, ok := models.ParseMediaType(r.PathValue("mediaType"))
	if !ok {
		return models.Identity{}, false
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return models.Identity{}, false
	}
	return models.Identity{ID: id, MediaType: mediaType, MediaSource: source}, true
}

func (h *DetailHandler) write(w http.ResponseWriter, id models.Identity, err error) {
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			http.Error(w, "Not found", http.StatusNotFound)
		default:
			var cfgErr *catalog.ConfigError
			if errors.As(err, &cfgErr) {
				http.Error(w, cfgErr.Error(), http.StatusBadRequest)
				return
			}
			h.logger.WithError(err).WithField("media", id.String()).Error("Detail request failed")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}
}

// Get handles GET /api/media/{source}/{mediaType}/{id}
func (h *DetailHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFromPath(r)
	if !ok {
		http.Error(w, "Invalid media identity", http.StatusBadRequest)
		return
	}

	detail, err := h.repo.GetDetail(r.Context(), id)
	if err != nil {
		h.write(w, id, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toDetailJSON(detail))
}

// themeColorRequest is the body of a theme color update.
type themeColorRequest struct {
	Color uint32 `json:"color"`
}

// SetThemeColor handles PUT /api/media/{source}/{mediaType}/{id}/theme-color.
// The UI derives the color from poster art; this core only stores it.
func (h *DetailHandler) SetThemeColor(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFromPath(r)
	if !ok {
		http.Error(w, "Invalid media identity", http.StatusBadRequest)
		return
	}

	var req themeColorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}

	if err := h.repo.SetThemeColor(r.Context(), id, req.Color); err != nil {
		h.write(w, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Refresh handles POST /api/media/{source}/{mediaType}/{id}/refresh:
// forces a network detail refresh and returns the refreshed composite.
func (h *DetailHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFromPath(r)
	if !ok {
		http.Error(w, "Invalid media identity", http.StatusBadRequest)
		return
	}

	if err := h.repo.RefreshDetail(r.Context(), id); err != nil {
		h.write(w, id, err)
		return
	}

	detail, err := h.repo.GetDetail(r.Context(), id)
	if err != nil {
		h.write(w, id, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toDetailJSON(detail))
}
