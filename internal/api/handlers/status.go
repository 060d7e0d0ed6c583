package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/ghost/mediabolt/internal/store"
)

// StatusHandler handles status requests
type StatusHandler struct {
	db     *store.Database
	logger *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(db *store.Database, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		db:     db,
		logger: logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	TotalMedias    int64            `json:"total_medias"`
	Complete       int64            `json:"complete"`
	Feeds          int64            `json:"feeds"`
	MediasByType   map[string]int64 `json:"medias_by_type"`
	MediasBySource map[string]int64 `json:"medias_by_source"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := h.db.Stats(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get cache stats")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := StatusResponse{
		TotalMedias:    stats.TotalMedia,
		Complete:       stats.Complete,
		Feeds:          stats.Feeds,
		MediasByType:   stats.ByType,
		MediasBySource: stats.BySource,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
