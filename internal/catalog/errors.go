// Package catalog is the offline-first sync core: the mediator engine
// that reconciles network pages with the local store, the decomposer
// that flattens nested detail responses, and the per-feed fetch
// strategies.
package catalog

import (
	"fmt"

	"github.com/ghost/mediabolt/internal/models"
)

// ConfigError marks a request combination no provider supports (media
// kind, category, provider). It is raised before any network call and is
// not retryable without changing the request.
type ConfigError struct {
	Provider models.MediaSource
	Detail   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("unsupported for provider %s: %s", e.Provider, e.Detail)
}

func unsupportedMediaType(provider models.MediaSource, mt models.MediaType) *ConfigError {
	return &ConfigError{Provider: provider, Detail: fmt.Sprintf("media type %q", mt)}
}

func unsupportedCategory(provider models.MediaSource, category string, mt models.MediaType) *ConfigError {
	return &ConfigError{Provider: provider, Detail: fmt.Sprintf("category %q for media type %q", category, mt)}
}
