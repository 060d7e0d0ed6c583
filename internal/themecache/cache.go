// Package themecache memoizes the theme color derived from poster art.
// Deriving the color is expensive for the caller, so hits are served
// from memory keyed by image URL. Entries expire so palette changes
// after a poster swap eventually win.
package themecache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	defaultExpiration = 24 * time.Hour
	cleanupInterval   = time.Hour
)

// Cache maps image URLs to ARGB theme colors.
type Cache struct {
	inner *gocache.Cache
}

func New() *Cache {
	return &Cache{inner: gocache.New(defaultExpiration, cleanupInterval)}
}

// Get returns the cached color for the URL, if present.
func (c *Cache) Get(url string) (uint32, bool) {
	v, ok := c.inner.Get(url)
	if !ok {
		return 0, false
	}
	return v.(uint32), true
}

// Put stores the color for the URL.
func (c *Cache) Put(url string, color uint32) {
	c.inner.SetDefault(url, color)
}
