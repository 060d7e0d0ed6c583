package themecache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheRoundTrip(t *testing.T) {
	cache := New()

	_, ok := cache.Get("https://image.tmdb.org/t/p/w500/abc.jpg")
	assert.False(t, ok)

	cache.Put("https://image.tmdb.org/t/p/w500/abc.jpg", 0xFF336699)

	color, ok := cache.Get("https://image.tmdb.org/t/p/w500/abc.jpg")
	assert.True(t, ok)
	assert.Equal(t, uint32(0xFF336699), color)

	// Overwrites win.
	cache.Put("https://image.tmdb.org/t/p/w500/abc.jpg", 0xFF000000)
	color, _ = cache.Get("https://image.tmdb.org/t/p/w500/abc.jpg")
	assert.Equal(t, uint32(0xFF000000), color)
}
