package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/kr4wiec/aud-crisis/internal/model"
)

// MemoryCache is the in-process location cache layer.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a memory cache. Coordinates never go stale on
// their own, so entries live until process exit by default.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	if defaultTTL == 0 {
		defaultTTL = gocache.NoExpiration
	}
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves cached coordinates for a name.
func (c *MemoryCache) Get(name string) (model.Coordinates, bool, error) {
	if val, found := c.cache.Get(name); found {
		return val.(model.Coordinates), true, nil
	}
	return model.Coordinates{}, false, nil
}

// Put stores coordinates for a name.
func (c *MemoryCache) Put(name string, coords model.Coordinates) error {
	c.cache.SetDefault(name, coords)
	return nil
}
