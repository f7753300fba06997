package cache

import (
	"time"

	"github.com/kr4wiec/aud-crisis/internal/model"
)

// LayeredCache puts a memory layer in front of the persistent location
// store: reads promote persistent hits into memory, writes go to both.
type LayeredCache struct {
	memory     LocationCache
	persistent LocationCache
}

// NewLayeredCache creates a layered cache over the persistent store.
func NewLayeredCache(persistent LocationCache) *LayeredCache {
	return &LayeredCache{
		memory:     NewMemoryCache(0, 10*time.Minute),
		persistent: persistent,
	}
}

// Get checks the memory layer first, then the persistent one.
func (c *LayeredCache) Get(name string) (model.Coordinates, bool, error) {
	if coords, found, _ := c.memory.Get(name); found {
		return coords, true, nil
	}

	coords, found, err := c.persistent.Get(name)
	if err != nil {
		return model.Coordinates{}, false, err
	}
	if found {
		// Promote so the next lookup skips the store.
		_ = c.memory.Put(name, coords)
	}
	return coords, found, nil
}

// Put stores the entry in both layers.
func (c *LayeredCache) Put(name string, coords model.Coordinates) error {
	if err := c.persistent.Put(name, coords); err != nil {
		return err
	}
	return c.memory.Put(name, coords)
}
