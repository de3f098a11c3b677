package cache

import (
	"time"

	"github.com/umakantv/go-utils/cache"
)

// SettingsCache adapts a go-utils cache to the account service. Write
// failures are not reported; a missing entry only costs a database read.
type SettingsCache struct {
	backend cache.Cache
}

func NewSettingsCache(backend cache.Cache) *SettingsCache {
	return &SettingsCache{backend: backend}
}

func (c *SettingsCache) Get(key string) (interface{}, error) {
	return c.backend.Get(key)
}

func (c *SettingsCache) Set(key string, value interface{}, ttl time.Duration) {
	c.backend.Set(key, value, ttl)
}

func (c *SettingsCache) Delete(key string) {
	c.backend.Delete(key)
}
