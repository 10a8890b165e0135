package cache

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache membungkus go-cache untuk hasil query rules
type Cache struct {
	store *gocache.Cache
}

func New(ttl, cleanup time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if cleanup <= 0 {
		cleanup = 10 * time.Minute
	}
	return &Cache{store: gocache.New(ttl, cleanup)}
}

func (c *Cache) Get(key string) ([]byte, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	return b, ok
}

func (c *Cache) Set(key string, value []byte) {
	c.store.Set(key, value, gocache.DefaultExpiration)
}

// InvalidatePrefix drop semua entry dengan prefix key tertentu
func (c *Cache) InvalidatePrefix(prefix string) {
	for key := range c.store.Items() {
		if strings.HasPrefix(key, prefix) {
			c.store.Delete(key)
		}
	}
}
