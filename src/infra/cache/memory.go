package cache

import (
	"context"
	"sync"
	"time"

	"github.com/contre95/soundbridge/src/features/metrics"
)

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryCache is an in-process TTL cache. Entries are evicted lazily on read
// and swept periodically by a janitor goroutine.
type MemoryCache struct {
	items sync.Map // map[string]memoryEntry
	done  chan struct{}
	once  sync.Once
}

// NewMemoryCache creates a memory cache and starts its janitor.
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{done: make(chan struct{})}
	go c.janitor()
	return c
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	v, ok := c.items.Load(key)
	if !ok {
		metrics.CacheMisses.Inc()
		return "", false
	}
	entry := v.(memoryEntry)
	if time.Now().After(entry.expires) {
		c.items.Delete(key)
		metrics.CacheMisses.Inc()
		return "", false
	}
	metrics.CacheHits.Inc()
	return entry.value, true
}

func (c *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) {
	c.items.Store(key, memoryEntry{value: value, expires: time.Now().Add(ttl)})
}

func (c *MemoryCache) Delete(_ context.Context, key string) {
	c.items.Delete(key)
}

// Len counts live entries.
func (c *MemoryCache) Len() int {
	n := 0
	now := time.Now()
	c.items.Range(func(_, v any) bool {
		if now.Before(v.(memoryEntry).expires) {
			n++
		}
		return true
	})
	return n
}

// Close stops the janitor.
func (c *MemoryCache) Close() {
	c.once.Do(func() { close(c.done) })
}

func (c *MemoryCache) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			now := time.Now()
			c.items.Range(func(k, v any) bool {
				if now.After(v.(memoryEntry).expires) {
					c.items.Delete(k)
				}
				return true
			})
		}
	}
}
