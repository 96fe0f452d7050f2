package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache is a TTL key/value store for API responses and parsed tracks.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// GetJSON reads a cached value into out. Returns false on miss or decode error.
func GetJSON(ctx context.Context, c Cache, key string, out any) bool {
	raw, ok := c.Get(ctx, key)
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(raw), out) == nil
}

// SetJSON stores value under key, silently skipping unencodable values.
func SetJSON(ctx context.Context, c Cache, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.Set(ctx, key, string(raw), ttl)
}
