package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyPrefix = "bookstock:catalog:"
	missMarker     = "-"
)

// Cache remembers lookups in Redis, misses included, so a rate-limited
// provider is not asked twice about the same ISBN. Redis trouble is logged
// and the lookup goes straight to the provider.
type Cache struct {
	next    Lookup
	rdb     redis.Cmdable
	ttl     time.Duration
	missTTL time.Duration
}

func NewCache(next Lookup, rdb redis.Cmdable, ttl, missTTL time.Duration) *Cache {
	return &Cache{next: next, rdb: rdb, ttl: ttl, missTTL: missTTL}
}

func (c *Cache) Lookup(ctx context.Context, isbn string) (Metadata, error) {
	key := cacheKeyPrefix + isbn

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(raw) == missMarker {
			return Metadata{}, ErrNoMatch
		}
		var m Metadata
		if jsonErr := json.Unmarshal(raw, &m); jsonErr == nil {
			return m, nil
		}
		log.Printf("catalog cache: corrupt entry key=%s", key)
	case errors.Is(err, redis.Nil):
	default:
		log.Printf("catalog cache: get failed key=%s error=%v", key, err)
	}

	m, err := c.next.Lookup(ctx, isbn)
	switch {
	case err == nil:
		if payload, jsonErr := json.Marshal(m); jsonErr == nil {
			c.set(ctx, key, payload, c.ttl)
		}
	case errors.Is(err, ErrNoMatch):
		c.set(ctx, key, missMarker, c.missTTL)
	}
	return m, err
}

func (c *Cache) set(ctx context.Context, key string, value any, ttl time.Duration) {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("catalog cache: set failed key=%s error=%v", key, err)
	}
}
