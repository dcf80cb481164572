package httputil

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/matzehuels/sysdesign/pkg/cache"
	"github.com/matzehuels/sysdesign/pkg/observability"
)

// Cache stores JSON-marshalable values in a byte [cache.Cache].
//
// Use [Cache.Namespace] to create scoped views that prefix keys, so responses
// from different endpoints never collide:
//
//	locations := c.Namespace("locations:")
//	locations.Set(ctx, "ber", results)  // key becomes "locations:ber"
type Cache struct {
	store  cache.Cache
	ttl    time.Duration
	prefix string
}

// NewCache wraps store. Entries are written with ttl; 0 means no expiry.
// A nil store disables caching.
func NewCache(store cache.Cache, ttl time.Duration) *Cache {
	if store == nil {
		store = cache.NewNullCache()
	}
	return &Cache{store: store, ttl: ttl}
}

// TTL returns the time-to-live used for new entries.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get retrieves a value and unmarshals it into v.
//
//   - (true, nil): hit, v holds the value
//   - (false, nil): miss, v is unchanged
//   - (false, err): backend or decode failure
func (c *Cache) Get(ctx context.Context, key string, v any) (bool, error) {
	data, ok, err := c.store.Get(ctx, c.prefix+key)
	if err != nil {
		return false, err
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, c.keyType())
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	observability.Cache().OnCacheHit(ctx, c.keyType())
	return true, nil
}

// Set marshals v and stores it under key.
func (c *Cache) Set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, c.prefix+key, data, c.ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, c.keyType(), len(data))
	return nil
}

// Namespace returns a view that prefixes every key with prefix. Calls chain:
//
//	c.Namespace("api:").Namespace("locations:")  // prefix: "api:locations:"
func (c *Cache) Namespace(prefix string) *Cache {
	return &Cache{store: c.store, ttl: c.ttl, prefix: c.prefix + prefix}
}

// Cached returns the cached value for key in v, or runs fetch and caches
// what it stored in v. With refresh set the cache is bypassed for reading.
// Cache failures never fail the call. Wrap fetch with [Retry] for transient
// failures.
func (c *Cache) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if !refresh {
		if ok, _ := c.Get(ctx, key, v); ok {
			return nil
		}
	}
	if err := fetch(); err != nil {
		return err
	}
	_ = c.Set(ctx, key, v)
	return nil
}

func (c *Cache) keyType() string {
	if c.prefix == "" {
		return "default"
	}
	return strings.SplitN(c.prefix, ":", 2)[0]
}
