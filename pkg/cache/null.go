package cache

import (
	"context"
	"time"
)

// NullCache stores nothing; every Get misses. It backs cache.backend = "none"
// and clients built without a cache.
type NullCache struct{}

// NewNullCache returns a NullCache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error { return nil }
func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}
