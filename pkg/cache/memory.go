package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-process cache. Expired entries are dropped lazily on
// Get and swept on Set once the map grows past the sweep threshold.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	closed  bool
	now     func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

const sweepThreshold = 1024

// NewMemoryCache creates an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get retrieves a copy of a value.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, false, ErrClosed
	}
	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if c.expired(e) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return append([]byte(nil), e.data...), true, nil
}

// Set stores a copy of data.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	e := memoryEntry{data: append([]byte(nil), data...)}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	if len(c.entries) >= sweepThreshold {
		c.sweep()
	}
	c.entries[key] = e
	return nil
}

// Delete removes a value.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	delete(c.entries, key)
	return nil
}

// Len returns the number of stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close drops every entry. Later operations return ErrClosed.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.entries = nil
	return nil
}

func (c *MemoryCache) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && c.now().After(e.expiresAt)
}

func (c *MemoryCache) sweep() {
	for k, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, k)
		}
	}
}

// Ensure MemoryCache implements Cache.
var _ Cache = (*MemoryCache)(nil)
