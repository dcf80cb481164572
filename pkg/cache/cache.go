// Package cache provides byte caches with per-entry TTL.
//
// Backends:
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [MemoryCache]: in-process map, the default for the terminal site
//   - [FileCache]: JSON entries on disk, shared between CLI runs
//   - [RedisCache]: shared cache for the locations API server
//
// Keys are plain strings. Use a [Keyer] to derive them so every backend sees
// the same key for the same request.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/sysdesign/pkg/errors"
)

// Cache stores opaque byte values. A TTL of 0 means the entry never expires.
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// HTTPKey keys a raw HTTP response body.
	HTTPKey(namespace, key string) string

	// LookupKey keys a location lookup result.
	LookupKey(query string, limit int) string

	// ArticleKey keys a rendered article.
	ArticleKey(slug string, opts ArticleKeyOpts) string
}

// ArticleKeyOpts are the inputs that change an article's rendering.
type ArticleKeyOpts struct {
	Width int    `json:"width"`
	Style string `json:"style"`
}

// DefaultKeyer is the unscoped [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// LookupKey hashes the normalized query with the limit.
func (DefaultKeyer) LookupKey(query string, limit int) string {
	return hashKey("lookup", query, limit)
}

// ArticleKey hashes the slug with the rendering options.
func (DefaultKeyer) ArticleKey(slug string, opts ArticleKeyOpts) string {
	return hashKey("article", slug, opts)
}

// Backend names accepted by [Open].
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Open creates the cache named by backend. target is the directory for the
// file backend and the URL for the redis backend; other backends ignore it.
func Open(ctx context.Context, backend, target string) (Cache, error) {
	switch backend {
	case BackendNone:
		return NewNullCache(), nil
	case BackendMemory, "":
		return NewMemoryCache(), nil
	case BackendFile:
		c, err := NewFileCache(target)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, target)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis")
		}
		return c, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", backend)
	}
}
