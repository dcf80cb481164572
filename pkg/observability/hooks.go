// Package observability provides hooks for logging and metrics.
//
// Library packages never log. They emit events through hooks registered here,
// and the binary decides what to do with them (the CLI routes them to its
// logger). Defaults are no-ops, so libraries and tests work unconfigured.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetOverlayHooks(&logOverlayHooks{logger})
//	    observability.SetSearchHooks(&logSearchHooks{logger})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Overlay().OnOpen(observability.KindDropdown, id)
//	observability.Search().OnLookupError(ctx, query, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// Overlay kinds reported to OverlayHooks.
const (
	KindDropdown = "dropdown"
	KindModal    = "modal"
)

// =============================================================================
// Overlay Hooks
// =============================================================================

// OverlayHooks receives lifecycle events from dropdowns and modals. They run
// on the UI loop and must not block.
type OverlayHooks interface {
	// OnOpen records an overlay becoming visible.
	OnOpen(kind, id string)

	// OnClose records an overlay being hidden or unmounted.
	OnClose(kind, id string)

	// OnPosition records a new computed position for a floating panel.
	OnPosition(kind, id, placement string, flipped bool)
}

// =============================================================================
// Search Hooks
// =============================================================================

// SearchHooks receives events from the location lookup and API.
type SearchHooks interface {
	// OnLookup records a completed lookup.
	OnLookup(ctx context.Context, query string, results int, duration time.Duration)

	// OnLookupError records a failed lookup that was degraded to no results.
	OnLookupError(ctx context.Context, query string, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client and server operations.
type HTTPHooks interface {
	// OnRequest records an HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopOverlayHooks is a no-op implementation of OverlayHooks.
type NoopOverlayHooks struct{}

func (NoopOverlayHooks) OnOpen(string, string)                   {}
func (NoopOverlayHooks) OnClose(string, string)                  {}
func (NoopOverlayHooks) OnPosition(string, string, string, bool) {}

// NoopSearchHooks is a no-op implementation of SearchHooks.
type NoopSearchHooks struct{}

func (NoopSearchHooks) OnLookup(context.Context, string, int, time.Duration) {}
func (NoopSearchHooks) OnLookupError(context.Context, string, error)         {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	overlayHooks OverlayHooks = NoopOverlayHooks{}
	searchHooks  SearchHooks  = NoopSearchHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetOverlayHooks registers custom overlay hooks.
func SetOverlayHooks(h OverlayHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		overlayHooks = h
	}
}

// SetSearchHooks registers custom search hooks.
func SetSearchHooks(h SearchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		searchHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Overlay returns the registered overlay hooks.
func Overlay() OverlayHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return overlayHooks
}

// Search returns the registered search hooks.
func Search() SearchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return searchHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	overlayHooks = NoopOverlayHooks{}
	searchHooks = NoopSearchHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
