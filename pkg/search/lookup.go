package search

import (
	"context"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/sysdesign/pkg/cache"
	"github.com/matzehuels/sysdesign/pkg/httputil"
	"github.com/matzehuels/sysdesign/pkg/observability"
)

// Lookup defaults.
const (
	DefaultLimit    = 10
	DefaultDebounce = 300 * time.Millisecond
)

// Lookup answers autocomplete queries from a Searcher.
type Lookup struct {
	src   Searcher
	limit int
	keyer cache.Keyer
	cache *httputil.Cache
	group singleflight.Group
}

// LookupOption configures a Lookup.
type LookupOption func(*Lookup)

// WithLimit caps the number of results. Values below 1 are ignored.
func WithLimit(n int) LookupOption {
	return func(l *Lookup) {
		if n > 0 {
			l.limit = n
		}
	}
}

// WithResultCache stores results in c instead of a private memory cache.
func WithResultCache(c *httputil.Cache) LookupOption {
	return func(l *Lookup) { l.cache = c }
}

// WithKeyer derives result cache keys with k.
func WithKeyer(k cache.Keyer) LookupOption {
	return func(l *Lookup) { l.keyer = k }
}

// NewLookup creates a lookup over src.
func NewLookup(src Searcher, opts ...LookupOption) *Lookup {
	l := &Lookup{src: src, limit: DefaultLimit, keyer: cache.NewDefaultKeyer()}
	for _, opt := range opts {
		opt(l)
	}
	if l.cache == nil {
		l.cache = httputil.NewCache(cache.NewMemoryCache(), 0)
	}
	return l
}

// Limit returns the result cap.
func (l *Lookup) Limit() int { return l.limit }

// Find returns up to Limit locations for query. A blank query returns an
// empty result without consulting the source. Failures are reported through
// the search hooks and yield an empty result; they are not cached.
//
// Concurrent calls for the same query share one search. Cancelling ctx only
// abandons this caller's wait; the shared search runs on for the others.
func (l *Lookup) Find(ctx context.Context, query string) []Location {
	if strings.TrimSpace(query) == "" {
		return []Location{}
	}
	key := l.keyer.LookupKey(query, l.limit)

	var cached []Location
	if ok, _ := l.cache.Get(ctx, key, &cached); ok {
		return cached
	}

	start := time.Now()
	ch := l.group.DoChan(key, func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		locs, err := l.src.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		if len(locs) > l.limit {
			locs = locs[:l.limit]
		}
		_ = l.cache.Set(ctx, key, locs)
		return locs, nil
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return []Location{}
	case res = <-ch:
	}
	if res.Err != nil {
		observability.Search().OnLookupError(ctx, query, res.Err)
		return []Location{}
	}
	locs := res.Val.([]Location)
	observability.Search().OnLookup(ctx, query, len(locs), time.Since(start))
	return locs
}

// Key returns a stable identity for a location, used for option identities
// in result lists.
func Key(l Location) string {
	return strconv.Itoa(l.ID)
}
