package cache

// ScopedKeyer wraps a Keyer with a prefix. The locations server uses it to
// keep its keys apart from other applications sharing a Redis database.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "sysdesign:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// LookupKey generates a prefixed key for lookup results.
func (k *ScopedKeyer) LookupKey(query string, limit int) string {
	return k.prefix + k.inner.LookupKey(query, limit)
}

// ArticleKey generates a prefixed key for rendered articles.
func (k *ScopedKeyer) ArticleKey(slug string, opts ArticleKeyOpts) string {
	return k.prefix + k.inner.ArticleKey(slug, opts)
}
