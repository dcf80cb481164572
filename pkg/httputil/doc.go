// Package httputil provides HTTP client infrastructure for the locations
// client.
//
//   - [Cache]: JSON response caching over any [cache.Cache] backend
//   - [Retry]: retry with exponential backoff for transient failures
//
// # Retry
//
// Only errors marked with [Retryable] are retried. The locations client marks
// transport failures, 429 and 5xx responses; other 4xx responses fail at once:
//
//	err := httputil.Retry(ctx, httputil.DefaultBackoff, func() error {
//	    return fetch(ctx, query)
//	})
//
// [DefaultBackoff] makes 3 attempts, waiting 1s then 2s. The error returned
// is the last failure without its retry mark.
package httputil
