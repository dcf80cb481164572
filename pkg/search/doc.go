// Package search serves and consumes the locations API behind the
// autocomplete widget.
//
// The pieces line up along the request path:
//
//   - [Store] finds locations by name: [MemoryStore] over the embedded
//     dataset, [MongoStore] over a MongoDB collection
//   - [NewHandler] exposes a Store as GET /api/locations?search=q
//   - [Client] calls that endpoint with response caching and retries
//   - [Lookup] is the widget-facing glue: it skips blank queries, caches per
//     query, collapses concurrent identical queries and degrades failures to
//     an empty result
//
// Both a Store and a Client satisfy [Searcher], so the terminal site can run
// Lookup in-process or against a remote server.
package search
