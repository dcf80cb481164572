package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sysdesign/pkg/observability"
)

// logHooks routes library events to the CLI logger. Routine events log at
// debug level, failures at warn.
type logHooks struct {
	logger *log.Logger
}

// registerHooks binds every observability hook to l.
func registerHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetOverlayHooks(h)
	observability.SetSearchHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h *logHooks) OnOpen(kind, id string) {
	h.logger.Debug("overlay open", "kind", kind, "id", id)
}

func (h *logHooks) OnClose(kind, id string) {
	h.logger.Debug("overlay close", "kind", kind, "id", id)
}

func (h *logHooks) OnPosition(kind, id, placement string, flipped bool) {
	h.logger.Debug("overlay position", "kind", kind, "id", id, "placement", placement, "flipped", flipped)
}

func (h *logHooks) OnLookup(_ context.Context, query string, results int, d time.Duration) {
	h.logger.Debug("lookup", "query", query, "results", results, "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnLookupError(_ context.Context, query string, err error) {
	h.logger.Warn("lookup failed", "query", query, "err", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("http error", "method", method, "host", host, "path", path, "err", err)
}
