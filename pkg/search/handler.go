package search

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// LocationsPath is the route served by [NewHandler].
const LocationsPath = "/api/locations"

// Response is the success envelope.
type Response struct {
	Data []Location `json:"data"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var internalError = ErrorResponse{
	Error:   "Internal Server Error",
	Message: "An error occurred while processing your request.",
}

// NewHandler serves GET /api/locations?search=q from store. A missing or
// empty query yields {"data": []}; a store failure yields a 500 envelope.
// A nil logger discards request logs.
func NewHandler(store Searcher, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := &handler{store: store, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)
	r.Get(LocationsPath, h.locations)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

type handler struct {
	store  Searcher
	logger *log.Logger
}

func (h *handler) locations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("search")
	if query == "" {
		writeJSON(w, http.StatusOK, Response{Data: []Location{}})
		return
	}
	locs, err := h.store.Search(r.Context(), query)
	if err != nil {
		h.logger.Error("location search failed", "query", query, "err", err,
			"request_id", middleware.GetReqID(r.Context()))
		writeJSON(w, http.StatusInternalServerError, internalError)
		return
	}
	if locs == nil {
		locs = []Location{}
	}
	writeJSON(w, http.StatusOK, Response{Data: locs})
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
