package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/sysdesign/pkg/cache"
	sderrors "github.com/matzehuels/sysdesign/pkg/errors"
	"github.com/matzehuels/sysdesign/pkg/httputil"
	"github.com/matzehuels/sysdesign/pkg/observability"
)

var sample = []Location{
	{ID: 1, Name: "Berlin", Country: "Germany", Continent: "Europe", Type: "city"},
	{ID: 2, Name: "Bern", Country: "Switzerland", Continent: "Europe", Type: "city"},
	{ID: 3, Name: "Bergen", Country: "Norway", Continent: "Europe", Type: "city"},
	{ID: 4, Name: "Tokyo", Country: "Japan", Continent: "Asia", Type: "city"},
}

func TestLabel(t *testing.T) {
	if got := sample[0].Label(); got != "Berlin Germany, Europe" {
		t.Errorf("Label = %q", got)
	}
}

func TestDataset(t *testing.T) {
	locs, err := Dataset()
	if err != nil {
		t.Fatalf("Dataset: %v", err)
	}
	if len(locs) == 0 {
		t.Fatal("embedded dataset is empty")
	}
	seen := map[int]bool{}
	for _, l := range locs {
		if l.Name == "" || l.Country == "" || l.Continent == "" {
			t.Errorf("incomplete location %+v", l)
		}
		if seen[l.ID] {
			t.Errorf("duplicate id %d", l.ID)
		}
		seen[l.ID] = true
	}
}

func TestMemoryStoreSearch(t *testing.T) {
	s := NewMemoryStore(sample)
	tests := []struct {
		query string
		want  []string
	}{
		{"", nil},
		{"ber", []string{"Berlin", "Bern", "Bergen"}},
		{"BER", []string{"Berlin", "Bern", "Bergen"}},
		{"kyo", []string{"Tokyo"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		got, err := s.Search(context.Background(), tt.query)
		if err != nil {
			t.Fatalf("Search(%q): %v", tt.query, err)
		}
		if got == nil {
			t.Errorf("Search(%q) returned nil, want empty slice", tt.query)
		}
		if names := namesOf(got); strings.Join(names, ",") != strings.Join(tt.want, ",") {
			t.Errorf("Search(%q) = %v, want %v", tt.query, names, tt.want)
		}
	}
}

func TestMemoryStoreCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMemoryStore(sample).Search(ctx, "ber"); err == nil {
		t.Error("canceled context did not fail")
	}
}

func namesOf(locs []Location) []string {
	var out []string
	for _, l := range locs {
		out = append(out, l.Name)
	}
	return out
}

type failingStore struct{}

func (failingStore) Search(context.Context, string) ([]Location, error) {
	return nil, errors.New("database unavailable")
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name       string
		store      Searcher
		url        string
		wantStatus int
		wantBody   string
	}{
		{"match", NewMemoryStore(sample), "/api/locations?search=ber", 200, ""},
		{"empty query", NewMemoryStore(sample), "/api/locations?search=", 200, `{"data":[]}`},
		{"missing query", NewMemoryStore(sample), "/api/locations", 200, `{"data":[]}`},
		{"no match", NewMemoryStore(sample), "/api/locations?search=zzz", 200, `{"data":[]}`},
		{"store failure", failingStore{}, "/api/locations?search=ber", 500,
			`{"error":"Internal Server Error","message":"An error occurred while processing your request."}`},
		{"unknown route", NewMemoryStore(sample), "/api/other", 404, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHandler(tt.store, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && strings.TrimSpace(rec.Body.String()) != tt.wantBody {
				t.Errorf("body = %s, want %s", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestHandlerMatchBody(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(NewMemoryStore(sample), nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/locations?search=tok", nil))
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0] != sample[3] {
		t.Errorf("data = %+v", resp.Data)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func newServer(t *testing.T, h http.Handler) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientSearch(t *testing.T) {
	srv := newServer(t, NewHandler(NewMemoryStore(sample), nil))
	c, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	got, err := c.Search(context.Background(), "ber")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if names := namesOf(got); len(names) != 3 {
		t.Errorf("names = %v", names)
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			writeJSON(w, http.StatusInternalServerError, internalError)
			return
		}
		writeJSON(w, http.StatusOK, Response{Data: sample[:1]})
	}))
	c, _ := NewClient(srv.URL, WithRetry(3, time.Millisecond))
	got, err := c.Search(context.Background(), "ber")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if calls.Load() != 2 || len(got) != 1 {
		t.Errorf("calls = %d results = %d; want a retry then one result", calls.Load(), len(got))
	}
}

func TestClientErrorEnvelope(t *testing.T) {
	srv := newServer(t, NewHandler(failingStore{}, nil))
	c, _ := NewClient(srv.URL, WithRetry(2, time.Millisecond))
	_, err := c.Search(context.Background(), "ber")
	if !sderrors.Is(err, sderrors.ErrCodeNetwork) {
		t.Fatalf("err = %v, want network code", err)
	}
	if msg := sderrors.UserMessage(err); msg != internalError.Message {
		t.Errorf("message = %q, want envelope message", msg)
	}
}

func TestClientBadRequestNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Bad Request", Message: "query too long"})
	}))
	c, _ := NewClient(srv.URL, WithRetry(3, time.Millisecond))
	_, err := c.Search(context.Background(), "x")
	if !sderrors.Is(err, sderrors.ErrCodeInvalidQuery) || calls.Load() != 1 {
		t.Errorf("err = %v calls = %d", err, calls.Load())
	}
}

func TestClientCachesResponses(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if got := r.URL.Query().Get("search"); got != "new york" {
			t.Errorf("search param = %q", got)
		}
		writeJSON(w, http.StatusOK, Response{Data: sample[:1]})
	}))
	hc := httputil.NewCache(cache.NewMemoryCache(), time.Hour)
	c, _ := NewClient(srv.URL, WithCache(hc))
	for i := 0; i < 3; i++ {
		if _, err := c.Search(context.Background(), "new york"); err != nil {
			t.Fatalf("Search: %v", err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("server calls = %d, want 1", calls.Load())
	}
}

func TestNewClientInvalidURL(t *testing.T) {
	for _, u := range []string{"", "localhost", "://bad"} {
		if _, err := NewClient(u); !sderrors.Is(err, sderrors.ErrCodeInvalidInput) {
			t.Errorf("NewClient(%q) err = %v", u, err)
		}
	}
}

type countingSearcher struct {
	mu      sync.Mutex
	calls   map[string]int
	results []Location
	err     error
	gate    chan struct{}
	entered chan struct{}
}

func (s *countingSearcher) Search(ctx context.Context, query string) ([]Location, error) {
	s.mu.Lock()
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[query]++
	s.mu.Unlock()
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.results, s.err
}

func (s *countingSearcher) count(q string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[q]
}

func TestLookupBlankQuery(t *testing.T) {
	src := &countingSearcher{results: sample}
	l := NewLookup(src)
	for _, q := range []string{"", "   ", "\t"} {
		if got := l.Find(context.Background(), q); got == nil || len(got) != 0 {
			t.Errorf("Find(%q) = %v, want empty", q, got)
		}
	}
	if len(src.calls) != 0 {
		t.Errorf("blank queries reached the source: %v", src.calls)
	}
}

func TestLookupCachesPerQuery(t *testing.T) {
	src := &countingSearcher{results: sample[:2]}
	l := NewLookup(src)
	ctx := context.Background()
	l.Find(ctx, "ber")
	l.Find(ctx, "ber")
	l.Find(ctx, "bern")
	if src.count("ber") != 1 || src.count("bern") != 1 {
		t.Errorf("calls = %v, want one per distinct query", src.calls)
	}
}

func TestLookupLimit(t *testing.T) {
	many := make([]Location, 25)
	for i := range many {
		many[i] = Location{ID: i, Name: "Place"}
	}
	l := NewLookup(&countingSearcher{results: many})
	if got := l.Find(context.Background(), "pla"); len(got) != DefaultLimit {
		t.Errorf("len = %d, want %d", len(got), DefaultLimit)
	}
	l = NewLookup(&countingSearcher{results: many}, WithLimit(3))
	if got := l.Find(context.Background(), "pla"); len(got) != 3 {
		t.Errorf("len = %d, want 3", len(got))
	}
}

type recordingSearchHooks struct {
	observability.NoopSearchHooks
	mu     sync.Mutex
	errors []string
	found  []int
}

func (h *recordingSearchHooks) OnLookup(_ context.Context, _ string, n int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.found = append(h.found, n)
}

func (h *recordingSearchHooks) OnLookupError(_ context.Context, q string, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, q)
}

func TestLookupDegradesFailures(t *testing.T) {
	hooks := &recordingSearchHooks{}
	observability.SetSearchHooks(hooks)
	defer observability.Reset()

	src := &countingSearcher{err: errors.New("boom")}
	l := NewLookup(src)
	ctx := context.Background()
	if got := l.Find(ctx, "ber"); got == nil || len(got) != 0 {
		t.Errorf("Find = %v, want empty", got)
	}
	if strings.Join(hooks.errors, ",") != "ber" {
		t.Errorf("error hooks = %v", hooks.errors)
	}

	// Failures are not cached.
	src.err = nil
	src.results = sample[:1]
	if got := l.Find(ctx, "ber"); len(got) != 1 {
		t.Errorf("Find after recovery = %v", got)
	}
	if len(hooks.found) != 1 || hooks.found[0] != 1 {
		t.Errorf("lookup hooks = %v", hooks.found)
	}
}

func TestLookupCollapsesConcurrentQueries(t *testing.T) {
	src := &countingSearcher{
		results: sample[:1],
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 4),
	}
	l := NewLookup(src)

	var wg sync.WaitGroup
	results := make([][]Location, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = l.Find(context.Background(), "ber")
		}(i)
	}
	<-src.entered
	time.Sleep(50 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	if n := src.count("ber"); n != 1 {
		t.Errorf("source calls = %d, want 1", n)
	}
	for i, r := range results {
		if len(r) != 1 {
			t.Errorf("caller %d got %v", i, r)
		}
	}
}

func TestLookupCancelledCallerLeavesSharedSearch(t *testing.T) {
	hooks := &recordingSearchHooks{}
	observability.SetSearchHooks(hooks)
	defer observability.Reset()

	src := &countingSearcher{
		results: sample[:1],
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 2),
	}
	l := NewLookup(src)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan []Location, 1)
	go func() { first <- l.Find(ctx, "ber") }()
	<-src.entered

	second := make(chan []Location, 1)
	go func() { second <- l.Find(context.Background(), "ber") }()
	time.Sleep(50 * time.Millisecond)

	cancel()
	if got := <-first; len(got) != 0 {
		t.Errorf("cancelled caller got %v, want empty", got)
	}
	close(src.gate)
	if got := <-second; len(got) != 1 {
		t.Errorf("waiting caller got %v, want one result", got)
	}
	if n := src.count("ber"); n != 1 {
		t.Errorf("source calls = %d, want 1", n)
	}
	if len(hooks.errors) != 0 {
		t.Errorf("error hooks = %v, want none", hooks.errors)
	}
}

func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := newServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer close(release)

	c, _ := NewClient(srv.URL,
		WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}),
		WithRetry(1, time.Millisecond),
	)
	_, err := c.Search(context.Background(), "ber")
	if !sderrors.Is(err, sderrors.ErrCodeTimeout) {
		t.Errorf("err = %v, want %s", err, sderrors.ErrCodeTimeout)
	}
}
