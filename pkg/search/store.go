package search

import (
	"context"
	"strings"
)

// Store is the server-side source of locations.
type Store interface {
	Searcher
	Close(ctx context.Context) error
}

// MemoryStore matches names by case-insensitive substring.
type MemoryStore struct {
	locations []Location
	lowered   []string
}

// NewMemoryStore indexes locs. The slice is not copied.
func NewMemoryStore(locs []Location) *MemoryStore {
	s := &MemoryStore{locations: locs, lowered: make([]string, len(locs))}
	for i, l := range locs {
		s.lowered[i] = strings.ToLower(l.Name)
	}
	return s
}

// NewEmbeddedStore returns a MemoryStore over [Dataset].
func NewEmbeddedStore() (*MemoryStore, error) {
	locs, err := Dataset()
	if err != nil {
		return nil, err
	}
	return NewMemoryStore(locs), nil
}

// Search returns every location whose name contains query, in dataset
// order. An empty query matches nothing.
func (s *MemoryStore) Search(ctx context.Context, query string) ([]Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := []Location{}
	if query == "" {
		return out, nil
	}
	q := strings.ToLower(query)
	for i, name := range s.lowered {
		if strings.Contains(name, q) {
			out = append(out, s.locations[i])
		}
	}
	return out, nil
}

// Len returns the number of indexed locations.
func (s *MemoryStore) Len() int { return len(s.locations) }

// Close does nothing.
func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
