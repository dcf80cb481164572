package search

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
)

// Location is one searchable place.
type Location struct {
	ID        int    `json:"id" bson:"id"`
	Name      string `json:"name" bson:"name"`
	Country   string `json:"country" bson:"country"`
	Continent string `json:"continent" bson:"continent"`
	Type      string `json:"type" bson:"type"`
}

// Label is the display and selection value: "Name Country, Continent".
func (l Location) Label() string {
	return fmt.Sprintf("%s %s, %s", l.Name, l.Country, l.Continent)
}

// Searcher finds locations whose name matches query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Location, error)
}

//go:embed data/locations.json
var locationsJSON []byte

// Dataset returns the embedded locations.
func Dataset() ([]Location, error) {
	var locs []Location
	if err := json.Unmarshal(locationsJSON, &locs); err != nil {
		return nil, fmt.Errorf("decode embedded locations: %w", err)
	}
	return locs, nil
}
