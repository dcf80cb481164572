package search_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/sysdesign/pkg/search"
)

func ExampleLookup() {
	store, _ := search.NewEmbeddedStore()
	lookup := search.NewLookup(store, search.WithLimit(3))

	for _, loc := range lookup.Find(context.Background(), "ber") {
		fmt.Println(loc.Label())
	}
	// Output:
	// Berlin Germany, Europe
	// Bern Switzerland, Europe
	// Bergen Norway, Europe
}
