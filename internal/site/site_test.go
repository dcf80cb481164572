package site

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/matzehuels/sysdesign/pkg/cache"
	"github.com/matzehuels/sysdesign/pkg/errors"
)

func TestLoadEmbedded(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	articles := c.Articles()
	if len(articles) != 3 {
		t.Fatalf("got %d articles, want 3", len(articles))
	}
	if articles[0].Slug != "modal" {
		t.Errorf("newest article = %q, want modal", articles[0].Slug)
	}

	a, err := c.Get("dropdown")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := []string{WidgetProductDropdown, WidgetServicesDropdown}
	if got := a.Widgets(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Widgets() = %v, want %v", got, want)
	}
}

func TestGetErrors(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		slug string
		code errors.Code
	}{
		{"missing", errors.ErrCodeArticleNotFound},
		{"", errors.ErrCodeInvalidInput},
		{"Bad Slug", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		if _, err := c.Get(tt.slug); !errors.Is(err, tt.code) {
			t.Errorf("Get(%q) = %v, want %s", tt.slug, err, tt.code)
		}
	}
}

func TestParse(t *testing.T) {
	src := `+++
title = "Test"
slug = "test"
+++

## Intro

Some text.

<!-- widget:modal -->

## Details

` + "```" + `
## not a heading
<!-- widget:modal -->
` + "```" + `

### Intro
## Intro
`
	a, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if a.Title != "Test" || a.Slug != "test" {
		t.Errorf("meta = %+v", a.Meta)
	}
	if len(a.Segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(a.Segments))
	}
	if a.Segments[1].Widget != WidgetModal {
		t.Errorf("segment 1 widget = %q", a.Segments[1].Widget)
	}

	var ids []string
	for _, h := range a.Headings() {
		ids = append(ids, h.ID)
	}
	if got, want := strings.Join(ids, " "), "intro details intro-1 intro-2"; got != want {
		t.Errorf("heading ids = %q, want %q", got, want)
	}
	if d := a.Headings()[2].Depth; d != 3 {
		t.Errorf("depth = %d, want 3", d)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unterminated front matter", "+++\ntitle = \"x\"\n"},
		{"bad front matter", "+++\ntitle = \n+++\n"},
		{"unknown widget", "<!-- widget:carousel -->\n"},
		{"open fence", "```\ncode\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.src)); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Parse() = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestLoadFSRejectsDuplicates(t *testing.T) {
	fsys := fstest.MapFS{
		"a/one.md": {Data: []byte("+++\nslug = \"same\"\n+++\nbody\n")},
		"a/two.md": {Data: []byte("+++\nslug = \"same\"\n+++\nbody\n")},
	}
	if _, err := LoadFS(fsys, "a"); err == nil {
		t.Error("LoadFS() expected duplicate slug error")
	}
}

func TestLoadFSDefaultsSlugToFileName(t *testing.T) {
	fsys := fstest.MapFS{
		"a/queues.md": {Data: []byte("## Queues\n")},
		"a/notes.txt": {Data: []byte("ignored")},
	}
	c, err := LoadFS(fsys, "a")
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if _, err := c.Get("queues"); err != nil {
		t.Errorf("Get(queues): %v", err)
	}
	if n := len(c.Articles()); n != 1 {
		t.Errorf("got %d articles, want 1", n)
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Why headless":        "why-headless",
		"One entry point!":    "one-entry-point",
		"  Scroll lock ":      "scroll-lock",
		"API: GET /locations": "api-get-locations",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderLocatesHeadings(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	a, _ := c.Get("modal")
	r, err := NewRenderer("ascii")
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	page, err := r.Render(context.Background(), a, 60)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(page.Blocks) != len(a.Segments) {
		t.Fatalf("got %d blocks, want %d", len(page.Blocks), len(a.Segments))
	}
	if page.Blocks[1].Widget != WidgetModal {
		t.Errorf("block 1 = %+v, want modal widget", page.Blocks[1])
	}
	for _, b := range page.Blocks {
		lines := strings.Split(b.Text, "\n")
		prev := -1
		for _, h := range b.Headings {
			if h.Line <= prev {
				t.Errorf("heading %q at line %d, not after %d", h.ID, h.Line, prev)
			}
			if !strings.Contains(lines[h.Line], h.Title) {
				t.Errorf("line %d = %q, want heading %q", h.Line, lines[h.Line], h.Title)
			}
			prev = h.Line
		}
	}
}

func TestRenderCachesPerWidth(t *testing.T) {
	c, _ := Load()
	a, _ := c.Get("autocomplete")
	store := cache.NewMemoryCache()
	r, err := NewRenderer("notty", WithCache(store, 0))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	first, err := r.Render(ctx, a, 50)
	if err != nil {
		t.Fatal(err)
	}
	again, err := r.Render(ctx, a, 50)
	if err != nil {
		t.Fatal(err)
	}
	if first.Blocks[0].Text != again.Blocks[0].Text {
		t.Error("cached render differs from first render")
	}
	if store.Len() != 1 {
		t.Errorf("cache entries = %d, want 1", store.Len())
	}
	if _, err := r.Render(ctx, a, 70); err != nil {
		t.Fatal(err)
	}
	if store.Len() != 2 {
		t.Errorf("cache entries = %d, want 2", store.Len())
	}
}

func TestNewRendererUnknownStyle(t *testing.T) {
	if _, err := NewRenderer("neon"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("NewRenderer(neon) = %v, want INVALID_CONFIG", err)
	}
}
