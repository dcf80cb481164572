// Package site holds the article catalogue of the sysdesign terminal site.
//
// Articles are markdown files with TOML front matter between "+++" fences.
// A line of the form
//
//	<!-- widget:product-dropdown -->
//
// splits the body and marks where an interactive widget is embedded. Headings
// are collected per segment so the reader can build a table of contents once
// the page is laid out.
package site

import (
	"bytes"
	"embed"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sysdesign/pkg/errors"
	"github.com/matzehuels/sysdesign/pkg/toc"
)

//go:embed articles/*.md
var articlesFS embed.FS

// Widgets the terminal reader knows how to embed.
const (
	WidgetProductDropdown  = "product-dropdown"
	WidgetServicesDropdown = "services-dropdown"
	WidgetModal            = "modal"
	WidgetLocationSearch   = "location-search"
)

var knownWidgets = []string{
	WidgetProductDropdown,
	WidgetServicesDropdown,
	WidgetModal,
	WidgetLocationSearch,
}

var (
	widgetRe  = regexp.MustCompile(`^\s*<!--\s*widget:([a-z0-9-]+)\s*-->\s*$`)
	headingRe = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*\s*$`)
)

const frontMatterFence = "+++"

// Meta is an article's front matter.
type Meta struct {
	Title   string    `toml:"title" json:"title"`
	Slug    string    `toml:"slug" json:"slug"`
	Date    time.Time `toml:"date" json:"date"`
	Summary string    `toml:"summary" json:"summary"`
	Tags    []string  `toml:"tags" json:"tags"`
}

// Segment is either a run of markdown or a widget placeholder.
type Segment struct {
	Markdown string
	Widget   string
	Headings []toc.Heading
}

// Article is a parsed article.
type Article struct {
	Meta
	Segments []Segment
}

// Widgets returns the widget names embedded in the article, in order.
func (a *Article) Widgets() []string {
	var out []string
	for _, s := range a.Segments {
		if s.Widget != "" {
			out = append(out, s.Widget)
		}
	}
	return out
}

// Headings returns every heading of the article with Line unset.
func (a *Article) Headings() []toc.Heading {
	var out []toc.Heading
	for _, s := range a.Segments {
		out = append(out, s.Headings...)
	}
	return out
}

// Catalog is the set of articles, newest first.
type Catalog struct {
	articles []*Article
	bySlug   map[string]*Article
}

// Load reads the embedded articles.
func Load() (*Catalog, error) {
	return LoadFS(articlesFS, "articles")
}

// LoadFS reads every .md file in dir of fsys.
func LoadFS(fsys fs.FS, dir string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read articles")
	}
	c := &Catalog{bySlug: make(map[string]*Article)}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".md" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", e.Name())
		}
		a, err := Parse(data)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "parse %s", e.Name())
		}
		if a.Slug == "" {
			a.Slug = strings.TrimSuffix(e.Name(), ".md")
		}
		if err := errors.ValidateArticleSlug(a.Slug); err != nil {
			return nil, err
		}
		if _, dup := c.bySlug[a.Slug]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate article slug %q", a.Slug)
		}
		c.bySlug[a.Slug] = a
		c.articles = append(c.articles, a)
	}
	slices.SortStableFunc(c.articles, func(a, b *Article) int {
		if n := b.Date.Compare(a.Date); n != 0 {
			return n
		}
		return strings.Compare(a.Slug, b.Slug)
	})
	return c, nil
}

// Articles returns all articles, newest first.
func (c *Catalog) Articles() []*Article {
	return slices.Clone(c.articles)
}

// Get returns the article with the given slug.
func (c *Catalog) Get(slug string) (*Article, error) {
	if err := errors.ValidateArticleSlug(slug); err != nil {
		return nil, err
	}
	a, ok := c.bySlug[slug]
	if !ok {
		return nil, errors.New(errors.ErrCodeArticleNotFound, "article %q not found", slug)
	}
	return a, nil
}

// Parse reads one article: optional front matter, then the markdown body.
func Parse(data []byte) (*Article, error) {
	a := &Article{}
	body := string(bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n")))
	if rest, ok := strings.CutPrefix(body, frontMatterFence+"\n"); ok {
		fm, after, found := strings.Cut(rest, "\n"+frontMatterFence+"\n")
		if !found {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unterminated front matter")
		}
		if _, err := toml.Decode(fm, &a.Meta); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "front matter")
		}
		body = after
	}

	ids := make(map[string]int)
	var (
		buf   []string
		heads []toc.Heading
		fence bool
	)
	flush := func() {
		md := strings.Trim(strings.Join(buf, "\n"), "\n")
		if md != "" {
			a.Segments = append(a.Segments, Segment{Markdown: md, Headings: heads})
		}
		buf, heads = nil, nil
	}
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			fence = !fence
		}
		if !fence {
			if m := widgetRe.FindStringSubmatch(line); m != nil {
				if !slices.Contains(knownWidgets, m[1]) {
					return nil, errors.New(errors.ErrCodeInvalidInput, "unknown widget %q", m[1])
				}
				flush()
				a.Segments = append(a.Segments, Segment{Widget: m[1]})
				continue
			}
			if m := headingRe.FindStringSubmatch(line); m != nil {
				heads = append(heads, toc.Heading{
					ID:    uniqueID(ids, Slugify(m[2])),
					Title: m[2],
					Depth: len(m[1]),
				})
			}
		}
		buf = append(buf, line)
	}
	if fence {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unterminated code fence")
	}
	flush()
	return a, nil
}

// Slugify turns a heading into an anchor id: lower case, punctuation
// dropped, spaces replaced by dashes.
func Slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}

func uniqueID(seen map[string]int, id string) string {
	n := seen[id]
	seen[id] = n + 1
	if n == 0 {
		return id
	}
	return id + "-" + strconv.Itoa(n)
}
