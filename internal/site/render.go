package site

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/matzehuels/sysdesign/pkg/cache"
	"github.com/matzehuels/sysdesign/pkg/errors"
	"github.com/matzehuels/sysdesign/pkg/httputil"
	"github.com/matzehuels/sysdesign/pkg/toc"
)

// StyleAuto picks a dark or light style from the terminal background.
const StyleAuto = "auto"

// Block is one rendered segment. Heading lines are relative to the block.
type Block struct {
	Text     string        `json:"text,omitempty"`
	Widget   string        `json:"widget,omitempty"`
	Headings []toc.Heading `json:"headings,omitempty"`
}

// Page is an article rendered for a given width.
type Page struct {
	Meta   Meta    `json:"meta"`
	Width  int     `json:"width"`
	Blocks []Block `json:"blocks"`
}

// Renderer renders articles to ANSI text with glamour. Results are cached per
// slug, width and style.
type Renderer struct {
	style string
	cache *httputil.Cache
	keyer cache.Keyer
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithCache caches rendered pages in store for ttl.
func WithCache(store cache.Cache, ttl time.Duration) RendererOption {
	return func(r *Renderer) {
		r.cache = httputil.NewCache(store, ttl).Namespace("article:")
	}
}

// WithKeyer overrides how cache keys are derived.
func WithKeyer(k cache.Keyer) RendererOption {
	return func(r *Renderer) { r.keyer = k }
}

// NewRenderer creates a renderer for a glamour standard style ("dark",
// "light", "ascii", "notty", ...) or StyleAuto.
func NewRenderer(style string, opts ...RendererOption) (*Renderer, error) {
	if style == "" {
		style = StyleAuto
	}
	r := &Renderer{
		style: style,
		cache: httputil.NewCache(nil, 0),
		keyer: cache.DefaultKeyer{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if _, err := r.term(40); err != nil {
		return nil, err
	}
	return r, nil
}

// Style returns the configured style name.
func (r *Renderer) Style() string { return r.style }

func (r *Renderer) term(width int) (*glamour.TermRenderer, error) {
	styleOpt := glamour.WithStandardStyle(r.style)
	if r.style == StyleAuto {
		styleOpt = glamour.WithAutoStyle()
	}
	tr, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "markdown style %q", r.style)
	}
	return tr, nil
}

// Render renders a for a column width cells wide.
func (r *Renderer) Render(ctx context.Context, a *Article, width int) (*Page, error) {
	width = max(width, 20)
	key := r.keyer.ArticleKey(a.Slug, cache.ArticleKeyOpts{Width: width, Style: r.style})
	var page Page
	err := r.cache.Cached(ctx, key, false, &page, func() error {
		p, err := r.render(a, width)
		if err != nil {
			return err
		}
		page = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *Renderer) render(a *Article, width int) (*Page, error) {
	tr, err := r.term(width)
	if err != nil {
		return nil, err
	}
	page := &Page{Meta: a.Meta, Width: width}
	for _, seg := range a.Segments {
		if seg.Widget != "" {
			page.Blocks = append(page.Blocks, Block{Widget: seg.Widget})
			continue
		}
		out, err := tr.Render(seg.Markdown)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", a.Slug)
		}
		out = strings.Trim(out, "\n")
		page.Blocks = append(page.Blocks, Block{
			Text:     out,
			Headings: locateHeadings(out, seg.Headings),
		})
	}
	return page, nil
}

// locateHeadings finds the rendered line of each heading, scanning forward
// so repeated titles resolve in order. A heading that cannot be found takes
// the line of the previous one.
func locateHeadings(rendered string, heads []toc.Heading) []toc.Heading {
	if len(heads) == 0 {
		return nil
	}
	lines := strings.Split(xansi.Strip(rendered), "\n")
	out := make([]toc.Heading, len(heads))
	at := 0
	for i, h := range heads {
		h.Line = at
		for j := at; j < len(lines); j++ {
			if strings.Contains(lines[j], h.Title) {
				h.Line, at = j, j+1
				break
			}
		}
		out[i] = h
	}
	return out
}
