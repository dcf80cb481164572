// Package tui is the terminal reader for the sysdesign articles.
//
// The reader keeps a headless document (package dom) in sync with what it
// draws. Each frame lays the page out, records where every interactive node
// landed, and composites floating panels and dialogs over the result. Mouse
// and keyboard input is translated into document events, so the dropdown and
// modal primitives behave exactly as they do under test.
package tui

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/sysdesign/internal/site"
	"github.com/matzehuels/sysdesign/pkg/dom"
	"github.com/matzehuels/sysdesign/pkg/errors"
	"github.com/matzehuels/sysdesign/pkg/modal"
	"github.com/matzehuels/sysdesign/pkg/search"
	"github.com/matzehuels/sysdesign/pkg/toc"
	"github.com/matzehuels/sysdesign/pkg/view"
)

const (
	sidebarWidth   = 28
	sidebarMinimum = 100
	widgetIndent   = 2
	wheelStep      = 3
)

// Options configures the reader.
type Options struct {
	Catalog  *site.Catalog
	Renderer *site.Renderer
	Lookup   *search.Lookup

	// Slug selects the first article. Empty opens the newest.
	Slug string

	// Anchor is a heading id to jump to once the first page is laid out.
	Anchor string

	// Debounce delays location lookups after typing.
	Debounce time.Duration

	// Offset and Padding position dropdown panels, in cells.
	Offset  int
	Padding int

	// MaxWidth caps the article width. Zero follows the terminal.
	MaxWidth int

	Styles *Styles
}

// pageMsg delivers a rendered article.
type pageMsg struct {
	slug  string
	width int
	page  *site.Page
	err   error
}

// App is the bubbletea model of the reader.
type App struct {
	opts     Options
	env      *env
	doc      *dom.Document
	keys     keyMap
	help     help.Model
	spy      *toc.Spy
	articles []*site.Article
	index    int

	page    *site.Page
	widgets map[int]widget
	order   []int
	pressed *dom.Node
	anchor  string
	err     error

	width, height int
	frame         string
}

// New creates the reader.
func New(ctx context.Context, opts Options) (*App, error) {
	if opts.Catalog == nil || opts.Renderer == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "reader needs a catalog and a renderer")
	}
	articles := opts.Catalog.Articles()
	if len(articles) == 0 {
		return nil, errors.New(errors.ErrCodeArticleNotFound, "no articles")
	}
	index := 0
	if opts.Slug != "" {
		a, err := opts.Catalog.Get(opts.Slug)
		if err != nil {
			return nil, err
		}
		for i, candidate := range articles {
			if candidate == a {
				index = i
			}
		}
	}
	styles := DefaultStyles()
	if opts.Styles != nil {
		styles = *opts.Styles
	}

	a := &App{
		opts:     opts,
		doc:      dom.New(80, 24),
		keys:     defaultKeyMap(),
		help:     help.New(),
		spy:      toc.New(nil),
		articles: articles,
		index:    index,
		widgets:  make(map[int]widget),
		anchor:   opts.Anchor,
		width:    80,
		height:   24,
	}
	a.env = &env{
		ctx:      ctx,
		doc:      a.doc,
		styles:   styles,
		lookup:   opts.Lookup,
		debounce: opts.Debounce,
		offset:   opts.Offset,
		padding:  opts.Padding,
	}
	a.spy.Attach(a.doc)
	return a, nil
}

// Document returns the reader's document.
func (a *App) Document() *dom.Document { return a.doc }

// Article returns the article being shown.
func (a *App) Article() *site.Article { return a.articles[a.index] }

// Init implements tea.Model.
func (a *App) Init() tea.Cmd { return a.load() }

// Close unmounts every widget and stops the table of contents.
func (a *App) Close() {
	for _, w := range a.widgets {
		w.Close()
	}
	clear(a.widgets)
	a.order = nil
	a.spy.Detach()
}

func (a *App) sidebar() int {
	if a.width < sidebarMinimum {
		return 0
	}
	return sidebarWidth
}

func (a *App) pageWidth() int {
	w := a.width
	if s := a.sidebar(); s > 0 {
		w -= s + 1
	}
	if a.opts.MaxWidth > 0 {
		w = min(w, a.opts.MaxWidth)
	}
	return w
}

// viewHeight is the number of page rows above the status line.
func (a *App) viewHeight() int { return max(a.height-1, 1) }

func (a *App) load() tea.Cmd {
	article := a.Article()
	width := a.pageWidth()
	ctx, r := a.env.ctx, a.opts.Renderer
	return func() tea.Msg {
		page, err := r.Render(ctx, article, width)
		return pageMsg{slug: article.Slug, width: width, page: page, err: err}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		before := a.pageWidth()
		a.width, a.height = msg.Width, msg.Height
		a.doc.Resize(msg.Width, msg.Height)
		a.help.Width = msg.Width
		if a.page == nil || a.pageWidth() != before {
			cmds = append(cmds, a.load())
		}
	case pageMsg:
		a.setPage(msg)
	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a, tea.Quit
		}
		cmds = append(cmds, a.handleKey(msg))
	case tea.MouseMsg:
		a.handleMouse(msg)
	default:
		for _, i := range a.order {
			cmds = append(cmds, a.widgets[i].Update(msg))
		}
	}
	a.layout()
	return a, tea.Batch(cmds...)
}

// View implements tea.Model.
func (a *App) View() string { return a.frame }

func (a *App) setPage(msg pageMsg) {
	if msg.err != nil {
		a.err = msg.err
		return
	}
	if msg.slug != a.Article().Slug || msg.width != a.pageWidth() {
		return
	}
	a.err = nil
	if a.page == nil || a.page.Meta.Slug != msg.slug {
		a.mountWidgets(msg.page)
		_, y := a.doc.ScrollOffset()
		a.doc.ScrollBy(0, -y)
	}
	a.page = msg.page
}

func (a *App) mountWidgets(page *site.Page) {
	for _, w := range a.widgets {
		w.Close()
	}
	clear(a.widgets)
	a.order = a.order[:0]
	a.doc.Blur()
	for i, b := range page.Blocks {
		if b.Widget == "" {
			continue
		}
		w, err := newWidget(b.Widget, a.env)
		if err != nil {
			a.err = err
			continue
		}
		a.widgets[i] = w
		a.order = append(a.order, i)
	}
}

func (a *App) openArticle(step int) tea.Cmd {
	if modal.Open(a.doc) > 0 {
		return nil
	}
	next := (a.index + step + len(a.articles)) % len(a.articles)
	if next == a.index {
		return nil
	}
	a.index = next
	return a.load()
}

func (a *App) scrollTo(line int) {
	_, y := a.doc.ScrollOffset()
	a.doc.ScrollBy(0, line-y)
}

// jumpSection moves to the next or previous heading of the table of contents.
func (a *App) jumpSection(step int) {
	heads := a.spy.Headings()
	if len(heads) == 0 {
		return
	}
	idx := -1
	for i, h := range heads {
		if h.ID == a.spy.Active() {
			idx = i
		}
	}
	idx = min(max(idx+step, 0), len(heads)-1)
	if line, ok := a.spy.Jump(heads[idx].ID); ok {
		a.scrollTo(line)
	}
}

// layout renders the frame and records the screen position of every node.
func (a *App) layout() {
	if a.page == nil {
		a.frame = a.statusLine()
		if a.err == nil {
			a.frame = "\n  Loading...\n\n" + a.frame
		}
		return
	}
	st := a.env.styles
	meta := a.page.Meta
	lines := []string{"", st.Title.Render(meta.Title)}
	if !meta.Date.IsZero() {
		lines = append(lines, st.Meta.Render(meta.Date.Format("January 2, 2006")+"  ·  "+strings.Join(meta.Tags, ", ")))
	}
	lines = append(lines, "")

	_, scrollY := a.doc.ScrollOffset()
	var heads []toc.Heading
	for i, b := range a.page.Blocks {
		start := len(lines)
		if w, ok := a.widgets[i]; ok {
			block := w.View()
			w.Place(widgetIndent, start-scrollY)
			pad := strings.Repeat(" ", widgetIndent)
			for _, ln := range strings.Split(block, "\n") {
				lines = append(lines, pad+ln)
			}
			lines = append(lines, "")
			continue
		}
		for _, h := range b.Headings {
			h.Line += start
			heads = append(heads, h)
		}
		lines = append(lines, strings.Split(b.Text, "\n")...)
	}

	viewH := a.viewHeight()
	a.doc.SetScrollLimit(0, max(len(lines)-viewH, 0))
	a.spy.SetHeadings(heads)
	_, scrollY = a.doc.ScrollOffset()
	a.spy.Update(scrollY, viewH)
	if a.anchor != "" {
		if line, ok := a.spy.Jump(a.anchor); ok {
			a.anchor = ""
			a.scrollTo(line)
			a.layout()
			return
		}
		a.anchor = ""
	}

	body := view.Fit(view.Window(strings.Join(lines, "\n"), scrollY, viewH), a.pageWidth(), viewH)
	body = lipgloss.NewStyle().Width(a.pageWidth()).Render(body)
	if s := a.sidebar(); s > 0 {
		side := view.Fit(a.spy.Render(s-1, toc.DefaultStyles()), s, viewH)
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", side)
	}
	screen := body + "\n" + a.statusLine()

	// Dialogs paint last so they cover open panels.
	var dialogs []widget
	for _, i := range a.order {
		w := a.widgets[i]
		if _, ok := w.(*dialogDemo); ok {
			dialogs = append(dialogs, w)
			continue
		}
		screen = w.Overlay(screen)
	}
	for _, w := range dialogs {
		screen = w.Overlay(screen)
	}
	a.frame = screen
}

func (a *App) statusLine() string {
	st := a.env.styles
	pos := strconv.Itoa(a.index+1) + "/" + strconv.Itoa(len(a.articles))
	left := st.Status.Render(pos + "  ")
	if a.err != nil {
		return left + st.Error.Render(errors.UserMessage(a.err))
	}
	return left + a.help.View(a.keys)
}
