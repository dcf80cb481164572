package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/sysdesign/internal/site"
	"github.com/matzehuels/sysdesign/pkg/dom"
	"github.com/matzehuels/sysdesign/pkg/modal"
	"github.com/matzehuels/sysdesign/pkg/search"
)

func newTestApp(t *testing.T, slug string, width, height int) *App {
	t.Helper()
	catalog, err := site.Load()
	if err != nil {
		t.Fatalf("site.Load: %v", err)
	}
	renderer, err := site.NewRenderer("notty")
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	store, err := search.NewEmbeddedStore()
	if err != nil {
		t.Fatalf("NewEmbeddedStore: %v", err)
	}
	a, err := New(context.Background(), Options{
		Catalog:  catalog,
		Renderer: renderer,
		Lookup:   search.NewLookup(store),
		Slug:     slug,
		Debounce: time.Millisecond,
		Offset:   1,
		Padding:  1,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)
	send(t, a, tea.WindowSizeMsg{Width: width, Height: height})
	if a.page == nil {
		t.Fatalf("page not loaded: %v", a.err)
	}
	return a
}

// send delivers msg and runs the resulting commands to completion. Spinner
// ticks are dropped so animation never loops.
func send(t *testing.T, a *App, msg tea.Msg) {
	t.Helper()
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		_, cmd := a.Update(next)
		queue = append(queue, run(cmd)...)
	}
}

func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil, spinner.TickMsg:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, run(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

func press(t *testing.T, a *App, keys ...string) {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "shift+tab":
			msg = tea.KeyMsg{Type: tea.KeyShiftTab}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		send(t, a, msg)
	}
}

func clickNode(t *testing.T, a *App, n *dom.Node) {
	t.Helper()
	if n == nil || !n.Connected() {
		t.Fatal("clickNode: node not in document")
	}
	b := n.Bounds()
	send(t, a, tea.MouseMsg{X: b.X, Y: b.Y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	send(t, a, tea.MouseMsg{X: b.X, Y: b.Y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
}

func widgetOf[W widget](t *testing.T, a *App) W {
	t.Helper()
	for _, i := range a.order {
		if w, ok := a.widgets[i].(W); ok {
			return w
		}
	}
	var zero W
	t.Fatalf("no %T widget on %s", zero, a.Article().Slug)
	return zero
}

func TestLoadsArticleWithWidgets(t *testing.T) {
	a := newTestApp(t, "dropdown", 120, 200)
	if len(a.order) != 2 {
		t.Fatalf("got %d widgets, want 2", len(a.order))
	}
	frame := a.View()
	for _, want := range []string{"System Design: A Headless Dropdown", "TABLE OF CONTENTS", "Select a product", "Apple Services"} {
		if !strings.Contains(frame, want) {
			t.Errorf("frame missing %q", want)
		}
	}
	if a.doc.ByID("products-trigger") == nil || a.doc.ByID("services-trigger") == nil {
		t.Error("dropdown triggers not mounted")
	}
}

func TestNarrowTerminalHidesSidebar(t *testing.T) {
	a := newTestApp(t, "dropdown", 80, 60)
	if strings.Contains(a.View(), "TABLE OF CONTENTS") {
		t.Error("sidebar shown at 80 columns")
	}
}

func TestUnknownSlug(t *testing.T) {
	catalog, _ := site.Load()
	renderer, _ := site.NewRenderer("notty")
	if _, err := New(context.Background(), Options{Catalog: catalog, Renderer: renderer, Slug: "nope"}); err == nil {
		t.Error("New() with unknown slug expected error")
	}
}

func TestMouseSelectsProduct(t *testing.T) {
	a := newTestApp(t, "dropdown", 120, 200)
	m := a.widgets[a.order[0]].(*menu)

	clickNode(t, a, m.trigger.Node())
	if !m.dd.IsOpen() {
		t.Fatal("controlled dropdown did not open")
	}
	if !strings.Contains(a.View(), "MacBook Pro") {
		t.Error("open panel not drawn")
	}

	second := m.dd.Options()[1].Node()
	b := second.Bounds()
	send(t, a, tea.MouseMsg{X: b.X + 1, Y: b.Y, Action: tea.MouseActionMotion})
	if !m.dd.Options()[1].Active() {
		t.Error("hovered option not active")
	}

	clickNode(t, a, second)
	if m.dd.IsOpen() {
		t.Error("dropdown still open after selection")
	}
	if m.label != "MacBook Pro" {
		t.Errorf("label = %q, want MacBook Pro", m.label)
	}
	if !strings.Contains(a.View(), "Selected MacBook Pro ($1,299)") {
		t.Error("selection not shown")
	}
}

func TestClickNeedsReleaseOnSameNode(t *testing.T) {
	a := newTestApp(t, "dropdown", 120, 200)
	m := a.widgets[a.order[1]].(*menu)
	b := m.trigger.Node().Bounds()
	send(t, a, tea.MouseMsg{X: b.X, Y: b.Y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	send(t, a, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if m.dd.IsOpen() {
		t.Error("dropdown opened on a drag off the trigger")
	}
}

func TestOutsidePressClosesDropdown(t *testing.T) {
	a := newTestApp(t, "dropdown", 120, 200)
	m := a.widgets[a.order[1]].(*menu)
	clickNode(t, a, m.trigger.Node())
	if !m.dd.IsOpen() {
		t.Fatal("uncontrolled dropdown did not open")
	}
	send(t, a, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.dd.IsOpen() {
		t.Error("dropdown still open after outside press")
	}
}

func TestKeyboardDropdown(t *testing.T) {
	a := newTestApp(t, "dropdown", 120, 200)
	m := a.widgets[a.order[1]].(*menu)
	press(t, a, "tab", "tab")
	if a.doc.ActiveElement() != m.trigger.Node() {
		t.Fatalf("focus = %v, want services trigger", a.doc.ActiveElement())
	}
	press(t, a, "enter")
	if !m.dd.IsOpen() {
		t.Fatal("enter did not open the dropdown")
	}
	_, before := a.doc.ScrollOffset()
	press(t, a, "down", "down")
	if _, after := a.doc.ScrollOffset(); after != before {
		t.Error("arrow keys scrolled the page while the menu was open")
	}
	if !m.dd.Options()[1].Active() {
		t.Error("second option not active after two downs")
	}
	press(t, a, "enter")
	if m.dd.IsOpen() {
		t.Error("dropdown open after choosing")
	}
	if m.status != "Opening App Store..." {
		t.Errorf("status = %q", m.status)
	}
}

func TestModalLocksScrollAndTrapsFocus(t *testing.T) {
	a := newTestApp(t, "modal", 120, 20)
	d := widgetOf[*dialogDemo](t, a)

	press(t, a, "j")
	if _, y := a.doc.ScrollOffset(); y != 1 {
		t.Fatalf("scroll = %d, want 1", y)
	}
	press(t, a, "k")

	press(t, a, "tab")
	if a.doc.ActiveElement() != d.opener {
		t.Fatalf("focus = %v, want opener", a.doc.ActiveElement())
	}
	press(t, a, "enter")
	if !d.Visible() {
		t.Fatal("modal did not open")
	}
	if modal.Open(a.doc) != 1 {
		t.Errorf("open dialogs = %d, want 1", modal.Open(a.doc))
	}
	if !strings.Contains(a.View(), "System Design Modal") {
		t.Error("dialog not drawn")
	}

	press(t, a, "j", "pgdown")
	if _, y := a.doc.ScrollOffset(); y != 0 {
		t.Errorf("page scrolled to %d under the dialog", y)
	}

	for i := 0; i < 5; i++ {
		press(t, a, "tab")
		if !d.m.Node().Contains(a.doc.ActiveElement()) {
			t.Fatalf("tab %d moved focus out of the dialog", i)
		}
	}

	press(t, a, "q")
	if !d.Visible() {
		t.Fatal("q closed the reader under an open dialog")
	}

	press(t, a, "esc")
	if d.Visible() {
		t.Fatal("escape did not close the modal")
	}
	if a.doc.ActiveElement() != d.opener {
		t.Error("focus not returned to the opener")
	}
	press(t, a, "j")
	if _, y := a.doc.ScrollOffset(); y != 1 {
		t.Errorf("scroll = %d after close, want 1", y)
	}
}

func TestModalFooterActionCloses(t *testing.T) {
	a := newTestApp(t, "modal", 120, 40)
	d := widgetOf[*dialogDemo](t, a)
	clickNode(t, a, d.opener)
	if !d.Visible() {
		t.Fatal("modal did not open on click")
	}
	footer := d.m.Sections()[2]
	clickNode(t, a, footer.Actions()[1].Node())
	if d.Visible() {
		t.Error("continue did not close the modal")
	}
	if d.status != "Continued." {
		t.Errorf("status = %q", d.status)
	}
}

func TestModalBackdropCloses(t *testing.T) {
	a := newTestApp(t, "modal", 120, 40)
	d := widgetOf[*dialogDemo](t, a)
	clickNode(t, a, d.opener)
	send(t, a, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	send(t, a, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if d.Visible() {
		t.Error("backdrop click did not close the modal")
	}
}

func TestLocationSearch(t *testing.T) {
	a := newTestApp(t, "autocomplete", 120, 60)
	w := widgetOf[*locationSearch](t, a)

	press(t, a, "tab")
	if !w.focused() {
		t.Fatal("input not focused")
	}
	press(t, a, "b", "e", "r")
	if got := w.input.Value(); got != "ber" {
		t.Fatalf("input = %q, want ber", got)
	}
	if !w.dd.IsOpen() {
		t.Fatal("results not shown")
	}
	if !strings.Contains(a.View(), "Berlin Germany, Europe") {
		t.Error("first result not drawn")
	}

	press(t, a, "down", "enter")
	if w.dd.IsOpen() {
		t.Error("dropdown open after choosing")
	}
	if got := w.input.Value(); got != "Berlin Germany, Europe" {
		t.Errorf("input = %q after choosing", got)
	}
}

func TestLocationSearchKeysStayInInput(t *testing.T) {
	a := newTestApp(t, "autocomplete", 120, 60)
	w := widgetOf[*locationSearch](t, a)
	press(t, a, "tab", "q", "n", "j")
	if got := w.input.Value(); got != "qnj" {
		t.Errorf("input = %q, want qnj", got)
	}
	if a.Article().Slug != "autocomplete" {
		t.Error("typing switched the article")
	}
}

func TestLocationSearchNoResultsAndBlank(t *testing.T) {
	a := newTestApp(t, "autocomplete", 120, 60)
	w := widgetOf[*locationSearch](t, a)
	press(t, a, "tab", "z", "z", "z")
	if w.dd.IsOpen() {
		t.Error("dropdown open without results")
	}
	if !strings.Contains(a.View(), "No locations found.") {
		t.Error("empty state not shown")
	}
	press(t, a, "backspace", "backspace", "backspace")
	if w.pending || w.query != "" || len(w.results) != 0 {
		t.Errorf("blank query left state: pending=%v query=%q results=%d", w.pending, w.query, len(w.results))
	}
	if strings.Contains(a.View(), "No locations found.") {
		t.Error("empty state shown for a blank query")
	}
}

func TestStaleDebounceIgnored(t *testing.T) {
	a := newTestApp(t, "autocomplete", 120, 60)
	w := widgetOf[*locationSearch](t, a)
	w.seq = 5
	w.pending = true
	if cmd := w.Update(debounceMsg{id: w.id, seq: 4, query: "old"}); cmd != nil {
		t.Error("stale debounce started a lookup")
	}
	w.Update(resultsMsg{id: w.id, seq: 4, query: "old", results: []search.Location{{ID: 1, Name: "Old"}}})
	if len(w.results) != 0 || !w.pending {
		t.Error("stale results applied")
	}
	if cmd := w.Update(debounceMsg{id: w.id, seq: 5, query: "ber"}); cmd == nil {
		t.Error("current debounce did not start a lookup")
	}
}

func TestArticleNavigationReplacesWidgets(t *testing.T) {
	a := newTestApp(t, "dropdown", 120, 60)
	if a.doc.ByID("products") == nil {
		t.Fatal("products dropdown missing")
	}
	press(t, a, "p")
	if a.Article().Slug == "dropdown" {
		t.Fatal("article did not change")
	}
	if a.doc.ByID("products") != nil {
		t.Error("old widgets still mounted")
	}
	if a.page.Meta.Slug != a.Article().Slug {
		t.Errorf("page %q does not match article %q", a.page.Meta.Slug, a.Article().Slug)
	}
}

func TestSectionJumpAndWheel(t *testing.T) {
	a := newTestApp(t, "dropdown", 120, 20)
	press(t, a, "]")
	first := a.spy.Active()
	press(t, a, "]")
	second := a.spy.Active()
	if first == "" || second == "" || first == second {
		t.Errorf("section jumps = %q then %q", first, second)
	}
	_, y := a.doc.ScrollOffset()
	if y == 0 {
		t.Error("section jump did not scroll")
	}
	send(t, a, tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	if _, after := a.doc.ScrollOffset(); after != max(y-wheelStep, 0) {
		t.Errorf("wheel scroll = %d, want %d", after, max(y-wheelStep, 0))
	}
}

func TestAnchorJumpsOnLoad(t *testing.T) {
	catalog, _ := site.Load()
	renderer, _ := site.NewRenderer("notty")
	a, err := New(context.Background(), Options{Catalog: catalog, Renderer: renderer, Slug: "modal", Anchor: "#portals"})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(a.Close)
	send(t, a, tea.WindowSizeMsg{Width: 120, Height: 15})
	if a.spy.Active() != "portals" {
		t.Errorf("active = %q, want portals", a.spy.Active())
	}
	if _, y := a.doc.ScrollOffset(); y == 0 {
		t.Error("anchor did not scroll")
	}
}
