package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/sysdesign/pkg/dom"
	"github.com/matzehuels/sysdesign/pkg/dropdown"
	"github.com/matzehuels/sysdesign/pkg/errors"
	"github.com/matzehuels/sysdesign/pkg/position"
	"github.com/matzehuels/sysdesign/pkg/search"
	"github.com/matzehuels/sysdesign/pkg/view"
)

// debounceMsg fires when typing paused. Only the latest sequence number is
// acted on.
type debounceMsg struct {
	id    string
	seq   int
	query string
}

// resultsMsg carries a finished lookup.
type resultsMsg struct {
	id      string
	seq     int
	query   string
	results []search.Location
}

// locationSearch is the autocomplete: a text input acting as the trigger of
// a controlled dropdown whose options are lookup results.
type locationSearch struct {
	env     *env
	id      string
	input   textinput.Model
	spinner spinner.Model
	dd      *dropdown.Dropdown
	trigger *dropdown.Trigger

	seq      int
	pending  bool
	query    string
	results  []search.Location
	selected string
	triggerY int
}

func newLocationSearch(e *env) (*locationSearch, error) {
	ti := textinput.New()
	ti.Placeholder = "Search for a location..."
	ti.Prompt = "⌕ "
	ti.Width = triggerWidth - 4
	ti.CharLimit = errors.MaxQueryLength

	w := &locationSearch{
		env:     e,
		id:      "locations",
		input:   ti,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(colorCyan))),
	}
	dd, err := dropdown.New(e.doc, dropdown.Options{
		Open:         dropdown.Bool(false),
		OnOpenChange: w.requestOpen,
		Placement:    position.PlacementBottomStart,
		Offset:       e.offset,
		Padding:      e.padding,
		ID:           w.id,
	})
	if err != nil {
		return nil, err
	}
	w.dd = dd

	st := e.styles
	w.trigger, err = dd.NewTrigger(view.Func(func(bool) string {
		style := st.Trigger
		if w.focused() {
			style = st.TriggerFocused
		}
		return style.Width(triggerWidth + 2).Render(w.input.View())
	}))
	if err != nil {
		dd.Unmount()
		return nil, err
	}
	w.trigger.Node().SetAttr("aria-autocomplete", "list")
	if _, err := dd.NewPanel(dropdown.WithPanelStyle(st.Panel)); err != nil {
		dd.Unmount()
		return nil, err
	}
	return w, nil
}

// requestOpen receives open requests from the dropdown. There is nothing to
// show without results, so opening is refused then.
func (w *locationSearch) requestOpen(open bool) {
	if open && len(w.results) == 0 {
		return
	}
	w.dd.SyncOpen(open)
}

func (w *locationSearch) focused() bool {
	return w.trigger != nil && w.env.doc.ActiveElement() == w.trigger.Node()
}

// HandleKey feeds editing keys to the input while it has focus. Navigation
// keys go to the document so the dropdown and focus handling see them.
func (w *locationSearch) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if !w.focused() {
		return false, nil
	}
	switch msg.String() {
	case dom.KeyTab, dom.KeyShiftTab, dom.KeyEscape, dom.KeyUp, dom.KeyDown, dom.KeyEnter, "ctrl+c":
		return false, nil
	}
	if !w.input.Focused() {
		w.input.Focus()
	}
	before := w.input.Value()
	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	if w.input.Value() == before {
		return true, cmd
	}
	return true, tea.Batch(cmd, w.schedule(w.input.Value()))
}

// schedule starts the debounce for query. A blank query clears the results
// at once.
func (w *locationSearch) schedule(query string) tea.Cmd {
	w.seq++
	seq := w.seq
	if strings.TrimSpace(query) == "" {
		w.pending = false
		w.query = ""
		w.setResults(nil)
		return nil
	}
	tick := tea.Tick(w.env.debounce, func(time.Time) tea.Msg {
		return debounceMsg{id: w.id, seq: seq, query: query}
	})
	if w.pending {
		return tick
	}
	w.pending = true
	return tea.Batch(tick, w.spinner.Tick)
}

func (w *locationSearch) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case debounceMsg:
		if msg.id != w.id || msg.seq != w.seq {
			return nil
		}
		lookup, ctx := w.env.lookup, w.env.ctx
		return func() tea.Msg {
			return resultsMsg{id: msg.id, seq: msg.seq, query: msg.query, results: lookup.Find(ctx, msg.query)}
		}
	case resultsMsg:
		if msg.id != w.id || msg.seq != w.seq {
			return nil
		}
		w.pending = false
		w.query = msg.query
		w.setResults(msg.results)
	case spinner.TickMsg:
		if !w.pending {
			return nil
		}
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (w *locationSearch) setResults(locs []search.Location) {
	for _, o := range w.dd.Options() {
		o.Remove()
	}
	w.results = locs
	st := w.env.styles
	for _, loc := range locs {
		content := view.Func(func(active bool) string {
			style := st.Option
			if active {
				style = st.OptionActive
			}
			return style.Width(triggerWidth + 2).Render(loc.Label())
		})
		if _, err := w.dd.NewOption(content, func() { w.choose(loc) }); err != nil {
			return
		}
	}
	w.dd.SyncOpen(len(locs) > 0)
}

func (w *locationSearch) choose(loc search.Location) {
	w.seq++
	w.pending = false
	w.selected = loc.Label()
	w.input.SetValue(w.selected)
	w.input.CursorEnd()
}

func (w *locationSearch) View() string {
	if w.focused() {
		w.input.Focus()
	} else {
		w.input.Blur()
	}
	st := w.env.styles
	lines := []string{st.CardTitle.Render("Search Locations"), ""}
	w.triggerY = len(lines)
	lines = append(lines, w.trigger.Render())
	switch {
	case w.pending:
		lines = append(lines, w.spinner.View()+st.CardText.Render(" Loading..."))
	case w.query != "" && len(w.results) == 0:
		lines = append(lines, st.CardText.Render("No locations found."))
	case w.selected != "":
		lines = append(lines, st.Selected.Render("Selected "+w.selected))
	}
	return strings.Join(lines, "\n")
}

func (w *locationSearch) Place(x, y int) { w.trigger.Place(x, y+w.triggerY) }

func (w *locationSearch) Overlay(screen string) string { return w.dd.Overlay(screen) }

func (w *locationSearch) Close() {
	w.seq++
	w.dd.Unmount()
}
