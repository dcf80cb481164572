package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/sysdesign/internal/site"
	"github.com/matzehuels/sysdesign/pkg/dom"
	"github.com/matzehuels/sysdesign/pkg/dropdown"
	"github.com/matzehuels/sysdesign/pkg/errors"
	"github.com/matzehuels/sysdesign/pkg/position"
	"github.com/matzehuels/sysdesign/pkg/search"
	"github.com/matzehuels/sysdesign/pkg/view"
)

// widget is an interactive block embedded in an article.
type widget interface {
	// View renders the inline block.
	View() string

	// Place records the block's top-left screen cell after layout.
	Place(x, y int)

	// Overlay composites floating parts (panels, dialogs) onto the screen.
	Overlay(screen string) string

	// Update handles asynchronous messages addressed to the widget.
	Update(msg tea.Msg) tea.Cmd

	// Close unmounts the widget and releases its listeners.
	Close()
}

// keyHandler is implemented by widgets that consume keys while focused.
type keyHandler interface {
	HandleKey(msg tea.KeyMsg) (bool, tea.Cmd)
}

// env is what widgets share with the reader.
type env struct {
	ctx      context.Context
	doc      *dom.Document
	styles   Styles
	lookup   *search.Lookup
	debounce time.Duration
	offset   int
	padding  int
}

func newWidget(name string, e *env) (widget, error) {
	var (
		w   widget
		err error
	)
	switch name {
	case site.WidgetProductDropdown:
		w, err = asWidget(newProductMenu(e))
	case site.WidgetServicesDropdown:
		w, err = asWidget(newServicesMenu(e))
	case site.WidgetModal:
		w, err = asWidget(newDialogDemo(e))
	case site.WidgetLocationSearch:
		if e.lookup == nil {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "location search needs a lookup")
		}
		w, err = asWidget(newLocationSearch(e))
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown widget %q", name)
	}
	return w, err
}

// asWidget drops the concrete type, keeping a failed constructor's result a
// true nil.
func asWidget[W widget](w W, err error) (widget, error) {
	if err != nil {
		return nil, err
	}
	return w, nil
}

// menuItem is one row of a demo menu.
type menuItem struct {
	name   string
	detail string
	extra  string
}

var products = []menuItem{
	{name: "MacBook Air", extra: "$999", detail: "Supercharged by M2"},
	{name: "MacBook Pro", extra: "$1,299", detail: "Supercharged by M3"},
	{name: "iMac", extra: "$1,299", detail: "24-inch, M3 chip"},
	{name: "Mac Studio", extra: "$1,999", detail: "M2 Max or M2 Ultra"},
}

var services = []menuItem{
	{name: "iCloud", detail: "Sync your data"},
	{name: "App Store", detail: "Download apps"},
	{name: "Apple Music", detail: "Stream music"},
	{name: "Apple TV+", detail: "Watch originals"},
}

const (
	triggerWidth = 30
	optionWidth  = 34
)

// menu is a dropdown demo: a card with a trigger and a status line.
type menu struct {
	env      *env
	title    string
	blurb    string
	label    string
	status   string
	dd       *dropdown.Dropdown
	trigger  *dropdown.Trigger
	triggerY int
}

// newProductMenu builds the controlled demo. The page owns the open value
// and echoes every request back with SyncOpen.
func newProductMenu(e *env) (*menu, error) {
	m := &menu{
		env:   e,
		title: "Controlled dropdown",
		blurb: "The page owns the open state and the selection.",
		label: "Select a product",
	}
	open := false
	dd, err := dropdown.New(e.doc, dropdown.Options{
		Open: &open,
		OnOpenChange: func(v bool) {
			open = v
			m.dd.SyncOpen(open)
		},
		Placement: position.PlacementBottomStart,
		Offset:    e.offset,
		Padding:   e.padding,
		ID:        "products",
	})
	if err != nil {
		return nil, err
	}
	m.dd = dd
	err = m.build(products, func(it menuItem) {
		m.label = it.name
		m.status = "Selected " + it.name + " (" + it.extra + ")"
	})
	if err != nil {
		dd.Unmount()
		return nil, err
	}
	return m, nil
}

// newServicesMenu builds the uncontrolled demo.
func newServicesMenu(e *env) (*menu, error) {
	m := &menu{
		env:   e,
		title: "Uncontrolled dropdown",
		blurb: "The dropdown manages its own state.",
		label: "Apple Services",
	}
	dd, err := dropdown.New(e.doc, dropdown.Options{
		Placement: position.PlacementBottomStart,
		Offset:    e.offset,
		Padding:   e.padding,
		ID:        "services",
	})
	if err != nil {
		return nil, err
	}
	m.dd = dd
	err = m.build(services, func(it menuItem) {
		m.status = "Opening " + it.name + "..."
	})
	if err != nil {
		dd.Unmount()
		return nil, err
	}
	return m, nil
}

func (m *menu) build(items []menuItem, onSelect func(menuItem)) error {
	st := m.env.styles
	trigger, err := m.dd.NewTrigger(view.Func(func(open bool) string {
		arrow := "▾"
		if open {
			arrow = "▴"
		}
		style := st.Trigger
		if m.focused() {
			style = st.TriggerFocused
		}
		return style.Render(spread(m.label, arrow, triggerWidth))
	}))
	if err != nil {
		return err
	}
	m.trigger = trigger
	if _, err := m.dd.NewPanel(dropdown.WithPanelStyle(st.Panel)); err != nil {
		return err
	}
	for _, it := range items {
		content := view.Func(func(active bool) string {
			style := st.Option
			if active {
				style = st.OptionActive
			}
			head := it.name
			if it.extra != "" {
				head = spread(it.name, it.extra, optionWidth-2)
			}
			return style.Width(optionWidth).Render(head + "\n" + st.OptionDetail.Render(it.detail))
		})
		if _, err := m.dd.NewOption(content, func() { onSelect(it) }); err != nil {
			return err
		}
	}
	return nil
}

func (m *menu) focused() bool {
	return m.trigger != nil && m.env.doc.ActiveElement() == m.trigger.Node()
}

func (m *menu) View() string {
	st := m.env.styles
	lines := []string{st.CardTitle.Render(m.title), st.CardText.Render(m.blurb), ""}
	m.triggerY = len(lines)
	lines = append(lines, m.trigger.Render())
	if m.status != "" {
		lines = append(lines, st.Selected.Render(m.status))
	}
	return strings.Join(lines, "\n")
}

func (m *menu) Place(x, y int) { m.trigger.Place(x, y+m.triggerY) }

func (m *menu) Overlay(screen string) string { return m.dd.Overlay(screen) }

func (m *menu) Update(tea.Msg) tea.Cmd { return nil }

func (m *menu) Close() { m.dd.Unmount() }

// spread places left and right at the edges of a line width cells wide.
func spread(left, right string, width int) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}
