package dropdown

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/sysdesign/pkg/dom"
	"github.com/matzehuels/sysdesign/pkg/errors"
	"github.com/matzehuels/sysdesign/pkg/view"
)

// Trigger is the button that toggles the panel and anchors it.
type Trigger struct {
	d       *Dropdown
	node    *dom.Node
	content view.Content
	style   lipgloss.Style
	onClick func()
	scope   dom.Scope
	last    string
}

// TriggerOption configures a Trigger.
type TriggerOption func(*Trigger)

// WithTriggerStyle wraps the trigger content in style.
func WithTriggerStyle(style lipgloss.Style) TriggerOption {
	return func(t *Trigger) { t.style = style }
}

// OnTriggerClick runs fn before the toggle request on each activation.
func OnTriggerClick(fn func()) TriggerOption {
	return func(t *Trigger) { t.onClick = fn }
}

// NewTrigger creates the dropdown's trigger. Content renders with the open
// state as its active flag.
func (d *Dropdown) NewTrigger(content view.Content, opts ...TriggerOption) (*Trigger, error) {
	if err := d.usable(); err != nil {
		return nil, err
	}
	if d.trigger != nil {
		return nil, errors.Usage("dropdown %q already has a trigger", d.id)
	}

	t := &Trigger{
		d:       d,
		node:    dom.NewNode(d.id+"-trigger", "button"),
		content: content,
		style:   lipgloss.NewStyle(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.node.Focusable = true
	t.node.SetAttr("aria-haspopup", "menu")
	t.node.SetAttr("aria-expanded", strconv.FormatBool(d.open))
	if d.panel != nil {
		t.node.SetAttr("aria-controls", d.panel.node.ID)
	}

	// The trigger sits before the panel so the panel paints on top.
	d.node.AppendChild(t.node)
	if d.panel != nil && d.panel.node.Connected() {
		d.node.AppendChild(d.panel.node)
	}
	t.scope.Add(t.node.On(dom.EventClick, t.onActivate))

	d.trigger = t
	d.solver.SetReference(t.node)
	return t, nil
}

// Node returns the trigger's node.
func (t *Trigger) Node() *dom.Node { return t.node }

func (t *Trigger) onActivate(*dom.Event) {
	if t.d.unmounted {
		return
	}
	if t.onClick != nil {
		t.onClick()
	}
	t.d.Toggle()
}

// Render renders the trigger.
func (t *Trigger) Render() string {
	t.last = t.style.Render(view.Render(t.content, t.d.open))
	return t.last
}

// Place records where the trigger was drawn, in screen cells. The panel
// follows.
func (t *Trigger) Place(x, y int) {
	if t.last == "" {
		t.Render()
	}
	w, h := view.Size(t.last)
	t.node.SetBounds(dom.Rect{X: x, Y: y, W: w, H: h})
}
