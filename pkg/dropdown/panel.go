package dropdown

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/matzehuels/sysdesign/pkg/dom"
	"github.com/matzehuels/sysdesign/pkg/errors"
	"github.com/matzehuels/sysdesign/pkg/view"
)

// panelZ lifts the open panel above page content in hit tests.
const panelZ = 10

// Panel is the floating menu. It has no node in the document while the
// dropdown is closed.
type Panel struct {
	d     *Dropdown
	node  *dom.Node
	style lipgloss.Style
	width int
	scope dom.Scope
}

// PanelOption configures a Panel.
type PanelOption func(*Panel)

// WithPanelStyle wraps the options in style.
func WithPanelStyle(style lipgloss.Style) PanelOption {
	return func(p *Panel) { p.style = style }
}

// WithPanelWidth fixes the panel's content width in cells. Padding and
// border are added around it.
func WithPanelWidth(w int) PanelOption {
	return func(p *Panel) { p.width = w }
}

// NewPanel creates the dropdown's panel.
func (d *Dropdown) NewPanel(opts ...PanelOption) (*Panel, error) {
	if err := d.usable(); err != nil {
		return nil, err
	}
	if d.panel != nil {
		return nil, errors.Usage("dropdown %q already has a panel", d.id)
	}
	p := &Panel{
		d:     d,
		node:  dom.NewNode(d.id+"-menu", "menu"),
		style: lipgloss.NewStyle(),
	}
	p.node.ZIndex = panelZ
	for _, opt := range opts {
		opt(p)
	}
	if d.trigger != nil {
		p.node.SetAttr("aria-labelledby", d.trigger.node.ID)
		d.trigger.node.SetAttr("aria-controls", p.node.ID)
	}
	p.scope.Add(p.node.On(dom.EventLayout, func(*dom.Event) { p.layoutOptions() }))

	d.panel = p
	if d.open {
		d.mountPanel()
	}
	return p, nil
}

// Node returns the panel's node.
func (p *Panel) Node() *dom.Node { return p.node }

// Render renders the options inside the panel style, or "" while closed.
// Rendering records the panel's size, which lets the solver place it.
func (p *Panel) Render() string {
	if !p.d.open || p.d.unmounted {
		return ""
	}
	rows := make([]string, 0, len(p.d.options))
	for _, o := range p.d.options {
		rows = append(rows, o.render())
	}
	style := p.style
	if p.width > 0 {
		style = style.Width(p.width + style.GetHorizontalPadding())
	}
	out := style.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

	w, h := view.Size(out)
	b := p.node.Bounds()
	p.node.SetBounds(dom.Rect{X: b.X, Y: b.Y, W: w, H: h})
	p.layoutOptions()
	return out
}

func (p *Panel) overlay(base string) string {
	out := p.Render()
	b := p.node.Bounds()
	return view.Place(base, out, b.X, b.Y)
}

// layoutOptions derives option bounds from the panel's position.
func (p *Panel) layoutOptions() {
	b := p.node.Bounds()
	x := b.X + p.style.GetMarginLeft() + p.style.GetBorderLeftSize() + p.style.GetPaddingLeft()
	y := b.Y + p.style.GetMarginTop() + p.style.GetBorderTopSize() + p.style.GetPaddingTop()
	w := max(b.W-p.style.GetHorizontalFrameSize(), 0)
	for _, o := range p.d.options {
		o.node.SetBounds(dom.Rect{X: x, Y: y, W: w, H: o.height})
		y += o.height
	}
}

// Option is one selectable item in the panel.
type Option struct {
	d        *Dropdown
	id       string
	node     *dom.Node
	content  view.Content
	onSelect func()
	scope    dom.Scope
	height   int
}

// NewOption adds an option to the panel. Content renders with the option's
// active state. onSelect may be nil.
func (d *Dropdown) NewOption(content view.Content, onSelect func()) (*Option, error) {
	if err := d.usable(); err != nil {
		return nil, err
	}
	if d.panel == nil {
		return nil, errors.Usage("dropdown %q has no panel for options", d.id)
	}
	id := uuid.NewString()
	o := &Option{
		d:        d,
		id:       id,
		node:     dom.NewNode(id, "menuitem"),
		content:  content,
		onSelect: onSelect,
		height:   1,
	}
	o.scope.Add(
		o.node.On(dom.EventClick, func(*dom.Event) { o.Select() }),
		o.node.On(dom.EventPointerEnter, func(*dom.Event) { o.claim() }),
		o.node.On(dom.EventPointerLeave, func(*dom.Event) { o.release() }),
	)
	d.panel.node.AppendChild(o.node)
	d.options = append(d.options, o)
	return o, nil
}

// ID returns the option's identity, or "" once removed.
func (o *Option) ID() string { return o.id }

// Node returns the option's node.
func (o *Option) Node() *dom.Node { return o.node }

// Active reports whether the option holds the active identity.
func (o *Option) Active() bool {
	return o.id != "" && o.d.active == o.id
}

// Select runs the option's callback once, then requests a close.
func (o *Option) Select() {
	if o.id == "" || o.d.unmounted {
		return
	}
	if o.onSelect != nil {
		o.onSelect()
	}
	o.d.SetOpen(false)
}

func (o *Option) claim() {
	if o.id != "" && o.d.open {
		o.d.active = o.id
	}
}

func (o *Option) release() {
	if o.id != "" && o.d.active == o.id {
		o.d.active = ""
	}
}

func (o *Option) render() string {
	out := view.Render(o.content, o.Active())
	_, h := view.Size(out)
	o.height = max(h, 1)
	return out
}

// Remove takes the option out of the panel and destroys its identity.
func (o *Option) Remove() {
	if o.id == "" {
		return
	}
	o.release()
	o.scope.Release()
	o.node.Remove()
	if i := slices.Index(o.d.options, o); i >= 0 {
		o.d.options = slices.Delete(o.d.options, i, i+1)
	}
	o.id = ""
}

// Options returns the panel's options in order.
func (d *Dropdown) Options() []*Option {
	return slices.Clone(d.options)
}
