package dropdown

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/matzehuels/sysdesign/pkg/dom"
	"github.com/matzehuels/sysdesign/pkg/errors"
	"github.com/matzehuels/sysdesign/pkg/observability"
	"github.com/matzehuels/sysdesign/pkg/position"
)

// Defaults for the floating panel.
const (
	DefaultOffset  = 8
	DefaultPadding = 8
)

const misuse = "dropdown components must be used within a Dropdown"

// Options configures a Dropdown. The control mode is fixed at construction:
// a non-nil Open makes the dropdown controlled for its whole lifetime.
type Options struct {
	// Open is the caller-owned open value. Non-nil means controlled; later
	// values are supplied with SyncOpen.
	Open *bool

	// DefaultOpen seeds the internal state of an uncontrolled dropdown.
	DefaultOpen bool

	// OnOpenChange receives open-state requests of a controlled dropdown.
	OnOpenChange func(open bool)

	// Placement of the panel relative to the trigger. Empty means bottom.
	Placement position.Placement

	// Offset is the gap between trigger and panel. Zero uses DefaultOffset.
	Offset int

	// Padding is the minimum distance from the viewport edge. Zero uses
	// DefaultPadding.
	Padding int

	// ID prefixes node ids. Empty generates one.
	ID string

	// Parent is where the dropdown's nodes are attached. Nil means the
	// document body.
	//
	// Outside dismissal listens on the document, so it only sees presses
	// that bubble all the way up. Modal sections stop pointerdown: with
	// Parent inside a dialog, presses elsewhere in that dialog leave the
	// panel open. Presses outside the dialog still close it.
	Parent *dom.Node
}

// Bool returns a pointer to v, for Options.Open.
func Bool(v bool) *bool { return &v }

// Dropdown is the root of a disclosure: it owns the open state, the active
// option, and the position solver. Trigger, Panel and Option hold a pointer
// to it and never copy its state.
type Dropdown struct {
	doc          *dom.Document
	id           string
	controlled   bool
	open         bool
	onOpenChange func(bool)

	node    *dom.Node
	trigger *Trigger
	panel   *Panel
	options []*Option
	active  string

	solver    *position.Solver
	openScope dom.Scope
	unmounted bool
}

// New creates a dropdown on doc.
func New(doc *dom.Document, opts Options) (*Dropdown, error) {
	if doc == nil {
		return nil, errors.Usage("dropdown requires a document")
	}
	placement, err := position.ParsePlacement(string(opts.Placement))
	if err != nil {
		return nil, err
	}
	offset, padding := opts.Offset, opts.Padding
	if offset == 0 {
		offset = DefaultOffset
	}
	if padding == 0 {
		padding = DefaultPadding
	}
	id := opts.ID
	if id == "" {
		id = "dropdown-" + uuid.NewString()[:8]
	}

	d := &Dropdown{
		doc:          doc,
		id:           id,
		controlled:   opts.Open != nil,
		onOpenChange: opts.OnOpenChange,
		node:         dom.NewNode(id, "group"),
	}
	if d.controlled {
		d.open = *opts.Open
	} else {
		d.open = opts.DefaultOpen
	}

	parent := opts.Parent
	if parent == nil {
		parent = doc.Body()
	}
	parent.AppendChild(d.node)

	d.solver = position.NewSolver(doc, position.Config{
		Placement: placement,
		Strategy:  position.Absolute,
		Middleware: []position.Middleware{
			position.Offset(offset),
			position.Flip(),
			position.Shift(position.ShiftOptions{Padding: padding}),
		},
	}, position.OnUpdate(func(r position.Result) {
		observability.Overlay().OnPosition(observability.KindDropdown, d.id, string(r.Placement), r.Flipped)
	}))
	return d, nil
}

// ID returns the dropdown's id.
func (d *Dropdown) ID() string { return d.id }

// Node returns the dropdown's wrapper node.
func (d *Dropdown) Node() *dom.Node { return d.node }

// IsOpen returns the displayed open state.
func (d *Dropdown) IsOpen() bool { return d.open }

// Controlled reports whether the caller owns the open state.
func (d *Dropdown) Controlled() bool { return d.controlled }

// ActiveID returns the identity of the active option, or "".
func (d *Dropdown) ActiveID() string { return d.active }

// Solver returns the panel's position solver.
func (d *Dropdown) Solver() *position.Solver { return d.solver }

// SetOpen is the single entry point for open-state requests. Trigger clicks,
// option selection and dismissal all go through it. A controlled dropdown
// forwards the request to OnOpenChange and leaves the displayed state alone;
// an uncontrolled one applies it.
func (d *Dropdown) SetOpen(open bool) {
	if d == nil || d.unmounted {
		return
	}
	if d.controlled {
		if d.onOpenChange != nil {
			d.onOpenChange(open)
		}
		return
	}
	d.apply(open)
}

// Toggle requests the negation of the displayed state.
func (d *Dropdown) Toggle() {
	if d == nil {
		return
	}
	d.SetOpen(!d.open)
}

// SyncOpen supplies the caller's latest open value to a controlled dropdown.
// It reports false and does nothing for uncontrolled or unmounted dropdowns.
func (d *Dropdown) SyncOpen(open bool) bool {
	if d == nil || !d.controlled || d.unmounted {
		return false
	}
	d.apply(open)
	return true
}

// apply changes the displayed state and runs the transition's side effects
// before returning.
func (d *Dropdown) apply(open bool) {
	if d.open == open {
		return
	}
	d.open = open
	if d.trigger != nil {
		d.trigger.node.SetAttr("aria-expanded", strconv.FormatBool(open))
	}
	if open {
		d.mountPanel()
		observability.Overlay().OnOpen(observability.KindDropdown, d.id)
	} else {
		d.unmountPanel()
		observability.Overlay().OnClose(observability.KindDropdown, d.id)
	}
}

// mountPanel attaches the panel and acquires every while-open resource.
func (d *Dropdown) mountPanel() {
	if d.panel == nil || d.openScope.Len() > 0 {
		return
	}
	d.node.AppendChild(d.panel.node)
	d.openScope.Add(
		d.doc.AddEventListener(dom.EventPointerDown, d.onOutsidePointerDown),
		d.node.On(dom.EventKeyDown, d.onKeyDown),
		dom.NewSubscription(func() { d.solver.SetFloating(nil) }),
	)
	d.solver.SetFloating(d.panel.node)
}

// unmountPanel releases every while-open resource and detaches the panel.
func (d *Dropdown) unmountPanel() {
	d.openScope.Release()
	d.active = ""
	if d.panel != nil {
		d.panel.node.Remove()
	}
}

func (d *Dropdown) onOutsidePointerDown(e *dom.Event) {
	if d.panel != nil && d.panel.node.LogicallyContains(e.Target) {
		return
	}
	// The trigger's click toggles on its own.
	if d.trigger != nil && d.trigger.node.LogicallyContains(e.Target) {
		return
	}
	d.SetOpen(false)
}

func (d *Dropdown) onKeyDown(e *dom.Event) {
	switch e.Key {
	case dom.KeyDown:
		d.moveActive(1)
		e.PreventDefault()
	case dom.KeyUp:
		d.moveActive(-1)
		e.PreventDefault()
	case dom.KeyEnter:
		if o := d.activeOption(); o != nil {
			e.PreventDefault()
			e.StopPropagation()
			o.Select()
		}
	case dom.KeyEscape:
		e.PreventDefault()
		e.StopPropagation()
		d.SetOpen(false)
	}
}

func (d *Dropdown) moveActive(step int) {
	if len(d.options) == 0 {
		return
	}
	idx := -1
	for i, o := range d.options {
		if o.id == d.active {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && step > 0:
		idx = 0
	case idx < 0:
		idx = len(d.options) - 1
	default:
		idx = (idx + step + len(d.options)) % len(d.options)
	}
	d.active = d.options[idx].id
}

func (d *Dropdown) activeOption() *Option {
	for _, o := range d.options {
		if o.id == d.active && d.active != "" {
			return o
		}
	}
	return nil
}

// Unmount tears the dropdown down: the panel closes without a state request,
// every listener and solver subscription is released, and the nodes leave the
// document. Later requests are no-ops.
func (d *Dropdown) Unmount() {
	if d == nil || d.unmounted {
		return
	}
	wasOpen := d.open && d.panel != nil
	d.unmountPanel()
	d.solver.Stop()
	if d.trigger != nil {
		d.trigger.scope.Release()
	}
	if d.panel != nil {
		d.panel.scope.Release()
	}
	for _, o := range d.options {
		o.scope.Release()
	}
	d.node.Remove()
	d.unmounted = true
	if wasOpen {
		observability.Overlay().OnClose(observability.KindDropdown, d.id)
	}
}

// Unmounted reports whether Unmount was called.
func (d *Dropdown) Unmounted() bool { return d.unmounted }

func (d *Dropdown) usable() error {
	if d == nil || d.unmounted {
		return errors.Usage(misuse)
	}
	return nil
}

// Overlay composites the open panel onto base at its solved position.
func (d *Dropdown) Overlay(base string) string {
	if d == nil || !d.open || d.panel == nil || d.unmounted {
		return base
	}
	return d.panel.overlay(base)
}
