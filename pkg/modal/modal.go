package modal

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/matzehuels/sysdesign/pkg/dom"
	"github.com/matzehuels/sysdesign/pkg/errors"
	"github.com/matzehuels/sysdesign/pkg/focus"
	"github.com/matzehuels/sysdesign/pkg/observability"
	"github.com/matzehuels/sysdesign/pkg/scrolllock"
	"github.com/matzehuels/sysdesign/pkg/view"
)

const misuse = "modal components must be used within a Modal"

// dialogZ keeps the dialog above open dropdown panels.
const dialogZ = 50

// Props are supplied by the caller on every render. The modal keeps no open
// value of its own.
type Props struct {
	Open    bool
	OnClose func()

	AriaLabel       string
	AriaLabelledBy  string
	AriaDescribedBy string
}

// Modal is the root of a dialog.
type Modal struct {
	doc   *dom.Document
	props Props
	id    string

	mountPoint *dom.Node
	owner      *dom.Node
	style      lipgloss.Style
	width      int

	root     *dom.Node
	backdrop *Backdrop
	sections []*Section

	openScope dom.Scope
	mounted   bool
	unmounted bool
}

// Option configures a Modal.
type Option func(*Modal)

// WithMountPoint mounts the dialog under n instead of the document body.
func WithMountPoint(n *dom.Node) Option {
	return func(m *Modal) { m.mountPoint = n }
}

// WithOwner sets the dialog's logical position. Events from the dialog
// propagate to owner and its ancestors rather than to the mount point.
func WithOwner(n *dom.Node) Option {
	return func(m *Modal) { m.owner = n }
}

// WithStyle sets the dialog box style.
func WithStyle(style lipgloss.Style) Option {
	return func(m *Modal) { m.style = style }
}

// WithWidth fixes the dialog box content width in cells. Padding and border
// are added around it.
func WithWidth(w int) Option {
	return func(m *Modal) { m.width = w }
}

// WithID sets the dialog node id.
func WithID(id string) Option {
	return func(m *Modal) { m.id = id }
}

// New creates a modal on doc and applies props. A nil or headless doc is
// allowed; such a modal never mounts.
func New(doc *dom.Document, props Props, opts ...Option) *Modal {
	m := &Modal{doc: doc, style: lipgloss.NewStyle()}
	for _, opt := range opts {
		opt(m)
	}
	if m.id == "" {
		m.id = "modal-" + uuid.NewString()[:8]
	}
	m.root = dom.NewNode(m.id, "dialog")
	m.root.ZIndex = dialogZ
	m.root.SetAttr("aria-modal", "true")
	m.Update(props)
	return m
}

// ID returns the dialog node id.
func (m *Modal) ID() string { return m.id }

// Node returns the dialog root node. It is connected only while mounted.
func (m *Modal) Node() *dom.Node { return m.root }

// Props returns the last supplied props.
func (m *Modal) Props() Props { return m.props }

// Visible reports whether the dialog subtree is mounted.
func (m *Modal) Visible() bool { return m.mounted }

// Update supplies new props. A change of Open mounts or unmounts the dialog
// before Update returns.
func (m *Modal) Update(props Props) {
	if m == nil || m.unmounted {
		return
	}
	m.props = props
	m.syncAria()

	open := props.Open && m.doc.Interactive()
	switch {
	case open && !m.mounted:
		m.mount()
	case !open && m.mounted:
		m.unmountSubtree()
	}
}

func (m *Modal) syncAria() {
	set := func(key, value string) {
		if value == "" {
			m.root.RemoveAttr(key)
			return
		}
		m.root.SetAttr(key, value)
	}
	labelledBy := m.props.AriaLabelledBy
	if labelledBy == "" && m.props.AriaLabel == "" {
		if h := m.section(kindHeader); h != nil {
			labelledBy = h.node.ID
		}
	}
	set("aria-label", m.props.AriaLabel)
	set("aria-labelledby", labelledBy)
	set("aria-describedby", m.props.AriaDescribedBy)
}

func (m *Modal) close() {
	if m.props.OnClose != nil {
		m.props.OnClose()
	}
}

// mount attaches the dialog and acquires every while-open resource. They are
// released in reverse order.
func (m *Modal) mount() {
	doc := m.doc
	m.mounted = true

	stackFor(doc).push(m)
	m.openScope.Add(dom.NewSubscription(func() { stackFor(doc).remove(m) }))

	lock := scrolllock.Acquire(doc)
	m.openScope.Add(dom.NewSubscription(lock.Release))

	m.openScope.Add(
		doc.AddEventListener(dom.EventKeyDown, m.onKeyDown),
		doc.AddEventListener(dom.EventPointerDown, m.onOutside),
		doc.AddEventListener(dom.EventTouchStart, m.onOutside),
	)

	mountPoint := m.mountPoint
	if mountPoint == nil || mountPoint.Document() != doc {
		mountPoint = doc.Body()
	}
	if m.owner != nil {
		m.root.SetOwner(m.owner)
	}
	mountPoint.AppendChild(m.root)
	m.openScope.Add(dom.NewSubscription(m.root.Remove))

	m.syncRootFocus()
	trap := focus.NewTrap(m.root)
	if err := trap.Activate(); err == nil {
		m.openScope.Add(dom.NewSubscription(trap.Deactivate))
	}

	observability.Overlay().OnOpen(observability.KindModal, m.id)
}

func (m *Modal) unmountSubtree() {
	m.openScope.Release()
	m.mounted = false
	observability.Overlay().OnClose(observability.KindModal, m.id)
}

func (m *Modal) onKeyDown(e *dom.Event) {
	if e.Key != dom.KeyEscape || stackFor(m.doc).top() != m {
		return
	}
	m.close()
}

func (m *Modal) onOutside(e *dom.Event) {
	if stackFor(m.doc).top() != m {
		return
	}
	if m.root.Contains(e.Target) || m.root.LogicallyContains(e.Target) {
		return
	}
	m.close()
}

// Unmount tears the modal down. Every listener, the scroll lock and the focus
// trap are released before it returns. OnClose is not called.
func (m *Modal) Unmount() {
	if m == nil || m.unmounted {
		return
	}
	if m.mounted {
		m.unmountSubtree()
	}
	if m.backdrop != nil {
		m.backdrop.scope.Release()
	}
	for _, s := range m.sections {
		s.release()
	}
	m.unmounted = true
}

func (m *Modal) usable() error {
	if m == nil || m.unmounted {
		return errors.Usage(misuse)
	}
	return nil
}

// arrange orders the root's children: backdrop first so sections paint and
// hit-test above it.
func (m *Modal) arrange() {
	if m.backdrop != nil {
		m.root.AppendChild(m.backdrop.node)
	}
	for _, s := range m.sections {
		m.root.AppendChild(s.node)
	}
	m.syncRootFocus()
}

// syncRootFocus lets the root take focus only while nothing inside it can.
// Focus parked on the root moves to the first tabbable once one appears.
func (m *Modal) syncRootFocus() {
	if !m.mounted {
		return
	}
	m.root.Focusable = false
	tabbables := m.doc.Focusables(m.root)
	if len(tabbables) == 0 {
		m.root.Focusable = true
		return
	}
	if m.doc.ActiveElement() == m.root {
		_ = m.doc.Focus(tabbables[0])
	}
}

func (m *Modal) section(kind string) *Section {
	for _, s := range m.sections {
		if s.kind == kind {
			return s
		}
	}
	return nil
}

// Backdrop is a full-viewport scrim. Clicking it calls OnClose directly.
type Backdrop struct {
	m     *Modal
	node  *dom.Node
	scope dom.Scope
}

// NewBackdrop adds the backdrop.
func (m *Modal) NewBackdrop() (*Backdrop, error) {
	if err := m.usable(); err != nil {
		return nil, err
	}
	if m.backdrop != nil {
		return nil, errors.Usage("modal %q already has a backdrop", m.id)
	}
	b := &Backdrop{m: m, node: dom.NewNode(m.id+"-backdrop", "presentation")}
	b.scope.Add(b.node.On(dom.EventClick, func(*dom.Event) { m.close() }))
	m.backdrop = b
	m.arrange()
	return b, nil
}

// Node returns the backdrop node.
func (b *Backdrop) Node() *dom.Node { return b.node }

// Sections returns the modal's sections in order.
func (m *Modal) Sections() []*Section {
	return slices.Clone(m.sections)
}

// View composites the open dialog over base, centered in the viewport, and
// records bounds for every part. The base is dimmed when a backdrop exists.
func (m *Modal) View(base string) string {
	if m == nil || !m.mounted {
		return base
	}
	rows := make([]string, 0, len(m.sections))
	for _, s := range m.sections {
		rows = append(rows, s.render())
	}
	style := m.style
	if m.width > 0 {
		style = style.Width(m.width + style.GetHorizontalPadding())
	}
	box := style.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

	vp := m.doc.Viewport()
	w, h := view.Size(box)
	x, y := max((vp.W-w)/2, 0), max((vp.H-h)/2, 0)
	m.root.SetBounds(dom.Rect{X: x, Y: y, W: w, H: h})
	if m.backdrop != nil {
		m.backdrop.node.SetBounds(vp)
		base = view.Dim(base)
	}

	cx := x + style.GetMarginLeft() + style.GetBorderLeftSize() + style.GetPaddingLeft()
	cy := y + style.GetMarginTop() + style.GetBorderTopSize() + style.GetPaddingTop()
	cw := max(w-style.GetHorizontalFrameSize(), 0)
	for _, s := range m.sections {
		s.layout(cx, cy, cw)
		cy += s.height
	}
	return view.Place(base, box, x, y)
}
