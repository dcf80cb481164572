package dom

import (
	"cmp"
	"slices"

	"github.com/matzehuels/sysdesign/pkg/errors"
)

// Body style keys and values.
const (
	StyleOverflow  = "overflow"
	OverflowHidden = "hidden"
)

// Document is the root of a node tree plus the document-level state overlays
// depend on: viewport, scroll offset, body style, focus, and listeners.
type Document struct {
	body        *Node
	interactive bool

	width, height    int
	scrollX, scrollY int
	maxScrollX       int
	maxScrollY       int

	style   map[string]string
	active  *Node
	hovered *Node
	ls      listeners
	shared  map[any]any
}

// New creates an interactive document with a viewport of the given size.
func New(width, height int) *Document {
	d := &Document{
		interactive: true,
		style:       make(map[string]string),
		maxScrollX:  -1,
		maxScrollY:  -1,
	}
	d.body = &Node{ID: "body", Role: "document", doc: d}
	d.setViewport(width, height)
	return d
}

// NewHeadless creates a document with no rendering surface. Components that
// need one (portals) treat it as absent and render nothing.
func NewHeadless() *Document {
	d := New(0, 0)
	d.interactive = false
	return d
}

// Interactive reports whether the document has a rendering surface. It is
// false for headless documents and for a nil *Document.
func (d *Document) Interactive() bool {
	return d != nil && d.interactive
}

// Body returns the root node.
func (d *Document) Body() *Node { return d.body }

// Viewport returns the visible area in screen cells.
func (d *Document) Viewport() Rect {
	return Rect{W: d.width, H: d.height}
}

func (d *Document) setViewport(w, h int) {
	d.width, d.height = max(w, 0), max(h, 0)
	d.body.bounds = d.Viewport()
}

// Resize changes the viewport and dispatches a resize event.
func (d *Document) Resize(width, height int) {
	if width == d.width && height == d.height {
		return
	}
	d.setViewport(width, height)
	d.Dispatch(&Event{Type: EventResize})
}

// SetScrollLimit bounds the scroll offset. A negative limit leaves that axis
// unbounded.
func (d *Document) SetScrollLimit(maxX, maxY int) {
	d.maxScrollX, d.maxScrollY = maxX, maxY
	d.scrollX = clampScroll(d.scrollX, d.maxScrollX)
	d.scrollY = clampScroll(d.scrollY, d.maxScrollY)
}

func clampScroll(v, limit int) int {
	if v < 0 {
		return 0
	}
	if limit >= 0 && v > limit {
		return limit
	}
	return v
}

// ScrollOffset returns the current scroll position.
func (d *Document) ScrollOffset() (x, y int) {
	return d.scrollX, d.scrollY
}

// ScrollBy scrolls the page and dispatches a scroll event. It does nothing
// while the body overflow is hidden. It reports whether the offset changed.
func (d *Document) ScrollBy(dx, dy int) bool {
	if d.style[StyleOverflow] == OverflowHidden {
		return false
	}
	x := clampScroll(d.scrollX+dx, d.maxScrollX)
	y := clampScroll(d.scrollY+dy, d.maxScrollY)
	if x == d.scrollX && y == d.scrollY {
		return false
	}
	d.scrollX, d.scrollY = x, y
	d.Dispatch(&Event{Type: EventScroll})
	return true
}

// Style returns a body style value, or "" when unset.
func (d *Document) Style(key string) string {
	return d.style[key]
}

// SetStyle sets a body style value. An empty value removes the key.
func (d *Document) SetStyle(key, value string) {
	if value == "" {
		delete(d.style, key)
		return
	}
	d.style[key] = value
}

// AddEventListener registers a document-level listener. Document listeners
// run after the target and its ancestors, unless propagation was stopped.
func (d *Document) AddEventListener(t EventType, h Handler) *Subscription {
	return d.ls.add(t, h)
}

// ListenerCount returns the number of document listeners for t.
func (d *Document) ListenerCount(t EventType) int {
	return d.ls.count(t)
}

// TotalListeners returns the number of document listeners of every type.
func (d *Document) TotalListeners() int {
	return d.ls.total()
}

// Shared returns the per-document value stored under key, creating it with
// init on first use. Packages use it to keep one coordinator per document
// (scroll lock, focus trap stack).
func (d *Document) Shared(key any, init func() any) any {
	if d.shared == nil {
		d.shared = make(map[any]any)
	}
	v, ok := d.shared[key]
	if !ok {
		v = init()
		d.shared[key] = v
	}
	return v
}

// Dispatch delivers e to its target, then to each logical ancestor, then to
// document listeners. Non-bubbling events stop at the target. Events without
// a target go to document listeners only.
func (d *Document) Dispatch(e *Event) {
	if e.Target != nil {
		for _, n := range propagationPath(e.Target, e.Type.bubbles()) {
			e.CurrentTarget = n
			n.ls.fire(e)
			if e.stopped {
				e.CurrentTarget = nil
				return
			}
		}
		if !e.Type.bubbles() {
			e.CurrentTarget = nil
			return
		}
	}
	e.CurrentTarget = nil
	d.ls.fire(e)
}

func propagationPath(target *Node, bubbles bool) []*Node {
	if !bubbles {
		return []*Node{target}
	}
	var path []*Node
	seen := make(map[*Node]bool)
	for cur := target; cur != nil && !seen[cur]; cur = cur.logicalParent() {
		seen[cur] = true
		path = append(path, cur)
	}
	return path
}

// HitTest returns the deepest node whose bounds contain (x, y). Nodes with a
// ZIndex are tested first, then the tree, where later siblings are drawn on
// top and win. Children are tested even when their parent's bounds do not
// contain the point. The body is returned when nothing else matches.
func (d *Document) HitTest(x, y int) *Node {
	for _, n := range d.lifted() {
		if found := hit(n, x, y); found != nil {
			return found
		}
	}
	if n := hit(d.body, x, y); n != nil {
		return n
	}
	return d.body
}

// lifted returns the connected nodes with a positive ZIndex, topmost first.
func (d *Document) lifted() []*Node {
	var out []*Node
	d.body.Walk(func(n *Node) bool {
		if n.ZIndex > 0 {
			out = append(out, n)
		}
		return true
	})
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b *Node) int { return cmp.Compare(b.ZIndex, a.ZIndex) })
	return out
}

func hit(n *Node, x, y int) *Node {
	for i := len(n.children) - 1; i >= 0; i-- {
		if found := hit(n.children[i], x, y); found != nil {
			return found
		}
	}
	if n.bounds.Contains(x, y) {
		return n
	}
	return nil
}

// ByID returns the first connected node with the given id, or nil.
func (d *Document) ByID(id string) *Node {
	var found *Node
	d.body.Walk(func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// ActiveElement returns the focused node, or nil.
func (d *Document) ActiveElement() *Node { return d.active }

// Hovered returns the node under the pointer, or nil.
func (d *Document) Hovered() *Node { return d.hovered }

// Focus moves focus to n and dispatches focusin on it. Focusing the already
// focused node is a no-op.
func (d *Document) Focus(n *Node) error {
	if n == nil {
		return errors.New(errors.ErrCodeInvalidInput, "cannot focus a nil node")
	}
	if n.doc != d {
		return errors.New(errors.ErrCodeDetached, "node %q is not connected to this document", n.ID)
	}
	if !n.CanFocus() {
		return errors.New(errors.ErrCodeInvalidInput, "node %q is not focusable", n.ID)
	}
	if d.active == n {
		return nil
	}
	d.active = n
	d.Dispatch(&Event{Type: EventFocusIn, Target: n})
	return nil
}

// Blur clears focus.
func (d *Document) Blur() {
	d.active = nil
}

// Focusables returns the nodes within root (inclusive) that can take focus,
// in tree order.
func (d *Document) Focusables(root *Node) []*Node {
	if root == nil {
		root = d.body
	}
	var out []*Node
	root.Walk(func(n *Node) bool {
		if n.CanFocus() && n.doc == d {
			out = append(out, n)
		}
		return true
	})
	return out
}

// forget drops references to a node leaving the document.
func (d *Document) forget(n *Node) {
	if d.active == n {
		d.active = nil
	}
	if d.hovered == n {
		d.hovered = nil
	}
}
