package dom

// Node is an element in a document tree.
type Node struct {
	// ID identifies the node for ARIA relationships and debugging.
	ID string

	// Role is the ARIA role (button, menu, menuitem, dialog, ...).
	Role string

	// Focusable marks the node as able to take keyboard focus.
	Focusable bool

	// Disabled nodes cannot take focus.
	Disabled bool

	// ZIndex lifts the node and its subtree above unlifted content for hit
	// testing. Higher values win; ties go to the later node in tree order.
	ZIndex int

	attrs    map[string]string
	bounds   Rect
	parent   *Node
	owner    *Node
	children []*Node
	doc      *Document
	ls       listeners
}

// NewNode creates a detached node.
func NewNode(id, role string) *Node {
	return &Node{ID: id, Role: role}
}

// Parent returns the DOM parent, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Owner returns the logical owner set with SetOwner, or nil.
func (n *Node) Owner() *Node { return n.owner }

// SetOwner records the node's logical position for a subtree mounted
// elsewhere (a portal). Propagation and logical containment follow the owner
// instead of the DOM parent.
func (n *Node) SetOwner(owner *Node) { n.owner = owner }

// logicalParent returns the owner when set, otherwise the DOM parent.
func (n *Node) logicalParent() *Node {
	if n.owner != nil {
		return n.owner
	}
	return n.parent
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Document returns the document the node is connected to, or nil.
func (n *Node) Document() *Document { return n.doc }

// Connected reports whether the node is attached to a document.
func (n *Node) Connected() bool { return n.doc != nil }

// AppendChild attaches c as the last child of n, detaching it from its
// previous parent first.
func (n *Node) AppendChild(c *Node) {
	if c == nil || c == n {
		return
	}
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	c.parent = n
	n.children = append(n.children, c)
	c.setDocument(n.doc)
}

// RemoveChild detaches c from n. It reports whether c was a child.
func (n *Node) RemoveChild(c *Node) bool {
	for i, existing := range n.children {
		if existing == c {
			n.children = append(n.children[:i:i], n.children[i+1:]...)
			c.parent = nil
			c.setDocument(nil)
			return true
		}
	}
	return false
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

func (n *Node) setDocument(d *Document) {
	if n.doc == d {
		return
	}
	old := n.doc
	n.doc = d
	if old != nil && d == nil {
		old.forget(n)
	}
	for _, c := range n.children {
		c.setDocument(d)
	}
}

// Contains reports whether o is n or a DOM descendant of n.
func (n *Node) Contains(o *Node) bool {
	for cur := o; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// LogicallyContains reports whether o is n or a descendant of n in the
// component tree, following owners across portals.
func (n *Node) LogicallyContains(o *Node) bool {
	for cur := o; cur != nil; cur = cur.logicalParent() {
		if cur == n {
			return true
		}
	}
	return false
}

// SetAttr sets an attribute.
func (n *Node) SetAttr(key, value string) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[key] = value
}

// Attr returns an attribute value, or "" when unset.
func (n *Node) Attr(key string) string {
	return n.attrs[key]
}

// HasAttr reports whether an attribute is set.
func (n *Node) HasAttr(key string) bool {
	_, ok := n.attrs[key]
	return ok
}

// RemoveAttr deletes an attribute.
func (n *Node) RemoveAttr(key string) {
	delete(n.attrs, key)
}

// Bounds returns the node's last recorded geometry.
func (n *Node) Bounds() Rect { return n.bounds }

// SetBounds records the node's geometry. A change dispatches a layout event
// on the node.
func (n *Node) SetBounds(r Rect) {
	if n.bounds == r {
		return
	}
	n.bounds = r
	n.ls.fire(&Event{Type: EventLayout, Target: n, CurrentTarget: n})
}

// On registers a listener on the node.
func (n *Node) On(t EventType, h Handler) *Subscription {
	return n.ls.add(t, h)
}

// ListenerCount returns the number of listeners registered for t.
func (n *Node) ListenerCount(t EventType) int {
	return n.ls.count(t)
}

// CanFocus reports whether the node can take focus now.
func (n *Node) CanFocus() bool {
	return n.Focusable && !n.Disabled && n.Connected()
}

// Walk visits n and its descendants in tree order. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		c.Walk(fn)
	}
}
