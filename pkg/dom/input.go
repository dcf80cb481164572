package dom

// PointerDown dispatches pointerdown at (x, y), then focuses the nearest
// focusable ancestor of the hit node unless the default was prevented.
func (d *Document) PointerDown(x, y int) *Event {
	return d.pointerDown(d.HitTest(x, y), x, y)
}

func (d *Document) pointerDown(target *Node, x, y int) *Event {
	e := &Event{Type: EventPointerDown, Target: target, X: x, Y: y}
	d.Dispatch(e)
	if e.prevented {
		return e
	}
	for cur := target; cur != nil; cur = cur.parent {
		if cur.CanFocus() {
			_ = d.Focus(cur)
			break
		}
	}
	return e
}

// Click dispatches click at (x, y).
func (d *Document) Click(x, y int) *Event {
	e := &Event{Type: EventClick, Target: d.HitTest(x, y), X: x, Y: y}
	d.Dispatch(e)
	return e
}

// Touch dispatches touchstart at (x, y).
func (d *Document) Touch(x, y int) *Event {
	e := &Event{Type: EventTouchStart, Target: d.HitTest(x, y), X: x, Y: y}
	d.Dispatch(e)
	return e
}

// Tap presses and clicks a node directly, as a pointer would at its top-left
// cell. The click is skipped when the press detached the node.
func (d *Document) Tap(n *Node) {
	x, y := n.bounds.X, n.bounds.Y
	d.pointerDown(n, x, y)
	if !n.Connected() {
		return
	}
	d.Dispatch(&Event{Type: EventClick, Target: n, X: x, Y: y})
}

// PointerMove updates hover state for the node at (x, y).
func (d *Document) PointerMove(x, y int) {
	d.Hover(d.HitTest(x, y))
}

// Hover moves the pointer onto n, dispatching pointerleave on every node the
// pointer left (deepest first) and pointerenter on every node it entered
// (outermost first). A nil n leaves everything.
func (d *Document) Hover(n *Node) {
	if n == d.hovered {
		return
	}
	prev := ancestry(d.hovered)
	next := ancestry(n)
	inNext := make(map[*Node]bool, len(next))
	for _, a := range next {
		inNext[a] = true
	}
	inPrev := make(map[*Node]bool, len(prev))
	for _, a := range prev {
		inPrev[a] = true
	}

	d.hovered = n
	for _, a := range prev {
		if !inNext[a] {
			d.Dispatch(&Event{Type: EventPointerLeave, Target: a})
		}
	}
	for i := len(next) - 1; i >= 0; i-- {
		if !inPrev[next[i]] {
			d.Dispatch(&Event{Type: EventPointerEnter, Target: next[i]})
		}
	}
}

// ancestry returns n and its DOM ancestors, deepest first.
func ancestry(n *Node) []*Node {
	var out []*Node
	for cur := n; cur != nil; cur = cur.parent {
		out = append(out, cur)
	}
	return out
}

// KeyDown dispatches keydown at the focused node (or the body) and runs the
// default action unless it was prevented: Tab and Shift+Tab move focus in
// tree order, Enter and Space click the focused node.
func (d *Document) KeyDown(key string) *Event {
	target := d.active
	if target == nil {
		target = d.body
	}
	e := &Event{Type: EventKeyDown, Target: target, Key: key}
	d.Dispatch(e)
	if e.prevented {
		return e
	}
	switch key {
	case KeyTab:
		d.moveFocus(1)
	case KeyShiftTab:
		d.moveFocus(-1)
	case KeyEnter, KeySpace:
		if d.active != nil {
			b := d.active.bounds
			d.Dispatch(&Event{Type: EventClick, Target: d.active, X: b.X, Y: b.Y})
		}
	}
	return e
}

func (d *Document) moveFocus(step int) {
	nodes := d.Focusables(d.body)
	if len(nodes) == 0 {
		return
	}
	idx := -1
	for i, n := range nodes {
		if n == d.active {
			idx = i
			break
		}
	}
	var next int
	switch {
	case idx < 0 && step > 0:
		next = 0
	case idx < 0:
		next = len(nodes) - 1
	default:
		next = (idx + step + len(nodes)) % len(nodes)
	}
	_ = d.Focus(nodes[next])
}
