// Package focus keeps keyboard focus inside a container while a trap is
// active.
//
// Traps stack per document. Activating a trap pauses the one below it; only
// the most recently activated trap handles Tab and pulls escaping focus back.
// Deactivating a trap returns focus to the element that had it before.
package focus

import (
	"slices"

	"github.com/matzehuels/sysdesign/pkg/dom"
	"github.com/matzehuels/sysdesign/pkg/errors"
)

// Trap confines Tab and Shift+Tab cycling to a container's focusable
// descendants.
type Trap struct {
	container *dom.Node
	initial   *dom.Node
	fallback  *dom.Node
	noReturn  bool

	doc      *dom.Document
	previous *dom.Node
	scope    dom.Scope
	active   bool
}

// Option configures a Trap.
type Option func(*Trap)

// WithInitialFocus focuses n on activation instead of the first tabbable.
func WithInitialFocus(n *dom.Node) Option {
	return func(t *Trap) { t.initial = n }
}

// WithFallbackFocus focuses n when the container has nothing tabbable.
func WithFallbackFocus(n *dom.Node) Option {
	return func(t *Trap) { t.fallback = n }
}

// WithoutReturnFocus leaves focus where it is on deactivation.
func WithoutReturnFocus() Option {
	return func(t *Trap) { t.noReturn = true }
}

// NewTrap creates an inactive trap around container.
func NewTrap(container *dom.Node, opts ...Option) *Trap {
	t := &Trap{container: container}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Active reports whether the trap is active.
func (t *Trap) Active() bool { return t.active }

// Container returns the trapped node.
func (t *Trap) Container() *dom.Node { return t.container }

// Tabbables returns the container's focusable nodes in tree order.
func (t *Trap) Tabbables() []*dom.Node {
	doc := t.container.Document()
	if doc == nil {
		return nil
	}
	return doc.Focusables(t.container)
}

// Activate starts trapping and moves focus into the container. It fails when
// the container is detached or nothing inside it can take focus.
func (t *Trap) Activate() error {
	if t.active {
		return nil
	}
	if t.container == nil || !t.container.Connected() {
		return errors.New(errors.ErrCodeDetached, "focus trap container is not connected to a document")
	}
	doc := t.container.Document()

	target := t.initialTarget()
	if target == nil {
		return errors.New(errors.ErrCodeNoTabbable, "focus trap %q has no focusable element", t.container.ID)
	}

	t.doc = doc
	t.previous = doc.ActiveElement()
	t.active = true
	stackFor(doc).push(t)

	t.scope.Add(
		doc.AddEventListener(dom.EventKeyDown, t.onKeyDown),
		doc.AddEventListener(dom.EventFocusIn, t.onFocusIn),
	)
	_ = doc.Focus(target)
	return nil
}

// Deactivate stops trapping and returns focus to the element focused before
// activation if it is still connected.
func (t *Trap) Deactivate() {
	if !t.active {
		return
	}
	t.active = false
	t.scope.Release()
	stackFor(t.doc).remove(t)

	prev := t.previous
	t.previous = nil
	if !t.noReturn && prev != nil && prev.CanFocus() && prev.Document() == t.doc {
		_ = t.doc.Focus(prev)
	}
}

func (t *Trap) initialTarget() *dom.Node {
	if t.initial != nil && t.initial.CanFocus() && t.contains(t.initial) {
		return t.initial
	}
	if tabbables := t.Tabbables(); len(tabbables) > 0 {
		return tabbables[0]
	}
	if t.fallback != nil && t.fallback.CanFocus() {
		return t.fallback
	}
	if t.container.CanFocus() {
		return t.container
	}
	return nil
}

func (t *Trap) contains(n *dom.Node) bool {
	return t.container.Contains(n) || t.container.LogicallyContains(n)
}

func (t *Trap) onKeyDown(e *dom.Event) {
	if e.Key != dom.KeyTab && e.Key != dom.KeyShiftTab {
		return
	}
	if stackFor(t.doc).top() != t {
		return
	}
	e.PreventDefault()

	tabbables := t.Tabbables()
	if len(tabbables) == 0 {
		return
	}
	idx := slices.Index(tabbables, t.doc.ActiveElement())
	step := 1
	if e.Key == dom.KeyShiftTab {
		step = -1
	}
	var next int
	switch {
	case idx < 0 && step > 0:
		next = 0
	case idx < 0:
		next = len(tabbables) - 1
	default:
		next = (idx + step + len(tabbables)) % len(tabbables)
	}
	_ = t.doc.Focus(tabbables[next])
}

func (t *Trap) onFocusIn(e *dom.Event) {
	if stackFor(t.doc).top() != t || t.contains(e.Target) {
		return
	}
	if target := t.initialTarget(); target != nil {
		_ = t.doc.Focus(target)
	}
}

type stackKey struct{}

// stack orders the active traps of one document.
type stack struct {
	traps []*Trap
}

func stackFor(doc *dom.Document) *stack {
	return doc.Shared(stackKey{}, func() any { return &stack{} }).(*stack)
}

func (s *stack) push(t *Trap) { s.traps = append(s.traps, t) }

func (s *stack) remove(t *Trap) {
	if i := slices.Index(s.traps, t); i >= 0 {
		s.traps = slices.Delete(s.traps, i, i+1)
	}
}

func (s *stack) top() *Trap {
	if len(s.traps) == 0 {
		return nil
	}
	return s.traps[len(s.traps)-1]
}

// ActiveCount returns the number of active traps in doc.
func ActiveCount(doc *dom.Document) int {
	if doc == nil {
		return 0
	}
	return len(stackFor(doc).traps)
}
