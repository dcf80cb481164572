package dom

// EventType names an event.
type EventType string

// Event types.
const (
	EventPointerDown  EventType = "pointerdown"
	EventTouchStart   EventType = "touchstart"
	EventClick        EventType = "click"
	EventKeyDown      EventType = "keydown"
	EventPointerEnter EventType = "pointerenter"
	EventPointerLeave EventType = "pointerleave"
	EventFocusIn      EventType = "focusin"
	EventScroll       EventType = "scroll"
	EventResize       EventType = "resize"
	EventLayout       EventType = "layout"
)

// bubbles reports whether events of type t propagate past their target.
func (t EventType) bubbles() bool {
	switch t {
	case EventPointerEnter, EventPointerLeave, EventLayout:
		return false
	}
	return true
}

// Key names as produced by the terminal adapter.
const (
	KeyTab      = "tab"
	KeyShiftTab = "shift+tab"
	KeyEnter    = "enter"
	KeySpace    = " "
	KeyEscape   = "esc"
	KeyUp       = "up"
	KeyDown     = "down"
)

// Event is a dispatched event.
type Event struct {
	Type EventType

	// Target is the node the event was addressed to. Nil for events
	// addressed to the document itself (scroll, resize).
	Target *Node

	// CurrentTarget is the node whose listener is running, nil while
	// document listeners run.
	CurrentTarget *Node

	// Key is set for keydown events.
	Key string

	// X and Y are screen cells for pointer events.
	X, Y int

	stopped   bool
	prevented bool
}

// StopPropagation prevents the event from reaching further ancestors and the
// document. Listeners on the current target still run.
func (e *Event) StopPropagation() { e.stopped = true }

// PreventDefault suppresses the document's default action for the event.
func (e *Event) PreventDefault() { e.prevented = true }

// Stopped reports whether StopPropagation was called.
func (e *Event) Stopped() bool { return e.stopped }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.prevented }

// Handler handles an event.
type Handler func(*Event)

// Subscription is a registered listener. Release removes it; releasing twice
// or releasing a nil Subscription is a no-op.
type Subscription struct {
	release func()
	done    bool
}

// NewSubscription wraps a release function so it runs at most once.
func NewSubscription(release func()) *Subscription {
	return &Subscription{release: release}
}

// Release removes the listener.
func (s *Subscription) Release() {
	if s == nil || s.done {
		return
	}
	s.done = true
	if s.release != nil {
		s.release()
	}
}

// Active reports whether the subscription has not been released.
func (s *Subscription) Active() bool {
	return s != nil && !s.done
}

// Scope groups subscriptions acquired together so they can be released
// together. The zero value is ready to use.
type Scope struct {
	subs []*Subscription
}

// Add registers subscriptions with the scope.
func (s *Scope) Add(subs ...*Subscription) {
	for _, sub := range subs {
		if sub != nil {
			s.subs = append(s.subs, sub)
		}
	}
}

// Release releases every subscription in reverse acquisition order and
// empties the scope.
func (s *Scope) Release() {
	for i := len(s.subs) - 1; i >= 0; i-- {
		s.subs[i].Release()
	}
	s.subs = nil
}

// Len returns the number of subscriptions held.
func (s *Scope) Len() int {
	return len(s.subs)
}

type listener struct {
	handler Handler
	removed bool
}

// listeners is a per-type listener registry shared by nodes and documents.
type listeners struct {
	byType map[EventType][]*listener
}

func (l *listeners) add(t EventType, h Handler) *Subscription {
	if l.byType == nil {
		l.byType = make(map[EventType][]*listener)
	}
	entry := &listener{handler: h}
	l.byType[t] = append(l.byType[t], entry)
	return NewSubscription(func() {
		entry.removed = true
		list := l.byType[t]
		for i, e := range list {
			if e == entry {
				l.byType[t] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
		if len(l.byType[t]) == 0 {
			delete(l.byType, t)
		}
	})
}

// fire runs the listeners registered for e.Type at the time fire is called.
func (l *listeners) fire(e *Event) {
	list := l.byType[e.Type]
	if len(list) == 0 {
		return
	}
	snapshot := make([]*listener, len(list))
	copy(snapshot, list)
	for _, entry := range snapshot {
		if entry.removed {
			continue
		}
		entry.handler(e)
	}
}

func (l *listeners) count(t EventType) int {
	return len(l.byType[t])
}

func (l *listeners) total() int {
	n := 0
	for _, list := range l.byType {
		n += len(list)
	}
	return n
}
