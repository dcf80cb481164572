package position

import (
	"github.com/matzehuels/sysdesign/pkg/dom"
)

// Strategy is the positioning mode reported back to the caller. A terminal
// has no containing blocks, so both strategies compute the same coordinates.
type Strategy string

// Strategies.
const (
	Absolute Strategy = "absolute"
	Fixed    Strategy = "fixed"
)

// maxResets bounds how often middleware may restart the chain.
const maxResets = 50

// Config describes one computation.
type Config struct {
	Placement  Placement
	Strategy   Strategy
	Middleware []Middleware
}

// Result is a computed position.
type Result struct {
	X, Y      int
	Placement Placement
	Strategy  Strategy

	// Flipped is set when the final side differs from the requested one.
	Flipped bool
}

// Rect returns the floating box at the computed position.
func (r Result) Rect(floating dom.Rect) dom.Rect {
	return dom.Rect{X: r.X, Y: r.Y, W: floating.W, H: floating.H}
}

// State is what middleware sees and transforms.
type State struct {
	X, Y      int
	Placement Placement

	// Initial is the placement requested in Config.
	Initial   Placement
	Reference dom.Rect
	Floating  dom.Rect
	Boundary  dom.Rect

	overflows map[Placement]int
}

// Box returns the floating box at the state's coordinates.
func (s State) Box() dom.Rect {
	return dom.Rect{X: s.X, Y: s.Y, W: s.Floating.W, H: s.Floating.H}
}

// Middleware transforms a State. Returning a non-empty Placement restarts the
// chain from base coordinates for that placement.
type Middleware struct {
	Name string
	Fn   func(State) (State, Placement)
}

// Compute places floating against reference inside boundary.
func Compute(reference, floating, boundary dom.Rect, cfg Config) Result {
	placement := cfg.Placement
	if placement == "" {
		placement = PlacementBottom
	}
	strategy := cfg.Strategy
	if strategy == "" {
		strategy = Absolute
	}

	st := State{
		Placement: placement,
		Initial:   placement,
		Reference: reference,
		Floating:  floating,
		Boundary:  boundary,
		overflows: make(map[Placement]int),
	}
	st.X, st.Y = baseCoords(reference, floating, placement)

	resets := 0
	for i := 0; i < len(cfg.Middleware); i++ {
		mw := cfg.Middleware[i]
		if mw.Fn == nil {
			continue
		}
		next, reset := mw.Fn(st)
		st = next
		if reset != "" && resets < maxResets {
			resets++
			st.Placement = reset
			st.X, st.Y = baseCoords(reference, floating, reset)
			i = -1
		}
	}

	return Result{
		X:         st.X,
		Y:         st.Y,
		Placement: st.Placement,
		Strategy:  strategy,
		Flipped:   st.Placement.Side() != placement.Side(),
	}
}

// baseCoords aligns floating to reference for a placement, before any
// middleware runs.
func baseCoords(ref, fl dom.Rect, p Placement) (x, y int) {
	side := p.Side()
	centerX := ref.X + ref.W/2 - fl.W/2
	centerY := ref.Y + ref.H/2 - fl.H/2

	switch side {
	case Top:
		x, y = centerX, ref.Y-fl.H
	case Bottom:
		x, y = centerX, ref.Bottom()
	case Left:
		x, y = ref.X-fl.W, centerY
	case Right:
		x, y = ref.Right(), centerY
	}

	switch p.Alignment() {
	case Start:
		if side.vertical() {
			x = ref.X
		} else {
			y = ref.Y
		}
	case End:
		if side.vertical() {
			x = ref.Right() - fl.W
		} else {
			y = ref.Bottom() - fl.H
		}
	}
	return x, y
}

// sideOverflow returns how many cells the box sticks out of the boundary on
// the given side. Zero or negative means it fits.
func sideOverflow(box, boundary dom.Rect, side Side) int {
	switch side {
	case Top:
		return boundary.Y - box.Y
	case Bottom:
		return box.Bottom() - boundary.Bottom()
	case Left:
		return boundary.X - box.X
	default:
		return box.Right() - boundary.Right()
	}
}
