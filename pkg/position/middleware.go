package position

// Offset moves the floating box n cells away from the reference along the
// side's axis.
func Offset(n int) Middleware {
	return Middleware{
		Name: "offset",
		Fn: func(s State) (State, Placement) {
			switch s.Placement.Side() {
			case Top:
				s.Y -= n
			case Bottom:
				s.Y += n
			case Left:
				s.X -= n
			case Right:
				s.X += n
			}
			return s, ""
		},
	}
}

// Flip moves the box to the opposite side when it overflows the boundary on
// its own side. When both sides overflow it keeps the side with less
// overflow.
func Flip() Middleware {
	return Middleware{
		Name: "flip",
		Fn: func(s State) (State, Placement) {
			side := s.Placement.Side()
			over := sideOverflow(s.Box(), s.Boundary, side)
			if over <= 0 {
				return s, ""
			}
			s.overflows[s.Placement] = over

			opposite := s.Initial.Opposite()
			if _, tried := s.overflows[opposite]; !tried && s.Placement != opposite {
				return s, opposite
			}

			best := s.Initial
			for _, p := range []Placement{s.Initial, opposite} {
				if o, ok := s.overflows[p]; ok && o < s.overflows[best] {
					best = p
				}
			}
			if best != s.Placement {
				return s, best
			}
			return s, ""
		},
	}
}

// ShiftOptions configures Shift.
type ShiftOptions struct {
	// Padding is the minimum distance kept from the boundary edges.
	Padding int

	// CrossAxis also clamps along the side's axis, letting the box overlap
	// the reference.
	CrossAxis bool
}

// Shift slides the box along the alignment axis so it stays inside the
// boundary with the configured padding. When the box is larger than the
// space, the start edge wins.
func Shift(opts ShiftOptions) Middleware {
	return Middleware{
		Name: "shift",
		Fn: func(s State) (State, Placement) {
			b := s.Boundary
			clampX := func() {
				s.X = clamp(b.X+opts.Padding, s.X, b.Right()-opts.Padding-s.Floating.W)
			}
			clampY := func() {
				s.Y = clamp(b.Y+opts.Padding, s.Y, b.Bottom()-opts.Padding-s.Floating.H)
			}
			if s.Placement.Side().vertical() {
				clampX()
				if opts.CrossAxis {
					clampY()
				}
			} else {
				clampY()
				if opts.CrossAxis {
					clampX()
				}
			}
			return s, ""
		},
	}
}

func clamp(lo, v, hi int) int {
	return max(lo, min(v, hi))
}
