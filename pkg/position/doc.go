// Package position computes where a floating box goes relative to a
// reference box and keeps it there while geometry changes.
//
// [Compute] starts from base coordinates for the requested [Placement] and
// runs a middleware chain over them. The provided middleware mirror the usual
// floating-element toolkit:
//
//   - [Offset] keeps a gap between reference and floating box
//   - [Flip] moves the box to the opposite side when its own side overflows
//   - [Shift] slides the box along its side to stay inside the boundary
//
// A middleware may ask for a different placement; the chain then restarts
// from that placement's base coordinates.
//
// [Solver] binds the computation to two [dom.Node]s and reruns it on layout,
// scroll and resize events for as long as both nodes are set.
//
//	solver := position.NewSolver(doc, position.Config{
//	    Placement:  position.PlacementBottomStart,
//	    Middleware: []position.Middleware{position.Offset(8), position.Flip(), position.Shift(position.ShiftOptions{Padding: 8})},
//	})
//	solver.SetReference(trigger)
//	solver.SetFloating(panel) // auto-update starts
//	solver.SetFloating(nil)   // and stops
package position
