package position

import (
	"strings"

	"github.com/matzehuels/sysdesign/pkg/errors"
)

// Side is the side of the reference a floating box is placed on.
type Side string

// Sides.
const (
	Top    Side = "top"
	Bottom Side = "bottom"
	Left   Side = "left"
	Right  Side = "right"
)

// Opposite returns the side across the reference.
func (s Side) Opposite() Side {
	switch s {
	case Top:
		return Bottom
	case Bottom:
		return Top
	case Left:
		return Right
	default:
		return Left
	}
}

// vertical reports whether the side lies above or below the reference, making
// x the alignment axis.
func (s Side) vertical() bool {
	return s == Top || s == Bottom
}

// Alignment positions the floating box along the side.
type Alignment string

// Alignments. The zero value centers.
const (
	Center Alignment = ""
	Start  Alignment = "start"
	End    Alignment = "end"
)

// Placement is a side with an optional alignment, such as "bottom" or
// "bottom-start".
type Placement string

// Placements.
const (
	PlacementTop         Placement = "top"
	PlacementTopStart    Placement = "top-start"
	PlacementTopEnd      Placement = "top-end"
	PlacementBottom      Placement = "bottom"
	PlacementBottomStart Placement = "bottom-start"
	PlacementBottomEnd   Placement = "bottom-end"
	PlacementLeft        Placement = "left"
	PlacementLeftStart   Placement = "left-start"
	PlacementLeftEnd     Placement = "left-end"
	PlacementRight       Placement = "right"
	PlacementRightStart  Placement = "right-start"
	PlacementRightEnd    Placement = "right-end"
)

// ParsePlacement validates s. An empty string yields PlacementBottom.
func ParsePlacement(s string) (Placement, error) {
	if s == "" {
		return PlacementBottom, nil
	}
	side, align, _ := strings.Cut(s, "-")
	switch Side(side) {
	case Top, Bottom, Left, Right:
	default:
		return "", errors.New(errors.ErrCodeInvalidPlacement, "unknown side %q in placement %q", side, s)
	}
	switch Alignment(align) {
	case Center, Start, End:
	default:
		return "", errors.New(errors.ErrCodeInvalidPlacement, "unknown alignment %q in placement %q", align, s)
	}
	return Placement(s), nil
}

// Side returns the placement's side. Unknown values read as Bottom.
func (p Placement) Side() Side {
	side, _, _ := strings.Cut(string(p), "-")
	switch s := Side(side); s {
	case Top, Bottom, Left, Right:
		return s
	}
	return Bottom
}

// Alignment returns the placement's alignment.
func (p Placement) Alignment() Alignment {
	_, align, _ := strings.Cut(string(p), "-")
	return Alignment(align)
}

// Opposite returns the placement on the other side with the same alignment.
func (p Placement) Opposite() Placement {
	return With(p.Side().Opposite(), p.Alignment())
}

// With builds a placement from parts.
func With(s Side, a Alignment) Placement {
	if a == Center {
		return Placement(s)
	}
	return Placement(string(s) + "-" + string(a))
}
