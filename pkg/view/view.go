// Package view holds the render contract shared by overlay components and the
// helpers that composite overlays onto a rendered page.
//
// Components never own markup. Callers pass [Content], which is either a
// fixed value ([Text]) or a function of the component's active state
// ([Func]). Both render to a string, so components treat them the same way.
package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// Content renders caller-supplied presentation. Active reports whether the
// owning element is currently highlighted (hovered or keyboard-selected).
type Content interface {
	Render(active bool) string
}

// Text is content that ignores state.
type Text string

// Render returns the text.
func (t Text) Render(bool) string { return string(t) }

// Func is content computed from state.
type Func func(active bool) string

// Render calls f.
func (f Func) Render(active bool) string {
	if f == nil {
		return ""
	}
	return f(active)
}

// Render renders c, treating nil as empty.
func Render(c Content, active bool) string {
	if c == nil {
		return ""
	}
	return c.Render(active)
}

// Size returns the cell width and height of a rendered block.
func Size(s string) (w, h int) {
	if s == "" {
		return 0, 0
	}
	return lipgloss.Width(s), lipgloss.Height(s)
}

// Place composites overlay onto base with its top-left corner at cell (x, y).
// Base lines are padded with spaces where the overlay reaches past them.
// Negative coordinates are clamped to zero.
func Place(base, overlay string, x, y int) string {
	if overlay == "" {
		return base
	}
	x, y = max(x, 0), max(y, 0)

	lines := strings.Split(base, "\n")
	fg := strings.Split(overlay, "\n")
	fgW, _ := Size(overlay)

	for len(lines) < y+len(fg) {
		lines = append(lines, "")
	}
	for i, fgLine := range fg {
		bgLine := lines[y+i]
		if w := xansi.StringWidth(bgLine); w < x {
			bgLine += strings.Repeat(" ", x-w)
		}
		left := xansi.Cut(bgLine, 0, x)
		right := xansi.Cut(bgLine, x+fgW, xansi.StringWidth(bgLine))
		if n := xansi.StringWidth(fgLine); n < fgW {
			fgLine += strings.Repeat(" ", fgW-n)
		}
		lines[y+i] = left + fgLine + right
	}
	return strings.Join(lines, "\n")
}

// Fit pads or trims s to exactly h lines of at most w cells.
func Fit(s string, w, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	for i, ln := range lines {
		if xansi.StringWidth(ln) > w {
			lines[i] = xansi.Cut(ln, 0, w)
		}
	}
	return strings.Join(lines, "\n")
}

// Dim renders s faint, as a scrim behind a dialog. Layout is unchanged.
func Dim(s string) string {
	plain := xansi.Strip(s)
	return lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Faint(true).Render(plain)
}

// Window returns the h lines of s starting at line offset, for scrolling a
// page taller than the viewport.
func Window(s string, offset, h int) string {
	lines := strings.Split(s, "\n")
	offset = min(max(offset, 0), len(lines))
	end := min(offset+h, len(lines))
	return strings.Join(lines[offset:end], "\n")
}
