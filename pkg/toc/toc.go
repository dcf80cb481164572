// Package toc tracks which heading of a scrolled page is current.
//
// A [Spy] holds the page's headings with the line each starts on. The active
// heading is the last one at or above the activation line, which sits a
// fixed fraction (20%) down from the top of the viewport. When no heading
// qualifies the previous value is kept. [Spy.Jump] marks a heading active
// directly, for deep links.
package toc

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/sysdesign/pkg/dom"
)

// ActivationRatio is the activation line's distance from the viewport top,
// as a fraction of the viewport height.
const ActivationRatio = 0.2

// Heading is one entry of the table of contents.
type Heading struct {
	ID    string
	Title string
	Depth int
	Line  int
}

// Spy tracks the active heading.
type Spy struct {
	headings []Heading
	active   string
	scope    dom.Scope
	onChange func(id string)
}

// New creates a spy over headings, which must be in page order.
func New(headings []Heading) *Spy {
	return &Spy{headings: headings}
}

// Headings returns the tracked headings.
func (s *Spy) Headings() []Heading { return s.headings }

// SetHeadings replaces the headings after the page was laid out again. The
// active heading survives when its id is still present.
func (s *Spy) SetHeadings(headings []Heading) {
	s.headings = headings
	for _, h := range headings {
		if h.ID == s.active {
			return
		}
	}
	s.active = ""
}

// Active returns the active heading id, or "" before any heading qualified.
func (s *Spy) Active() string { return s.active }

// OnChange registers fn to run whenever the active heading changes.
func (s *Spy) OnChange(fn func(id string)) { s.onChange = fn }

// Update recomputes the active heading for a viewport of height rows whose
// top is at line offset. It reports whether the active heading changed.
func (s *Spy) Update(offset, height int) bool {
	limit := offset + int(float64(height)*ActivationRatio)
	next := ""
	for _, h := range s.headings {
		if h.Line > limit {
			break
		}
		next = h.ID
	}
	if next == "" || next == s.active {
		return false
	}
	s.set(next)
	return true
}

// Jump marks id active and returns the line to scroll to. It returns false
// when no heading has that id.
func (s *Spy) Jump(id string) (int, bool) {
	id = strings.TrimPrefix(id, "#")
	for _, h := range s.headings {
		if h.ID == id {
			if s.active != id {
				s.set(id)
			}
			return h.Line, true
		}
	}
	return 0, false
}

func (s *Spy) set(id string) {
	s.active = id
	if s.onChange != nil {
		s.onChange(id)
	}
}

// Attach follows doc's scroll offset and viewport. It replaces any previous
// attachment; Detach stops following.
func (s *Spy) Attach(doc *dom.Document) {
	s.Detach()
	update := func(*dom.Event) {
		_, y := doc.ScrollOffset()
		s.Update(y, doc.Viewport().H)
	}
	s.scope.Add(
		doc.AddEventListener(dom.EventScroll, update),
		doc.AddEventListener(dom.EventResize, update),
	)
	update(nil)
}

// Detach stops following the document.
func (s *Spy) Detach() { s.scope.Release() }

// Styles style a rendered table of contents.
type Styles struct {
	Title  lipgloss.Style
	Item   lipgloss.Style
	Active lipgloss.Style
}

// DefaultStyles returns the site's table of contents styles.
func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
		Item:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")).PaddingLeft(1),
		Active: lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("39")),
	}
}

// Render draws the table of contents at most width cells wide. Level-2
// headings are flush; deeper levels indent two cells per level.
func (s *Spy) Render(width int, st Styles) string {
	lines := []string{st.Title.Render("TABLE OF CONTENTS"), ""}
	for _, h := range s.headings {
		indent := strings.Repeat("  ", max(h.Depth-2, 0))
		style := st.Item
		if h.ID == s.active {
			style = st.Active
		}
		lines = append(lines, indent+style.MaxWidth(max(width-len(indent), 1)).Render(h.Title))
	}
	return strings.Join(lines, "\n")
}
