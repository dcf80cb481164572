package modal

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/sysdesign/pkg/dom"
	"github.com/matzehuels/sysdesign/pkg/errors"
	"github.com/matzehuels/sysdesign/pkg/view"
)

const (
	kindHeader  = "header"
	kindContent = "content"
	kindFooter  = "footer"
)

// actionGap separates actions in a row.
const actionGap = 2

// Section is a structural part of the dialog (header, content or footer). It
// holds no state and stops pointer and click events at its boundary.
type Section struct {
	m       *Modal
	kind    string
	node    *dom.Node
	content view.Content
	style   lipgloss.Style
	actions []*Action
	scope   dom.Scope

	height      int
	actionsLine int
}

// SectionOption configures a Section.
type SectionOption func(*Section)

// WithSectionStyle wraps the section in style.
func WithSectionStyle(style lipgloss.Style) SectionOption {
	return func(s *Section) { s.style = style }
}

// NewHeader adds a header section.
func (m *Modal) NewHeader(content view.Content, opts ...SectionOption) (*Section, error) {
	return m.newSection(kindHeader, content, opts)
}

// NewContent adds a content section.
func (m *Modal) NewContent(content view.Content, opts ...SectionOption) (*Section, error) {
	return m.newSection(kindContent, content, opts)
}

// NewFooter adds a footer section.
func (m *Modal) NewFooter(content view.Content, opts ...SectionOption) (*Section, error) {
	return m.newSection(kindFooter, content, opts)
}

func (m *Modal) newSection(kind string, content view.Content, opts []SectionOption) (*Section, error) {
	if err := m.usable(); err != nil {
		return nil, err
	}
	if m.section(kind) != nil {
		return nil, errors.Usage("modal %q already has a %s", m.id, kind)
	}
	s := &Section{
		m:       m,
		kind:    kind,
		node:    dom.NewNode(m.id+"-"+kind, "group"),
		content: content,
		style:   lipgloss.NewStyle(),
	}
	for _, opt := range opts {
		opt(s)
	}
	stop := func(e *dom.Event) { e.StopPropagation() }
	s.scope.Add(
		s.node.On(dom.EventPointerDown, stop),
		s.node.On(dom.EventTouchStart, stop),
		s.node.On(dom.EventClick, stop),
	)
	m.sections = append(m.sections, s)
	m.arrange()
	if kind == kindHeader {
		m.syncAria()
	}
	return s, nil
}

// Node returns the section node.
func (s *Section) Node() *dom.Node { return s.node }

// Kind returns "header", "content" or "footer".
func (s *Section) Kind() string { return s.kind }

func (s *Section) release() {
	for _, a := range s.actions {
		a.scope.Release()
	}
	s.scope.Release()
}

// Action is a focusable button inside a section.
type Action struct {
	s       *Section
	node    *dom.Node
	label   view.Content
	onPress func()
	scope   dom.Scope
	last    string
}

// AddAction appends a button to the section. The label renders with the
// button's focus state as its active flag.
func (s *Section) AddAction(label view.Content, onPress func()) *Action {
	a := &Action{
		s:       s,
		node:    dom.NewNode(s.node.ID+"-action-"+strconv.Itoa(len(s.actions)), "button"),
		label:   label,
		onPress: onPress,
	}
	a.node.Focusable = true
	a.scope.Add(a.node.On(dom.EventClick, func(*dom.Event) {
		if a.onPress != nil {
			a.onPress()
		}
	}))
	s.actions = append(s.actions, a)
	s.node.AppendChild(a.node)
	s.m.syncRootFocus()
	return a
}

// Node returns the action node.
func (a *Action) Node() *dom.Node { return a.node }

// Actions returns the section's actions.
func (s *Section) Actions() []*Action {
	out := make([]*Action, len(s.actions))
	copy(out, s.actions)
	return out
}

func (a *Action) render() string {
	doc := a.node.Document()
	focused := doc != nil && doc.ActiveElement() == a.node
	a.last = view.Render(a.label, focused)
	return a.last
}

func (s *Section) render() string {
	parts := []string{}
	if body := view.Render(s.content, false); body != "" {
		parts = append(parts, body)
	}
	if len(s.actions) > 0 {
		labels := make([]string, 0, len(s.actions)*2)
		for i, a := range s.actions {
			if i > 0 {
				labels = append(labels, strings.Repeat(" ", actionGap))
			}
			labels = append(labels, a.render())
		}
		parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top, labels...))
	}
	body := strings.Join(parts, "\n")
	s.actionsLine = 0
	if len(parts) == 2 {
		_, s.actionsLine = view.Size(parts[0])
	}
	out := s.style.Render(body)
	_, s.height = view.Size(out)
	return out
}

// layout records bounds for the section and its actions.
func (s *Section) layout(x, y, w int) {
	s.node.SetBounds(dom.Rect{X: x, Y: y, W: w, H: s.height})
	ax := x + s.style.GetMarginLeft() + s.style.GetBorderLeftSize() + s.style.GetPaddingLeft()
	ay := y + s.style.GetMarginTop() + s.style.GetBorderTopSize() + s.style.GetPaddingTop() + s.actionsLine
	for _, a := range s.actions {
		aw, ah := view.Size(a.last)
		a.node.SetBounds(dom.Rect{X: ax, Y: ay, W: aw, H: ah})
		ax += aw + actionGap
	}
}
