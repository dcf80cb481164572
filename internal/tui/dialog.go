package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/sysdesign/pkg/dom"
	"github.com/matzehuels/sysdesign/pkg/modal"
	"github.com/matzehuels/sysdesign/pkg/view"
)

const dialogWidth = 42

// dialogDemo is a button that opens a modal with a backdrop, header, content
// and a footer of Cancel and Continue actions.
type dialogDemo struct {
	env         *env
	node        *dom.Node
	opener      *dom.Node
	scope       dom.Scope
	m           *modal.Modal
	open        bool
	describedBy string
	last        string
	status      string
	buttonY     int
}

func newDialogDemo(e *env) (*dialogDemo, error) {
	d := &dialogDemo{env: e}
	d.node = dom.NewNode("modal-demo", "group")
	d.opener = dom.NewNode("modal-demo-open", "button")
	d.opener.Focusable = true
	d.opener.SetAttr("aria-haspopup", "dialog")
	d.node.AppendChild(d.opener)
	e.doc.Body().AppendChild(d.node)
	d.scope.Add(d.opener.On(dom.EventClick, func(*dom.Event) { d.setOpen(true) }))

	st := e.styles
	d.m = modal.New(e.doc, d.props(), modal.WithOwner(d.node),
		modal.WithStyle(st.Dialog),
		modal.WithWidth(dialogWidth),
		modal.WithID("modal-demo-dialog"))
	if _, err := d.m.NewBackdrop(); err != nil {
		d.Close()
		return nil, err
	}
	if _, err := d.m.NewHeader(view.Text(st.DialogTitle.Render("System Design Modal"))); err != nil {
		d.Close()
		return nil, err
	}
	content, err := d.m.NewContent(view.Text(st.CardText.Width(dialogWidth).Render(
		"This dialog traps focus, locks the page scroll and closes on Escape, " +
			"a backdrop click or either button below.")))
	if err != nil {
		d.Close()
		return nil, err
	}
	footer, err := d.m.NewFooter(nil)
	if err != nil {
		d.Close()
		return nil, err
	}
	footer.AddAction(d.button("Cancel"), func() {
		d.status = "Cancelled."
		d.setOpen(false)
	})
	footer.AddAction(d.button("Continue"), func() {
		d.status = "Continued."
		d.setOpen(false)
	})
	d.describedBy = content.Node().ID
	d.m.Update(d.props())
	return d, nil
}

func (d *dialogDemo) props() modal.Props {
	return modal.Props{Open: d.open, OnClose: d.onClose, AriaDescribedBy: d.describedBy}
}

func (d *dialogDemo) onClose() { d.setOpen(false) }

func (d *dialogDemo) setOpen(open bool) {
	d.open = open
	d.m.Update(d.props())
}

func (d *dialogDemo) button(label string) view.Content {
	st := d.env.styles
	return view.Func(func(focused bool) string {
		if focused {
			return st.ButtonFocused.Render(label)
		}
		return st.Button.Render(label)
	})
}

// Visible reports whether the dialog is mounted.
func (d *dialogDemo) Visible() bool { return d.m.Visible() }

func (d *dialogDemo) View() string {
	st := d.env.styles
	lines := []string{st.CardTitle.Render("Modal"), st.CardText.Render("Open the dialog, then try Tab, Escape and clicking outside."), ""}
	d.buttonY = len(lines)
	d.last = d.button("Open Modal").Render(d.env.doc.ActiveElement() == d.opener)
	lines = append(lines, d.last)
	if d.status != "" {
		lines = append(lines, st.Selected.Render(d.status))
	}
	return strings.Join(lines, "\n")
}

func (d *dialogDemo) Place(x, y int) {
	w, h := view.Size(d.last)
	d.opener.SetBounds(dom.Rect{X: x, Y: y + d.buttonY, W: w, H: h})
}

func (d *dialogDemo) Overlay(screen string) string { return d.m.View(screen) }

func (d *dialogDemo) Update(tea.Msg) tea.Cmd { return nil }

func (d *dialogDemo) Close() {
	if d.m != nil {
		d.m.Unmount()
	}
	d.scope.Release()
	d.node.Remove()
}
