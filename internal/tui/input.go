package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/sysdesign/pkg/modal"
)

// handleKey offers the key to a focused text widget, then dispatches it as a
// keydown on the document. Page bindings run only when no listener prevented
// or stopped the event.
func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	for _, i := range a.order {
		if kh, ok := a.widgets[i].(keyHandler); ok {
			if handled, cmd := kh.HandleKey(msg); handled {
				return cmd
			}
		}
	}

	e := a.doc.KeyDown(msg.String())
	if e.DefaultPrevented() || e.Stopped() {
		return nil
	}

	page := a.viewHeight()
	switch {
	case key.Matches(msg, a.keys.Quit):
		if modal.Open(a.doc) == 0 {
			return tea.Quit
		}
	case key.Matches(msg, a.keys.Down):
		a.doc.ScrollBy(0, 1)
	case key.Matches(msg, a.keys.Up):
		a.doc.ScrollBy(0, -1)
	case key.Matches(msg, a.keys.PageDown):
		a.doc.ScrollBy(0, page)
	case key.Matches(msg, a.keys.PageUp):
		a.doc.ScrollBy(0, -page)
	case key.Matches(msg, a.keys.Top):
		a.scrollTo(0)
	case key.Matches(msg, a.keys.Bottom):
		a.doc.ScrollBy(0, 1<<20)
	case key.Matches(msg, a.keys.NextSection):
		a.jumpSection(1)
	case key.Matches(msg, a.keys.PrevSection):
		a.jumpSection(-1)
	case key.Matches(msg, a.keys.NextArticle):
		return a.openArticle(1)
	case key.Matches(msg, a.keys.PrevArticle):
		return a.openArticle(-1)
	}
	return nil
}

// handleMouse translates terminal mouse reports. A press is a pointerdown;
// a release over the node that was pressed is a click; motion updates hover;
// the wheel scrolls the page.
func (a *App) handleMouse(msg tea.MouseMsg) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		a.doc.ScrollBy(0, -wheelStep)
	case msg.Button == tea.MouseButtonWheelDown:
		a.doc.ScrollBy(0, wheelStep)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		a.pressed = a.doc.HitTest(msg.X, msg.Y)
		a.doc.PointerDown(msg.X, msg.Y)
	case msg.Action == tea.MouseActionRelease:
		pressed := a.pressed
		a.pressed = nil
		if pressed != nil && pressed.Connected() && a.doc.HitTest(msg.X, msg.Y) == pressed {
			a.doc.Click(msg.X, msg.Y)
		}
	case msg.Action == tea.MouseActionMotion:
		a.doc.PointerMove(msg.X, msg.Y)
	}
}
