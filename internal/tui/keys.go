package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the page-level bindings. Keys a focused widget consumes never
// reach these.
type keyMap struct {
	Focus       key.Binding
	Down        key.Binding
	Up          key.Binding
	PageDown    key.Binding
	PageUp      key.Binding
	Top         key.Binding
	Bottom      key.Binding
	NextSection key.Binding
	PrevSection key.Binding
	NextArticle key.Binding
	PrevArticle key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Focus:       key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "focus")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown", "f"), key.WithHelp("pgdn", "page")),
		PageUp:      key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup", "page")),
		Top:         key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		NextSection: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next section")),
		PrevSection: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev section")),
		NextArticle: key.NewBinding(key.WithKeys("n"), key.WithHelp("n/p", "article")),
		PrevArticle: key.NewBinding(key.WithKeys("p")),
		Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Down, k.NextSection, k.NextArticle, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Focus, k.Down, k.Up, k.PageDown, k.PageUp},
		{k.Top, k.Bottom, k.NextSection, k.PrevSection},
		{k.NextArticle, k.Quit},
	}
}
