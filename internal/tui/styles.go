package tui

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan  = lipgloss.Color("36")  // Teal - focus, active rows
	colorGreen = lipgloss.Color("35")  // Green - selections
	colorRed   = lipgloss.Color("167") // Soft red - errors
	colorWhite = lipgloss.Color("255") // Bright white - values
	colorGray  = lipgloss.Color("245") // Gray - secondary text
	colorDim   = lipgloss.Color("240") // Dim gray - borders, muted text
	colorPanel = lipgloss.Color("236") // Active row background
)

// Styles are the reader's lipgloss styles. The headless widgets take every
// style from here; they ship none of their own.
type Styles struct {
	Title  lipgloss.Style
	Meta   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style

	CardTitle lipgloss.Style
	CardText  lipgloss.Style
	Selected  lipgloss.Style

	Trigger        lipgloss.Style
	TriggerFocused lipgloss.Style
	Panel          lipgloss.Style
	Option         lipgloss.Style
	OptionActive   lipgloss.Style
	OptionDetail   lipgloss.Style

	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	Dialog        lipgloss.Style
	DialogTitle   lipgloss.Style
}

// DefaultStyles returns the reader's styles.
func DefaultStyles() Styles {
	border := lipgloss.RoundedBorder()
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(colorCyan).PaddingLeft(2),
		Meta:   lipgloss.NewStyle().Foreground(colorGray).PaddingLeft(2),
		Status: lipgloss.NewStyle().Foreground(colorDim),
		Error:  lipgloss.NewStyle().Foreground(colorRed),

		CardTitle: lipgloss.NewStyle().Bold(true).Foreground(colorWhite),
		CardText:  lipgloss.NewStyle().Foreground(colorGray),
		Selected:  lipgloss.NewStyle().Foreground(colorGreen),

		Trigger:        lipgloss.NewStyle().Border(border).BorderForeground(colorDim).Padding(0, 1),
		TriggerFocused: lipgloss.NewStyle().Border(border).BorderForeground(colorCyan).Padding(0, 1),
		Panel:          lipgloss.NewStyle().Border(border).BorderForeground(colorDim),
		Option:         lipgloss.NewStyle().Padding(0, 1),
		OptionActive:   lipgloss.NewStyle().Padding(0, 1).Background(colorPanel).Foreground(colorCyan),
		OptionDetail:   lipgloss.NewStyle().Foreground(colorGray),

		Button:        lipgloss.NewStyle().Border(border).BorderForeground(colorDim).Padding(0, 2),
		ButtonFocused: lipgloss.NewStyle().Border(border).BorderForeground(colorCyan).Foreground(colorCyan).Padding(0, 2),
		Dialog:        lipgloss.NewStyle().Border(border).BorderForeground(colorCyan).Padding(1, 2),
		DialogTitle:   lipgloss.NewStyle().Bold(true).Foreground(colorWhite).MarginBottom(1),
	}
}
