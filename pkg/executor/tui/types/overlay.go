package types

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Overlay is a modal drawn over the panel. Update returns nil when the
// overlay closed itself.
type Overlay interface {
	Update(msg tea.Msg) (Overlay, tea.Cmd)
	View() string
}

// Color Palette shared by the panel and its overlays.
var (
	SalmonPink  = lipgloss.Color("#FFB3BA")
	CoralPink   = lipgloss.Color("#FFCCCB")
	MintGreen   = lipgloss.Color("#A8E6CF")
	MutedGray   = lipgloss.Color("#6B7280")
	BrightWhite = lipgloss.Color("#F9FAFB")
)

var (
	// OverlayTitleStyle is used for main overlay titles
	OverlayTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(SalmonPink)

	// OverlayBodyStyle is used for the message text
	OverlayBodyStyle = lipgloss.NewStyle().
				Foreground(BrightWhite)

	// OverlayHelpStyle is used for help text and hints
	OverlayHelpStyle = lipgloss.NewStyle().
				Foreground(MutedGray).
				Italic(true)

	// OverlayErrorStyle is used for inline validation errors
	OverlayErrorStyle = lipgloss.NewStyle().
				Foreground(SalmonPink)

	// ButtonStyle and ButtonActiveStyle render the yes/no choices
	ButtonStyle = lipgloss.NewStyle().
			Foreground(MutedGray).
			Padding(0, 1)

	ButtonActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(MintGreen).
				Bold(true).
				Padding(0, 1)
)

// CreateOverlayContainerStyle returns the bordered box every overlay is drawn in.
func CreateOverlayContainerStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(SalmonPink).
		Padding(1, 2).
		Width(width)
}
