package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/apptcapture/pkg/executor/tui/types"
)

// Color Palette
// The single source of truth lives in types so overlays share it.
var (
	salmonPink  = types.SalmonPink
	coralPink   = types.CoralPink
	mintGreen   = types.MintGreen
	mutedGray   = types.MutedGray
	brightWhite = types.BrightWhite
)

// Common Styles
var (
	headerStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	tipsStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Width(12)

	focusedLabelStyle = lipgloss.NewStyle().
				Foreground(coralPink).
				Bold(true).
				Width(12)

	optionStyle = lipgloss.NewStyle().
			Foreground(brightWhite)

	selectedOptionStyle = lipgloss.NewStyle().
				Foreground(mintGreen).
				Bold(true)

	cursorOptionStyle = lipgloss.NewStyle().
				Foreground(salmonPink).
				Underline(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(salmonPink)

	successStyle = lipgloss.NewStyle().
			Foreground(mintGreen)

	// Container Styles
	statusBarStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Padding(0, 1)

	formBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedGray).
			Padding(0, 1)

	previewBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(salmonPink).
			Padding(0, 1)
)
