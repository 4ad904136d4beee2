// Package overlay holds the modal dialogs of the capture panel.
package overlay

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/apptcapture/pkg/executor/tui/types"
)

// Key binding constants shared by the overlays
const (
	keyCtrlC    = "ctrl+c"
	keyEnter    = "enter"
	keyEsc      = "esc"
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
	keyLeft     = "left"
	keyRight    = "right"
)

// BaseOverlay provides the common frame: title, body, footer and the
// close keys.
type BaseOverlay struct {
	width int

	onClose      func() tea.Cmd
	renderBody   func() string
	renderFooter func() string
	title        string
}

// BaseOverlayConfig configures a base overlay
type BaseOverlayConfig struct {
	Width        int
	Title        string
	OnClose      func() tea.Cmd
	RenderBody   func() string
	RenderFooter func() string
}

// NewBaseOverlay creates a new base overlay with the given configuration
func NewBaseOverlay(config BaseOverlayConfig) *BaseOverlay {
	if config.Width <= 0 {
		config.Width = 60
	}
	return &BaseOverlay{
		width:        config.Width,
		title:        config.Title,
		onClose:      config.OnClose,
		renderBody:   config.RenderBody,
		renderFooter: config.RenderFooter,
	}
}

// isCloseKey checks if the key should close the overlay
func (b *BaseOverlay) isCloseKey(msg tea.KeyMsg) bool {
	return msg.String() == keyEsc || msg.String() == keyCtrlC
}

// close runs the configured close handler
func (b *BaseOverlay) close() tea.Cmd {
	if b.onClose != nil {
		return b.onClose()
	}
	return nil
}

// View renders the overlay frame.
func (b *BaseOverlay) View() string {
	var sections []string
	if b.title != "" {
		sections = append(sections, types.OverlayTitleStyle.Render(b.title), "")
	}
	if b.renderBody != nil {
		sections = append(sections, b.renderBody())
	}
	if b.renderFooter != nil {
		sections = append(sections, "", b.renderFooter())
	}
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return types.CreateOverlayContainerStyle(b.width).Render(content)
}

// Width returns the overlay width
func (b *BaseOverlay) Width() int {
	return b.width
}

func bodyWidth(width int) int {
	// border (2) + padding (4)
	return max(width-6, 10)
}
