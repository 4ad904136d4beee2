package overlay

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/apptcapture/pkg/executor/tui/types"
)

// ConfirmOverlay asks a yes/no question. The answer goes to reply exactly
// once; Esc and Ctrl+C answer no.
type ConfirmOverlay struct {
	*BaseOverlay
	message  string
	reply    chan<- bool
	yes      bool
	answered bool
}

// NewConfirmOverlay creates a confirmation for message. Yes is preselected.
func NewConfirmOverlay(message string, reply chan<- bool, width int) *ConfirmOverlay {
	c := &ConfirmOverlay{message: message, reply: reply, yes: true}
	c.BaseOverlay = NewBaseOverlay(BaseOverlayConfig{
		Width:        width,
		Title:        "Confirm",
		OnClose:      func() tea.Cmd { c.answer(false); return nil },
		RenderBody:   c.renderBody,
		RenderFooter: c.renderFooter,
	})
	return c
}

// Update implements types.Overlay.
func (c *ConfirmOverlay) Update(msg tea.Msg) (types.Overlay, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}
	if c.isCloseKey(keyMsg) {
		return nil, c.close()
	}

	switch strings.ToLower(keyMsg.String()) {
	case "y":
		c.answer(true)
		return nil, nil
	case "n":
		c.answer(false)
		return nil, nil
	case keyEnter:
		c.answer(c.yes)
		return nil, nil
	case keyTab, keyShiftTab, keyLeft, keyRight:
		c.yes = !c.yes
	}
	return c, nil
}

// Selected reports whether Yes is highlighted.
func (c *ConfirmOverlay) Selected() bool { return c.yes }

func (c *ConfirmOverlay) answer(v bool) {
	if c.answered {
		return
	}
	c.answered = true
	select {
	case c.reply <- v:
	default:
	}
}

func (c *ConfirmOverlay) renderBody() string {
	return types.OverlayBodyStyle.Width(bodyWidth(c.Width())).Render(c.message)
}

func (c *ConfirmOverlay) renderFooter() string {
	yes, no := types.ButtonStyle, types.ButtonStyle
	if c.yes {
		yes = types.ButtonActiveStyle
	} else {
		no = types.ButtonActiveStyle
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top, yes.Render(" ✓ Yes "), "  ", no.Render(" ✗ No "))
	hints := types.OverlayHelpStyle.Render("Y/N • Tab: Toggle • Enter: Choose • Esc: No")
	return lipgloss.JoinVertical(lipgloss.Left, buttons, "", hints)
}
