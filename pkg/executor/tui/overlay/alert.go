package overlay

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/entrhq/apptcapture/pkg/executor/tui/types"
)

// AlertOverlay is a blocking notification dismissed with Enter or Esc.
type AlertOverlay struct {
	*BaseOverlay
	message string
	isError bool
}

// NewAlertOverlay creates an alert for message.
func NewAlertOverlay(message string, isError bool, width int) *AlertOverlay {
	a := &AlertOverlay{message: message, isError: isError}
	title := "✓ Saved"
	if isError {
		title = "✗ Error"
	}
	a.BaseOverlay = NewBaseOverlay(BaseOverlayConfig{
		Width:        width,
		Title:        title,
		RenderBody:   a.renderBody,
		RenderFooter: func() string { return types.OverlayHelpStyle.Render("Press Enter to continue") },
	})
	return a
}

// Message returns the alert text.
func (a *AlertOverlay) Message() string { return a.message }

// Update implements types.Overlay.
func (a *AlertOverlay) Update(msg tea.Msg) (types.Overlay, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	if keyMsg.String() == keyEnter || a.isCloseKey(keyMsg) {
		return nil, a.close()
	}
	return a, nil
}

func (a *AlertOverlay) renderBody() string {
	style := types.OverlayBodyStyle
	if a.isError {
		style = types.OverlayErrorStyle
	}
	return style.Width(bodyWidth(a.Width())).Render(a.message)
}
