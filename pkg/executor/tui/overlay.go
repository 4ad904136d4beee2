package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/apptcapture/pkg/executor/tui/types"
)

// overlayState tracks the active overlay and the ones waiting behind it
type overlayState struct {
	mode    types.OverlayMode
	overlay types.Overlay
	queue   []overlayStackEntry
}

// overlayStackEntry represents a waiting overlay
type overlayStackEntry struct {
	mode    types.OverlayMode
	overlay types.Overlay
}

// newOverlayState creates a new overlay state
func newOverlayState() *overlayState {
	return &overlayState{
		mode: types.OverlayModeNone,
	}
}

// show activates overlay, or queues it behind the active one.
func (o *overlayState) show(mode types.OverlayMode, overlay types.Overlay) {
	if o.isActive() {
		o.queue = append(o.queue, overlayStackEntry{mode: mode, overlay: overlay})
		return
	}
	o.mode = mode
	o.overlay = overlay
}

// next closes the current overlay and activates the next queued one.
// Returns true if another overlay became active.
func (o *overlayState) next() bool {
	if len(o.queue) == 0 {
		o.deactivate()
		return false
	}
	head := o.queue[0]
	o.queue = o.queue[1:]
	o.mode = head.mode
	o.overlay = head.overlay
	return true
}

// deactivate closes the current overlay
func (o *overlayState) deactivate() {
	o.mode = types.OverlayModeNone
	o.overlay = nil
}

// isActive returns whether any overlay is currently active
func (o *overlayState) isActive() bool {
	if o.mode == types.OverlayModeNone {
		return false
	}
	// mode without overlay is inconsistent; reset rather than panic later
	if o.overlay == nil {
		o.mode = types.OverlayModeNone
		return false
	}
	return true
}

// renderOverlay renders an overlay centered on a clean background
func renderOverlay(baseView string, overlay types.Overlay, width, height int) string {
	if overlay == nil {
		return baseView
	}
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay.View(),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("0")),
	)
}
