package tui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/entrhq/apptcapture/pkg/executor/tui/overlay"
	"github.com/entrhq/apptcapture/pkg/executor/tui/types"
	"github.com/entrhq/apptcapture/pkg/form"
	"github.com/entrhq/apptcapture/pkg/persist"
	apptypes "github.com/entrhq/apptcapture/pkg/types"
)

// Key binding constants for the panel
const (
	keyCtrlC    = "ctrl+c"
	keyCtrlS    = "ctrl+s"
	keyCtrlD    = "ctrl+d"
	keyEsc      = "esc"
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
	keyLeft     = "left"
	keyRight    = "right"
	keyUp       = "up"
	keyDown     = "down"
	keySpace    = " "
)

// Init schedules the first-run directory question after the first render.
func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.focusCmd()}
	cmds = append(cmds, tea.Tick(m.promptDelay, func(time.Time) tea.Msg {
		return types.FirstRunMsg{}
	}))
	return tea.Batch(cmds...)
}

// Update handles all state updates for the panel.
//
// Uses pointer receiver so the preview subscription and the overlays see
// the same model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.shouldQuit {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case types.ConfirmRequestMsg:
		m.overlay.show(types.OverlayModeConfirm, overlay.NewConfirmOverlay(msg.Message, msg.Reply, m.overlayWidth()))
		return m, nil

	case types.DirectoryRequestMsg:
		initial := ""
		if dir, ok := m.session.Directory().(*persist.OSDirectory); ok {
			initial = dir.Path()
		}
		m.overlay.show(types.OverlayModeDirectory, overlay.NewDirectoryOverlay(initial, msg.Reply, m.overlayWidth()))
		return m, nil

	case types.SaveDoneMsg:
		return m.handleSaveDone(msg)

	case types.DirectoryDoneMsg:
		return m.handleDirectoryDone(msg)

	case types.FirstRunMsg:
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.offerDirectoryCmd()

	case types.ToastMsg:
		return m, m.showToast(msg.Message, msg.IsError)

	case clearToastMsg:
		if m.toast != nil && !time.Now().Before(m.toast.showUntil) {
			m.toast = nil
		}
		return m, nil
	}

	if m.overlay.isActive() {
		return m.updateOverlay(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(keyMsg)
	}

	// cursor blink and friends go to the focused component
	return m, m.updateFocused(msg)
}

func (m *model) updateOverlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.overlay.overlay.Update(msg)
	if updated == nil {
		m.overlay.next()
		return m, cmd
	}
	m.overlay.overlay = updated
	return m, cmd
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyCtrlC, keyEsc:
		m.close()
		m.shouldQuit = true
		return m, tea.Quit

	case keyCtrlS:
		return m, m.save()

	case keyCtrlD:
		return m, m.chooseDirectory()

	case keyTab:
		return m, m.setFocus(m.focus.Next())

	case keyShiftTab:
		return m, m.setFocus(m.focus.Prev())
	}

	switch m.focus {
	case types.FocusType:
		return m, m.handleTypeKey(msg)
	case types.FocusChecklist:
		return m, m.handleChecklistKey(msg)
	case types.FocusWeekday:
		return m, m.handleWeekdayKey(msg)
	}
	return m, m.updateFocused(msg)
}

func (m *model) handleTypeKey(msg tea.KeyMsg) tea.Cmd {
	all := apptypes.AllAppointmentTypes()
	switch msg.String() {
	case keyLeft, keyUp:
		m.typeIndex = (m.typeIndex + len(all) - 1) % len(all)
	case keyRight, keyDown:
		m.typeIndex = (m.typeIndex + 1) % len(all)
	default:
		return nil
	}
	if err := m.form.SetType(all[m.typeIndex]); err != nil {
		return m.showToast(err.Error(), true)
	}
	return nil
}

func (m *model) handleChecklistKey(msg tea.KeyMsg) tea.Cmd {
	items := form.Checklist()
	switch msg.String() {
	case keyLeft, keyUp:
		m.checkCursor = (m.checkCursor + len(items) - 1) % len(items)
	case keyRight, keyDown:
		m.checkCursor = (m.checkCursor + 1) % len(items)
	case keySpace, "space", "x", "enter":
		if _, err := m.form.ToggleAttribute(items[m.checkCursor]); err != nil {
			return m.showToast(err.Error(), true)
		}
	}
	return nil
}

func (m *model) handleWeekdayKey(msg tea.KeyMsg) tea.Cmd {
	days := form.Weekdays()
	switch msg.String() {
	case keyLeft, keyUp:
		m.weekdayIndex = (m.weekdayIndex + len(days) - 1) % len(days)
	case keyRight, keyDown:
		m.weekdayIndex = (m.weekdayIndex + 1) % len(days)
	default:
		return nil
	}
	if err := m.form.Set(form.FieldWeekday, days[m.weekdayIndex]); err != nil {
		return m.showToast(err.Error(), true)
	}
	return nil
}

// updateFocused forwards msg to the focused text component and pushes the
// resulting value into the form.
func (m *model) updateFocused(msg tea.Msg) tea.Cmd {
	if m.focus == types.FocusInterest {
		before := m.interest.Value()
		var cmd tea.Cmd
		m.interest, cmd = m.interest.Update(msg)
		if v := m.interest.Value(); v != before {
			if err := m.form.Set(form.FieldInterest, v); err != nil {
				m.logger.Warnf("set interest: %v", err)
			}
		}
		return cmd
	}

	ti, ok := m.inputs[m.focus]
	if !ok {
		return nil
	}
	before := ti.Value()
	updated, cmd := ti.Update(msg)
	*ti = updated
	if v := ti.Value(); v != before {
		if err := m.form.Set(textFields[m.focus], v); err != nil {
			m.logger.Warnf("set %s: %v", textFields[m.focus], err)
		}
	}
	return cmd
}

func (m *model) setFocus(f types.Focus) tea.Cmd {
	if ti, ok := m.inputs[m.focus]; ok {
		ti.Blur()
	}
	if m.focus == types.FocusInterest {
		m.interest.Blur()
	}
	m.focus = f
	return m.focusCmd()
}

func (m *model) focusCmd() tea.Cmd {
	if ti, ok := m.inputs[m.focus]; ok {
		return ti.Focus()
	}
	if m.focus == types.FocusInterest {
		return m.interest.Focus()
	}
	return nil
}

// save starts the pipeline off the event loop so confirm overlays can be
// answered while it waits.
func (m *model) save() tea.Cmd {
	if m.busy {
		return m.showToast("Please wait for the current operation to finish", false)
	}
	m.busy = true
	sess, ctx := m.session, m.ctx
	return func() tea.Msg {
		report, err := sess.Save(ctx)
		return types.SaveDoneMsg{Report: report, Err: err}
	}
}

func (m *model) chooseDirectory() tea.Cmd {
	if m.busy {
		return m.showToast("Please wait for the current operation to finish", false)
	}
	m.busy = true
	sess, ctx, picker := m.session, m.ctx, m.picker
	return func() tea.Msg {
		ref, err := sess.ChooseDirectory(ctx, picker)
		return types.DirectoryDoneMsg{Name: ref.DirectoryName, Err: err}
	}
}

func (m *model) offerDirectoryCmd() tea.Cmd {
	sess, ctx, picker := m.session, m.ctx, m.picker
	return func() tea.Msg {
		chosen, err := sess.OfferDirectory(ctx, picker)
		if err != nil || !chosen {
			return types.DirectoryDoneMsg{Err: err}
		}
		return types.DirectoryDoneMsg{Name: sess.Directory().Name()}
	}
}

func (m *model) handleSaveDone(msg types.SaveDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.refreshStatus()

	if msg.Err == nil && msg.Report.NeedsDirectory {
		return m, m.chooseDirectory()
	}
	m.overlay.show(types.OverlayModeAlert, overlay.NewAlertOverlay(msg.Report.Message, msg.Err != nil, m.overlayWidth()))
	return m, nil
}

func (m *model) handleDirectoryDone(msg types.DirectoryDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.refreshStatus()

	switch {
	case msg.Err != nil && errors.Is(msg.Err, persist.ErrCancelled):
		return m, nil
	case msg.Err != nil:
		return m, m.showToast("Directory selection error: "+msg.Err.Error(), true)
	case msg.Name != "":
		return m, m.showToast("Saving to: "+msg.Name, false)
	}
	return m, nil
}

func (m *model) showToast(message string, isError bool) tea.Cmd {
	m.toast = &toastNotification{
		message:   message,
		isError:   isError,
		showUntil: time.Now().Add(toastDuration),
	}
	return tea.Tick(toastDuration, func(time.Time) tea.Msg { return clearToastMsg{} })
}

func (m *model) overlayWidth() int {
	if m.width <= 0 {
		return 64
	}
	return min(max(m.width*2/3, 48), 90)
}
