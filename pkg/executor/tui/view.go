package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/apptcapture/pkg/executor/tui/types"
	"github.com/entrhq/apptcapture/pkg/form"
	apptypes "github.com/entrhq/apptcapture/pkg/types"
)

const keyHints = "tab next · ctrl+s save · ctrl+d directory · esc close"

// View renders the panel.
func (m *model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	base := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		lipgloss.JoinHorizontal(lipgloss.Top, m.renderForm(), " ", m.renderPreview()),
		m.renderStatusBar(),
	)

	if m.overlay.isActive() {
		return renderOverlay(base, m.overlay.overlay, m.width, m.height)
	}
	return base
}

func (m *model) renderHeader() string {
	title := headerStyle.Render("Appointment Capture")
	if seed := m.session.Extracted(); seed.Strategy != "" {
		title += tipsStyle.Render("  read via " + seed.Strategy)
	}
	return title
}

func (m *model) renderForm() string {
	var b strings.Builder
	order := []types.Focus{
		types.FocusType, types.FocusName, types.FocusPhone, types.FocusEmail,
		types.FocusSource, types.FocusLocation, types.FocusInterest,
		types.FocusChecklist, types.FocusWeekday, types.FocusDate, types.FocusTime,
	}
	for i, f := range order {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderLabel(f))
		b.WriteString(m.renderControl(f))
	}
	return formBoxStyle.Render(b.String())
}

func (m *model) renderLabel(f types.Focus) string {
	if f == m.focus {
		return focusedLabelStyle.Render(fieldLabels[f])
	}
	return labelStyle.Render(fieldLabels[f])
}

func (m *model) renderControl(f types.Focus) string {
	switch f {
	case types.FocusType:
		all := apptypes.AllAppointmentTypes()
		return m.renderChoice(all[m.typeIndex].String(), f)
	case types.FocusWeekday:
		days := form.Weekdays()
		return m.renderChoice(days[m.weekdayIndex], f)
	case types.FocusChecklist:
		return m.renderChecklist()
	case types.FocusInterest:
		return m.interest.View()
	}
	if ti, ok := m.inputs[f]; ok {
		return ti.View()
	}
	return ""
}

func (m *model) renderChoice(value string, f types.Focus) string {
	if f == m.focus {
		return cursorOptionStyle.Render("‹ " + value + " ›")
	}
	return selectedOptionStyle.Render(value)
}

func (m *model) renderChecklist() string {
	items := form.Checklist()
	parts := make([]string, 0, len(items))
	for i, item := range items {
		box := "[ ]"
		if m.form.Checked(item) {
			box = "[x]"
		}
		text := box + " " + item
		switch {
		case m.focus == types.FocusChecklist && i == m.checkCursor:
			parts = append(parts, cursorOptionStyle.Render(text))
		case m.form.Checked(item):
			parts = append(parts, selectedOptionStyle.Render(text))
		default:
			parts = append(parts, optionStyle.Render(text))
		}
	}
	// two per row keeps the column narrow
	var rows []string
	for i := 0; i < len(parts); i += 2 {
		end := min(i+2, len(parts))
		rows = append(rows, strings.Join(parts[i:end], "  "))
	}
	pad := strings.Repeat(" ", lipgloss.Width(labelStyle.Render("")))
	return strings.Join(rows, "\n"+pad)
}

func (m *model) renderPreview() string {
	width := m.width - lipgloss.Width(m.renderForm()) - 3
	style := previewBoxStyle
	if width > 20 {
		style = style.Width(width)
	}
	return style.Render(m.preview)
}

func (m *model) renderStatusBar() string {
	parts := []string{
		m.status,
		fmt.Sprintf("%d saved", m.ledgerCount),
		tipsStyle.Render(keyHints),
	}
	if m.busy {
		parts = append(parts, tipsStyle.Render("working..."))
	}
	if m.toast != nil {
		style := successStyle
		if m.toast.isError {
			style = errorStyle
		}
		parts = append(parts, style.Render(m.toast.message))
	}
	return statusBarStyle.Render(strings.Join(parts, " · "))
}
