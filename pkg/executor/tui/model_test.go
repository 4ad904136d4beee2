package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/entrhq/apptcapture/pkg/capture"
	"github.com/entrhq/apptcapture/pkg/clipboard"
	"github.com/entrhq/apptcapture/pkg/executor/tui/overlay"
	"github.com/entrhq/apptcapture/pkg/executor/tui/types"
	"github.com/entrhq/apptcapture/pkg/extract"
	"github.com/entrhq/apptcapture/pkg/persist"
	"github.com/entrhq/apptcapture/pkg/storage"
	apptypes "github.com/entrhq/apptcapture/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopDownloader struct{ names []string }

func (d *nopDownloader) Download(_ context.Context, name string, _ []byte, _ string) (string, error) {
	d.names = append(d.names, name)
	return name, nil
}

type yesPrompter struct{}

func (yesPrompter) Confirm(context.Context, string) (bool, error) { return true, nil }

func newTestModel(t *testing.T, prompter persist.Prompter, picker persist.Picker) (*model, *nopDownloader, *clipboard.Memory) {
	t.Helper()
	store, err := storage.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	down := &nopDownloader{}
	clip := &clipboard.Memory{}
	sess, err := capture.Open(context.Background(), extract.MapPage{}, capture.Deps{
		Store:      store,
		Clipboard:  clip,
		Downloader: down,
		Prompter:   prompter,
		Now: func() time.Time {
			return time.Date(2026, 6, 1, 14, 0, 0, 0, time.UTC)
		},
	})
	require.NoError(t, err)

	m := newModel(context.Background(), sess, picker, time.Millisecond, nil)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	t.Cleanup(m.close)
	return m, down, clip
}

func typeText(m *model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func TestModel_TypingUpdatesPreview(t *testing.T) {
	m, _, _ := newTestModel(t, nil, nil)
	assert.Equal(t, types.FocusType, m.focus)

	m.Update(key(tea.KeyTab))
	require.Equal(t, types.FocusName, m.focus)
	typeText(m, "Jane")

	assert.Equal(t, "Jane", m.form.Snapshot().Name)
	assert.Contains(t, m.preview, "\nJane\n")
}

func TestModel_TypeSelectorCycles(t *testing.T) {
	m, _, _ := newTestModel(t, nil, nil)

	m.Update(key(tea.KeyRight))
	assert.Equal(t, apptypes.TypeRescheduled, m.form.Snapshot().Type)
	assert.True(t, strings.HasPrefix(m.preview, "*RESCHEDULED*"))

	m.Update(key(tea.KeyLeft))
	m.Update(key(tea.KeyLeft))
	assert.Equal(t, apptypes.TypeLeadRequest, m.form.Snapshot().Type)
}

func TestModel_ChecklistAndWeekday(t *testing.T) {
	m, _, _ := newTestModel(t, nil, nil)
	for m.focus != types.FocusChecklist {
		m.Update(key(tea.KeyTab))
	}

	m.Update(key(tea.KeySpace))
	m.Update(key(tea.KeyRight))
	m.Update(key(tea.KeyRight))
	m.Update(key(tea.KeySpace))
	assert.Equal(t, []string{"Passport", "SSN"}, m.form.Snapshot().Attributes)
	assert.Contains(t, m.preview, "Has: Passport, SSN")

	m.Update(key(tea.KeyTab))
	require.Equal(t, types.FocusWeekday, m.focus)
	m.Update(key(tea.KeyRight))
	assert.Equal(t, "Monday", m.form.Snapshot().Weekday)
}

func TestModel_ShiftTabWraps(t *testing.T) {
	m, _, _ := newTestModel(t, nil, nil)
	m.Update(key(tea.KeyShiftTab))
	assert.Equal(t, types.FocusTime, m.focus)
}

func TestModel_SaveShowsAlert(t *testing.T) {
	m, down, clip := newTestModel(t, nil, nil)
	m.Update(key(tea.KeyTab))
	typeText(m, "Jane")

	_, cmd := m.Update(key(tea.KeyCtrlS))
	require.NotNil(t, cmd)
	assert.True(t, m.busy)

	// a second save while busy only toasts
	_, _ = m.Update(key(tea.KeyCtrlS))
	require.NotNil(t, m.toast)

	msg := cmd()
	done, ok := msg.(types.SaveDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)

	m.Update(done)
	assert.False(t, m.busy)
	assert.Equal(t, 1, m.ledgerCount)
	assert.Len(t, down.names, 1)
	assert.Contains(t, clip.Text(), "Jane")

	require.True(t, m.overlay.isActive())
	alert, ok := m.overlay.overlay.(*overlay.AlertOverlay)
	require.True(t, ok)
	assert.Equal(t, capture.MessageSaved, alert.Message())

	m.Update(key(tea.KeyEnter))
	assert.False(t, m.overlay.isActive())
}

func TestModel_SaveNeedingDirectoryOpensPicker(t *testing.T) {
	dir := t.TempDir()
	picker := persist.PickerFunc(func(context.Context) (persist.Directory, error) {
		d, err := persist.OpenDirectory(dir)
		if err != nil {
			return nil, err
		}
		return d, nil
	})
	m, down, _ := newTestModel(t, yesPrompter{}, picker)

	_, cmd := m.Update(key(tea.KeyCtrlS))
	done := cmd().(types.SaveDoneMsg)
	require.True(t, done.Report.NeedsDirectory)

	_, cmd = m.Update(done)
	require.NotNil(t, cmd)
	assert.True(t, m.busy)
	assert.Empty(t, down.names)

	dirDone := cmd().(types.DirectoryDoneMsg)
	require.NoError(t, dirDone.Err)
	assert.Equal(t, filepath.Base(dir), dirDone.Name)

	m.Update(dirDone)
	assert.False(t, m.busy)
	require.NotNil(t, m.toast)
	assert.Equal(t, "Saving to: "+filepath.Base(dir), m.toast.message)
	assert.Equal(t, "Saving to: "+filepath.Base(dir), m.status)
}

func TestModel_DirectoryDone(t *testing.T) {
	tests := []struct {
		name      string
		msg       types.DirectoryDoneMsg
		wantToast string
		wantError bool
	}{
		{name: "cancelled is silent", msg: types.DirectoryDoneMsg{Err: persist.ErrCancelled}},
		{name: "error toasts", msg: types.DirectoryDoneMsg{Err: assert.AnError}, wantToast: "Directory selection error: " + assert.AnError.Error(), wantError: true},
		{name: "chosen toasts", msg: types.DirectoryDoneMsg{Name: "Leads"}, wantToast: "Saving to: Leads"},
		{name: "declined is silent", msg: types.DirectoryDoneMsg{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := newTestModel(t, nil, nil)
			m.busy = true
			m.Update(tt.msg)
			assert.False(t, m.busy)
			if tt.wantToast == "" {
				assert.Nil(t, m.toast)
				return
			}
			require.NotNil(t, m.toast)
			assert.Equal(t, tt.wantToast, m.toast.message)
			assert.Equal(t, tt.wantError, m.toast.isError)
		})
	}
}

func TestModel_FirstRunSkippedWhileBusy(t *testing.T) {
	m, _, _ := newTestModel(t, nil, nil)

	m.busy = true
	_, cmd := m.Update(types.FirstRunMsg{})
	assert.Nil(t, cmd)

	m.busy = false
	_, cmd = m.Update(types.FirstRunMsg{})
	require.NotNil(t, cmd)
	// no prompter: nothing is asked
	assert.Equal(t, types.DirectoryDoneMsg{}, cmd())
}

func TestModel_ConfirmRequestRoutesKeys(t *testing.T) {
	m, _, _ := newTestModel(t, nil, nil)
	reply := make(chan bool, 1)

	m.Update(types.ConfirmRequestMsg{Message: persist.PromptFirstRun, Reply: reply})
	require.True(t, m.overlay.isActive())

	// keys go to the overlay, not the form
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	assert.False(t, m.overlay.isActive())
	assert.False(t, <-reply)
	assert.Equal(t, apptypes.TypeNewAppointment, m.form.Snapshot().Type)
}

func TestModel_EscQuits(t *testing.T) {
	m, _, _ := newTestModel(t, nil, nil)
	_, cmd := m.Update(key(tea.KeyEsc))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, 0, m.form.Subscribers())
}

func TestModel_View(t *testing.T) {
	m, _, _ := newTestModel(t, nil, nil)
	view := m.View()
	assert.Contains(t, view, "Appointment Capture")
	assert.Contains(t, view, "No directory selected")
	assert.Contains(t, view, "0 saved")
	assert.Contains(t, view, "*NEW APPOINTMENT*")
}
