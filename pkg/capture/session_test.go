package capture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/entrhq/apptcapture/pkg/clipboard"
	"github.com/entrhq/apptcapture/pkg/extract"
	"github.com/entrhq/apptcapture/pkg/form"
	"github.com/entrhq/apptcapture/pkg/persist"
	"github.com/entrhq/apptcapture/pkg/storage"
	"github.com/entrhq/apptcapture/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time {
	return time.Date(2026, 6, 1, 14, 0, 0, 0, time.UTC)
}

type recordingDownloader struct {
	names []string
	data  []string
}

func (d *recordingDownloader) Download(_ context.Context, name string, data []byte, _ string) (string, error) {
	d.names = append(d.names, name)
	d.data = append(d.data, string(data))
	return "/downloads/" + name, nil
}

type scriptedPrompter struct {
	answers  []bool
	messages []string
}

func (p *scriptedPrompter) Confirm(_ context.Context, message string) (bool, error) {
	p.messages = append(p.messages, message)
	if len(p.answers) == 0 {
		return false, nil
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

type harness struct {
	store    storage.Store
	clip     *clipboard.Memory
	down     *recordingDownloader
	prompter *scriptedPrompter
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store, err := storage.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return &harness{
		store:    store,
		clip:     &clipboard.Memory{},
		down:     &recordingDownloader{},
		prompter: &scriptedPrompter{},
	}
}

func (h *harness) open(t *testing.T, page extract.Page) *Session {
	t.Helper()
	s, err := Open(context.Background(), page, Deps{
		Store:      h.store,
		Clipboard:  h.clip,
		Downloader: h.down,
		Prompter:   h.prompter,
		Now:        fixedNow,
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func conversationPage() extract.MapPage {
	return extract.MapPage{
		Texts: map[string][]string{
			extract.SelectorConversationName: {"Jane Doe"},
			extract.SelectorTruncatedText:    {"jane@x.com", "555-1212"},
		},
		Inputs: map[string]string{
			extract.InputFirstName: "Stale",
			extract.InputLastName:  "Record",
			extract.InputCity:      "Austin",
			extract.InputState:     "TX",
		},
	}
}

func staticPicker(dir persist.Directory) persist.Picker {
	return persist.PickerFunc(func(context.Context) (persist.Directory, error) {
		return dir, nil
	})
}

func TestOpenSeedsFormFromPage(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, conversationPage())

	snap := s.Form().Snapshot()
	assert.Equal(t, "Jane Doe", snap.Name)
	assert.Equal(t, "jane@x.com", snap.Email)
	assert.Equal(t, "555-1212", snap.Phone)
	assert.Equal(t, "Austin, TX", snap.Location)
	assert.Equal(t, extract.DefaultInterest, snap.Interest)
	assert.Equal(t, types.TypeNewAppointment, snap.Type)
	assert.Equal(t, form.WeekdayToday, snap.Weekday)
	assert.Equal(t, "06/01", snap.Date)
	assert.Equal(t, "2:00 PM", snap.Time)
	assert.Equal(t, "conversation-view", s.Extracted().Strategy)
}

func TestOpenWithoutPage(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, nil)
	assert.Empty(t, s.Form().Snapshot().Name)
	assert.Equal(t, extract.DefaultInterest, s.Form().Snapshot().Interest)
}

func TestOpenRequiresDeps(t *testing.T) {
	_, err := Open(context.Background(), nil, Deps{})
	assert.Error(t, err)
}

func TestSaveScenarioCopiesPreview(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, extract.MapPage{Texts: map[string][]string{
		extract.SelectorConversationName: {"Jane Doe"},
		extract.SelectorTruncatedText:    {"jane@x.com", "555-1212"},
	}})
	dir, err := persist.OpenDirectory(t.TempDir())
	require.NoError(t, err)
	_, err = s.ChooseDirectory(context.Background(), staticPicker(dir))
	require.NoError(t, err)

	f := s.Form()
	require.NoError(t, f.SetType(types.TypeRescheduled))
	require.NoError(t, f.Set(form.FieldInterest, ""))
	require.NoError(t, f.SetAttribute("License", true))
	require.NoError(t, f.SetAttribute("Paystubs", true))

	report, err := s.Save(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Success)
	assert.Equal(t, MessageSaved, report.Message)
	assert.Equal(t, persist.OutcomeWritten, report.Outcome)

	want := "*RESCHEDULED*\n\nJane Doe\n555-1212\njane@x.com\nHas: License, Paystubs\n*Booked for today 06/01 at 2:00 PM*📌"
	assert.Equal(t, want, h.clip.Text())

	written, err := os.ReadFile(filepath.Join(dir.Path(), "HighLevel_Contacts_2026-06-01.csv"))
	require.NoError(t, err)
	exported, err := ExportCSV(context.Background(), h.store, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, exported, string(written))
	assert.Contains(t, exported, `"2026-06-01T14:00:00.000Z","RESCHEDULED","Jane Doe","555-1212","06/01","today","2:00 PM","","jane@x.com","",""`)
}

func TestLedgerIsAppendOnlyAcrossModes(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.prompter.answers = []bool{false}

	// no directory yet, operator declines: download
	first := h.open(t, conversationPage())
	report, err := first.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, persist.OutcomeDownloaded, report.Outcome)
	assert.Equal(t, 1, report.LedgerLen)

	// directory chosen: direct write, twice for the same record
	dir, err := persist.OpenDirectory(t.TempDir())
	require.NoError(t, err)
	_, err = first.ChooseDirectory(ctx, staticPicker(dir))
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		report, err = first.Save(ctx)
		require.NoError(t, err)
		assert.Equal(t, persist.OutcomeWritten, report.Outcome)
	}

	// new panel: flag survives, handle does not
	second := h.open(t, nil)
	assert.Nil(t, second.Directory())
	report, err = second.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, persist.OutcomeDownloaded, report.Outcome)

	n, err := second.LedgerLen(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 4, report.LedgerLen)
	assert.Len(t, h.down.names, 2)
	assert.Equal(t, []string{persist.PromptChooseNow}, h.prompter.messages)
}

func TestSaveAbortsWhenOperatorWantsDirectory(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.prompter.answers = []bool{true}
	s := h.open(t, conversationPage())

	report, err := s.Save(ctx)
	require.NoError(t, err)
	assert.False(t, report.Success)
	assert.True(t, report.NeedsDirectory)
	assert.True(t, report.Appended)
	assert.Empty(t, h.down.names)

	n, err := s.LedgerLen(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestClipboardFailureKeepsAppend(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.clip.Err = errors.New("clipboard busy")
	s := h.open(t, conversationPage())

	report, err := s.Save(ctx)
	require.Error(t, err)
	assert.Equal(t, "Operation failed: clipboard busy", report.Message)
	assert.True(t, report.Appended)
	assert.Empty(t, h.down.names, "persistence is skipped after a clipboard failure")

	n, err := s.LedgerLen(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMissingClipboardIsNotReportedAsCopied(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.clip.Err = clipboard.ErrUnavailable
	s := h.open(t, conversationPage())

	report, err := s.Save(ctx)
	require.ErrorIs(t, err, clipboard.ErrUnavailable)
	assert.False(t, report.Success)
	assert.NotEqual(t, MessageSaved, report.Message)
	assert.Equal(t, "Operation failed: "+clipboard.ErrUnavailable.Error(), report.Message)
	assert.Empty(t, h.down.names)
}

func TestDirectoryWriteFailureReported(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	s := h.open(t, conversationPage())

	root := t.TempDir()
	dir, err := persist.OpenDirectory(root)
	require.NoError(t, err)
	_, err = s.ChooseDirectory(ctx, staticPicker(dir))
	require.NoError(t, err)
	require.NoError(t, os.Remove(root))

	report, err := s.Save(ctx)
	require.Error(t, err)
	assert.Contains(t, report.Message, "Operation failed: ")
	assert.True(t, report.Appended)
	assert.Equal(t, 1, h.clip.Writes(), "clipboard is written before persistence")
}

func TestRequiredFieldValidationIsOptIn(t *testing.T) {
	ctx := context.Background()

	t.Run("off by default", func(t *testing.T) {
		h := newHarness(t)
		h.prompter.answers = []bool{false}
		s := h.open(t, nil)
		report, err := s.Save(ctx)
		require.NoError(t, err)
		assert.True(t, report.Success)
	})

	t.Run("enabled", func(t *testing.T) {
		h := newHarness(t)
		s, err := Open(ctx, nil, Deps{
			Store:         h.store,
			Clipboard:     h.clip,
			Downloader:    h.down,
			Prompter:      h.prompter,
			Now:           fixedNow,
			RequireFields: true,
		})
		require.NoError(t, err)
		defer s.Close()

		report, err := s.Save(ctx)
		assert.ErrorIs(t, err, types.ErrMissingField)
		assert.False(t, report.Appended)
		assert.Equal(t, "Operation failed: types: required field missing: name, phone", report.Message)

		n, err := s.LedgerLen(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})
}

func TestOfferDirectory(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	s := h.open(t, nil)

	need, err := s.NeedsDirectoryPrompt(ctx)
	require.NoError(t, err)
	assert.True(t, need)
	assert.Equal(t, "No directory selected", s.Status(ctx))

	h.prompter.answers = []bool{true}
	dir, err := persist.OpenDirectory(t.TempDir())
	require.NoError(t, err)
	chosen, err := s.OfferDirectory(ctx, staticPicker(dir))
	require.NoError(t, err)
	assert.True(t, chosen)
	assert.Equal(t, []string{persist.PromptFirstRun}, h.prompter.messages)
	assert.Equal(t, "Saving to: "+dir.Name(), s.Status(ctx))

	need, err = s.NeedsDirectoryPrompt(ctx)
	require.NoError(t, err)
	assert.False(t, need)

	chosen, err = s.OfferDirectory(ctx, staticPicker(dir))
	require.NoError(t, err)
	assert.False(t, chosen)
	assert.Len(t, h.prompter.messages, 1, "no second prompt once a directory is known")
}
