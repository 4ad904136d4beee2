// Package capture ties one panel to its form, the ledger and the persistence
// adapter, and runs the save pipeline.
package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/entrhq/apptcapture/pkg/clipboard"
	"github.com/entrhq/apptcapture/pkg/csvcodec"
	"github.com/entrhq/apptcapture/pkg/extract"
	"github.com/entrhq/apptcapture/pkg/form"
	"github.com/entrhq/apptcapture/pkg/ledger"
	"github.com/entrhq/apptcapture/pkg/logging"
	"github.com/entrhq/apptcapture/pkg/persist"
	"github.com/entrhq/apptcapture/pkg/storage"
	"github.com/entrhq/apptcapture/pkg/types"
)

// Operator-facing messages.
const (
	MessageSaved     = "Data copied to clipboard and saved successfully!"
	messageFailedFmt = "Operation failed: %s"
	messageChooseDir = "Choose a directory, then save again."
)

// Deps are the collaborators of a Session.
type Deps struct {
	Store      storage.Store
	Clipboard  clipboard.Clipboard
	Downloader persist.Downloader
	Prompter   persist.Prompter

	// Extractor defaults to extract.NewExtractor().
	Extractor *extract.Extractor
	Logger    *logging.Logger
	// Now defaults to time.Now.
	Now func() time.Time

	// RequireFields enables Submission.Validate before the ledger append.
	RequireFields bool
}

// Report describes the result of one Save.
type Report struct {
	// Success is true when every step completed.
	Success bool
	// Message is the text of the blocking notification.
	Message string
	// Appended is true once the submission is in the ledger, even if a later
	// step failed.
	Appended bool
	// NeedsDirectory is set when the operator asked to choose a directory
	// instead of downloading; the panel should open the picker.
	NeedsDirectory bool

	Outcome   persist.Outcome
	FileName  string
	LedgerLen int
}

// Session is one open panel.
type Session struct {
	form     *form.Controller
	seed     extract.Result
	dirs     *persist.Session
	ledger   *ledger.Ledger
	adapter  *persist.Adapter
	clip     clipboard.Clipboard
	prompter persist.Prompter
	logger   *logging.Logger
	now      func() time.Time
	validate bool
}

// Open extracts values from page and seeds a new panel with them. A nil page
// opens an empty panel.
func Open(ctx context.Context, page extract.Page, deps Deps) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("capture: no store")
	}
	if deps.Clipboard == nil {
		return nil, fmt.Errorf("capture: no clipboard")
	}
	if deps.Downloader == nil {
		return nil, fmt.Errorf("capture: no downloader")
	}
	if deps.Extractor == nil {
		deps.Extractor = extract.NewExtractor()
	}
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if page == nil {
		page = extract.MapPage{}
	}
	logger := deps.Logger.With("capture")

	seed := deps.Extractor.Extract(page)
	if seed.Strategy == "" {
		logger.Infof("no extraction strategy matched; opening empty panel")
	} else {
		logger.Infof("extracted contact via %s", seed.Strategy)
	}

	date, clock := form.DefaultSchedule(deps.Now())
	ctrl, err := form.New(form.Initial{
		Name:     seed.Contact.Name,
		Phone:    seed.Contact.Phone,
		Email:    seed.Contact.Email,
		Source:   seed.Source,
		Location: seed.Location,
		Interest: seed.Interest,
		Date:     date,
		Time:     clock,
	})
	if err != nil {
		return nil, fmt.Errorf("capture: seed form: %w", err)
	}

	return &Session{
		form:     ctrl,
		seed:     seed,
		dirs:     persist.NewSession(),
		ledger:   ledger.New(deps.Store),
		adapter:  persist.NewAdapter(deps.Store, deps.Downloader, deps.Prompter, logger.With("persist")),
		clip:     deps.Clipboard,
		prompter: deps.Prompter,
		logger:   logger,
		now:      deps.Now,
		validate: deps.RequireFields,
	}, nil
}

// Form returns the panel's form controller.
func (s *Session) Form() *form.Controller { return s.form }

// Extracted returns what Open read off the page.
func (s *Session) Extracted() extract.Result { return s.seed }

// Directory returns the live directory handle, or nil.
func (s *Session) Directory() persist.Directory { return s.dirs.Directory() }

// NeedsDirectoryPrompt reports whether no directory was ever chosen and this
// panel holds no live handle.
func (s *Session) NeedsDirectoryPrompt(ctx context.Context) (bool, error) {
	if s.dirs.Directory() != nil {
		return false, nil
	}
	ref, err := s.adapter.Reference(ctx)
	if err != nil {
		return false, err
	}
	return !ref.HasDirectory, nil
}

// OfferDirectory asks the first-run question and runs picker when the
// operator agrees. It returns true when a directory was chosen.
func (s *Session) OfferDirectory(ctx context.Context, picker persist.Picker) (bool, error) {
	need, err := s.NeedsDirectoryPrompt(ctx)
	if err != nil || !need || s.prompter == nil {
		return false, err
	}
	yes, err := s.prompter.Confirm(ctx, persist.PromptFirstRun)
	if err != nil || !yes {
		return false, err
	}
	if _, err := s.ChooseDirectory(ctx, picker); err != nil {
		return false, err
	}
	return true, nil
}

// ChooseDirectory runs picker and records the choice.
func (s *Session) ChooseDirectory(ctx context.Context, picker persist.Picker) (types.DirectoryReference, error) {
	return s.adapter.SelectDirectory(ctx, s.dirs, picker)
}

// Status returns the directory status line.
func (s *Session) Status(ctx context.Context) string {
	ref, err := s.adapter.Reference(ctx)
	if err != nil {
		s.logger.Warnf("read directory reference: %v", err)
	}
	return persist.Status(ref)
}

// LedgerLen returns how many submissions have been captured.
func (s *Session) LedgerLen(ctx context.Context) (int, error) {
	return s.ledger.Len(ctx)
}

// Save runs the pipeline: build the submission, append it, serialize the
// whole ledger, copy the preview to the clipboard, persist the CSV.
//
// A failure after the append leaves the submission in the ledger.
func (s *Session) Save(ctx context.Context) (Report, error) {
	now := s.now()
	snap := s.form.Snapshot()
	preview := form.Render(snap)
	sub := snap.Submission(types.FormatTimestamp(now))
	report := Report{FileName: csvcodec.FileName(now)}

	fail := func(err error) (Report, error) {
		s.logger.Errorf("save failed: %v", err)
		report.Message = fmt.Sprintf(messageFailedFmt, err.Error())
		return report, err
	}

	if s.validate {
		if err := sub.Validate(); err != nil {
			return fail(err)
		}
	}

	if err := s.ledger.Append(ctx, sub); err != nil {
		return fail(err)
	}
	report.Appended = true

	all, err := s.ledger.All(ctx)
	if err != nil {
		return fail(err)
	}
	report.LedgerLen = len(all)
	data := csvcodec.Serialize(all, s.now)

	if err := s.clip.WriteText(ctx, preview); err != nil {
		return fail(err)
	}

	outcome, err := s.adapter.Persist(ctx, s.dirs, report.FileName, []byte(data))
	report.Outcome = outcome
	if err != nil {
		return fail(err)
	}
	if outcome == persist.OutcomeSelectDirectory {
		report.NeedsDirectory = true
		report.Message = messageChooseDir
		return report, nil
	}

	s.logger.Infof("saved %s submission #%d for %q", sub.Type, report.LedgerLen, sub.Name)
	report.Success = true
	report.Message = MessageSaved
	return report, nil
}

// Close tears down the panel's subscriptions.
func (s *Session) Close() {
	s.form.Close()
}

// ExportCSV serializes the whole ledger held in store.
func ExportCSV(ctx context.Context, store storage.Store, now func() time.Time) (string, error) {
	if now == nil {
		now = time.Now
	}
	all, err := ledger.New(store).All(ctx)
	if err != nil {
		return "", err
	}
	return csvcodec.Serialize(all, now), nil
}
