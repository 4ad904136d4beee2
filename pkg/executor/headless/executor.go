package headless

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/entrhq/apptcapture/pkg/capture"
	"github.com/entrhq/apptcapture/pkg/extract"
	"github.com/entrhq/apptcapture/pkg/form"
	"github.com/entrhq/apptcapture/pkg/logging"
	"github.com/entrhq/apptcapture/pkg/persist"
	"github.com/entrhq/apptcapture/pkg/types"
)

const (
	statusSuccess        = "success"
	statusFailed         = "failed"
	statusPartialSuccess = "partial_success"
)

// Executor runs one capture without a panel
type Executor struct {
	deps           capture.Deps
	page           extract.Page
	config         *Config
	prompter       persist.Prompter
	picker         persist.Picker
	artifactWriter *ArtifactWriter
	logger         *logging.Logger

	summary *ExecutionSummary
	report  capture.Report
}

// Option configures an Executor.
type Option func(*Executor)

// WithPrompter answers questions when the confirm policy is "ask".
func WithPrompter(p persist.Prompter) Option {
	return func(e *Executor) { e.prompter = p }
}

// WithPicker is run when a save asks for a directory.
func WithPicker(p persist.Picker) Option {
	return func(e *Executor) { e.picker = p }
}

// WithLogger sets the executor's logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// NewExecutor creates a new headless executor
func NewExecutor(deps capture.Deps, page extract.Page, config *Config, opts ...Option) (*Executor, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	e := &Executor{
		deps:   deps,
		page:   page,
		config: config,
		logger: logging.Discard(),
		summary: &ExecutionSummary{
			Status: "running",
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("headless")

	switch config.Confirm {
	case ConfirmYes:
		e.prompter = fixedAnswer(true)
	case ConfirmNo:
		e.prompter = fixedAnswer(false)
	case ConfirmAsk:
		if e.prompter == nil {
			return nil, fmt.Errorf("confirm policy 'ask' requires a prompter")
		}
	}
	e.deps.Prompter = e.prompter
	if e.deps.Logger == nil {
		e.deps.Logger = e.logger
	}

	if config.Artifacts.Enabled {
		e.artifactWriter = NewArtifactWriter(config.Artifacts.OutputDir, config.Artifacts)
	}
	return e, nil
}

// Run executes the capture: open, apply values, save.
func (e *Executor) Run(ctx context.Context) error {
	start := time.Now()
	e.summary.StartTime = start
	defer e.finish(start)

	sess, err := capture.Open(ctx, e.page, e.deps)
	if err != nil {
		return e.fail(fmt.Errorf("failed to open capture: %w", err))
	}
	defer sess.Close()
	e.summary.Strategy = sess.Extracted().Strategy

	if err := applyValues(sess.Form(), e.config.Values); err != nil {
		return e.fail(fmt.Errorf("failed to apply values: %w", err))
	}

	if e.config.Directory != "" {
		if _, err := sess.ChooseDirectory(ctx, pathPicker(e.config.Directory)); err != nil {
			return e.fail(fmt.Errorf("failed to select directory: %w", err))
		}
	}

	e.logger.Infof("saving %s", sess.Form().Snapshot().Type)
	report, err := sess.Save(ctx)
	e.recordReport(report, sess.Form().Preview())
	if err != nil {
		return e.fail(err)
	}

	if report.NeedsDirectory {
		return e.handleNeedsDirectory(ctx, sess)
	}

	e.summary.Status = statusSuccess
	return nil
}

// Report returns the save report of the last Run.
func (e *Executor) Report() capture.Report {
	return e.report
}

// Summary returns what the last Run did.
func (e *Executor) Summary() *ExecutionSummary {
	return e.summary
}

// handleNeedsDirectory runs the picker after the operator agreed to choose a
// directory. The submission is already in the ledger; the next save writes it.
func (e *Executor) handleNeedsDirectory(ctx context.Context, sess *capture.Session) error {
	e.summary.Status = statusPartialSuccess
	if e.picker == nil {
		e.logger.Warnf("directory requested but no picker configured")
		return nil
	}
	ref, err := sess.ChooseDirectory(ctx, e.picker)
	if err != nil {
		if errors.Is(err, persist.ErrCancelled) {
			return nil
		}
		return e.fail(fmt.Errorf("failed to select directory: %w", err))
	}
	e.summary.Directory = ref.DirectoryName
	return nil
}

func (e *Executor) recordReport(r capture.Report, preview string) {
	e.report = r
	e.summary.Message = r.Message
	e.summary.Appended = r.Appended
	e.summary.FileName = r.FileName
	e.summary.LedgerLen = r.LedgerLen
	e.summary.Preview = preview
	e.summary.Outcome = outcomeName(r)
}

func (e *Executor) fail(err error) error {
	e.summary.Status = statusFailed
	e.summary.Error = err.Error()
	e.logger.Errorf("%v", err)
	return err
}

func (e *Executor) finish(start time.Time) {
	e.summary.EndTime = time.Now()
	e.summary.Duration = e.summary.EndTime.Sub(start)

	if e.artifactWriter == nil {
		return
	}
	if err := e.artifactWriter.WriteAll(e.summary); err != nil {
		e.logger.Warnf("write artifacts: %v", err)
	}
}

func applyValues(c *form.Controller, v Values) error {
	if v.Type != "" {
		t, _ := types.ParseAppointmentType(v.Type)
		if err := c.SetType(t); err != nil {
			return err
		}
	}
	fields := []struct {
		field form.Field
		value string
	}{
		{form.FieldName, v.Name},
		{form.FieldPhone, v.Phone},
		{form.FieldEmail, v.Email},
		{form.FieldSource, v.Source},
		{form.FieldLocation, v.Location},
		{form.FieldInterest, v.Interest},
		{form.FieldWeekday, v.Weekday},
		{form.FieldDate, v.Date},
		{form.FieldTime, v.Time},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := c.Set(f.field, f.value); err != nil {
			return err
		}
	}
	for _, h := range v.Has {
		if err := c.SetAttribute(h, true); err != nil {
			return err
		}
	}
	return nil
}

func outcomeName(r capture.Report) string {
	// the outcome is only meaningful once persisting was attempted
	if !r.Appended || (!r.Success && !r.NeedsDirectory) {
		return ""
	}
	return r.Outcome.String()
}

// fixedAnswer answers every question the same way.
type fixedAnswer bool

func (f fixedAnswer) Confirm(context.Context, string) (bool, error) { return bool(f), nil }

// pathPicker opens a configured path.
type pathPicker string

func (p pathPicker) PickDirectory(context.Context) (persist.Directory, error) {
	dir, err := persist.OpenDirectory(filepath.Clean(string(p)))
	if err != nil {
		return nil, err
	}
	return dir, nil
}
