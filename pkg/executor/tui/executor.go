// Package tui provides the terminal capture panel: a Bubble Tea program that
// edits one appointment, keeps the shareable preview live, and runs the save
// pipeline.
//
// The codebase is split into multiple files:
// - executor.go: Executor and program lifecycle
// - model.go: Core model structure and state
// - update.go: Bubble Tea Update function and key handling
// - view.go: Bubble Tea View function and rendering
// - bridge.go: Blocking confirm/picker calls answered by overlays
// - overlay.go: Overlay stack
// - styles.go: Color schemes and styling
package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/entrhq/apptcapture/pkg/capture"
	"github.com/entrhq/apptcapture/pkg/extract"
	"github.com/entrhq/apptcapture/pkg/logging"
)

// Executor opens a capture panel over a page and runs it until the operator
// closes it.
type Executor struct {
	deps        capture.Deps
	page        extract.Page
	promptDelay time.Duration
	logger      *logging.Logger
	program     *tea.Program
}

// NewExecutor creates an executor. deps.Prompter is replaced by the panel's
// own overlays. promptDelay is how long the panel waits before asking for a
// save directory on first run.
func NewExecutor(deps capture.Deps, page extract.Page, promptDelay time.Duration, logger *logging.Logger) *Executor {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Executor{
		deps:        deps,
		page:        page,
		promptDelay: promptDelay,
		logger:      logger.With("tui"),
	}
}

// Run starts the panel and blocks until the user exits.
func (e *Executor) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	// unblocks any save still waiting on an overlay
	defer cancel()

	b := &bridge{}
	deps := e.deps
	deps.Prompter = b
	if deps.Logger == nil {
		deps.Logger = e.logger
	}

	sess, err := capture.Open(ctx, e.page, deps)
	if err != nil {
		return fmt.Errorf("failed to open capture panel: %w", err)
	}

	m := newModel(ctx, sess, b, e.promptDelay, e.logger)
	e.program = tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	b.attach(e.program.Send)
	e.logger.Infof("panel opened")

	_, err = e.program.Run()
	m.close()
	e.logger.Infof("panel closed")
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run TUI program: %w", err)
	}
	return nil
}
