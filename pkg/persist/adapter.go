// Package persist writes the serialized ledger to the operator's chosen
// directory, degrading to a download when no live directory capability is
// available in the current session.
package persist

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/entrhq/apptcapture/pkg/csvcodec"
	"github.com/entrhq/apptcapture/pkg/logging"
	"github.com/entrhq/apptcapture/pkg/storage"
	"github.com/entrhq/apptcapture/pkg/types"
)

// ErrNoPicker is returned by SelectDirectory without a picker.
var ErrNoPicker = errors.New("persist: no directory picker")

// Prompt texts shown to the operator.
const (
	PromptChooseNow   = "No save directory selected. Would you like to choose one now?"
	PromptFirstRun    = "Would you like to select a directory to save contact files?"
	statusNoDirectory = "No directory selected"
)

// Prompter asks the operator a yes/no question and blocks for the answer.
type Prompter interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// Mode is the persistence path chosen for one save.
type Mode int

const (
	// ModeDirect writes into the live directory handle.
	ModeDirect Mode = iota
	// ModeDownload falls back to a download because the handle is gone.
	ModeDownload
	// ModePrompt asks the operator to choose a directory first.
	ModePrompt
)

func (m Mode) String() string {
	switch m {
	case ModeDirect:
		return "direct"
	case ModeDownload:
		return "download"
	case ModePrompt:
		return "prompt"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Outcome is what a Persist call did.
type Outcome int

const (
	// OutcomeWritten: the file was written into the live directory.
	OutcomeWritten Outcome = iota
	// OutcomeDownloaded: the file was handed to the downloader.
	OutcomeDownloaded
	// OutcomeSelectDirectory: the operator agreed to choose a directory; the
	// save is aborted and must be triggered again after selection.
	OutcomeSelectDirectory
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWritten:
		return "written"
	case OutcomeDownloaded:
		return "downloaded"
	case OutcomeSelectDirectory:
		return "select_directory"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Session holds the live directory handle of one panel session. It is owned
// by the orchestrator and passed into every call; the handle is never stored.
type Session struct {
	mu        sync.Mutex
	directory Directory
}

// NewSession returns a session with no directory handle.
func NewSession() *Session {
	return &Session{}
}

// Directory returns the live handle, or nil.
func (s *Session) Directory() Directory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.directory
}

func (s *Session) setDirectory(d Directory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.directory = d
}

// Adapter chooses between the three persistence modes.
type Adapter struct {
	store      storage.Store
	downloader Downloader
	prompter   Prompter
	logger     *logging.Logger
}

// NewAdapter wires an adapter.
func NewAdapter(store storage.Store, downloader Downloader, prompter Prompter, logger *logging.Logger) *Adapter {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Adapter{
		store:      store,
		downloader: downloader,
		prompter:   prompter,
		logger:     logger,
	}
}

// Reference returns the durable directory flags.
func (a *Adapter) Reference(ctx context.Context) (types.DirectoryReference, error) {
	has, err := storage.GetBool(ctx, a.store, storage.KeySelectedDirectory, false)
	if err != nil {
		return types.DirectoryReference{}, fmt.Errorf("persist: read directory flag: %w", err)
	}
	name, err := storage.GetString(ctx, a.store, storage.KeyDirectoryName, "")
	if err != nil {
		return types.DirectoryReference{}, fmt.Errorf("persist: read directory name: %w", err)
	}
	return types.DirectoryReference{HasDirectory: has, DirectoryName: name}, nil
}

// Status renders the directory line shown on the panel.
func Status(ref types.DirectoryReference) string {
	if ref.HasDirectory && ref.DirectoryName != "" {
		return "Saving to: " + ref.DirectoryName
	}
	return statusNoDirectory
}

// SelectMode returns the path a save would take: a live handle wins over the
// durable flag, and the flag wins over prompting.
func (a *Adapter) SelectMode(ctx context.Context, sess *Session) (Mode, error) {
	if sess != nil && sess.Directory() != nil {
		return ModeDirect, nil
	}
	ref, err := a.Reference(ctx)
	if err != nil {
		return ModePrompt, err
	}
	if ref.HasDirectory {
		return ModeDownload, nil
	}
	return ModePrompt, nil
}

// Persist writes data as name using the selected mode.
func (a *Adapter) Persist(ctx context.Context, sess *Session, name string, data []byte) (Outcome, error) {
	mode, err := a.SelectMode(ctx, sess)
	if err != nil {
		a.logger.Errorf("select mode: %v", err)
		return OutcomeWritten, err
	}
	a.logger.Debugf("persisting %s (%d bytes) via %s", name, len(data), mode)

	switch mode {
	case ModeDirect:
		dir := sess.Directory()
		if err := dir.WriteFile(ctx, name, data); err != nil {
			a.logger.Errorf("Error saving to directory %s: %v", dir.Name(), err)
			return OutcomeWritten, err
		}
		a.logger.Infof("wrote %s into %s", name, dir.Name())
		return OutcomeWritten, nil

	case ModeDownload:
		return a.download(ctx, name, data)

	default:
		if a.prompter == nil {
			return a.download(ctx, name, data)
		}
		choose, err := a.prompter.Confirm(ctx, PromptChooseNow)
		if err != nil {
			a.logger.Errorf("prompt: %v", err)
			return OutcomeWritten, err
		}
		if choose {
			a.logger.Infof("operator chose to select a directory; save aborted")
			return OutcomeSelectDirectory, nil
		}
		return a.download(ctx, name, data)
	}
}

func (a *Adapter) download(ctx context.Context, name string, data []byte) (Outcome, error) {
	path, err := a.downloader.Download(ctx, name, data, csvcodec.MimeType)
	if err != nil {
		a.logger.Errorf("download %s: %v", name, err)
		return OutcomeDownloaded, err
	}
	a.logger.Infof("downloaded %s to %s", name, path)
	return OutcomeDownloaded, nil
}

// SelectDirectory asks picker for a directory, keeps the handle in sess and
// durably records that a directory was chosen and its name.
func (a *Adapter) SelectDirectory(ctx context.Context, sess *Session, picker Picker) (types.DirectoryReference, error) {
	if picker == nil {
		return types.DirectoryReference{}, ErrNoPicker
	}
	dir, err := picker.PickDirectory(ctx)
	if err != nil {
		a.logger.Errorf("Directory selection error: %v", err)
		return types.DirectoryReference{}, err
	}
	sess.setDirectory(dir)

	if err := a.store.Set(ctx, storage.KeySelectedDirectory, true); err != nil {
		a.logger.Errorf("record directory flag: %v", err)
		return types.DirectoryReference{}, fmt.Errorf("persist: record directory: %w", err)
	}
	if err := a.store.Set(ctx, storage.KeyDirectoryName, dir.Name()); err != nil {
		a.logger.Errorf("record directory name: %v", err)
		return types.DirectoryReference{}, fmt.Errorf("persist: record directory: %w", err)
	}
	a.logger.Infof("saving to directory %s", dir.Name())
	return types.DirectoryReference{HasDirectory: true, DirectoryName: dir.Name()}, nil
}
