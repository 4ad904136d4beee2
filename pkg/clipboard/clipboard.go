// Package clipboard places the rendered preview on the operator's clipboard.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when the platform offers no clipboard.
var ErrUnavailable = errors.New("clipboard: not available on this system")

// Clipboard writes text to a shared clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// System is the operating system clipboard.
type System struct{}

// WriteText implements Clipboard.
func (System) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if unsupported() {
		return ErrUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: write: %w", err)
	}
	return nil
}

// Memory keeps the last written text. Used by tests.
type Memory struct {
	mu     sync.Mutex
	text   string
	writes int
	Err    error
}

// WriteText implements Clipboard.
func (m *Memory) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.text = text
	m.writes++
	return nil
}

// Text returns the last written text.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Writes returns how many successful writes happened.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Available reports whether the host has a clipboard utility.
func Available() bool {
	return !unsupported()
}

var unsupported = func() bool { return clipboard.Unsupported }
