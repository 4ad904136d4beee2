package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/entrhq/apptcapture/pkg/executor/tui/types"
	"github.com/entrhq/apptcapture/pkg/persist"
)

// bridge lets the save pipeline, which runs off the Bubble Tea loop, block on
// an overlay answer. It implements persist.Prompter and persist.Picker.
type bridge struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

var (
	_ persist.Prompter = (*bridge)(nil)
	_ persist.Picker   = (*bridge)(nil)
)

func (b *bridge) attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
}

func (b *bridge) post(msg tea.Msg) bool {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()
	if send == nil {
		return false
	}
	send(msg)
	return true
}

// Confirm shows a yes/no overlay and waits for the operator.
func (b *bridge) Confirm(ctx context.Context, message string) (bool, error) {
	reply := make(chan bool, 1)
	if !b.post(types.ConfirmRequestMsg{Message: message, Reply: reply}) {
		return false, nil
	}

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case v := <-reply:
		return v, nil
	}
}

// PickDirectory shows the directory overlay and waits for a valid folder.
func (b *bridge) PickDirectory(ctx context.Context) (persist.Directory, error) {
	reply := make(chan types.DirectoryReply, 1)
	if !b.post(types.DirectoryRequestMsg{Reply: reply}) {
		return nil, persist.ErrCancelled
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-reply:
		return r.Directory, r.Err
	}
}
