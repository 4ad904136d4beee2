// Package ledger is the append-only history of captured submissions.
package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/entrhq/apptcapture/pkg/storage"
	"github.com/entrhq/apptcapture/pkg/types"
)

// Ledger appends submissions to the contactHistory key of a store.
// It is the only writer of that key.
type Ledger struct {
	store storage.Store
	mu    sync.Mutex
}

// New returns a ledger over store.
func New(store storage.Store) *Ledger {
	return &Ledger{store: store}
}

// Append reads the stored history, adds sub at the end and writes the whole
// history back. Re-saving an edited form adds a new entry; nothing is ever
// replaced or removed.
func (l *Ledger) Append(ctx context.Context, sub types.Submission) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	history, err := l.read(ctx)
	if err != nil {
		return fmt.Errorf("ledger: append: %w", err)
	}
	history = append(history, sub)
	if err := l.store.Set(ctx, storage.KeyContactHistory, history); err != nil {
		return fmt.Errorf("ledger: append: %w", err)
	}
	return nil
}

// All returns every submission in save order.
func (l *Ledger) All(ctx context.Context) ([]types.Submission, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	history, err := l.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ledger: read: %w", err)
	}
	return history, nil
}

// Len returns the number of submissions.
func (l *Ledger) Len(ctx context.Context) (int, error) {
	all, err := l.All(ctx)
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

func (l *Ledger) read(ctx context.Context) ([]types.Submission, error) {
	history := []types.Submission{}
	if _, err := l.store.Get(ctx, storage.KeyContactHistory, &history); err != nil {
		return nil, err
	}
	if history == nil {
		// a stored JSON null decodes to nil
		history = []types.Submission{}
	}
	return history, nil
}
