package ledger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/entrhq/apptcapture/pkg/storage"
	"github.com/entrhq/apptcapture/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore wraps a store and fails Set on demand.
type failingStore struct {
	storage.Store
	setErr error
}

func (f *failingStore) Set(ctx context.Context, key string, value any) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Store.Set(ctx, key, value)
}

func newStore(t *testing.T) storage.Store {
	t.Helper()
	s, err := storage.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	return s
}

func TestEmptyLedger(t *testing.T) {
	l := New(newStore(t))

	all, err := l.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.NotNil(t, all)
}

func TestAppendKeepsOrderAndDuplicates(t *testing.T) {
	ctx := context.Background()
	l := New(newStore(t))

	first := types.Submission{Timestamp: "t1", Name: "Jane"}
	second := types.Submission{Timestamp: "t2", Name: "Jane"}
	require.NoError(t, l.Append(ctx, first))
	require.NoError(t, l.Append(ctx, second))
	require.NoError(t, l.Append(ctx, first))

	all, err := l.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.Submission{first, second, first}, all)
}

func TestAppendCountMatchesSaves(t *testing.T) {
	ctx := context.Background()
	l := New(newStore(t))

	for n := 1; n <= 25; n++ {
		require.NoError(t, l.Append(ctx, types.Submission{Name: fmt.Sprintf("lead %d", n)}))
		count, err := l.Len(ctx)
		require.NoError(t, err)
		assert.Equal(t, n, count)
	}
}

func TestFailedWriteAppendsNothing(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{Store: newStore(t)}
	l := New(store)

	require.NoError(t, l.Append(ctx, types.Submission{Name: "kept"}))

	store.setErr = errors.New("disk full")
	err := l.Append(ctx, types.Submission{Name: "lost"})
	assert.ErrorContains(t, err, "disk full")

	store.setErr = nil
	all, err := l.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "kept", all[0].Name)
}

func TestConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	l := New(newStore(t))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, l.Append(ctx, types.Submission{Name: fmt.Sprintf("lead %d", i)}))
		}(i)
	}
	wg.Wait()

	count, err := l.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, count)
}

func TestHistorySurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, New(s).Append(ctx, types.Submission{Name: "Jane"}))
	require.NoError(t, s.Close())

	s, err = storage.OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	all, err := New(s).All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Jane", all[0].Name)
}
