package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	fileStore, err := Open(DriverJSON, filepath.Join(dir, "state.json"))
	require.NoError(t, err)
	sqliteStore, err := Open(DriverSQLite, filepath.Join(dir, "state.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		fileStore.Close()
		sqliteStore.Close()
	})
	return map[string]Store{DriverJSON: fileStore, DriverSQLite: sqliteStore}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()

	for driver, s := range openStores(t) {
		t.Run(driver, func(t *testing.T) {
			var missing []record
			found, err := s.Get(ctx, KeyContactHistory, &missing)
			require.NoError(t, err)
			assert.False(t, found)
			assert.Nil(t, missing)

			want := []record{{Name: "Jane", Phone: "555"}, {Name: "John"}}
			require.NoError(t, s.Set(ctx, KeyContactHistory, want))

			var got []record
			found, err = s.Get(ctx, KeyContactHistory, &got)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, want, got)

			require.NoError(t, s.Set(ctx, KeyContactHistory, want[:1]))
			got = nil
			_, err = s.Get(ctx, KeyContactHistory, &got)
			require.NoError(t, err)
			assert.Equal(t, want[:1], got)
		})
	}
}

func TestTypedHelpers(t *testing.T) {
	ctx := context.Background()

	for driver, s := range openStores(t) {
		t.Run(driver, func(t *testing.T) {
			flag, err := GetBool(ctx, s, KeySelectedDirectory, false)
			require.NoError(t, err)
			assert.False(t, flag)

			name, err := GetString(ctx, s, KeyDirectoryName, "")
			require.NoError(t, err)
			assert.Equal(t, "", name)

			require.NoError(t, s.Set(ctx, KeySelectedDirectory, true))
			require.NoError(t, s.Set(ctx, KeyDirectoryName, "Leads"))

			flag, err = GetBool(ctx, s, KeySelectedDirectory, false)
			require.NoError(t, err)
			assert.True(t, flag)

			name, err = GetString(ctx, s, KeyDirectoryName, "")
			require.NoError(t, err)
			assert.Equal(t, "Leads", name)
		})
	}
}

func TestDecodeMismatch(t *testing.T) {
	ctx := context.Background()

	for driver, s := range openStores(t) {
		t.Run(driver, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, KeyDirectoryName, "Leads"))
			var n int
			found, err := s.Get(ctx, KeyDirectoryName, &n)
			assert.True(t, found)
			assert.Error(t, err)
		})
	}
}

func TestFileStorePersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeySelectedDirectory, true))
	assert.Equal(t, path, s.Path())

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	flag, err := GetBool(ctx, reopened, KeySelectedDirectory, false)
	require.NoError(t, err)
	assert.True(t, flag)
}

func TestFileStoreCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestSQLiteStorePersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyDirectoryName, "Leads"))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	name, err := GetString(ctx, reopened, KeyDirectoryName, "")
	require.NoError(t, err)
	assert.Equal(t, "Leads", name)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("redis", "x")
	assert.True(t, errors.Is(err, ErrUnknownDriver))

	_, err = Open(DriverJSON, "")
	assert.Error(t, err)
}
