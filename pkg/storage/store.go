// Package storage is the small durable key-value store the capture pipeline
// keeps its ledger and directory flags in.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Keys used by the capture pipeline.
const (
	KeyContactHistory    = "contactHistory"
	KeySelectedDirectory = "selectedDirectory"
	KeyDirectoryName     = "directoryName"
)

// Drivers accepted by Open.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("storage: unknown driver")

// Store persists JSON-encodable values under string keys.
type Store interface {
	// Get decodes the value stored under key into dst. found is false, and
	// dst untouched, when the key has never been set.
	Get(ctx context.Context, key string, dst any) (found bool, err error)

	// Set stores value under key, replacing any previous value. A reader never
	// observes a partially written value.
	Set(ctx context.Context, key string, value any) error

	// Close releases the store.
	Close() error
}

// Open returns the store for driver at path.
func Open(driver, path string) (Store, error) {
	switch driver {
	case "", DriverJSON:
		s, err := NewFileStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverSQLite:
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// GetBool reads a boolean flag, returning def when it is unset.
func GetBool(ctx context.Context, s Store, key string, def bool) (bool, error) {
	v := def
	if _, err := s.Get(ctx, key, &v); err != nil {
		return def, err
	}
	return v, nil
}

// GetString reads a string, returning def when it is unset.
func GetString(ctx context.Context, s Store, key, def string) (string, error) {
	v := def
	if _, err := s.Get(ctx, key, &v); err != nil {
		return def, err
	}
	return v, nil
}
