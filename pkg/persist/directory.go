package persist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Directory is a live capability to write files into the operator's chosen
// folder. It is only valid for the session that acquired it.
type Directory interface {
	Name() string
	// WriteFile creates name if absent and truncates it if present.
	WriteFile(ctx context.Context, name string, data []byte) error
}

// ErrCancelled is returned by a Picker when the operator backs out.
var ErrCancelled = errors.New("persist: directory selection cancelled")

// Picker asks the operator for a directory.
type Picker interface {
	PickDirectory(ctx context.Context) (Directory, error)
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(ctx context.Context) (Directory, error)

// PickDirectory implements Picker.
func (f PickerFunc) PickDirectory(ctx context.Context) (Directory, error) { return f(ctx) }

// OSDirectory is a Directory on the local file system.
type OSDirectory struct {
	path string
}

// OpenDirectory checks that path is an existing directory.
func OpenDirectory(path string) (*OSDirectory, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("persist: directory path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("persist: resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("persist: open directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("persist: %s is not a directory", abs)
	}
	return &OSDirectory{path: abs}, nil
}

// Name returns the directory's base name, which is what gets displayed and
// remembered across sessions.
func (d *OSDirectory) Name() string {
	return filepath.Base(d.path)
}

// Path returns the absolute path.
func (d *OSDirectory) Path() string {
	return d.path
}

// WriteFile implements Directory.
func (d *OSDirectory) WriteFile(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("persist: invalid file name %q", name)
	}
	f, err := os.OpenFile(filepath.Join(d.path, name), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("persist: create %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("persist: write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("persist: close %s: %w", name, err)
	}
	return nil
}
