package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const fileStoreVersion = "1.0"

// FileStore keeps every value in one JSON document and rewrites it through a
// temp file and rename on each Set.
type FileStore struct {
	path    string
	mu      sync.RWMutex
	version string
	data    map[string]json.RawMessage
}

type fileDocument struct {
	Version string                     `json:"version"`
	Values  map[string]json.RawMessage `json:"values"`
}

// NewFileStore opens the store at path, creating nothing until the first Set.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("storage: file store path is required")
	}
	s := &FileStore{
		path:    path,
		version: fileStoreVersion,
		data:    make(map[string]json.RawMessage),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("storage: open %s: %w", s.path, err)
	}
	defer file.Close()

	var doc fileDocument
	if err := json.NewDecoder(file).Decode(&doc); err != nil {
		return fmt.Errorf("storage: decode %s: %w", s.path, err)
	}
	if doc.Version != "" {
		s.version = doc.Version
	}
	if doc.Values != nil {
		s.data = doc.Values
	}
	return nil
}

// Get implements Store.
func (s *FileStore) Get(_ context.Context, key string, dst any) (bool, error) {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("storage: decode %q: %w", key, err)
	}
	return true, nil
}

// Set implements Store.
func (s *FileStore) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("storage: encode %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]json.RawMessage, len(s.data)+1)
	for k, v := range s.data {
		next[k] = v
	}
	next[key] = raw
	if err := s.writeLocked(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

func (s *FileStore) writeLocked(values map[string]json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("storage: create directory: %w", err)
	}

	tempPath := s.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("storage: create temp file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(fileDocument{Version: s.version, Values: values}); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("storage: encode document: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("storage: close temp file: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("storage: rename temp file: %w", err)
	}
	return nil
}

// Path returns the file backing the store.
func (s *FileStore) Path() string {
	return s.path
}

// Close implements Store. FileStore holds no open handles.
func (s *FileStore) Close() error {
	return nil
}
