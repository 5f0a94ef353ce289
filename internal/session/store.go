// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
)

// Well-known store keys.
const (
	KeyLastCommand     = "last_command"
	KeyLastUpdateCheck = "last_update_check"
	KeyInstalledAt     = "installed_at"
)

type stateFile struct {
	Values map[string]string `toml:"values"`
}

// FileStore persists values in a TOML file. Writes take an advisory file
// lock so two policyctl processes never interleave a rewrite.
type FileStore struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

// OpenFileStore loads the store at path. A missing file is an empty store.
func OpenFileStore(path string) (*FileStore, error) {
	store := &FileStore{
		path:   path,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from XDG state resolution
	if errors.Is(err, fs.ErrNotExist) {
		return store, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read session state: %w", err)
	}

	var state stateFile
	if err := toml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse session state %s: %w", path, err)
	}

	for k, v := range state.Values {
		store.values[k] = v
	}

	return store, nil
}

// Get returns the value stored under key.
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]

	return v, ok
}

// Set stores value under key and rewrites the file. An empty value deletes the key.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value == "" {
		delete(s.values, key)
	} else {
		s.values[key] = value
	}

	return s.flush()
}

func (s *FileStore) flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock session state: %w", err)
	}

	defer func() {
		_ = lock.Unlock()
	}()

	data, err := toml.Marshal(stateFile{Values: s.values})
	if err != nil {
		return fmt.Errorf("failed to encode session state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session state: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace session state: %w", err)
	}

	return nil
}

// MemoryStore is a SessionStore that lives only as long as the process.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.values[key]

	return v, ok
}

// Set stores value under key. An empty value deletes the key.
func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if value == "" {
		delete(m.values, key)

		return nil
	}

	m.values[key] = value

	return nil
}
