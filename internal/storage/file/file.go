// Package file persists the application state as a single JSON document.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"fintrack/internal/core"
)

// Store writes the whole state to one file. Writes go to a temp file in the
// same directory which is then renamed over the target.
type Store struct {
	mu   sync.Mutex
	path string
}

func New(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("file store: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &Store{path: path}, nil
}

// Path is the location of the state file.
func (s *Store) Path() string { return s.path }

// Load reads the state file. A missing or empty file means nothing was saved.
func (s *Store) Load(_ context.Context) (core.AppState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return core.AppState{}, false, nil
	}
	if err != nil {
		return core.AppState{}, false, fmt.Errorf("read state file: %w", err)
	}
	if len(data) == 0 {
		return core.AppState{}, false, nil
	}

	var state core.AppState
	if err := json.Unmarshal(data, &state); err != nil {
		return core.AppState{}, false, fmt.Errorf("decode state file %s: %w", s.path, err)
	}
	return state, true, nil
}

// Save replaces the state file with state.
func (s *Store) Save(ctx context.Context, state core.AppState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if state.Accounts == nil {
		state.Accounts = []core.Account{}
	}
	if state.Transactions == nil {
		state.Transactions = []core.Transaction{}
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".state-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
