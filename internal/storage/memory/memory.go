package memory

import (
	"context"
	"sync"

	"fintrack/internal/core"
)

// Store keeps the last saved state in process memory.
type Store struct {
	mu    sync.Mutex
	state core.AppState
	saved bool
	saves int
}

func New() *Store {
	return &Store{}
}

// NewSeeded returns a Store that already holds state, as if it had been saved.
func NewSeeded(state core.AppState) *Store {
	return &Store{state: state.Clone(), saved: true}
}

// Load returns a copy of the last saved state.
func (s *Store) Load(_ context.Context) (core.AppState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.saved {
		return core.AppState{}, false, nil
	}
	return s.state.Clone(), true, nil
}

// Save replaces the held state with a copy of state.
func (s *Store) Save(ctx context.Context, state core.AppState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Clone()
	s.saved = true
	s.saves++
	return nil
}

// Saves reports how many times Save succeeded.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
