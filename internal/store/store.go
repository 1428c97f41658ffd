package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

// ErrPersist wraps a save failure. The in-memory transition has already been
// applied when it is returned.
var ErrPersist = errors.New("persist state")

type (
	// Persister is the durable key-value collaborator. Load reports false on
	// first run; Save is a last-write-wins full snapshot.
	Persister interface {
		Load(ctx context.Context) (core.AppState, bool, error)
		Save(ctx context.Context, state core.AppState) error
	}

	// Notifier is told about every applied command.
	Notifier interface {
		Notify(ctx context.Context, cmd Command, revision int64) error
	}
)

// Config holds Store tuning. Zero values fall back to DefaultConfig.
type Config struct {
	// SaveRetries is how many extra save attempts follow a failed one
	// (default: 3, negative disables retries)
	SaveRetries int

	// RetryDelay is the first backoff delay, doubled per attempt (default: 100ms)
	RetryDelay time.Duration

	// MaxRetryDelay caps the backoff (default: 2s)
	MaxRetryDelay time.Duration

	Notifier Notifier
	Logger   *applog.Logger
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		SaveRetries:   3,
		RetryDelay:    100 * time.Millisecond,
		MaxRetryDelay: 2 * time.Second,
	}
}

// Store is the state holder and dispatcher. Each instance is independent;
// commands are applied one at a time in arrival order.
type Store struct {
	mu        sync.Mutex
	state     core.AppState
	revision  int64
	persister Persister
	config    Config
	logger    *applog.Logger
}

// New loads the initial state through p and returns a ready Store.
func New(ctx context.Context, p Persister, cfg Config) (*Store, error) {
	if p == nil {
		return nil, errors.New("store: nil persister")
	}
	defaults := DefaultConfig()
	if cfg.SaveRetries < 0 {
		cfg.SaveRetries = 0
	} else if cfg.SaveRetries == 0 {
		cfg.SaveRetries = defaults.SaveRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaults.RetryDelay
	}
	if cfg.MaxRetryDelay <= 0 {
		cfg.MaxRetryDelay = defaults.MaxRetryDelay
	}
	logger := cfg.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentStore)

	state, found, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if !found {
		state = core.AppState{}
		logger.InfoContext(ctx, "No saved state found, starting empty")
	} else {
		logger.InfoContext(ctx, "Loaded saved state",
			"accounts", len(state.Accounts),
			"transactions", len(state.Transactions))
	}

	return &Store{
		state:     state.Clone(),
		persister: p,
		config:    cfg,
		logger:    logger,
	}, nil
}

// State returns a copy of the current state.
func (s *Store) State() core.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Revision counts the commands applied since the store was created.
func (s *Store) Revision() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Snapshot returns the state together with the revision it belongs to.
func (s *Store) Snapshot() (core.AppState, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone(), s.revision
}

// Dispatch applies cmd, then persists the resulting state. A failed save does
// not undo the transition: the new state is returned along with an error
// wrapping ErrPersist.
func (s *Store) Dispatch(ctx context.Context, cmd Command) (core.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatchLocked(ctx, cmd)
}

// Submit validates cmd against the current state and dispatches it, holding
// the lock across both steps. It returns the resulting state with the
// revision it belongs to. A validation error leaves the state and the
// revision untouched and is returned as is.
func (s *Store) Submit(ctx context.Context, cmd Command) (core.AppState, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := Validate(s.state, cmd); err != nil {
		return s.state.Clone(), s.revision, err
	}
	next, err := s.dispatchLocked(ctx, cmd)
	return next, s.revision, err
}

func (s *Store) dispatchLocked(ctx context.Context, cmd Command) (core.AppState, error) {
	s.state = Apply(s.state, cmd)
	s.revision++
	next := s.state.Clone()

	var name, entity string
	if cmd != nil {
		name, entity = cmd.Name(), cmd.EntityID()
	}
	s.logger.DebugContext(ctx, "Command applied",
		applog.FieldOperation, name,
		applog.FieldEntityID, entity,
		applog.FieldRevision, s.revision)

	saveErr := s.save(ctx, next)

	if s.config.Notifier != nil && cmd != nil {
		if err := s.config.Notifier.Notify(ctx, cmd, s.revision); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish change notification",
				applog.FieldOperation, name,
				applog.FieldRevision, s.revision,
				applog.FieldError, err)
		}
	}

	if saveErr != nil {
		return next, fmt.Errorf("%w: %w", ErrPersist, saveErr)
	}
	return next, nil
}

func (s *Store) save(ctx context.Context, state core.AppState) error {
	var err error
	for attempt := 0; attempt <= s.config.SaveRetries; attempt++ {
		if attempt > 0 {
			delay := backoff(s.config.RetryDelay, s.config.MaxRetryDelay, attempt-1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		if err = s.persister.Save(ctx, state); err == nil {
			if attempt > 0 {
				s.logger.InfoContext(ctx, "State saved after retry", "attempt", attempt+1)
			}
			return nil
		}
		s.logger.WarnContext(ctx, "Failed to save state",
			"attempt", attempt+1,
			applog.FieldRevision, s.revision,
			applog.FieldError, err)
	}
	s.logger.ErrorContext(ctx, "Giving up saving state, keeping in-memory state",
		applog.FieldRevision, s.revision,
		applog.FieldError, err)
	return err
}

// backoff doubles base per attempt and caps the result at ceiling.
func backoff(base, ceiling time.Duration, attempt int) time.Duration {
	d := base
	for i := 0; i < attempt && d < ceiling; i++ {
		d *= 2
	}
	if d > ceiling {
		return ceiling
	}
	return d
}
