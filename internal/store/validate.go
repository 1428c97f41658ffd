package store

import (
	"errors"
	"fmt"

	"fintrack/internal/core"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateID    = errors.New("duplicate id")
	ErrUnknownAccount = errors.New("unknown account")
	ErrUnknownCommand = errors.New("unknown command")
)

// Validate checks cmd against state before it is dispatched. Apply itself
// stays permissive; callers that want strict semantics (the HTTP API) call
// Validate first and refuse the command on error.
func Validate(state core.AppState, cmd Command) error {
	switch c := cmd.(type) {
	case AddTransaction:
		if err := c.Transaction.Validate(); err != nil {
			return err
		}
		if _, ok := state.FindTransaction(c.Transaction.ID); ok {
			return fmt.Errorf("transaction %s: %w", c.Transaction.ID, ErrDuplicateID)
		}
		return requireAccount(state, c.Transaction.AccountID)
	case UpdateTransaction:
		if err := c.Transaction.Validate(); err != nil {
			return err
		}
		if _, ok := state.FindTransaction(c.Transaction.ID); !ok {
			return fmt.Errorf("transaction %s: %w", c.Transaction.ID, ErrNotFound)
		}
		return requireAccount(state, c.Transaction.AccountID)
	case DeleteTransaction:
		if _, ok := state.FindTransaction(c.ID); !ok {
			return fmt.Errorf("transaction %s: %w", c.ID, ErrNotFound)
		}
		return nil
	case AddAccount:
		if err := c.Account.Validate(); err != nil {
			return err
		}
		if _, ok := state.FindAccount(c.Account.ID); ok {
			return fmt.Errorf("account %s: %w", c.Account.ID, ErrDuplicateID)
		}
		return nil
	case UpdateAccount:
		if err := c.Account.Validate(); err != nil {
			return err
		}
		if _, ok := state.FindAccount(c.Account.ID); !ok {
			return fmt.Errorf("account %s: %w", c.Account.ID, ErrNotFound)
		}
		return nil
	case DeleteAccount:
		if _, ok := state.FindAccount(c.ID); !ok {
			return fmt.Errorf("account %s: %w", c.ID, ErrNotFound)
		}
		return nil
	default:
		return ErrUnknownCommand
	}
}

func requireAccount(state core.AppState, id string) error {
	if _, ok := state.FindAccount(id); !ok {
		return fmt.Errorf("account %s: %w", id, ErrUnknownAccount)
	}
	return nil
}
