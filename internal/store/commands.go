// Package store holds the application state and the single transition
// function that every mutation goes through.
package store

import "fintrack/internal/core"

// Command is a requested state change. The set is closed: the six types in
// this file are the only implementations.
type Command interface {
	// Name identifies the command in logs and change notifications.
	Name() string
	// EntityID is the id of the account or transaction the command targets.
	EntityID() string
	command()
}

type (
	AddTransaction struct {
		Transaction core.Transaction
	}

	UpdateTransaction struct {
		Transaction core.Transaction
	}

	DeleteTransaction struct {
		ID string
	}

	AddAccount struct {
		Account core.Account
	}

	UpdateAccount struct {
		Account core.Account
	}

	// DeleteAccount removes the account and every transaction referencing it.
	DeleteAccount struct {
		ID string
	}
)

const (
	CmdAddTransaction    = "add_transaction"
	CmdUpdateTransaction = "update_transaction"
	CmdDeleteTransaction = "delete_transaction"
	CmdAddAccount        = "add_account"
	CmdUpdateAccount     = "update_account"
	CmdDeleteAccount     = "delete_account"
)

func (AddTransaction) Name() string    { return CmdAddTransaction }
func (UpdateTransaction) Name() string { return CmdUpdateTransaction }
func (DeleteTransaction) Name() string { return CmdDeleteTransaction }
func (AddAccount) Name() string        { return CmdAddAccount }
func (UpdateAccount) Name() string     { return CmdUpdateAccount }
func (DeleteAccount) Name() string     { return CmdDeleteAccount }

func (c AddTransaction) EntityID() string    { return c.Transaction.ID }
func (c UpdateTransaction) EntityID() string { return c.Transaction.ID }
func (c DeleteTransaction) EntityID() string { return c.ID }
func (c AddAccount) EntityID() string        { return c.Account.ID }
func (c UpdateAccount) EntityID() string     { return c.Account.ID }
func (c DeleteAccount) EntityID() string     { return c.ID }

func (AddTransaction) command()    {}
func (UpdateTransaction) command() {}
func (DeleteTransaction) command() {}
func (AddAccount) command()        {}
func (UpdateAccount) command()     {}
func (DeleteAccount) command()     {}
