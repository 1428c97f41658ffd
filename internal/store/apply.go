package store

import "fintrack/internal/core"

// Apply returns the state that results from applying cmd to state.
//
// Apply is total and pure: it never mutates state's sequences, a command
// referencing an absent id leaves the state unchanged, and an unrecognised
// command (including nil) returns state as is. Adding an entity whose id is
// already taken is a no-op, so ids stay unique per collection. Deleting an
// account removes its transactions in the same transition.
func Apply(state core.AppState, cmd Command) core.AppState {
	switch c := cmd.(type) {
	case AddTransaction:
		if _, ok := state.FindTransaction(c.Transaction.ID); ok {
			return state
		}
		next := state.Clone()
		next.Transactions = append(next.Transactions, c.Transaction)
		return next
	case UpdateTransaction:
		next := state.Clone()
		for i := range next.Transactions {
			if next.Transactions[i].ID == c.Transaction.ID {
				next.Transactions[i] = c.Transaction
			}
		}
		return next
	case DeleteTransaction:
		return core.AppState{
			Accounts:     append([]core.Account{}, state.Accounts...),
			Transactions: filterTransactions(state.Transactions, func(t core.Transaction) bool { return t.ID != c.ID }),
		}
	case AddAccount:
		if _, ok := state.FindAccount(c.Account.ID); ok {
			return state
		}
		next := state.Clone()
		next.Accounts = append(next.Accounts, c.Account)
		return next
	case UpdateAccount:
		next := state.Clone()
		for i := range next.Accounts {
			if next.Accounts[i].ID == c.Account.ID {
				next.Accounts[i] = c.Account
			}
		}
		return next
	case DeleteAccount:
		return core.AppState{
			Accounts:     filterAccounts(state.Accounts, func(a core.Account) bool { return a.ID != c.ID }),
			Transactions: filterTransactions(state.Transactions, func(t core.Transaction) bool { return t.AccountID != c.ID }),
		}
	default:
		return state
	}
}

func filterTransactions(in []core.Transaction, keep func(core.Transaction) bool) []core.Transaction {
	out := make([]core.Transaction, 0, len(in))
	for _, t := range in {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func filterAccounts(in []core.Account, keep func(core.Account) bool) []core.Account {
	out := make([]core.Account, 0, len(in))
	for _, a := range in {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
