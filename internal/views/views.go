// Package views derives read-only aggregates from the application state.
//
// Every function is pure: it takes a core.AppState, never mutates it and
// never fails. Missing data yields empty results.
package views

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// UnknownAccountName labels rows whose account no longer exists.
const UnknownAccountName = "Unknown account"

type (
	// Totals pools every account. Balances in different currencies are summed
	// as raw numbers; Currency is only the display currency.
	Totals struct {
		Income   decimal.Decimal `json:"totalIncome"`
		Expense  decimal.Decimal `json:"totalExpense"`
		Balance  decimal.Decimal `json:"totalBalance"`
		Currency string          `json:"currency"`
	}

	CategoryTotal struct {
		Category string          `json:"name"`
		Total    decimal.Decimal `json:"value"`
	}

	MonthBucket struct {
		Year    int             `json:"year"`
		Month   int             `json:"month"` // 1-12
		Income  decimal.Decimal `json:"income"`
		Expense decimal.Decimal `json:"expense"`
	}

	AccountSummary struct {
		core.Account
		Balance decimal.Decimal `json:"balance"`
	}

	// TransactionRow is a listing entry joined with its account.
	TransactionRow struct {
		core.Transaction
		AccountName string `json:"accountName"`
		Currency    string `json:"currency"`
	}

	Dashboard struct {
		Empty             bool            `json:"empty"`
		Totals            Totals          `json:"totals"`
		ExpenseByCategory []CategoryTotal `json:"expenseByCategory"`
		Monthly           []MonthBucket   `json:"monthly"`
	}
)

// Label renders the bucket as YYYY-MM.
func (b MonthBucket) Label() string {
	return fmt.Sprintf("%04d-%02d", b.Year, b.Month)
}

// AccountBalance is the initial balance plus income minus expense of the
// account's own transactions. An unknown id yields zero.
func AccountBalance(state core.AppState, accountID string) decimal.Decimal {
	a, ok := state.FindAccount(accountID)
	if !ok {
		return decimal.Zero
	}
	balance := a.InitialBalance
	for _, t := range state.Transactions {
		if t.AccountID == a.ID {
			balance = balance.Add(t.Signed())
		}
	}
	return balance
}

// AccountBalances computes every account balance in one pass over the
// transactions. Transactions of unknown accounts are ignored.
func AccountBalances(state core.AppState) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal, len(state.Accounts))
	for _, a := range state.Accounts {
		balances[a.ID] = a.InitialBalance
	}
	for _, t := range state.Transactions {
		if b, ok := balances[t.AccountID]; ok {
			balances[t.AccountID] = b.Add(t.Signed())
		}
	}
	return balances
}

// AccountSummaries pairs each account with its balance, in account order.
func AccountSummaries(state core.AppState) []AccountSummary {
	balances := AccountBalances(state)
	out := make([]AccountSummary, 0, len(state.Accounts))
	for _, a := range state.Accounts {
		out = append(out, AccountSummary{Account: a, Balance: balances[a.ID]})
	}
	return out
}

// ComputeTotals sums income and expense across all accounts. The display
// currency is the first account's, or core.DefaultCurrency without accounts.
func ComputeTotals(state core.AppState) Totals {
	totals := Totals{
		Income:   decimal.Zero,
		Expense:  decimal.Zero,
		Balance:  decimal.Zero,
		Currency: core.DefaultCurrency,
	}
	if len(state.Accounts) > 0 && state.Accounts[0].Currency != "" {
		totals.Currency = state.Accounts[0].Currency
	}
	for _, t := range state.Transactions {
		if t.Type == core.Income {
			totals.Income = totals.Income.Add(t.Amount)
		} else {
			totals.Expense = totals.Expense.Add(t.Amount)
		}
	}
	initial := decimal.Zero
	for _, a := range state.Accounts {
		initial = initial.Add(a.InitialBalance)
	}
	totals.Balance = initial.Add(totals.Income).Sub(totals.Expense)
	return totals
}

// ExpenseByCategory groups expense transactions by category. Entries are
// ordered by total descending, ties by category name.
func ExpenseByCategory(state core.AppState) []CategoryTotal {
	sums := make(map[string]decimal.Decimal)
	for _, t := range state.Transactions {
		if t.Type != core.Expense {
			continue
		}
		if s, ok := sums[t.Category]; ok {
			sums[t.Category] = s.Add(t.Amount)
		} else {
			sums[t.Category] = t.Amount
		}
	}

	out := make([]CategoryTotal, 0, len(sums))
	for name, total := range sums {
		out = append(out, CategoryTotal{Category: name, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// MonthlySeries buckets transactions by calendar year and month and sums
// income and expense separately. Buckets are sorted oldest first.
func MonthlySeries(state core.AppState) []MonthBucket {
	type key struct{ year, month int }
	buckets := make(map[key]*MonthBucket)
	for _, t := range state.Transactions {
		k := key{t.Date.Year(), t.Date.Month()}
		b, ok := buckets[k]
		if !ok {
			b = &MonthBucket{Year: k.year, Month: k.month, Income: decimal.Zero, Expense: decimal.Zero}
			buckets[k] = b
		}
		if t.Type == core.Income {
			b.Income = b.Income.Add(t.Amount)
		} else {
			b.Expense = b.Expense.Add(t.Amount)
		}
	}

	out := make([]MonthBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// SortedTransactions returns the transactions most recent first. Equal dates
// keep their insertion order.
func SortedTransactions(state core.AppState) []core.Transaction {
	out := append([]core.Transaction(nil), state.Transactions...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}

// TransactionRows is SortedTransactions joined with account name and
// currency. Rows of a missing account get placeholders.
func TransactionRows(state core.AppState) []TransactionRow {
	accounts := make(map[string]core.Account, len(state.Accounts))
	for _, a := range state.Accounts {
		accounts[a.ID] = a
	}
	sorted := SortedTransactions(state)
	rows := make([]TransactionRow, 0, len(sorted))
	for _, t := range sorted {
		row := TransactionRow{Transaction: t, AccountName: UnknownAccountName, Currency: core.DefaultCurrency}
		if a, ok := accounts[t.AccountID]; ok {
			row.AccountName = a.Name
			if a.Currency != "" {
				row.Currency = a.Currency
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// BuildDashboard bundles the portfolio views shown on the dashboard.
func BuildDashboard(state core.AppState) Dashboard {
	return Dashboard{
		Empty:             len(state.Accounts) == 0,
		Totals:            ComputeTotals(state),
		ExpenseByCategory: ExpenseByCategory(state),
		Monthly:           MonthlySeries(state),
	}
}
