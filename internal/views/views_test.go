package views

import (
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tx(id string, typ core.TransactionType, amount, category string, date core.Date, accountID string) core.Transaction {
	return core.Transaction{
		ID:        id,
		Type:      typ,
		Amount:    dec(amount),
		Category:  category,
		Date:      date,
		AccountID: accountID,
	}
}

func TestAccountBalance(t *testing.T) {
	state := core.AppState{
		Accounts: []core.Account{
			{ID: "a1", Name: "Checking", InitialBalance: dec("100"), Currency: "USD"},
			{ID: "a2", Name: "Savings", InitialBalance: dec("10"), Currency: "USD"},
		},
		Transactions: []core.Transaction{
			tx("t1", core.Income, "50", "Salary", core.NewDate(2024, 1, 1), "a1"),
			tx("t2", core.Expense, "30", "Housing", core.NewDate(2024, 1, 2), "a1"),
			tx("t3", core.Expense, "4", "Travel", core.NewDate(2024, 1, 3), "a2"),
		},
	}

	if got := AccountBalance(state, "a1"); !got.Equal(dec("120")) {
		t.Fatalf("balance(a1) = %s, want 120", got)
	}
	if got := AccountBalance(state, "missing"); !got.IsZero() {
		t.Fatalf("balance(missing) = %s, want 0", got)
	}

	balances := AccountBalances(state)
	if len(balances) != 2 || !balances["a1"].Equal(dec("120")) || !balances["a2"].Equal(dec("6")) {
		t.Fatalf("unexpected balances: %v", balances)
	}

	summaries := AccountSummaries(state)
	if len(summaries) != 2 || summaries[0].ID != "a1" || !summaries[1].Balance.Equal(dec("6")) {
		t.Fatalf("unexpected summaries: %+v", summaries)
	}
}

func TestAccountBalancesEmpty(t *testing.T) {
	if got := AccountBalances(core.AppState{}); len(got) != 0 {
		t.Fatalf("expected empty balances, got %v", got)
	}
}

func TestComputeTotals(t *testing.T) {
	state := core.AppState{
		Accounts: []core.Account{
			{ID: "a1", InitialBalance: dec("100"), Currency: "EUR"},
			{ID: "a2", InitialBalance: dec("50.5"), Currency: "JPY"},
		},
		Transactions: []core.Transaction{
			tx("t1", core.Income, "1000", "Salary", core.NewDate(2024, 2, 1), "a1"),
			tx("t2", core.Expense, "20", "Food & Dining", core.NewDate(2024, 1, 15), "a2"),
		},
	}
	got := ComputeTotals(state)
	if !got.Income.Equal(dec("1000")) || !got.Expense.Equal(dec("20")) {
		t.Fatalf("unexpected income/expense: %+v", got)
	}
	// currencies are pooled without conversion
	if !got.Balance.Equal(dec("1130.5")) {
		t.Fatalf("balance = %s, want 1130.5", got.Balance)
	}
	if got.Currency != "EUR" {
		t.Fatalf("currency = %s, want first account's EUR", got.Currency)
	}

	empty := ComputeTotals(core.AppState{})
	if !empty.Balance.IsZero() || empty.Currency != core.DefaultCurrency {
		t.Fatalf("unexpected empty totals: %+v", empty)
	}
}

func TestExpenseByCategory(t *testing.T) {
	state := core.AppState{
		Transactions: []core.Transaction{
			tx("t1", core.Expense, "10", "Food & Dining", core.NewDate(2024, 1, 1), "a1"),
			tx("t2", core.Expense, "15", "Food & Dining", core.NewDate(2024, 1, 2), "a1"),
			tx("t3", core.Income, "99", "Salary", core.NewDate(2024, 1, 3), "a1"),
		},
	}
	got := ExpenseByCategory(state)
	if len(got) != 1 || got[0].Category != "Food & Dining" || !got[0].Total.Equal(dec("25")) {
		t.Fatalf("unexpected breakdown: %+v", got)
	}

	if got := ExpenseByCategory(core.AppState{}); len(got) != 0 {
		t.Fatalf("expected empty breakdown, got %+v", got)
	}
}

func TestExpenseByCategoryOrder(t *testing.T) {
	state := core.AppState{
		Transactions: []core.Transaction{
			tx("t1", core.Expense, "5", "Travel", core.NewDate(2024, 1, 1), "a1"),
			tx("t2", core.Expense, "40", "Housing", core.NewDate(2024, 1, 1), "a1"),
			tx("t3", core.Expense, "5", "Education", core.NewDate(2024, 1, 1), "a1"),
		},
	}
	got := ExpenseByCategory(state)
	want := []string{"Housing", "Education", "Travel"}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Category != name {
			t.Fatalf("entry %d = %s, want %s", i, got[i].Category, name)
		}
	}
}

func TestMonthlySeries(t *testing.T) {
	state := core.AppState{
		Transactions: []core.Transaction{
			tx("t2", core.Income, "1000", "Salary", core.NewDate(2024, 2, 1), "a1"),
			tx("t1", core.Expense, "20", "Food & Dining", core.NewDate(2024, 1, 15), "a1"),
		},
	}
	got := MonthlySeries(state)
	if len(got) != 2 {
		t.Fatalf("expected two buckets, got %+v", got)
	}
	jan, feb := got[0], got[1]
	if jan.Label() != "2024-01" || !jan.Income.IsZero() || !jan.Expense.Equal(dec("20")) {
		t.Fatalf("unexpected january bucket: %+v", jan)
	}
	if feb.Label() != "2024-02" || !feb.Income.Equal(dec("1000")) || !feb.Expense.IsZero() {
		t.Fatalf("unexpected february bucket: %+v", feb)
	}
}

func TestMonthlySeriesAcrossYears(t *testing.T) {
	state := core.AppState{
		Transactions: []core.Transaction{
			tx("t1", core.Expense, "1", "Travel", core.NewDate(2024, 1, 5), "a1"),
			tx("t2", core.Expense, "2", "Travel", core.NewDate(2023, 12, 31), "a1"),
			tx("t3", core.Expense, "3", "Travel", core.NewDate(2024, 1, 20), "a1"),
		},
	}
	got := MonthlySeries(state)
	if len(got) != 2 || got[0].Label() != "2023-12" || got[1].Label() != "2024-01" {
		t.Fatalf("unexpected buckets: %+v", got)
	}
	if !got[1].Expense.Equal(dec("4")) {
		t.Fatalf("january expense = %s, want 4", got[1].Expense)
	}
}

func TestSortedTransactions(t *testing.T) {
	state := core.AppState{
		Transactions: []core.Transaction{
			tx("old", core.Expense, "1", "Travel", core.NewDate(2024, 1, 1), "a1"),
			tx("new", core.Expense, "1", "Travel", core.NewDate(2024, 3, 1), "a1"),
		},
	}
	got := SortedTransactions(state)
	if got[0].ID != "new" || got[1].ID != "old" {
		t.Fatalf("unexpected order: %s, %s", got[0].ID, got[1].ID)
	}
	if state.Transactions[0].ID != "old" {
		t.Fatalf("input was reordered")
	}
}

func TestTransactionRows(t *testing.T) {
	state := core.AppState{
		Accounts: []core.Account{{ID: "a1", Name: "Wallet", Currency: "GBP"}},
		Transactions: []core.Transaction{
			tx("t1", core.Expense, "1", "Travel", core.NewDate(2024, 1, 1), "a1"),
			tx("t2", core.Expense, "1", "Travel", core.NewDate(2024, 2, 1), "gone"),
		},
	}
	rows := TransactionRows(state)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ID != "t2" || rows[0].AccountName != UnknownAccountName || rows[0].Currency != core.DefaultCurrency {
		t.Fatalf("unexpected placeholder row: %+v", rows[0])
	}
	if rows[1].AccountName != "Wallet" || rows[1].Currency != "GBP" {
		t.Fatalf("unexpected joined row: %+v", rows[1])
	}
}

func TestBuildDashboard(t *testing.T) {
	if d := BuildDashboard(core.AppState{}); !d.Empty || len(d.Monthly) != 0 || len(d.ExpenseByCategory) != 0 {
		t.Fatalf("unexpected empty dashboard: %+v", d)
	}
	state := core.AppState{
		Accounts:     []core.Account{{ID: "a1", InitialBalance: dec("0"), Currency: "USD"}},
		Transactions: []core.Transaction{tx("t1", core.Expense, "3", "Travel", core.NewDate(2024, 1, 1), "a1")},
	}
	d := BuildDashboard(state)
	if d.Empty || !d.Totals.Balance.Equal(dec("-3")) || len(d.Monthly) != 1 || len(d.ExpenseByCategory) != 1 {
		t.Fatalf("unexpected dashboard: %+v", d)
	}
}
