package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "state.json")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, found, err := s.Load(ctx); err != nil || found {
		t.Fatalf("expected first run: found=%v err=%v", found, err)
	}

	want := core.AppState{
		Accounts: []core.Account{
			{ID: "a1", Name: "Checking", InitialBalance: decimal.RequireFromString("100.25"), Currency: "USD"},
			{ID: "a0", Name: "Cash", InitialBalance: decimal.NewFromInt(-3), Currency: "JPY"},
		},
		Transactions: []core.Transaction{
			{ID: "t1", Type: core.Expense, Amount: decimal.NewFromInt(20), Category: "Food & Dining", Date: core.NewDate(2024, 1, 15), Description: "lunch", AccountID: "a1"},
			{ID: "t0", Type: core.Income, Amount: decimal.RequireFromString("0.5"), Category: "Gift", Date: core.NewDate(2024, 2, 1), AccountID: "a0"},
		},
	}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, found, err := s.Load(ctx)
	if err != nil || !found {
		t.Fatalf("load: found=%v err=%v", found, err)
	}
	if !got.Equal(want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the state file, found %d entries", len(entries))
	}
}

func TestFileStoreEmptyAndCorrupt(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, found, err := s.Load(ctx); err != nil || found {
		t.Fatalf("empty file should read as first run: found=%v err=%v", found, err)
	}

	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Load(ctx); err == nil {
		t.Fatalf("expected decode error")
	}

	if err := s.Save(ctx, core.AppState{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, found, err := s.Load(ctx)
	if err != nil || !found || len(got.Accounts) != 0 {
		t.Fatalf("empty save: found=%v err=%v state=%+v", found, err, got)
	}
}

func TestNewRejectsEmptyPath(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
