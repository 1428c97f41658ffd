package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func TestAmountFieldUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantSet bool
		wantRaw string
	}{
		{name: "number", input: `{"amount": 12.5}`, wantSet: true, wantRaw: "12.5"},
		{name: "string with comma", input: `{"amount": "12,34"}`, wantSet: true, wantRaw: "12,34"},
		{name: "negative number", input: `{"amount": -3}`, wantSet: true, wantRaw: "-3"},
		{name: "null", input: `{"amount": null}`, wantSet: false},
		{name: "missing", input: `{}`, wantSet: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req struct {
				Amount amountField `json:"amount"`
			}
			if err := json.Unmarshal([]byte(tt.input), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if req.Amount.set != tt.wantSet || req.Amount.raw != tt.wantRaw {
				t.Errorf("amount = %+v, want set=%v raw=%q", req.Amount, tt.wantSet, tt.wantRaw)
			}
		})
	}
}

func TestToAccount(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantErr     error
		wantBalance string
		wantCurr    string
	}{
		{name: "defaults", body: `{"name":"Wallet"}`, wantBalance: "0", wantCurr: "USD"},
		{name: "negative balance", body: `{"name":"Card","initialBalance":"-12,50","currency":"eur"}`, wantBalance: "-12.5", wantCurr: "EUR"},
		{name: "numeric balance", body: `{"name":"Bank","initialBalance":100,"currency":"JPY"}`, wantBalance: "100", wantCurr: "JPY"},
		{name: "bad balance", body: `{"name":"Bank","initialBalance":"1.2.3"}`, wantErr: core.ErrInvalidAmount},
		{name: "unknown currency", body: `{"name":"Bank","currency":"XYZ"}`, wantErr: errBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req accountRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			acc, err := req.toAccount("a1")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if acc.ID != "a1" {
				t.Errorf("ID = %q, want a1", acc.ID)
			}
			if !acc.InitialBalance.Equal(decimal.RequireFromString(tt.wantBalance)) {
				t.Errorf("InitialBalance = %s, want %s", acc.InitialBalance, tt.wantBalance)
			}
			if acc.Currency != tt.wantCurr {
				t.Errorf("Currency = %q, want %q", acc.Currency, tt.wantCurr)
			}
		})
	}
}

func TestToTransaction(t *testing.T) {
	today := core.NewDate(2024, 3, 9)

	tests := []struct {
		name    string
		body    string
		wantErr error
		check   func(t *testing.T, tx core.Transaction)
	}{
		{
			name: "form defaults",
			body: `{"amount":"20","accountId":"a1"}`,
			check: func(t *testing.T, tx core.Transaction) {
				if tx.Type != core.Expense {
					t.Errorf("Type = %q, want expense", tx.Type)
				}
				if tx.Category != core.DefaultCategory(core.Expense) {
					t.Errorf("Category = %q, want %q", tx.Category, core.DefaultCategory(core.Expense))
				}
				if tx.Date.String() != "2024-03-09" {
					t.Errorf("Date = %s, want 2024-03-09", tx.Date)
				}
			},
		},
		{
			name: "income with explicit fields",
			body: `{"type":"INCOME","amount":1000,"category":"Salary","date":"2024-02-01","description":" pay\u0007day ","accountId":"a2"}`,
			check: func(t *testing.T, tx core.Transaction) {
				if tx.Type != core.Income || tx.Category != "Salary" {
					t.Errorf("unexpected tx: %+v", tx)
				}
				if tx.Description != "payday" {
					t.Errorf("Description = %q, want sanitized %q", tx.Description, "payday")
				}
				if !tx.Amount.Equal(decimal.NewFromInt(1000)) {
					t.Errorf("Amount = %s, want 1000", tx.Amount)
				}
			},
		},
		{
			name: "rfc3339 date",
			body: `{"amount":"1","date":"2024-05-31T23:00:00Z","accountId":"a1"}`,
			check: func(t *testing.T, tx core.Transaction) {
				if tx.Date.String() != "2024-05-31" {
					t.Errorf("Date = %s, want 2024-05-31", tx.Date)
				}
			},
		},
		{name: "missing amount", body: `{"accountId":"a1"}`, wantErr: core.ErrInvalidAmount},
		{name: "negative amount", body: `{"amount":-5,"accountId":"a1"}`, wantErr: core.ErrInvalidAmount},
		{name: "bad type", body: `{"type":"transfer","amount":5}`, wantErr: core.ErrInvalidType},
		{name: "bad date", body: `{"amount":5,"date":"09/03/2024"}`, wantErr: core.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req transactionRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			tx, err := req.toTransaction("t1", today)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tx.ID != "t1" {
				t.Errorf("ID = %q, want t1", tx.ID)
			}
			tt.check(t, tx)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid object", body: `{"name":"x"}`},
		{name: "empty body", body: ``, wantErr: true},
		{name: "malformed", body: `{"name":`, wantErr: true},
		{name: "trailing data", body: `{"name":"x"} {"name":"y"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/accounts", strings.NewReader(tt.body))
			var dst accountRequest
			err := decodeJSON(w, r, &dst)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errBadRequest) {
				t.Errorf("error should wrap errBadRequest: %v", err)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  hello  ", "hello"},
		{"a\x00b\x1bc", "abc"},
		{"line1\nline2\tx", "line1\nline2\tx"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.input); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
