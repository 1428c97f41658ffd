// Package http provides the JSON API server and its handlers.
//
// This file implements decoding of request bodies into domain values. It
// applies the defaults a form would apply: blank category, currency and date
// fall back to the first category of the type, the default currency and
// today.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

var errBadRequest = errors.New("bad request")

// amountField accepts a JSON number or a string such as "12,34". Parsing is
// deferred so the caller decides between signed and magnitude rules.
type amountField struct {
	raw string
	set bool
}

func (a *amountField) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	a.raw, a.set = s, true
	return nil
}

type accountRequest struct {
	Name           string      `json:"name"`
	InitialBalance amountField `json:"initialBalance"`
	Currency       string      `json:"currency"`
}

type transactionRequest struct {
	Type        string      `json:"type"`
	Amount      amountField `json:"amount"`
	Category    string      `json:"category"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
	AccountID   string      `json:"accountId"`
}

// decodeJSON reads a single JSON object from the body, capped at
// maxBodyBytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON object", errBadRequest)
	}
	return nil
}

// toAccount builds an account with the given id. A missing initial balance
// is zero; a blank currency is the default currency. Only currencies from
// core.Currencies are accepted.
func (req accountRequest) toAccount(id string) (core.Account, error) {
	balance := decimal.Zero
	if req.InitialBalance.set {
		d, err := core.ParseAmount(req.InitialBalance.raw)
		if err != nil {
			return core.Account{}, err
		}
		balance = d
	}

	currency := strings.ToUpper(sanitizeInput(req.Currency))
	if currency == "" {
		currency = core.DefaultCurrency
	}
	if !core.IsKnownCurrency(currency) {
		return core.Account{}, fmt.Errorf("%w: unsupported currency %q", errBadRequest, currency)
	}

	return core.Account{
		ID:             id,
		Name:           sanitizeInput(req.Name),
		InitialBalance: balance,
		Currency:       currency,
	}, nil
}

// toTransaction builds a transaction with the given id. The amount is
// required and must not be negative. An omitted date takes fallback.
func (req transactionRequest) toTransaction(id string, fallback core.Date) (core.Transaction, error) {
	txType := core.TransactionType(strings.ToLower(sanitizeInput(req.Type)))
	if txType == "" {
		txType = core.Expense
	}
	if !txType.IsValid() {
		return core.Transaction{}, core.ErrInvalidType
	}

	if !req.Amount.set {
		return core.Transaction{}, core.ErrInvalidAmount
	}
	amount, err := core.ParseMagnitude(req.Amount.raw)
	if err != nil {
		return core.Transaction{}, err
	}

	category := sanitizeInput(req.Category)
	if category == "" {
		category = core.DefaultCategory(txType)
	}

	date := fallback
	if v := sanitizeInput(req.Date); v != "" {
		if date, err = core.ParseDate(v); err != nil {
			return core.Transaction{}, err
		}
	}

	return core.Transaction{
		ID:          id,
		Type:        txType,
		Amount:      amount,
		Category:    category,
		Date:        date,
		Description: sanitizeInput(req.Description),
		AccountID:   sanitizeInput(req.AccountID),
	}, nil
}

// sanitizeInput removes control characters other than tab and newlines and
// trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
