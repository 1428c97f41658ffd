package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// DateLayout is the storage and wire layout for transaction dates.
const DateLayout = "2006-01-02"

type (
	TransactionType string

	Date struct {
		time.Time
	}

	Account struct {
		ID             string          `json:"id"`
		Name           string          `json:"name"`
		InitialBalance decimal.Decimal `json:"initialBalance"`
		Currency       string          `json:"currency"`
	}

	Transaction struct {
		ID          string          `json:"id"`
		Type        TransactionType `json:"type"`
		Amount      decimal.Decimal `json:"amount"` // magnitude, sign comes from Type
		Category    string          `json:"category"`
		Date        Date            `json:"date"`
		Description string          `json:"description"`
		AccountID   string          `json:"accountId"`
	}

	// AppState is the whole persisted state: two ordered sequences.
	AppState struct {
		Accounts     []Account     `json:"accounts"`
		Transactions []Transaction `json:"transactions"`
	}
)

var (
	ErrEmptyID         = errors.New("empty id")
	ErrEmptyName       = errors.New("empty account name")
	ErrEmptyCurrency   = errors.New("empty currency")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrEmptyCategory   = errors.New("empty category")
	ErrEmptyAccountRef = errors.New("empty account reference")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) Date {
	t = t.UTC()
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate accepts YYYY-MM-DD as well as full RFC 3339 timestamps.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DateOf(t), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return DateOf(t), nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// IsValid reports whether t is one of the two transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense:
		return true
	default:
		return false
	}
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(a.Currency) == "" {
		return ErrEmptyCurrency
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.AccountID) == "" {
		return ErrEmptyAccountRef
	}
	return nil
}

// Signed returns the amount with the sign implied by the transaction type.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Income {
		return t.Amount
	}
	return t.Amount.Neg()
}

// Clone returns a copy whose sequences share no backing arrays with s.
func (s AppState) Clone() AppState {
	return AppState{
		Accounts:     append([]Account{}, s.Accounts...),
		Transactions: append([]Transaction{}, s.Transactions...),
	}
}

// FindAccount returns the account with the given id.
func (s AppState) FindAccount(id string) (Account, bool) {
	for _, a := range s.Accounts {
		if a.ID == id {
			return a, true
		}
	}
	return Account{}, false
}

// FindTransaction returns the transaction with the given id.
func (s AppState) FindTransaction(id string) (Transaction, bool) {
	for _, t := range s.Transactions {
		if t.ID == id {
			return t, true
		}
	}
	return Transaction{}, false
}

// Equal reports whether a and b hold the same values. Amounts are compared
// numerically, so 1.50 equals 1.5.
func (a Account) Equal(b Account) bool {
	return a.ID == b.ID &&
		a.Name == b.Name &&
		a.InitialBalance.Equal(b.InitialBalance) &&
		a.Currency == b.Currency
}

// Equal reports whether t and o hold the same values.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID &&
		t.Type == o.Type &&
		t.Amount.Equal(o.Amount) &&
		t.Category == o.Category &&
		t.Date.Equal(o.Date.Time) &&
		t.Description == o.Description &&
		t.AccountID == o.AccountID
}

// Equal reports whether both states hold equal entries in the same order.
func (s AppState) Equal(o AppState) bool {
	if len(s.Accounts) != len(o.Accounts) || len(s.Transactions) != len(o.Transactions) {
		return false
	}
	for i := range s.Accounts {
		if !s.Accounts[i].Equal(o.Accounts[i]) {
			return false
		}
	}
	for i := range s.Transactions {
		if !s.Transactions[i].Equal(o.Transactions[i]) {
			return false
		}
	}
	return true
}
