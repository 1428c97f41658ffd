package core

// DefaultCurrency is used when an account carries no currency and as the
// display currency of an empty portfolio.
const DefaultCurrency = "USD"

// Currency is a selectable account currency.
type Currency struct {
	Code  string `json:"value"`
	Label string `json:"label"`
}

var (
	incomeCategories = []string{
		"Salary",
		"Freelance",
		"Investment",
		"Gift",
		"Other",
	}

	expenseCategories = []string{
		"Food & Dining",
		"Housing",
		"Transportation",
		"Utilities",
		"Health & Fitness",
		"Shopping",
		"Entertainment",
		"Education",
		"Travel",
		"Other",
	}

	currencies = []Currency{
		{Code: "USD", Label: "$ USD"},
		{Code: "EUR", Label: "€ EUR"},
		{Code: "JPY", Label: "¥ JPY"},
		{Code: "GBP", Label: "£ GBP"},
		{Code: "VND", Label: "₫ VND"},
	}
)

// CategoriesFor returns a copy of the category list offered for a transaction
// type. Membership is a form concern; the store accepts any non-empty string.
func CategoriesFor(t TransactionType) []string {
	switch t {
	case Income:
		return append([]string(nil), incomeCategories...)
	case Expense:
		return append([]string(nil), expenseCategories...)
	default:
		return nil
	}
}

// DefaultCategory is the category picked when a form leaves it blank.
func DefaultCategory(t TransactionType) string {
	cats := CategoriesFor(t)
	if len(cats) == 0 {
		return ""
	}
	return cats[0]
}

// Currencies returns the selectable currencies.
func Currencies() []Currency {
	return append([]Currency(nil), currencies...)
}

// IsKnownCurrency reports whether code is in the currency list.
func IsKnownCurrency(code string) bool {
	for _, c := range currencies {
		if c.Code == code {
			return true
		}
	}
	return false
}
