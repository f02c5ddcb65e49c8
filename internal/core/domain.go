package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Food          Category = "Food"
	Entertainment Category = "Entertainment"
	Travel        Category = "Travel"
	Utilities     Category = "Utilities"
	Groceries     Category = "Groceries"
	Rent          Category = "Rent"
	Family        Category = "Family"
)

type (
	Category string

	// Expense is a single stored expense record. DateStr is filled on read
	// and never persisted.
	Expense struct {
		ID       int64           `json:"id"`
		Name     string          `json:"name"`
		Category string          `json:"category"`
		Source   string          `json:"source,omitempty"`
		Amount   decimal.Decimal `json:"amount"`
		Year     int             `json:"year"`
		Month    int             `json:"month"`
		Date     int             `json:"date"`
		TS       int64           `json:"ts"`
		DateStr  string          `json:"datestr,omitempty"`
	}

	// ExpenseInput carries the raw fields of a create or update request.
	ExpenseInput struct {
		Name     string
		Category string
		Source   string
		Amount   string
		Date     string // YYYY-MM-DD or YYYY-MM
	}
)

// Categories lists the accepted expense categories in display order.
func Categories() []Category {
	return []Category{Food, Entertainment, Travel, Utilities, Groceries, Rent, Family}
}

func IsCategory(s string) bool {
	for _, c := range Categories() {
		if string(c) == s {
			return true
		}
	}
	return false
}

// NewExpense normalizes the input into a record without an id. The date is
// checked before the amount, and nothing is returned on failure.
func NewExpense(in ExpenseInput) (Expense, error) {
	d, err := ParseDate(in.Date)
	if err != nil {
		return Expense{}, err
	}
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return Expense{}, err
	}
	return Expense{
		Name:     in.Name,
		Category: in.Category,
		Source:   in.Source,
		Amount:   amount,
		Year:     d.Year,
		Month:    d.Month,
		Date:     d.Day,
		TS:       d.Timestamp(),
	}, nil
}

// Day returns the record's calendar date.
func (e Expense) Day() Date {
	return Date{Year: e.Year, Month: e.Month, Day: e.Date}
}

// WithDateStr returns a copy annotated with the display date.
func (e Expense) WithDateStr() Expense {
	e.DateStr = e.Day().String()
	return e
}

// Validate reports every problem with a form submission. Stores do not call
// it; it backs the presentation layer's form checks.
func (in ExpenseInput) Validate() error {
	var errs []error
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, ErrEmptyName)
	}
	if !IsCategory(in.Category) {
		errs = append(errs, ErrInvalidCategory)
	}
	if _, err := ParseDate(in.Date); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseAmount(in.Amount); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
