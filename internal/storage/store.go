// Package storage persists expense records and user credentials.
package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"moneyman/internal/core"
	"moneyman/internal/query"
	"moneyman/internal/records"
)

// ExpenseStore is one user's expense collection.
type ExpenseStore interface {
	// Query returns the records matching f in id order.
	Query(ctx context.Context, f query.Filter) (*records.ExpenseList, error)
	// Get returns the record annotated with its display date, or
	// core.ErrNotFound.
	Get(ctx context.Context, id int64) (core.Expense, error)
	// Create normalizes in and stores it under a fresh id.
	Create(ctx context.Context, in core.ExpenseInput) (int64, error)
	// Update replaces the whole record. An absent id is left absent.
	Update(ctx context.Context, id int64, in core.ExpenseInput) error
	// Delete removes the record if present.
	Delete(ctx context.Context, id int64) error
}

// UserRepository holds the shared credential records.
type UserRepository interface {
	Count(ctx context.Context) (int, error)
	Insert(ctx context.Context, users ...core.Credentials) error
	// Find returns core.ErrNotFound for unknown usernames.
	Find(ctx context.Context, username string) (core.Credentials, error)
}

// expenseDocument is the persisted shape of an expense. The id is the
// collection key and datestr is derived on read.
type expenseDocument struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Source   string          `json:"source,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
	Year     int             `json:"year"`
	Month    int             `json:"month"`
	Date     int             `json:"date"`
	TS       int64           `json:"ts"`
}

func toDocument(e core.Expense) expenseDocument {
	return expenseDocument{
		Name:     e.Name,
		Category: e.Category,
		Source:   e.Source,
		Amount:   e.Amount,
		Year:     e.Year,
		Month:    e.Month,
		Date:     e.Date,
		TS:       e.TS,
	}
}

func (d expenseDocument) expense(id int64) core.Expense {
	return core.Expense{
		ID:       id,
		Name:     d.Name,
		Category: d.Category,
		Source:   d.Source,
		Amount:   d.Amount,
		Year:     d.Year,
		Month:    d.Month,
		Date:     d.Date,
		TS:       d.TS,
	}
}
