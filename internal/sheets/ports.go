package sheets

import (
	"context"
	"fmt"
	"time"

	"moneyman/internal/core"
)

// Entry is one journal row: what happened to which record of which user.
type Entry struct {
	Username string
	Op       string
	Expense  core.Expense
	At       time.Time
}

// Row lays the entry out in journal column order:
// timestamp, user, operation, id, date, name, category, source, amount.
func (e Entry) Row() []any {
	return []any{
		e.At.UTC().Format(time.RFC3339),
		e.Username,
		e.Op,
		e.Expense.ID,
		e.Expense.Day().String(),
		e.Expense.Name,
		e.Expense.Category,
		e.Expense.Source,
		e.Expense.Amount.StringFixed(2),
	}
}

func (e Entry) Validate() error {
	if e.Username == "" {
		return fmt.Errorf("journal entry: missing username")
	}
	if e.Op == "" {
		return fmt.Errorf("journal entry: missing operation")
	}
	return nil
}

// Ports for outbound adapters.
type (
	JournalWriter interface {
		Append(ctx context.Context, e Entry) (rowRef string, err error)
	}
)
