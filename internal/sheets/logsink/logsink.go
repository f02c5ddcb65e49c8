// Package logsink is a journal writer that only logs. It is the fallback
// when no spreadsheet is configured.
package logsink

import (
	"context"
	"fmt"
	"sync/atomic"

	"moneyman/internal/log"
	"moneyman/internal/sheets"
)

type Writer struct {
	logger *log.Logger
	rows   atomic.Int64
}

var _ sheets.JournalWriter = (*Writer)(nil)

func New(logger *log.Logger) *Writer {
	if logger == nil {
		logger = log.FromContext(context.Background())
	}
	return &Writer{logger: logger.WithComponent(log.ComponentJournal)}
}

func (w *Writer) Append(ctx context.Context, e sheets.Entry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	n := w.rows.Add(1)
	w.logger.InfoContext(ctx, "Journal entry",
		log.FieldUsername, e.Username,
		log.FieldOperation, e.Op,
		log.FieldExpenseID, e.Expense.ID,
		"date", e.Expense.Day().String(),
		"name", e.Expense.Name,
		log.FieldAmount, e.Expense.Amount.StringFixed(2))
	return fmt.Sprintf("log:%d", n), nil
}
