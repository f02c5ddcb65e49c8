package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"moneyman/internal/amqp"
	"moneyman/internal/core"
	"moneyman/internal/log"
	"moneyman/internal/sheets"
)

// ExpenseReader is the slice of the application the worker needs to look
// records up again.
type ExpenseReader interface {
	ResolveUser(ctx context.Context, username string) (core.User, error)
	GetExpense(ctx context.Context, user core.User, id int64) (core.Expense, error)
}

// Stats counts what the worker did with the messages it saw.
type Stats struct {
	Written int64
	Skipped int64
	Failed  int64
}

// JournalWorker turns expense change events into journal rows.
type JournalWorker struct {
	reader  ExpenseReader
	journal sheets.JournalWriter
	logger  *log.Logger

	written atomic.Int64
	skipped atomic.Int64
	failed  atomic.Int64
}

func NewJournalWorker(reader ExpenseReader, journal sheets.JournalWriter, logger *log.Logger) *JournalWorker {
	if logger == nil {
		logger = log.FromContext(context.Background())
	}
	return &JournalWorker{
		reader:  reader,
		journal: journal,
		logger:  logger.WithComponent(log.ComponentWorker),
	}
}

// HandleChange processes a single change message from AMQP. Created and
// updated records are read back from storage so the row reflects their
// current state; a record that no longer exists is skipped. Deletions use
// the snapshot carried by the message and are skipped without one.
func (w *JournalWorker) HandleChange(ctx context.Context, msg *amqp.ExpenseChangeMessage) error {
	logger := w.logger.WithUser(msg.Username)
	logger.InfoContext(ctx, "Processing change message",
		log.FieldOperation, msg.Op,
		log.FieldExpenseID, msg.ID,
		"message_id", msg.MessageID)

	expense, err := w.resolve(ctx, msg)
	if errors.Is(err, core.ErrNotFound) {
		w.skipped.Add(1)
		logger.WarnContext(ctx, "Skipping change for missing user or record",
			log.FieldOperation, msg.Op,
			log.FieldExpenseID, msg.ID)
		return nil
	}
	if err != nil {
		w.failed.Add(1)
		logger.ErrorContext(ctx, "Failed to read expense",
			log.NewFields().WithOperation(string(msg.Op)).WithExpense(msg.Username, msg.ID).WithError(err).ToSlice()...)
		return fmt.Errorf("read expense %d: %w", msg.ID, err)
	}

	ref, err := w.journal.Append(ctx, sheets.Entry{
		Username: msg.Username,
		Op:       string(msg.Op),
		Expense:  expense,
		At:       msg.Timestamp,
	})
	if err != nil {
		w.failed.Add(1)
		return fmt.Errorf("append journal row: %w", err)
	}

	w.written.Add(1)
	logger.InfoContext(ctx, "Journaled expense change",
		log.FieldOperation, msg.Op,
		log.FieldExpenseID, msg.ID,
		log.FieldSheetsRef, ref)
	return nil
}

func (w *JournalWorker) resolve(ctx context.Context, msg *amqp.ExpenseChangeMessage) (core.Expense, error) {
	if msg.Op == amqp.OpDeleted {
		if msg.Expense == nil {
			return core.Expense{}, core.ErrNotFound
		}
		return *msg.Expense, nil
	}
	user, err := w.reader.ResolveUser(ctx, msg.Username)
	if err != nil {
		return core.Expense{}, err
	}
	return w.reader.GetExpense(ctx, user, msg.ID)
}

func (w *JournalWorker) Stats() Stats {
	return Stats{
		Written: w.written.Load(),
		Skipped: w.skipped.Load(),
		Failed:  w.failed.Load(),
	}
}
