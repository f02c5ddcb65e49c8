package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"moneyman/internal/amqp"
	"moneyman/internal/core"
	"moneyman/internal/query"
	"moneyman/internal/records"
	"moneyman/internal/storage"
)

// Publisher announces expense changes.
type Publisher interface {
	PublishExpenseChange(ctx context.Context, msg *amqp.ExpenseChangeMessage) error
}

// ExpenseService wraps a user's store and publishes a change event after
// every successful mutation. A nil publisher disables events. Publish
// failures are logged and never fail the mutation.
type ExpenseService struct {
	store     storage.ExpenseStore
	publisher Publisher
	username  string
}

var _ storage.ExpenseStore = (*ExpenseService)(nil)

func NewExpenseService(store storage.ExpenseStore, publisher Publisher, username string) *ExpenseService {
	return &ExpenseService{store: store, publisher: publisher, username: username}
}

func (s *ExpenseService) Query(ctx context.Context, f query.Filter) (*records.ExpenseList, error) {
	return s.store.Query(ctx, f)
}

func (s *ExpenseService) Get(ctx context.Context, id int64) (core.Expense, error) {
	return s.store.Get(ctx, id)
}

func (s *ExpenseService) Create(ctx context.Context, in core.ExpenseInput) (int64, error) {
	id, err := s.store.Create(ctx, in)
	if err != nil {
		return 0, err
	}
	s.publish(ctx, amqp.NewExpenseChangeMessage(s.username, amqp.OpCreated, id))
	return id, nil
}

// Update announces the change only when a record was actually replaced.
func (s *ExpenseService) Update(ctx context.Context, id int64, in core.ExpenseInput) error {
	existed := true
	if s.publisher != nil {
		if _, err := s.store.Get(ctx, id); errors.Is(err, core.ErrNotFound) {
			existed = false
		} else if err != nil {
			return fmt.Errorf("read expense before update: %w", err)
		}
	}

	if err := s.store.Update(ctx, id, in); err != nil {
		return err
	}
	if existed {
		s.publish(ctx, amqp.NewExpenseChangeMessage(s.username, amqp.OpUpdated, id))
	}
	return nil
}

// Delete captures the record before removing it so the event can carry it.
// Deleting an absent id publishes nothing.
func (s *ExpenseService) Delete(ctx context.Context, id int64) error {
	var snapshot *core.Expense
	if s.publisher != nil {
		e, err := s.store.Get(ctx, id)
		switch {
		case err == nil:
			snapshot = &e
		case !errors.Is(err, core.ErrNotFound):
			return fmt.Errorf("read expense before delete: %w", err)
		}
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if snapshot == nil {
		return nil
	}

	msg := amqp.NewExpenseChangeMessage(s.username, amqp.OpDeleted, id)
	msg.Expense = snapshot
	s.publish(ctx, msg)
	return nil
}

func (s *ExpenseService) publish(ctx context.Context, msg *amqp.ExpenseChangeMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseChange(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense change",
			"username", msg.Username,
			"op", msg.Op,
			"id", msg.ID,
			"error", err)
	}
}
