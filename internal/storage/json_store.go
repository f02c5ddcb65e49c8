package storage

import (
	"context"
	"fmt"
	"log/slog"

	"moneyman/internal/core"
	"moneyman/internal/docstore"
	"moneyman/internal/query"
	"moneyman/internal/records"
)

// JSONStore keeps one user's expenses in a JSON document file.
type JSONStore struct {
	docs     *docstore.Collection[expenseDocument]
	username string
}

// NewJSONStore opens the collection at path. An empty path keeps the
// records in memory.
func NewJSONStore(path, username string) *JSONStore {
	docs := docstore.NewMemory[expenseDocument]()
	if path != "" {
		docs = docstore.Open[expenseDocument](path)
	}
	return &JSONStore{docs: docs, username: username}
}

func (s *JSONStore) Query(ctx context.Context, f query.Filter) (*records.ExpenseList, error) {
	entries, err := s.docs.All()
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	all := make([]core.Expense, len(entries))
	for i, e := range entries {
		all[i] = e.Doc.expense(e.ID)
	}
	matched := f.Apply(all)

	slog.DebugContext(ctx, "Queried expenses",
		"username", s.username,
		"scanned", len(all),
		"matched", len(matched))

	return records.NewExpenseList(matched), nil
}

func (s *JSONStore) Get(_ context.Context, id int64) (core.Expense, error) {
	doc, ok, err := s.docs.Get(id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, err)
	}
	if !ok {
		return core.Expense{}, fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
	}
	return doc.expense(id).WithDateStr(), nil
}

func (s *JSONStore) Create(ctx context.Context, in core.ExpenseInput) (int64, error) {
	e, err := core.NewExpense(in)
	if err != nil {
		return 0, err
	}
	ids, err := s.docs.Insert(toDocument(e))
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"username", s.username,
		"id", ids[0],
		"name", e.Name,
		"amount", e.Amount.String())

	return ids[0], nil
}

func (s *JSONStore) Update(ctx context.Context, id int64, in core.ExpenseInput) error {
	e, err := core.NewExpense(in)
	if err != nil {
		return err
	}
	replaced, err := s.docs.Replace(id, toDocument(e))
	if err != nil {
		return fmt.Errorf("update expense %d: %w", id, err)
	}
	if !replaced {
		slog.DebugContext(ctx, "Update skipped, expense absent", "username", s.username, "id", id)
	}
	return nil
}

func (s *JSONStore) Delete(ctx context.Context, id int64) error {
	removed, err := s.docs.Remove(id)
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	slog.DebugContext(ctx, "Expense delete", "username", s.username, "id", id, "removed", removed)
	return nil
}
