// Package app is the entry point the presentation layer calls: one method
// per user-facing operation, each scoped to an authenticated user.
package app

import (
	"context"

	"github.com/shopspring/decimal"

	"moneyman/internal/accounts"
	"moneyman/internal/core"
	"moneyman/internal/query"
	"moneyman/internal/records"
	"moneyman/internal/registry"
)

type App struct {
	accounts *accounts.Service
	stores   *registry.Registry
}

func New(accounts *accounts.Service, stores *registry.Registry) *App {
	return &App{accounts: accounts, stores: stores}
}

func (a *App) ResolveUser(ctx context.Context, username string) (core.User, error) {
	return a.accounts.Resolve(ctx, username)
}

func (a *App) VerifyCredentials(ctx context.Context, username, password string) (core.User, error) {
	return a.accounts.Verify(ctx, username, password)
}

func (a *App) QueryExpenses(ctx context.Context, user core.User, f query.Filter) (*records.ExpenseList, error) {
	store, err := a.stores.ExpenseStore(ctx, user)
	if err != nil {
		return nil, err
	}
	return store.Query(ctx, f)
}

func (a *App) GetExpense(ctx context.Context, user core.User, id int64) (core.Expense, error) {
	store, err := a.stores.ExpenseStore(ctx, user)
	if err != nil {
		return core.Expense{}, err
	}
	return store.Get(ctx, id)
}

func (a *App) CreateExpense(ctx context.Context, user core.User, in core.ExpenseInput) (int64, error) {
	store, err := a.stores.ExpenseStore(ctx, user)
	if err != nil {
		return 0, err
	}
	return store.Create(ctx, in)
}

// CreateExpenses stores several records in order and stops at the first
// failure, returning the ids created so far.
func (a *App) CreateExpenses(ctx context.Context, user core.User, ins []core.ExpenseInput) ([]int64, error) {
	store, err := a.stores.ExpenseStore(ctx, user)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(ins))
	for _, in := range ins {
		id, err := store.Create(ctx, in)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (a *App) UpdateExpense(ctx context.Context, user core.User, id int64, in core.ExpenseInput) error {
	store, err := a.stores.ExpenseStore(ctx, user)
	if err != nil {
		return err
	}
	return store.Update(ctx, id, in)
}

func (a *App) DeleteExpense(ctx context.Context, user core.User, id int64) error {
	store, err := a.stores.ExpenseStore(ctx, user)
	if err != nil {
		return err
	}
	return store.Delete(ctx, id)
}

// QueryResult is the payload of an expense search: matches in date order
// plus their total.
type QueryResult struct {
	Expenses []core.Expense `json:"expenses"`
	Total    decimal.Decimal `json:"total"`
}

func (a *App) Search(ctx context.Context, user core.User, f query.Filter) (QueryResult, error) {
	list, err := a.QueryExpenses(ctx, user, f)
	if err != nil {
		return QueryResult{}, err
	}
	return QueryResult{Expenses: list.Sorted(records.ByTS), Total: list.Total()}, nil
}

// Summary breaks the matching records down by year, month and category.
func (a *App) Summary(ctx context.Context, user core.User, f query.Filter) ([]core.YearSummary, error) {
	list, err := a.QueryExpenses(ctx, user, f)
	if err != nil {
		return nil, err
	}
	return records.Summarize(list), nil
}
