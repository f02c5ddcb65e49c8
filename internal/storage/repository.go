package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"

	"moneyman/internal/core"
	"moneyman/internal/query"
	"moneyman/internal/records"

	_ "modernc.org/sqlite"
)

var expenseColumns = []string{"id", "name", "category", "source", "amount", "year", "month", "date", "ts"}

// SQLiteRepository is a database shared by every user. Expense stores are
// scoped views over it.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection serializes writers and keeps pragmas in effect
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ExpenseStore returns the view over one user's expenses.
func (r *SQLiteRepository) ExpenseStore(username string) *SQLiteExpenseStore {
	return &SQLiteExpenseStore{db: r.db, username: username}
}

// Users returns the credential table.
func (r *SQLiteRepository) Users() *SQLiteUserRepository {
	return &SQLiteUserRepository{db: r.db}
}

// SQLiteExpenseStore implements ExpenseStore for one username.
type SQLiteExpenseStore struct {
	db       *sql.DB
	username string
}

func (s *SQLiteExpenseStore) owned() sq.Eq {
	return sq.Eq{"username": s.username}
}

func (s *SQLiteExpenseStore) Query(ctx context.Context, f query.Filter) (*records.ExpenseList, error) {
	q := sq.Select(expenseColumns...).
		From("expenses").
		Where(s.owned()).
		Where(sq.NotEq{"name": ""}).
		OrderBy("id")

	exact := sq.Eq{}
	if f.Year != 0 {
		exact["year"] = f.Year
	}
	if f.Month != 0 {
		exact["month"] = f.Month
	}
	if f.Day != 0 {
		exact["date"] = f.Day
	}
	if f.Category != "" {
		exact["category"] = f.Category
	}
	if f.Source != "" {
		exact["source"] = f.Source
	}
	if len(exact) > 0 {
		q = q.Where(exact)
	}

	stmt, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build expense query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query expenses: %w", core.ErrStorage, err)
	}
	defer rows.Close()

	var found []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate expenses: %w", core.ErrStorage, err)
	}

	// Name words are matched in Go so folding rules match the file backend
	return records.NewExpenseList(f.Apply(found)), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (core.Expense, error) {
	var e core.Expense
	err := row.Scan(&e.ID, &e.Name, &e.Category, &e.Source, &e.Amount, &e.Year, &e.Month, &e.Date, &e.TS)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("%w: scan expense: %w", core.ErrStorage, err)
	}
	return e, nil
}

func (s *SQLiteExpenseStore) Get(ctx context.Context, id int64) (core.Expense, error) {
	stmt, args, err := sq.Select(expenseColumns...).
		From("expenses").
		Where(s.owned()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return core.Expense{}, fmt.Errorf("build expense query: %w", err)
	}

	e, err := scanExpense(s.db.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %d: %w", id, err)
	}
	return e.WithDateStr(), nil
}

func (s *SQLiteExpenseStore) Create(ctx context.Context, in core.ExpenseInput) (int64, error) {
	e, err := core.NewExpense(in)
	if err != nil {
		return 0, err
	}

	stmt, args, err := sq.Insert("expenses").
		Columns("username", "name", "category", "source", "amount", "year", "month", "date", "ts").
		Values(s.username, e.Name, e.Category, e.Source, e.Amount, e.Year, e.Month, e.Date, e.TS).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: create expense: %w", core.ErrStorage, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: read expense id: %w", core.ErrStorage, err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"username", s.username,
		"id", id,
		"name", e.Name,
		"amount", e.Amount.String())

	return id, nil
}

func (s *SQLiteExpenseStore) Update(ctx context.Context, id int64, in core.ExpenseInput) error {
	e, err := core.NewExpense(in)
	if err != nil {
		return err
	}

	stmt, args, err := sq.Update("expenses").
		SetMap(map[string]any{
			"name":     e.Name,
			"category": e.Category,
			"source":   e.Source,
			"amount":   e.Amount,
			"year":     e.Year,
			"month":    e.Month,
			"date":     e.Date,
			"ts":       e.TS,
		}).
		Where(s.owned()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("%w: update expense %d: %w", core.ErrStorage, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		slog.DebugContext(ctx, "Update skipped, expense absent", "username", s.username, "id", id)
	}
	return nil
}

func (s *SQLiteExpenseStore) Delete(ctx context.Context, id int64) error {
	stmt, args, err := sq.Delete("expenses").
		Where(s.owned()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("%w: delete expense %d: %w", core.ErrStorage, id, err)
	}
	return nil
}

// SQLiteUserRepository implements UserRepository on the users table.
type SQLiteUserRepository struct {
	db *sql.DB
}

func (r *SQLiteUserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count users: %w", core.ErrStorage, err)
	}
	return n, nil
}

func (r *SQLiteUserRepository) Insert(ctx context.Context, users ...core.Credentials) error {
	if len(users) == 0 {
		return nil
	}
	q := sq.Insert("users").Options("OR IGNORE").Columns("username", "password", "currency")
	for _, u := range users {
		q = q.Values(u.Username, u.Password, u.Currency)
	}
	stmt, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("%w: insert users: %w", core.ErrStorage, err)
	}
	return nil
}

func (r *SQLiteUserRepository) Find(ctx context.Context, username string) (core.Credentials, error) {
	stmt, args, err := sq.Select("username", "password", "currency").
		From("users").
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return core.Credentials{}, fmt.Errorf("build user query: %w", err)
	}

	var c core.Credentials
	err = r.db.QueryRowContext(ctx, stmt, args...).Scan(&c.Username, &c.Password, &c.Currency)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Credentials{}, fmt.Errorf("user %q: %w", username, core.ErrNotFound)
	}
	if err != nil {
		return core.Credentials{}, fmt.Errorf("%w: find user: %w", core.ErrStorage, err)
	}
	return c, nil
}
