package storage

import (
	"context"
	"fmt"

	"moneyman/internal/core"
	"moneyman/internal/docstore"
)

// JSONUserRepository keeps credentials in a shared JSON document file.
type JSONUserRepository struct {
	docs *docstore.Collection[core.Credentials]
}

// NewJSONUserRepository opens the collection at path, or an in-memory one
// when path is empty.
func NewJSONUserRepository(path string) *JSONUserRepository {
	docs := docstore.NewMemory[core.Credentials]()
	if path != "" {
		docs = docstore.Open[core.Credentials](path)
	}
	return &JSONUserRepository{docs: docs}
}

func (r *JSONUserRepository) Count(_ context.Context) (int, error) {
	return r.docs.Len()
}

func (r *JSONUserRepository) Insert(_ context.Context, users ...core.Credentials) error {
	if _, err := r.docs.Insert(users...); err != nil {
		return fmt.Errorf("insert users: %w", err)
	}
	return nil
}

func (r *JSONUserRepository) Find(_ context.Context, username string) (core.Credentials, error) {
	found, err := r.docs.Search(func(c core.Credentials) bool { return c.Username == username })
	if err != nil {
		return core.Credentials{}, fmt.Errorf("find user: %w", err)
	}
	if len(found) == 0 {
		return core.Credentials{}, fmt.Errorf("user %q: %w", username, core.ErrNotFound)
	}
	return found[0].Doc, nil
}
