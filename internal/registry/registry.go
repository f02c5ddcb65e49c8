// Package registry maps usernames to their expense store handles for the
// lifetime of the process.
package registry

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"moneyman/internal/core"
	"moneyman/internal/log"
	"moneyman/internal/storage"
)

// Factory builds the store handle for a username.
type Factory func(ctx context.Context, username string) (storage.ExpenseStore, error)

// Registry hands out one store per username. Handles are never evicted.
type Registry struct {
	newStore Factory

	mu     sync.Mutex
	stores map[string]storage.ExpenseStore
	group  singleflight.Group
}

func New(newStore Factory) *Registry {
	return &Registry{
		newStore: newStore,
		stores:   make(map[string]storage.ExpenseStore),
	}
}

// ExpenseStore returns the handle for user, constructing it on first use.
// Repeated calls with the same username return the identical handle.
func (r *Registry) ExpenseStore(ctx context.Context, user core.User) (storage.ExpenseStore, error) {
	if err := ValidateUsername(user.Username); err != nil {
		return nil, err
	}
	if s, ok := r.lookup(user.Username); ok {
		return s, nil
	}

	v, err, _ := r.group.Do(user.Username, func() (any, error) {
		if s, ok := r.lookup(user.Username); ok {
			return s, nil
		}
		s, err := r.newStore(ctx, user.Username)
		if err != nil {
			return nil, fmt.Errorf("open store for %s: %w", user.Username, err)
		}

		r.mu.Lock()
		r.stores[user.Username] = s
		r.mu.Unlock()

		log.FromContext(ctx).WithComponent(log.ComponentRegistry).
			DebugContext(ctx, "Opened expense store", log.FieldUsername, user.Username)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(storage.ExpenseStore), nil
}

func (r *Registry) lookup(username string) (storage.ExpenseStore, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[username]
	return s, ok
}

// Len is the number of open handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// ValidateUsername rejects names that cannot be used as a file name.
func ValidateUsername(username string) error {
	switch {
	case username == "":
		return fmt.Errorf("empty username: %w", core.ErrNotFound)
	case username == "." || username == "..",
		strings.ContainsAny(username, `/\`),
		strings.ContainsRune(username, 0):
		return fmt.Errorf("username %q: %w", username, core.ErrNotFound)
	}
	return nil
}
