// Package accounts resolves and verifies users against the shared
// credential collection. Returned users never carry a password.
package accounts

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"

	"moneyman/internal/cache"
	"moneyman/internal/core"
	"moneyman/internal/log"
	"moneyman/internal/storage"
)

// Service looks up users and seeds the collection on first use.
type Service struct {
	repo  storage.UserRepository
	seeds []core.Credentials
	cache cache.Cache[string, core.User]

	seedMu sync.Mutex
	seeded bool
}

// NewService wires a repository with the seed accounts. users may be nil to
// disable caching.
func NewService(repo storage.UserRepository, seeds []core.Credentials, users cache.Cache[string, core.User]) *Service {
	return &Service{repo: repo, seeds: seeds, cache: users}
}

func (s *Service) ensureSeeded(ctx context.Context) error {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()

	if s.seeded {
		return nil
	}
	n, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n == 0 && len(s.seeds) > 0 {
		if err := s.repo.Insert(ctx, s.seeds...); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		s.logger(ctx).InfoContext(ctx, "Seeded user collection", "users", len(s.seeds))
	}
	s.seeded = true
	return nil
}

// Resolve returns the user or core.ErrNotFound.
func (s *Service) Resolve(ctx context.Context, username string) (core.User, error) {
	if s.cache != nil {
		if u, ok := s.cache.Get(username); ok {
			return u, nil
		}
	}
	if err := s.ensureSeeded(ctx); err != nil {
		return core.User{}, err
	}

	creds, err := s.repo.Find(ctx, username)
	if err != nil {
		return core.User{}, err
	}
	u := creds.Public()
	if s.cache != nil {
		s.cache.Set(username, u)
	}
	return u, nil
}

// Verify checks a username and password pair. Unknown users and wrong
// passwords both yield core.ErrInvalidCredentials.
func (s *Service) Verify(ctx context.Context, username, password string) (core.User, error) {
	if err := s.ensureSeeded(ctx); err != nil {
		return core.User{}, err
	}

	creds, err := s.repo.Find(ctx, username)
	if errors.Is(err, core.ErrNotFound) {
		s.logger(ctx).InfoContext(ctx, "Credential check failed", log.FieldUsername, username, "reason", "unknown user")
		return core.User{}, core.ErrInvalidCredentials
	}
	if err != nil {
		return core.User{}, err
	}
	if subtle.ConstantTimeCompare([]byte(creds.Password), []byte(password)) != 1 {
		s.logger(ctx).InfoContext(ctx, "Credential check failed", log.FieldUsername, username, "reason", "password mismatch")
		return core.User{}, core.ErrInvalidCredentials
	}
	return creds.Public(), nil
}

func (s *Service) logger(ctx context.Context) *log.Logger {
	return log.FromContext(ctx).WithComponent(log.ComponentAccounts)
}
