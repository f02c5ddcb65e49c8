package accounts

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyman/internal/cache"
	"moneyman/internal/core"
	"moneyman/internal/storage"
)

type countingRepo struct {
	storage.UserRepository
	finds   int
	inserts int
}

func (r *countingRepo) Find(ctx context.Context, username string) (core.Credentials, error) {
	r.finds++
	return r.UserRepository.Find(ctx, username)
}

func (r *countingRepo) Insert(ctx context.Context, users ...core.Credentials) error {
	r.inserts++
	return r.UserRepository.Insert(ctx, users...)
}

func TestResolveSeedsOnFirstAccess(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{UserRepository: storage.NewJSONUserRepository(filepath.Join(t.TempDir(), "users.json"))}
	svc := NewService(repo, DefaultSeeds(), nil)

	u, err := svc.Resolve(ctx, "udiboy")
	require.NoError(t, err)
	assert.Equal(t, core.User{Username: "udiboy", Currency: "₹"}, u)

	u, err = svc.Resolve(ctx, "himani")
	require.NoError(t, err)
	assert.Equal(t, "$", u.Currency)

	_, err = svc.Resolve(ctx, "mallory")
	assert.ErrorIs(t, err, core.ErrNotFound)

	assert.Equal(t, 1, repo.inserts)
}

func TestSeedingSkipsPopulatedCollection(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{UserRepository: storage.NewJSONUserRepository("")}
	require.NoError(t, repo.UserRepository.Insert(ctx, core.Credentials{Username: "solo", Password: "pw"}))

	svc := NewService(repo, DefaultSeeds(), nil)
	_, err := svc.Resolve(ctx, "udiboy")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Zero(t, repo.inserts)
}

func TestVerify(t *testing.T) {
	ctx := context.Background()
	svc := NewService(storage.NewJSONUserRepository(""), DefaultSeeds(), nil)

	u, err := svc.Verify(ctx, "himani", "password")
	require.NoError(t, err)
	assert.Equal(t, core.User{Username: "himani", Currency: "$"}, u)

	_, err = svc.Verify(ctx, "himani", "nope")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)

	_, err = svc.Verify(ctx, "mallory", "password")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)
}

func TestReturnedUsersHaveNoPassword(t *testing.T) {
	ctx := context.Background()
	svc := NewService(storage.NewJSONUserRepository(""), DefaultSeeds(), nil)

	resolved, err := svc.Resolve(ctx, "udiboy")
	require.NoError(t, err)
	verified, err := svc.Verify(ctx, "udiboy", "password")
	require.NoError(t, err)

	for _, u := range []core.User{resolved, verified} {
		data, err := json.Marshal(u)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "password")
	}
}

func TestResolveUsesCache(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{UserRepository: storage.NewJSONUserRepository("")}
	svc := NewService(repo, DefaultSeeds(), cache.NewLRUCache[string, core.User](8, time.Minute))

	for i := 0; i < 3; i++ {
		_, err := svc.Resolve(ctx, "udiboy")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, repo.finds)
}

func TestLoadSeeds(t *testing.T) {
	seeds, err := LoadSeeds("")
	require.NoError(t, err)
	assert.Len(t, seeds, 2)

	path := filepath.Join(t.TempDir(), "users.yaml")
	require.NoError(t, os.WriteFile(path, []byte("users:\n  - username: ana\n    password: pw\n    currency: \"€\"\n"), 0o644))
	seeds, err = LoadSeeds(path)
	require.NoError(t, err)
	assert.Equal(t, []core.Credentials{{Username: "ana", Password: "pw", Currency: "€"}}, seeds)

	require.NoError(t, os.WriteFile(path, []byte("users:\n  - password: pw\n"), 0o644))
	_, err = LoadSeeds(path)
	assert.Error(t, err)

	_, err = LoadSeeds(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
