package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyman/internal/config"
	"moneyman/internal/core"
	"moneyman/internal/query"
)

func TestCreateBackend(t *testing.T) {
	dir := t.TempDir()
	configs := map[string]Config{
		"memory": {Type: MemoryBackend},
		"json":   {Type: JSONBackend, DataDir: filepath.Join(dir, "data")},
		"sqlite": {Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "db", "moneyman.db")},
	}

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			res, err := NewFactory(nil).CreateBackend(ctx, cfg)
			require.NoError(t, err)
			defer func() { assert.NoError(t, res.Cleanup()) }()

			u, err := res.Accounts.Resolve(ctx, "udiboy")
			require.NoError(t, err)

			store, err := res.Registry.ExpenseStore(ctx, u)
			require.NoError(t, err)
			id, err := store.Create(ctx, core.ExpenseInput{Name: "Tea", Category: "Food", Amount: "2", Date: "2021-06-01"})
			require.NoError(t, err)

			list, err := store.Query(ctx, query.Filter{Name: "tea"})
			require.NoError(t, err)
			require.Equal(t, 1, list.Len())
			assert.Equal(t, id, list.Items()[0].ID)
		})
	}
}

func TestJSONBackendFileLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	res, err := NewFactory(nil).CreateBackend(ctx, Config{Type: JSONBackend, DataDir: dir})
	require.NoError(t, err)

	u, err := res.Accounts.Resolve(ctx, "himani")
	require.NoError(t, err)
	store, err := res.Registry.ExpenseStore(ctx, u)
	require.NoError(t, err)
	_, err = store.Create(ctx, core.ExpenseInput{Name: "Bus", Category: "Travel", Amount: "3", Date: "2021-06-01"})
	require.NoError(t, err)

	for _, p := range []string{filepath.Join(dir, "users.json"), ExpenseFile(dir, "himani")} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
}

func TestCreateBackendRejectsInvalidConfig(t *testing.T) {
	_, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: "sheets"})
	assert.Error(t, err)
	_, err = NewFactory(nil).CreateBackend(context.Background(), Config{Type: JSONBackend})
	assert.Error(t, err)
}

func TestFromAppConfig(t *testing.T) {
	cfg := &config.Config{DataBackend: "sqlite", SQLiteDBPath: "x.db", UserCacheSize: 3}
	bc, err := FromAppConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, SQLiteBackend, bc.Type)
	assert.Equal(t, "x.db", bc.SQLiteDBPath)
	assert.Equal(t, 3, bc.UserCacheSize)

	_, err = FromAppConfig(&config.Config{DataBackend: "nope"})
	assert.Error(t, err)
	_, err = FromAppConfig(nil)
	assert.Error(t, err)
}
