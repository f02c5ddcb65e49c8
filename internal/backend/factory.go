package backend

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"moneyman/internal/accounts"
	"moneyman/internal/amqp"
	"moneyman/internal/cache"
	"moneyman/internal/core"
	"moneyman/internal/log"
	"moneyman/internal/registry"
	"moneyman/internal/services"
	"moneyman/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.FromContext(context.Background())
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// storeOpener builds the raw store for one username.
type storeOpener func(username string) storage.ExpenseStore

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	seeds, err := accounts.LoadSeeds(config.UsersSeedFile)
	if err != nil {
		return nil, fmt.Errorf("load user seeds: %w", err)
	}

	var (
		users   storage.UserRepository
		open    storeOpener
		cleanup []func() error
	)

	switch config.Type {
	case MemoryBackend:
		users = storage.NewJSONUserRepository("")
		open = func(username string) storage.ExpenseStore {
			return storage.NewJSONStore("", username)
		}
	case JSONBackend:
		users = storage.NewJSONUserRepository(filepath.Join(config.DataDir, "users.json"))
		open = func(username string) storage.ExpenseStore {
			return storage.NewJSONStore(ExpenseFile(config.DataDir, username), username)
		}
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		cleanup = append(cleanup, repo.Close)
		users = repo.Users()
		open = func(username string) storage.ExpenseStore {
			return repo.ExpenseStore(username)
		}
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	// AMQP is optional; without it stores simply do not announce changes
	var publisher services.Publisher
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without change events", log.FieldError, err)
		} else {
			publisher = client
			cleanup = append(cleanup, client.Close)
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	ttl := config.UserCacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	accountService := accounts.NewService(users, seeds, cache.NewLRUCache[string, core.User](config.UserCacheSize, ttl))

	reg := registry.New(func(ctx context.Context, username string) (storage.ExpenseStore, error) {
		return services.NewExpenseService(open(username), publisher, username), nil
	})

	f.logger.InfoContext(ctx, "Initialized backend",
		log.FieldBackend, config.Type.String(),
		"amqp_enabled", publisher != nil)

	return &BackendResult{
		Accounts: accountService,
		Registry: reg,
		Cleanup: func() error {
			var errs []error
			for i := len(cleanup) - 1; i >= 0; i-- {
				errs = append(errs, cleanup[i]())
			}
			return errors.Join(errs...)
		},
	}, nil
}

// ExpenseFile is the per-user expense document path under dataDir.
func ExpenseFile(dataDir, username string) string {
	return filepath.Join(dataDir, "expenses", username+".json")
}
