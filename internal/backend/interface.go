package backend

import (
	"context"
	"time"

	"moneyman/internal/accounts"
	"moneyman/internal/registry"
)

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// BackendResult carries everything the application needs from storage.
type BackendResult struct {
	Accounts *accounts.Service
	Registry *registry.Registry
	Cleanup  CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// json backend: <DataDir>/users.json and <DataDir>/expenses/<user>.json
	DataDir string

	// sqlite backend
	SQLiteDBPath string

	// AMQP change events, optional for every backend
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	UsersSeedFile string
	UserCacheSize int
	UserCacheTTL  time.Duration
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	JSONBackend   BackendType = "json"
	SQLiteBackend BackendType = "sqlite"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, JSONBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
