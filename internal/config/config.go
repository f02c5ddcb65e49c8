package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Storage
	DataBackend   string
	DataDir       string
	SQLiteDBPath  string
	UsersSeedFile string

	// Accounts
	UserCacheSize int
	UserCacheTTL  time.Duration

	// AMQP change events
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets journal
	GoogleSpreadsheetID string
	GoogleJournalSheet  string

	// Process
	LogLevel        string
	ShutdownTimeout time.Duration
}

var (
	validBackends  = []string{"memory", "json", "sqlite"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

func Load() *Config {
	return &Config{
		DataBackend:   getEnv("DATA_BACKEND", "json"),
		DataDir:       getEnv("DATA_DIR", "./data"),
		SQLiteDBPath:  getEnv("SQLITE_DB_PATH", "./data/moneyman.db"),
		UsersSeedFile: getEnv("USERS_SEED_FILE", ""),

		UserCacheSize: getEnvInt("USER_CACHE_SIZE", 64),
		UserCacheTTL:  getEnvDuration("USER_CACHE_TTL", 5*time.Minute),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "moneyman"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "expense_changes"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleJournalSheet:  getEnv("GOOGLE_JOURNAL_SHEET", "Journal"),

		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}
	if c.DataBackend == "json" && c.DataDir == "" {
		errors = append(errors, "data directory cannot be empty when using json backend")
	}
	if c.DataBackend == "sqlite" && c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
	}

	if c.UsersSeedFile != "" {
		if _, err := os.Stat(c.UsersSeedFile); err != nil {
			errors = append(errors, fmt.Sprintf("users seed file '%s' is not readable: %v", c.UsersSeedFile, err))
		}
	}

	if c.UserCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid user cache size %d: must be at least 1", c.UserCacheSize))
	}
	if c.UserCacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("invalid user cache ttl %v: must be positive", c.UserCacheTTL))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.GoogleSpreadsheetID != "" && c.GoogleJournalSheet == "" {
		errors = append(errors, "Google journal sheet name is required when a spreadsheet ID is set")
	}

	if !slices.Contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLogLevels))
	}
	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
