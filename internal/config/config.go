package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

type Config struct {
	Port          string `env:"PORT" envDefault:"8080"`
	Environment   string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelName  string `env:"LOG_LEVEL" envDefault:"info"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"redis"`
	RedisURL      string `env:"REDIS_URL" envDefault:"localhost:6379"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"./data/deficit-slayer.db"`
	StateKey      string `env:"STATE_KEY" envDefault:"deficit_slayer_state"`
	RosterPath    string `env:"ROSTER_PATH"` // empty uses the built-in roster

	LogLevel slog.Level `env:"-"`
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))

	switch cfg.StorageDriver {
	case StorageRedis, StorageSQLite:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q (supported: %s, %s)", cfg.StorageDriver, StorageRedis, StorageSQLite)
	}
	if strings.TrimSpace(cfg.StateKey) == "" {
		return nil, fmt.Errorf("STATE_KEY must not be empty")
	}

	return &cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
