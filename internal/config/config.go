package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StorageInMemory = "in-memory"
	StoragePostgres = "postgres"
)

// Config - настройки хранилища черновиков из переменных окружения.
type Config struct {
	Storage     string `env:"DRAFTS_STORAGE" envDefault:"in-memory"`
	DatabaseURL string `env:"DATABASE_URL"`
	DB          DB     `envPrefix:"DRAFTS_DB_"`
}

// DB - настройки пула соединений и gorm.
type DB struct {
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"30m"`
	AutoMigrate     bool          `env:"AUTO_MIGRATE" envDefault:"true"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"warn"`
}

// Parse читает конфигурацию из окружения без проверки, чтобы ее можно было
// дополнить флагами командной строки до вызова Validate.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Load читает конфигурацию из окружения и проверяет ее.
func Load() (Config, error) {
	cfg, err := Parse()
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Storage {
	case StorageInMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL must be set for postgres storage")
		}
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage)
	}
	if c.DB.MaxOpenConns < 0 || c.DB.MaxIdleConns < 0 {
		return errors.New("connection pool sizes cannot be negative")
	}
	switch c.DB.LogLevel {
	case "silent", "error", "warn", "info":
	default:
		return fmt.Errorf("unknown db log level %q", c.DB.LogLevel)
	}
	return nil
}
