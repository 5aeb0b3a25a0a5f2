package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backend selectors
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"

	RoundStoreMemory = "memory"
	RoundStoreRedis  = "redis"
)

// Config holds all configuration for the application
type Config struct {
	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Account storage
	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`
	DataDir     string `env:"DATA_DIR" envDefault:"./data"`

	// Blackjack round storage
	RoundStore    string `env:"ROUND_STORE" envDefault:"memory"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Optional round archiving
	ElasticsearchEnabled     bool   `env:"ELASTICSEARCH_ENABLED" envDefault:"false"`
	ElasticsearchURL         string `env:"ELASTICSEARCH_URL" envDefault:"http://localhost:9200"`
	ElasticsearchUsername    string `env:"ELASTICSEARCH_USERNAME"`
	ElasticsearchPassword    string `env:"ELASTICSEARCH_PASSWORD"`
	ElasticsearchIndexPrefix string `env:"ELASTICSEARCH_INDEX_PREFIX" envDefault:"kopeyka"`
}

// Load reads the configuration from a .env file (if present) and the
// environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// Only fail if the file exists but couldn't be loaded
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks the backend selectors
func (c *Config) validate() error {
	switch c.StorageType {
	case StorageMemory, StorageSQLite:
	default:
		return fmt.Errorf("STORAGE_TYPE must be %q or %q, got %q", StorageMemory, StorageSQLite, c.StorageType)
	}

	switch c.RoundStore {
	case RoundStoreMemory, RoundStoreRedis:
	default:
		return fmt.Errorf("ROUND_STORE must be %q or %q, got %q", RoundStoreMemory, RoundStoreRedis, c.RoundStore)
	}
	return nil
}

// SQLitePath returns the account database location under the data dir
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "casino.db")
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
