package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all service configuration, read from the environment with an
// optional .env file for local runs. Secrets only ever come from env.
type Config struct {
	Env        string `env:"APP_ENV" env-default:"development"`
	ListenAddr string `env:"LISTEN_ADDR" env-default:":8080"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrateOnStart applies pending goose migrations before serving.
	MigrateOnStart bool `env:"MIGRATE_ON_START" env-default:"true"`

	// ScanEngineURL is the base URL of the external accessibility scan
	// engine (axe runner service).
	ScanEngineURL string `env:"SCAN_ENGINE_URL" env-default:"http://localhost:4000"`

	// ScanTimeout bounds a single scan round-trip; the engine can otherwise
	// block indefinitely on an unreachable target URL.
	ScanTimeout time.Duration `env:"SCAN_TIMEOUT" env-default:"30s"`

	// RedisAddr enables the guideline-catalog cache when set (host:port).
	// Empty disables caching and the catalog is read from Postgres.
	RedisAddr       string        `env:"REDIS_ADDR" env-default:""`
	RedisPassword   string        `env:"REDIS_PASSWORD" env-default:""`
	RedisDB         int           `env:"REDIS_DB" env-default:"0"`
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" env-default:"1h"`
}

// Load reads configuration from the environment, loading .env first if one
// exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.ScanTimeout <= 0 {
		return nil, fmt.Errorf("SCAN_TIMEOUT must be positive")
	}
	return cfg, nil
}
