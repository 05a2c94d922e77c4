// Package config loads runtime settings from the environment, optionally
// primed from a .env file.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"
	StorageSQLite = "sqlite"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	Storage   string        `env:"STORAGE,   default=memory"`
	SeedFile  string        `env:"SEED_FILE"`

	Mongo  MongoConfig
	Redis  RedisConfig
	SQLite SQLiteConfig
	Admin  AdminConfig
	List   ListConfig

	EventWorkers int `env:"EVENT_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=backoffice"`
}

type RedisConfig struct {
	Enabled        bool          `env:"REDIS_ENABLED,   default=false"`
	Addr           string        `env:"REDIS_ADDR,      default=localhost:6379"`
	DB             int           `env:"REDIS_DB,        default=0"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL, default=24h"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=data/backoffice.db"`
}

type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME, default=admin"`
	Password string `env:"ADMIN_PASSWORD"`
}

type ListConfig struct {
	DefaultPageSize int `env:"DEFAULT_PAGE_SIZE, default=10"`
	MaxPageSize     int `env:"MAX_PAGE_SIZE,     default=100"`
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from the process environment. A .env file in the
// working directory, when present, fills variables that are not already set.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through the given lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage {
	case StorageMemory, StorageMongo, StorageSQLite:
	default:
		return fmt.Errorf("config: STORAGE must be one of memory, mongo, sqlite; got %q", c.Storage)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}
	if c.List.DefaultPageSize < 1 || c.List.MaxPageSize < c.List.DefaultPageSize {
		return fmt.Errorf("config: need 1 <= DEFAULT_PAGE_SIZE <= MAX_PAGE_SIZE, got %d and %d",
			c.List.DefaultPageSize, c.List.MaxPageSize)
	}
	return nil
}
