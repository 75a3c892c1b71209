package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Supported persistence backends.
const (
	DriverFile   = "file"
	DriverMongo  = "mongo"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

type Config struct {
	Env             string `env:"ENV,              default=development"`
	LogLevel        string `env:"LOG_LEVEL,        default=info"`
	BcryptCost      int    `env:"BCRYPT_COST,      default=10"`
	MetricsTextfile string `env:"METRICS_TEXTFILE"`

	Store StoreConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type StoreConfig struct {
	Driver     string        `env:"STORE_DRIVER,  default=file"`
	DataDir    string        `env:"DATA_DIR,      default=./data"`
	SQLitePath string        `env:"SQLITE_PATH,   default=./data/event-console.db"`
	Timeout    time.Duration `env:"STORE_TIMEOUT, default=10s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=event_console"`
}

type RedisConfig struct {
	Addr   string `env:"REDIS_ADDR,   default=localhost:6379"`
	DB     int    `env:"REDIS_DB,     default=0"`
	Prefix string `env:"REDIS_PREFIX, default=event-console"`
}

// IsDevelopment reports whether human-friendly output should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
// Variables from envFiles (default ".env") are applied first without
// overriding the real environment; a missing file is not an error.
func Load(ctx context.Context, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}

	switch cfg.Store.Driver {
	case DriverFile, DriverMongo, DriverRedis, DriverSQLite:
	default:
		return nil, fmt.Errorf("config: unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
	return &cfg, nil
}
