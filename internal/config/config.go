package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is loaded once at startup from the environment.
type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	DB    DBConfig
	Redis RedisConfig
	Sync  SyncConfig

	JWTSecret   string        `env:"JWT_SECRET"`
	CacheTTL    time.Duration `env:"CACHE_TTL" envDefault:"10m"`
	IngestRate  float64       `env:"INGEST_RATE" envDefault:"5"`
	IngestBurst int           `env:"INGEST_BURST" envDefault:"20"`
}

type DBConfig struct {
	Driver      string `env:"DB_DRIVER" envDefault:"postgres"`
	Host        string `env:"PG_HOST" envDefault:"localhost"`
	Port        string `env:"PG_PORT" envDefault:"5432"`
	User        string `env:"PG_USER"`
	Name        string `env:"PG_DB"`
	Password    string `env:"PG_PASSWORD"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"dispatch.db"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

type RedisConfig struct {
	Enabled  bool   `env:"REDIS_ENABLED" envDefault:"false"`
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type SyncConfig struct {
	Stream       string        `env:"SYNC_STREAM" envDefault:"maverick:sync"`
	StreamMaxLen int64         `env:"SYNC_STREAM_MAXLEN" envDefault:"100000"`
	Buffer       int           `env:"SYNC_BUFFER" envDefault:"1024"`
	Workers      int           `env:"SYNC_WORKERS" envDefault:"2"`
	SinkTimeout  time.Duration `env:"SYNC_SINK_TIMEOUT" envDefault:"3s"`
	SQLLog       bool          `env:"SYNC_SQL_LOG" envDefault:"true"`
}

// PostgresDSN builds the lib/pq + pgx compatible URL
func (c DBConfig) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.User, c.Password, c.Host, c.Port, c.Name)
}

// devJWTSecret is only reachable outside production; Validate refuses an empty secret there.
const devJWTSecret = "dispatch-dev-secret"

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = devJWTSecret
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.AppEnv == "production" && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.Sync.Buffer <= 0 {
		return fmt.Errorf("SYNC_BUFFER must be positive")
	}
	if c.Sync.Workers <= 0 {
		return fmt.Errorf("SYNC_WORKERS must be positive")
	}
	return nil
}
