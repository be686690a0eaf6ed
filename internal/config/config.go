package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"flagquiz"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	LogLevel                string        `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Catalog  Catalog
	Postgres Postgres
	Redis    Redis
	Session  Session
	Game     Game
}

// Catalog selects where countries come from.
type Catalog struct {
	Source      string        `env:"CATALOG_SOURCE" envDefault:"embedded"`
	CachePrefix string        `env:"CATALOG_CACHE_PREFIX" envDefault:"catalog"`
	CacheTTL    time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"10m"`
}

// Postgres captures connection info for the catalog database.
// Only used when CATALOG_SOURCE=postgres.
type Postgres struct {
	Host     string `env:"PG_HOST" envDefault:"localhost"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER" envDefault:"flagquiz"`
	Password string `env:"PG_PASSWORD" envDefault:""`
	Database string `env:"PG_DATABASE" envDefault:"flagquiz"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"PG_MAX_CONNS" envDefault:"4"`
}

// Redis holds catalog cache configuration. An empty address disables the cache.
type Redis struct {
	Addr     string `env:"REDIS_ADDR" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
}

// Session governs player tokens and idle cleanup.
type Session struct {
	TokenSecret   string        `env:"SESSION_TOKEN_SECRET,notEmpty"`
	TokenTTL      time.Duration `env:"SESSION_TOKEN_TTL" envDefault:"24h"`
	IdleTTL       time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`
}

// Game groups gameplay tuning.
type Game struct {
	MaxDrawFactor int `env:"GAME_MAX_DRAW_FACTOR" envDefault:"64"`
}

// DSN builds a pgx connection string.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode, p.MaxConns)
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Game.MaxDrawFactor <= 0 {
		return nil, fmt.Errorf("parse config: GAME_MAX_DRAW_FACTOR must be positive, got %d", cfg.Game.MaxDrawFactor)
	}
	return cfg, nil
}
