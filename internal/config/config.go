package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"trivia-backend"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres Postgres
	Redis    Redis
	Webhook  Webhook
	Game     Game
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
}

// Redis holds session store configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Webhook configures the conversational-platform boundary.
type Webhook struct {
	// JWTSecret verifies the platform's signed requests. Empty disables
	// verification, intended for local development only.
	JWTSecret string `env:"WEBHOOK_JWT_SECRET"`
	Issuer    string `env:"WEBHOOK_JWT_ISSUER" envDefault:"assistant-platform"`
}

// Game groups gameplay defaults.
type Game struct {
	Length       int           `env:"GAME_LENGTH" envDefault:"4"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	WriteTimeout time.Duration `env:"PERSISTENCE_WRITE_TIMEOUT" envDefault:"5s"`
	// CorpusFile points at a JSON question file used instead of the
	// questions table when set.
	CorpusFile string `env:"CORPUS_FILE"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
