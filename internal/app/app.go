package app

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/playtrivia/trivia-backend/internal/config"
	"github.com/playtrivia/trivia-backend/internal/console"
	"github.com/playtrivia/trivia-backend/internal/corpus"
	"github.com/playtrivia/trivia-backend/internal/db"
	"github.com/playtrivia/trivia-backend/internal/db/repository"
	"github.com/playtrivia/trivia-backend/internal/game"
	"github.com/playtrivia/trivia-backend/internal/logging"
	"github.com/playtrivia/trivia-backend/internal/metrics"
	"github.com/playtrivia/trivia-backend/internal/platform"
	"github.com/playtrivia/trivia-backend/internal/prompts"
	"github.com/playtrivia/trivia-backend/internal/server"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool    *pgxpool.Pool
	redis   *redis.Client
	http    *http.Server
	service *game.Service
}

// New bootstraps config, logger, Postgres, Redis, the question corpus and
// the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	pool, err := db.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	historyRepo := repository.NewHistoryRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	questions, err := loadCorpus(ctx, cfg, pool)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	logger.Info().Int("questions", questions.Len()).Msg("question corpus loaded")

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	m := metrics.New(prometheus.DefaultRegisterer)
	registry := prompts.NewDefaultRegistry(rng)
	sessions := game.NewRedisSessionStore(redisClient, cfg.Game.SessionTTL, logger)
	machine := game.NewMachine(corpus.NewDictionary(questions), rng)

	svc := game.NewService(
		questions,
		sessions,
		historyRepo,
		statsRepo,
		registry,
		machine,
		m,
		rng,
		game.ServiceOptions{
			GameLength:   cfg.Game.Length,
			WriteTimeout: cfg.Game.WriteTimeout,
		},
		logger,
	)

	verifier := platform.NewVerifier([]byte(cfg.Webhook.JWTSecret), cfg.Webhook.Issuer)
	if !verifier.Enabled() {
		logger.Warn().Msg("webhook JWT verification disabled; set WEBHOOK_JWT_SECRET in production")
	}
	webhookHandler := platform.NewHandler(svc, verifier, logger)

	var consoleHandler http.HandlerFunc
	if cfg.Env != "production" {
		consoleHandler = console.NewHandler(svc, logger).HandlePlay
		logger.Info().Msg("dev console enabled at /ws/play")
	}

	apiServer := server.NewHTTPServer(cfg, logger, pool, redisClient, webhookHandler.HandleWebhook, consoleHandler)

	return &Application{
		cfg:     cfg,
		logger:  logger,
		pool:    pool,
		redis:   redisClient,
		http:    apiServer,
		service: svc,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	// Let in-flight history and score writes land before the pool closes.
	if err := a.service.Close(shutdownCtx); err != nil {
		a.logger.Warn().Err(err).Msg("persistence writes abandoned at shutdown")
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}

// loadCorpus prefers a JSON corpus file when configured, otherwise reads
// the questions table.
func loadCorpus(ctx context.Context, cfg *config.App, pool *pgxpool.Pool) (*corpus.Corpus, error) {
	if cfg.Game.CorpusFile != "" {
		return corpus.LoadFile(cfg.Game.CorpusFile)
	}
	return corpus.Load(ctx, repository.NewCorpusRepository(pool))
}
