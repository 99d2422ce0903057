package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-bank/internal/config"
	"github.com/gokatarajesh/trivia-bank/internal/db/memory"
	"github.com/gokatarajesh/trivia-bank/internal/db/repository"
	"github.com/gokatarajesh/trivia-bank/internal/db/sqlite"
	"github.com/gokatarajesh/trivia-bank/internal/logging"
	"github.com/gokatarajesh/trivia-bank/internal/question"
	"github.com/gokatarajesh/trivia-bank/internal/server"
)

// Store is a question store that can report readiness.
type Store interface {
	question.Store
	question.ImportStore
	server.Pinger
}

// Application aggregates shared infrastructure (storage, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	store   Store
	redis   *redis.Client
	http    *http.Server
	closers []func() error

	warmer    *question.CacheWarmer
	bgCancels []context.CancelFunc
}

// New bootstraps logger, storage, the optional Redis cache and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env, cfg.LogLevel)
	logger.Info().Str("storage", cfg.Storage.Driver).Msg("starting application bootstrap")

	store, closers, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	a := &Application{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		closers:   closers,
		bgCancels: make([]context.CancelFunc, 0, 1),
	}

	checks := map[string]server.Pinger{"storage": store}

	var cache question.CategoryCache
	if cfg.Redis.Addr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		redisCache := question.NewCache(a.redis, cfg.Redis.CacheTTL)
		cache = redisCache
		checks["cache"] = redisCache
		a.warmer = question.NewCacheWarmer(store, redisCache, cfg.Redis.CacheRefresh, logger)
	} else {
		logger.Warn().Msg("REDIS_ADDR not set; category cache disabled")
	}

	svc := question.NewService(store, cache, logger, question.ServiceOptions{
		PageSize:      cfg.Quiz.QuestionsPerPage,
		MinDifficulty: cfg.Quiz.MinDifficulty,
		MaxDifficulty: cfg.Quiz.MaxDifficulty,
	})
	handlers := question.NewHTTPHandlers(svc, logger)

	a.http = server.NewHTTPServer(cfg, logger, handlers, checks)
	return a, nil
}

// OpenStore connects the storage backend selected by cfg.Storage.Driver.
// The returned closers release it.
func OpenStore(ctx context.Context, cfg *config.App, logger zerolog.Logger) (Store, []func() error, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.Postgres.PoolDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		closePool := func() error { pool.Close(); return nil }
		return repository.NewStore(pool), []func() error{closePool}, nil
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		return store, []func() error{store.Close}, nil
	case config.DriverMemory:
		logger.Warn().Msg("using in-memory storage; data is lost on restart")
		return memory.NewSeededStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	a.shutdown()
	return runErr
}

func (a *Application) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	for _, cancel := range a.bgCancels {
		cancel()
	}

	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Error().Err(err).Msg("storage shutdown error")
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}

	a.logger.Info().Msg("shutdown complete")
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	if a.warmer == nil {
		return
	}
	bgCtx, cancel := context.WithCancel(ctx)
	a.bgCancels = append(a.bgCancels, cancel)
	go func() {
		if err := a.warmer.Run(bgCtx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Warn().Err(err).Msg("category cache warmer stopped")
		}
	}()
}
