package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/trivia-bank/internal/app"
	"github.com/gokatarajesh/trivia-bank/internal/config"
	"github.com/gokatarajesh/trivia-bank/internal/logging"
	"github.com/gokatarajesh/trivia-bank/internal/question"
	"github.com/gokatarajesh/trivia-bank/internal/question/ai"
	"github.com/gokatarajesh/trivia-bank/internal/question/external"
)

func main() {
	sourcesFlag := flag.String("sources", "opentdb,triviaapi", "Comma separated sources: opentdb, triviaapi, generator")
	amount := flag.Int("amount", 0, "Questions to request per source (overrides SEED_AMOUNT)")
	flag.Parse()

	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load("configs/.env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger := logging.New(cfg.Name+"-seeder", cfg.Env, cfg.LogLevel)

	store, closers, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open storage")
	}
	defer func() {
		for _, closeFn := range closers {
			_ = closeFn()
		}
	}()

	var cache question.CategoryCache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		defer client.Close()
		cache = question.NewCache(client, cfg.Redis.CacheTTL)
	}

	httpClient := &http.Client{Timeout: cfg.Seeder.HTTPTimeout}
	var sources []question.Source
	for _, name := range strings.Split(*sourcesFlag, ",") {
		switch strings.TrimSpace(name) {
		case "opentdb":
			sources = append(sources, external.NewOpenTDBClient(cfg.Seeder.OpenTDBURL, httpClient))
		case "triviaapi":
			sources = append(sources, external.NewTriviaAPIClient(cfg.Seeder.TriviaAPIURL, cfg.Seeder.TriviaAPIKey, httpClient))
		case "generator":
			sources = append(sources, ai.NewGenerator(ai.Config{
				GeneratorURL: cfg.Seeder.GeneratorURL,
				GeneratorKey: cfg.Seeder.GeneratorKey,
				Category:     cfg.Seeder.GeneratorCategory,
				Timeout:      cfg.Seeder.HTTPTimeout,
			}, logger))
		case "":
		default:
			logger.Fatal().Str("source", name).Msg("unknown source")
		}
	}
	if len(sources) == 0 {
		logger.Fatal().Msg("no sources selected")
	}

	n := cfg.Seeder.Amount
	if *amount > 0 {
		n = *amount
	}

	report, err := question.NewImporter(store, cache, logger).Import(ctx, n, sources...)
	if err != nil {
		logger.Fatal().Err(err).Msg("import failed")
	}
	logger.Info().
		Int("categories", report.Categories).
		Int("inserted", report.Inserted).
		Int("skipped", report.Skipped).
		Msg("import complete")
}
