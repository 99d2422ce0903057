package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/gokatarajesh/trivia-bank/internal/question"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"trivia-bank"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	LogLevel                string        `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Storage  Storage
	Postgres Postgres
	Redis    Redis
	Quiz     Quiz
	CORS     CORS
	Seeder   Seeder
}

// Storage selects the persistence backend.
type Storage struct {
	Driver     string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"trivia.db"`
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST" envDefault:"localhost"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER" envDefault:"postgres"`
	Password string `env:"PG_PASSWORD" envDefault:""`
	Database string `env:"PG_DATABASE" envDefault:"trivia"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"PG_MAX_CONNS" envDefault:"10"`
}

// DSN renders the keyword/value connection string understood by pgx.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dsnValue(p.Host), p.Port, dsnValue(p.User), dsnValue(p.Password),
		dsnValue(p.Database), dsnValue(p.SSLMode))
}

// PoolDSN is DSN plus the pgxpool sizing keyword. Plain pgx connections would
// forward pool_max_conns to the server, so only pgxpool should receive it.
func (p Postgres) PoolDSN() string {
	return fmt.Sprintf("%s pool_max_conns=%d", p.DSN(), p.MaxConns)
}

// dsnValue single-quotes v when it is empty or holds whitespace, quotes or
// backslashes, escaping the latter two.
func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " \t\n\r'\\") {
		return v
	}
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v) + "'"
}

// Redis holds category cache configuration. An empty Addr disables caching.
type Redis struct {
	Addr         string        `env:"REDIS_ADDR" envDefault:""`
	DB           int           `env:"REDIS_DB" envDefault:"0"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"20"`
	CacheTTL     time.Duration `env:"CATEGORY_CACHE_TTL" envDefault:"5m"`
	CacheRefresh time.Duration `env:"CATEGORY_CACHE_REFRESH" envDefault:"1m"`
}

// Quiz groups listing and validation defaults.
type Quiz struct {
	QuestionsPerPage int `env:"QUESTIONS_PER_PAGE" envDefault:"10"`
	MinDifficulty    int `env:"MIN_DIFFICULTY" envDefault:"1"`
	MaxDifficulty    int `env:"MAX_DIFFICULTY" envDefault:"5"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,PUT,POST,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Seeder configures the external question importers.
type Seeder struct {
	OpenTDBURL   string        `env:"OPENTDB_URL" envDefault:"https://opentdb.com"`
	TriviaAPIURL string        `env:"TRIVIA_API_URL" envDefault:"https://the-trivia-api.com/v2"`
	TriviaAPIKey string        `env:"TRIVIA_API_KEY" envDefault:""`
	Amount       int           `env:"SEED_AMOUNT" envDefault:"50"`
	HTTPTimeout  time.Duration `env:"SEED_HTTP_TIMEOUT" envDefault:"10s"`

	GeneratorURL      string `env:"AI_GENERATOR_URL" envDefault:""`
	GeneratorKey      string `env:"AI_GENERATOR_KEY" envDefault:""`
	GeneratorCategory string `env:"AI_GENERATOR_CATEGORY" envDefault:"General Knowledge"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *App) validate() error {
	switch c.Storage.Driver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("parse config: unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Quiz.QuestionsPerPage <= 0 {
		return fmt.Errorf("parse config: QUESTIONS_PER_PAGE must be positive")
	}
	if c.Quiz.MinDifficulty < question.DifficultyMin ||
		c.Quiz.MaxDifficulty > question.DifficultyMax ||
		c.Quiz.MaxDifficulty < c.Quiz.MinDifficulty {
		return fmt.Errorf("parse config: difficulty range %d..%d must lie within %d..%d",
			c.Quiz.MinDifficulty, c.Quiz.MaxDifficulty, question.DifficultyMin, question.DifficultyMax)
	}
	return nil
}
