package config

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/trivia-bank/internal/question"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "trivia-bank", cfg.Name)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, 10, cfg.Quiz.QuestionsPerPage)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 20*time.Second, cfg.GracefulShutdownTimeout)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/bank.db")
	t.Setenv("QUESTIONS_PER_PAGE", "25")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("CATEGORY_CACHE_TTL", "30s")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/bank.db", cfg.Storage.SQLitePath)
	assert.Equal(t, 25, cfg.Quiz.QuestionsPerPage)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown driver":    {"STORAGE_DRIVER": "mongo"},
		"zero page size":    {"QUESTIONS_PER_PAGE": "0"},
		"inverted range":    {"MIN_DIFFICULTY": "4", "MAX_DIFFICULTY": "2"},
		"non-numeric value": {"PG_PORT": "abc"},
	}

	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range vars {
				t.Setenv(k, v)
			}
			_, err := Load(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	p := Postgres{Host: "db", Port: 5433, User: "u", Password: "p", Database: "trivia", SSLMode: "require", MaxConns: 4}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=trivia sslmode=require", p.DSN())
	assert.Equal(t, p.DSN()+" pool_max_conns=4", p.PoolDSN())
}

func TestPostgresDSN_QuotesValues(t *testing.T) {
	tests := map[string]string{
		"empty":     "",
		"space":     "correct horse",
		"quote":     "it's",
		"backslash": `back\slash`,
		"mixed":     `a b'c\d=e`,
	}

	for name, password := range tests {
		t.Run(name, func(t *testing.T) {
			p := Postgres{Host: "db", Port: 5432, User: "trivia user", Password: password, Database: "trivia", SSLMode: "disable", MaxConns: 3}

			poolCfg, err := pgxpool.ParseConfig(p.PoolDSN())
			require.NoError(t, err)
			assert.Equal(t, password, poolCfg.ConnConfig.Password)
			assert.Equal(t, "trivia user", poolCfg.ConnConfig.User)
			assert.Equal(t, "trivia", poolCfg.ConnConfig.Database)
			assert.Equal(t, int32(3), poolCfg.MaxConns)

			connCfg, err := pgx.ParseConfig(p.DSN())
			require.NoError(t, err)
			assert.Equal(t, password, connCfg.Password)
			assert.NotContains(t, connCfg.RuntimeParams, "pool_max_conns")
		})
	}
}

func TestLoad_DifficultyRangeBounds(t *testing.T) {
	tests := []struct {
		name     string
		min, max string
		wantErr  bool
	}{
		{name: "full scale", min: "1", max: "5"},
		{name: "narrowed", min: "2", max: "4"},
		{name: "max above scale", min: "1", max: "10", wantErr: true},
		{name: "min below scale", min: "0", max: "5", wantErr: true},
		{name: "inverted", min: "4", max: "2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MIN_DIFFICULTY", tt.min)
			t.Setenv("MAX_DIFFICULTY", tt.max)

			cfg, err := Load(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.GreaterOrEqual(t, cfg.Quiz.MinDifficulty, question.DifficultyMin)
			assert.LessOrEqual(t, cfg.Quiz.MaxDifficulty, question.DifficultyMax)
		})
	}
}
