package server

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-bank/internal/config"
	"github.com/gokatarajesh/trivia-bank/internal/question"
	httperrors "github.com/gokatarajesh/trivia-bank/pkg/http/errors"
)

const readinessTimeout = 2 * time.Second

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHTTPServer wires the bank routes, probes and metrics behind the middleware chain.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, handlers *question.HTTPHandlers, checks map[string]Pinger) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewHandler(cfg, logger, handlers, checks),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewHandler builds the routed, middleware-wrapped handler.
func NewHandler(cfg *config.App, logger zerolog.Logger, handlers *question.HTTPHandlers, checks map[string]Pinger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("GET /readyz", readyHandler(logger, checks))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /categories", handlers.ListCategories)
	mux.HandleFunc("GET /categories/{id}", handlers.GetCategory)
	mux.HandleFunc("GET /categories/{id}/questions", handlers.ListCategoryQuestions)

	mux.HandleFunc("GET /questions", handlers.ListQuestions)
	mux.HandleFunc("POST /questions", handlers.CreateQuestion)
	mux.HandleFunc("POST /questions/search", handlers.SearchQuestions)
	mux.HandleFunc("GET /questions/{id}", handlers.GetQuestion)
	mux.HandleFunc("DELETE /questions/{id}", handlers.DeleteQuestion)

	mux.HandleFunc("POST /quizzes", handlers.DrawQuizQuestion)

	// Method-less patterns lose to the ones above and answer with the JSON envelope.
	for _, path := range []string{
		"/categories", "/categories/{id}", "/categories/{id}/questions",
		"/questions", "/questions/{id}", "/quizzes",
	} {
		mux.HandleFunc(path, methodNotAllowed)
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondNotFound(w)
	})

	chain := Chain(
		Recovery(logger),
		RequestID(logger),
		AccessLog(),
		CORS(cfg.CORS),
	)
	return chain(mux)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	httperrors.RespondMethodNotAllowed(w)
}

func readyHandler(logger zerolog.Logger, checks map[string]Pinger) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		for _, name := range names {
			if err := checks[name].Ping(ctx); err != nil {
				logger.Warn().Err(err).Str("dependency", name).Msg("readiness check failed")
				httperrors.RespondServiceUnavailable(w, name+" unavailable")
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	}
}
