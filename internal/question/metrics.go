package question

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	drawsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trivia",
		Name:      "quiz_draws_total",
		Help:      "Quiz draws by outcome (served or exhausted).",
	}, []string{"outcome"})

	cacheRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trivia",
		Name:      "category_cache_requests_total",
		Help:      "Category cache lookups by result.",
	}, []string{"result"})
)
