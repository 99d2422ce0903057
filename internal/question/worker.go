package question

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// CacheWarmer periodically reloads categories from the store into the cache
// so request paths rarely miss.
type CacheWarmer struct {
	store    Store
	cache    CategoryCache
	logger   zerolog.Logger
	interval time.Duration
	timeout  time.Duration
}

func NewCacheWarmer(store Store, cache CategoryCache, interval time.Duration, logger zerolog.Logger) *CacheWarmer {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CacheWarmer{
		store:    store,
		cache:    cache,
		logger:   logger.With().Str("component", "category_cache_warmer").Logger(),
		interval: interval,
		timeout:  4 * time.Second,
	}
}

// Run blocks until context cancellation.
func (w *CacheWarmer) Run(ctx context.Context) error {
	if w.store == nil || w.cache == nil {
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("category cache warmer stopping")
			return ctx.Err()
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *CacheWarmer) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	categories, err := w.store.ListCategories(ctx)
	if err != nil {
		w.logger.Warn().Err(err).Msg("category reload failed")
		return
	}
	if len(categories) == 0 {
		return
	}
	if err := w.cache.Set(ctx, categories); err != nil {
		w.logger.Warn().Err(err).Msg("category cache write failed")
		return
	}
	w.logger.Debug().Int("categories", len(categories)).Msg("category cache refreshed")
}
