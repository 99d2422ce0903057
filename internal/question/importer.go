package question

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ImportedQuestion is a question normalised from an external source.
type ImportedQuestion struct {
	Category   string
	Prompt     string
	Answer     string
	Difficulty int
}

// Source yields questions from an external trivia provider.
type Source interface {
	Name() string
	Fetch(ctx context.Context, amount int) ([]ImportedQuestion, error)
}

// CategorySink creates categories on demand. Implemented by the storage adapters.
// Labels compare exactly; created is true only when a new category was stored.
type CategorySink interface {
	EnsureCategory(ctx context.Context, label string) (c Category, created bool, err error)
}

// ImportStore is what the importer writes to.
type ImportStore interface {
	CategorySink
	InsertQuestion(ctx context.Context, q NewQuestion) (Question, error)
}

// ImportReport summarises an import run. Categories counts newly created ones.
type ImportReport struct {
	Categories int
	Inserted   int
	Skipped    int
}

// Importer copies questions from external sources into the bank.
type Importer struct {
	store  ImportStore
	cache  CategoryCache
	logger zerolog.Logger
}

// NewImporter builds an importer. cache may be nil.
func NewImporter(store ImportStore, cache CategoryCache, logger zerolog.Logger) *Importer {
	return &Importer{
		store:  store,
		cache:  cache,
		logger: logger.With().Str("component", "question_importer").Logger(),
	}
}

// Import fetches amount questions from each source and stores the valid ones.
// A failing source is logged and skipped; the run fails only if all fail.
func (im *Importer) Import(ctx context.Context, amount int, sources ...Source) (ImportReport, error) {
	var (
		report   ImportReport
		failures []error
	)
	seen := make(map[string]int64)

	for _, src := range sources {
		items, err := src.Fetch(ctx, amount)
		if err != nil {
			im.logger.Warn().Err(err).Str("source", src.Name()).Msg("source fetch failed")
			failures = append(failures, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}

		for _, item := range items {
			nq, ok := normaliseImport(item)
			if !ok {
				report.Skipped++
				continue
			}

			label := strings.TrimSpace(item.Category)
			categoryID, known := seen[label]
			if !known {
				category, created, err := im.store.EnsureCategory(ctx, label)
				if err != nil {
					return report, fmt.Errorf("ensure category %q: %w", label, err)
				}
				categoryID = category.ID
				seen[label] = categoryID
				if created {
					report.Categories++
				}
			}
			nq.CategoryID = categoryID

			if _, err := im.store.InsertQuestion(ctx, nq); err != nil {
				return report, fmt.Errorf("insert imported question: %w", err)
			}
			report.Inserted++
		}
		im.logger.Info().Str("source", src.Name()).Int("fetched", len(items)).Msg("source imported")
	}

	if len(sources) > 0 && len(failures) == len(sources) {
		return report, errors.Join(failures...)
	}

	if im.cache != nil && report.Categories > 0 {
		if err := im.cache.Invalidate(ctx); err != nil {
			im.logger.Warn().Err(err).Msg("category cache invalidation failed")
		}
	}
	return report, nil
}

func normaliseImport(item ImportedQuestion) (NewQuestion, bool) {
	prompt := strings.TrimSpace(item.Prompt)
	answer := strings.TrimSpace(item.Answer)
	if prompt == "" || answer == "" || strings.TrimSpace(item.Category) == "" {
		return NewQuestion{}, false
	}
	if item.Difficulty < DifficultyMin || item.Difficulty > DifficultyMax {
		return NewQuestion{}, false
	}
	return NewQuestion{Prompt: prompt, Answer: answer, Difficulty: item.Difficulty}, true
}

// DifficultyFromLabel maps provider difficulty words onto the 1-5 scale.
func DifficultyFromLabel(label string) int {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "easy":
		return 1
	case "medium":
		return 3
	case "hard":
		return 5
	default:
		return 0
	}
}
