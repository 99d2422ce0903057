package question

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Store is the persistence port for categories and questions.
// Lookups of missing records return an error wrapping ErrNotFound.
type Store interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id int64) (Category, error)
	ListQuestions(ctx context.Context) ([]Question, error)
	GetQuestion(ctx context.Context, id int64) (Question, error)
	InsertQuestion(ctx context.Context, q NewQuestion) (Question, error)
	DeleteQuestion(ctx context.Context, id int64) (bool, error)
	CountQuestions(ctx context.Context) (int, error)
}

// Service answers the question bank use cases on top of a Store.
type Service struct {
	store         Store
	cache         CategoryCache
	drawer        *Drawer
	logger        zerolog.Logger
	pageSize      int
	minDifficulty int
	maxDifficulty int
}

// ServiceOptions tunes listing and validation. Zero values fall back to the
// package defaults; difficulty bounds outside DifficultyMin..DifficultyMax are reset.
type ServiceOptions struct {
	PageSize      int
	MinDifficulty int
	MaxDifficulty int
	Drawer        *Drawer
}

// NewService wires the bank service. cache may be nil.
func NewService(store Store, cache CategoryCache, logger zerolog.Logger, opts ServiceOptions) *Service {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.MinDifficulty < DifficultyMin || opts.MinDifficulty > DifficultyMax {
		opts.MinDifficulty = DifficultyMin
	}
	if opts.MaxDifficulty < opts.MinDifficulty || opts.MaxDifficulty > DifficultyMax {
		opts.MaxDifficulty = DifficultyMax
	}
	if opts.Drawer == nil {
		opts.Drawer = NewDrawer()
	}
	return &Service{
		store:         store,
		cache:         cache,
		drawer:        opts.Drawer,
		logger:        logger.With().Str("component", "question_service").Logger(),
		pageSize:      opts.PageSize,
		minDifficulty: opts.MinDifficulty,
		maxDifficulty: opts.MaxDifficulty,
	}
}

// ListCategories returns every category keyed by id.
func (s *Service) ListCategories(ctx context.Context) (CategoryList, error) {
	categories, err := s.categories(ctx)
	if err != nil {
		return CategoryList{}, err
	}
	if len(categories) == 0 {
		return CategoryList{}, fmt.Errorf("categories: %w", ErrNotFound)
	}
	return CategoryList{Categories: categoryMap(categories), Total: len(categories)}, nil
}

// GetCategory returns a single category.
func (s *Service) GetCategory(ctx context.Context, id int64) (Category, error) {
	if s.cache != nil {
		if cached, err := s.categories(ctx); err == nil {
			for _, c := range cached {
				if c.ID == id {
					return c, nil
				}
			}
		}
	}
	return s.store.GetCategory(ctx, id)
}

// ListQuestions returns one page of all questions with the category map.
// An empty page, including one past the end, is reported as ErrNotFound.
func (s *Service) ListQuestions(ctx context.Context, page int) (QuestionPage, error) {
	questions, categories, err := s.loadBank(ctx)
	if err != nil {
		return QuestionPage{}, err
	}

	window := Paginate(questions, page, s.pageSize)
	if len(window) == 0 {
		return QuestionPage{}, fmt.Errorf("questions page %d: %w", page, ErrNotFound)
	}

	labels := categoryMap(categories)
	return QuestionPage{
		Questions:      views(window, labels),
		TotalQuestions: len(questions),
		Categories:     labels,
	}, nil
}

// GetQuestion returns a single question.
func (s *Service) GetQuestion(ctx context.Context, id int64) (Question, error) {
	return s.store.GetQuestion(ctx, id)
}

// DeleteQuestion removes a question and returns the remaining total.
func (s *Service) DeleteQuestion(ctx context.Context, id int64) (int, error) {
	if _, err := s.store.GetQuestion(ctx, id); err != nil {
		return 0, err
	}

	deleted, err := s.store.DeleteQuestion(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete question %d: %w", id, err)
	}
	if !deleted {
		return 0, fmt.Errorf("question %d: %w", id, ErrNotFound)
	}

	total, err := s.store.CountQuestions(ctx)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	s.logger.Info().Int64("question_id", id).Int("total", total).Msg("question deleted")
	return total, nil
}

// CreateQuestion validates req, inserts it and returns the new id and total.
func (s *Service) CreateQuestion(ctx context.Context, req CreateQuestionRequest) (Created, error) {
	nq, err := s.validateCreate(req)
	if err != nil {
		return Created{}, err
	}

	if _, err := s.GetCategory(ctx, nq.CategoryID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Created{}, invalid("category", fmt.Sprintf("category %d does not exist", nq.CategoryID))
		}
		return Created{}, err
	}

	created, err := s.store.InsertQuestion(ctx, nq)
	if err != nil {
		return Created{}, fmt.Errorf("insert question: %w", err)
	}

	total, err := s.store.CountQuestions(ctx)
	if err != nil {
		return Created{}, fmt.Errorf("count questions: %w", err)
	}
	s.logger.Info().Int64("question_id", created.ID).Int64("category_id", created.CategoryID).Msg("question created")
	return Created{ID: created.ID, TotalQuestions: total}, nil
}

func (s *Service) validateCreate(req CreateQuestionRequest) (NewQuestion, error) {
	switch {
	case req.Question == nil || strings.TrimSpace(*req.Question) == "":
		return NewQuestion{}, invalid("question", "question is required")
	case req.Answer == nil || strings.TrimSpace(*req.Answer) == "":
		return NewQuestion{}, invalid("answer", "answer is required")
	case req.Category == nil:
		return NewQuestion{}, invalid("category", "category is required")
	case *req.Category <= 0:
		return NewQuestion{}, invalid("category", "category must be a positive id")
	case req.Difficulty == nil:
		return NewQuestion{}, invalid("difficulty", "difficulty is required")
	case *req.Difficulty < s.minDifficulty || *req.Difficulty > s.maxDifficulty:
		return NewQuestion{}, invalid("difficulty",
			fmt.Sprintf("difficulty must be between %d and %d", s.minDifficulty, s.maxDifficulty))
	}
	return NewQuestion{
		Prompt:     strings.TrimSpace(*req.Question),
		Answer:     strings.TrimSpace(*req.Answer),
		CategoryID: *req.Category,
		Difficulty: *req.Difficulty,
	}, nil
}

// SearchQuestions returns questions whose prompt contains term, ignoring case.
func (s *Service) SearchQuestions(ctx context.Context, term string) (SearchResult, error) {
	questions, categories, err := s.loadBank(ctx)
	if err != nil {
		return SearchResult{}, err
	}

	matches := Search(questions, term)
	if len(matches) == 0 {
		return SearchResult{}, fmt.Errorf("search %q: %w", term, ErrNotFound)
	}
	return SearchResult{Questions: views(matches, categoryMap(categories)), Total: len(matches)}, nil
}

// ListQuestionsByCategory returns every question in an existing category.
func (s *Service) ListQuestionsByCategory(ctx context.Context, categoryID int64) (CategoryQuestions, error) {
	category, err := s.GetCategory(ctx, categoryID)
	if err != nil {
		return CategoryQuestions{}, err
	}

	questions, err := s.store.ListQuestions(ctx)
	if err != nil {
		return CategoryQuestions{}, fmt.Errorf("list questions: %w", err)
	}

	matches := FilterByCategory(questions, categoryID)
	if len(matches) == 0 {
		return CategoryQuestions{}, fmt.Errorf("category %d questions: %w", categoryID, ErrNotFound)
	}

	labels := map[int64]string{category.ID: category.Type}
	return CategoryQuestions{Questions: views(matches, labels), Total: len(matches), Category: category}, nil
}

// DrawQuizQuestion picks the next quiz question for req. A nil question
// with a nil error means the scope is exhausted.
func (s *Service) DrawQuizQuestion(ctx context.Context, req DrawRequest) (*Question, error) {
	if req.Category == nil {
		return nil, invalid("quiz_category", "quiz_category is required")
	}
	if req.PreviousQuestionIDs == nil {
		return nil, invalid("previous_questions", "previous_questions is required")
	}

	pool, err := s.store.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	q, ok := s.drawer.Draw(pool, *req.Category, exclusionSet(req.PreviousQuestionIDs))
	if !ok {
		drawsTotal.WithLabelValues("exhausted").Inc()
		s.logger.Debug().
			Str("scope", req.Category.String()).
			Int("previous", len(req.PreviousQuestionIDs)).
			Msg("quiz exhausted")
		return nil, nil
	}
	drawsTotal.WithLabelValues("served").Inc()
	return &q, nil
}

func (s *Service) loadBank(ctx context.Context) ([]Question, []Category, error) {
	var (
		questions  []Question
		categories []Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		questions, err = s.store.ListQuestions(gctx)
		if err != nil {
			return fmt.Errorf("list questions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = s.categories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return questions, categories, nil
}

// categories reads through the cache when one is configured.
func (s *Service) categories(ctx context.Context) ([]Category, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			cacheRequestsTotal.WithLabelValues("error").Inc()
			s.logger.Warn().Err(err).Msg("category cache read failed")
		case cached != nil:
			cacheRequestsTotal.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			cacheRequestsTotal.WithLabelValues("miss").Inc()
		}
	}

	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	if s.cache != nil && len(categories) > 0 {
		if err := s.cache.Set(ctx, categories); err != nil {
			s.logger.Warn().Err(err).Msg("category cache write failed")
		}
	}
	return categories, nil
}

func categoryMap(categories []Category) map[int64]string {
	m := make(map[int64]string, len(categories))
	for _, c := range categories {
		m[c.ID] = c.Type
	}
	return m
}

func views(questions []Question, labels map[int64]string) []QuestionView {
	out := make([]QuestionView, len(questions))
	for i, q := range questions {
		label, ok := labels[q.CategoryID]
		if !ok {
			label = UnknownCategory
		}
		out[i] = QuestionView{Question: q, CategoryType: label}
	}
	return out
}
