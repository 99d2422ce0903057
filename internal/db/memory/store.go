// Package memory keeps the question bank in process memory.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/gokatarajesh/trivia-bank/internal/question"
)

// DefaultCategories mirrors the categories seeded by the SQL migrations.
var DefaultCategories = []string{"Science", "Art", "Geography", "History", "Entertainment", "Sports"}

// Store is a mutex-guarded question.Store. Returned slices are copies.
type Store struct {
	mu             sync.RWMutex
	categories     []question.Category
	questions      []question.Question
	nextCategoryID int64
	nextQuestionID int64
}

var (
	_ question.Store       = (*Store)(nil)
	_ question.ImportStore = (*Store)(nil)
)

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{nextCategoryID: 1, nextQuestionID: 1}
}

// NewSeededStore returns a store holding DefaultCategories and no questions.
func NewSeededStore() *Store {
	s := NewStore()
	for _, label := range DefaultCategories {
		s.addCategory(label)
	}
	return s
}

// Seed replaces the store contents. Id counters continue after the highest seeded id.
func (s *Store) Seed(categories []question.Category, questions []question.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories = slices.Clone(categories)
	s.questions = slices.Clone(questions)
	s.nextCategoryID, s.nextQuestionID = 1, 1
	for _, c := range s.categories {
		s.nextCategoryID = max(s.nextCategoryID, c.ID+1)
	}
	for _, q := range s.questions {
		s.nextQuestionID = max(s.nextQuestionID, q.ID+1)
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) ListCategories(ctx context.Context) ([]question.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]question.Category, len(s.categories))
	copy(out, s.categories)
	return out, nil
}

func (s *Store) GetCategory(ctx context.Context, id int64) (question.Category, error) {
	if err := ctx.Err(); err != nil {
		return question.Category{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.categoryIndex(id); i >= 0 {
		return s.categories[i], nil
	}
	return question.Category{}, fmt.Errorf("category %d: %w", id, question.ErrNotFound)
}

// EnsureCategory returns the category labeled label, creating it if needed.
// Labels compare exactly, as the SQL adapters' unique constraint does.
func (s *Store) EnsureCategory(ctx context.Context, label string) (question.Category, bool, error) {
	if err := ctx.Err(); err != nil {
		return question.Category{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.Type == label {
			return c, false, nil
		}
	}
	return s.addCategory(label), true, nil
}

func (s *Store) ListQuestions(ctx context.Context) ([]question.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]question.Question, len(s.questions))
	copy(out, s.questions)
	return out, nil
}

func (s *Store) GetQuestion(ctx context.Context, id int64) (question.Question, error) {
	if err := ctx.Err(); err != nil {
		return question.Question{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.questionIndex(id); i >= 0 {
		return s.questions[i], nil
	}
	return question.Question{}, fmt.Errorf("question %d: %w", id, question.ErrNotFound)
}

func (s *Store) InsertQuestion(ctx context.Context, nq question.NewQuestion) (question.Question, error) {
	if err := ctx.Err(); err != nil {
		return question.Question{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.categoryIndex(nq.CategoryID) < 0 {
		return question.Question{}, &question.ValidationError{Field: "category", Message: "category does not exist"}
	}
	if nq.Difficulty < question.DifficultyMin || nq.Difficulty > question.DifficultyMax {
		return question.Question{}, fmt.Errorf("difficulty %d: %w", nq.Difficulty, question.ErrUnprocessable)
	}

	q := question.Question{
		ID:         s.nextQuestionID,
		Prompt:     nq.Prompt,
		Answer:     nq.Answer,
		CategoryID: nq.CategoryID,
		Difficulty: nq.Difficulty,
	}
	s.nextQuestionID++
	s.questions = append(s.questions, q)
	return q, nil
}

func (s *Store) DeleteQuestion(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.questionIndex(id)
	if i < 0 {
		return false, nil
	}
	s.questions = slices.Delete(s.questions, i, i+1)
	return true, nil
}

func (s *Store) CountQuestions(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.questions), nil
}

// caller holds s.mu
func (s *Store) addCategory(label string) question.Category {
	c := question.Category{ID: s.nextCategoryID, Type: label}
	s.nextCategoryID++
	s.categories = append(s.categories, c)
	return c
}

func (s *Store) categoryIndex(id int64) int {
	return slices.IndexFunc(s.categories, func(c question.Category) bool { return c.ID == id })
}

func (s *Store) questionIndex(id int64) int {
	return slices.IndexFunc(s.questions, func(q question.Question) bool { return q.ID == id })
}
