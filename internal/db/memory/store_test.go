package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/trivia-bank/internal/question"
)

func TestNewSeededStore(t *testing.T) {
	s := NewSeededStore()

	categories, err := s.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, len(DefaultCategories))
	assert.Equal(t, question.Category{ID: 1, Type: "Science"}, categories[0])
	assert.Equal(t, question.Category{ID: 6, Type: "Sports"}, categories[5])
}

func TestStore_InsertAssignsIncreasingIDs(t *testing.T) {
	s := NewSeededStore()
	ctx := context.Background()

	first, err := s.InsertQuestion(ctx, question.NewQuestion{Prompt: "Q1", Answer: "A1", CategoryID: 1, Difficulty: 1})
	require.NoError(t, err)
	second, err := s.InsertQuestion(ctx, question.NewQuestion{Prompt: "Q2", Answer: "A2", CategoryID: 2, Difficulty: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	deleted, err := s.DeleteQuestion(ctx, second.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	third, err := s.InsertQuestion(ctx, question.NewQuestion{Prompt: "Q3", Answer: "A3", CategoryID: 1, Difficulty: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(3), third.ID, "ids are never reused")
}

func TestStore_InsertRejectsUnknownCategory(t *testing.T) {
	s := NewSeededStore()

	_, err := s.InsertQuestion(context.Background(), question.NewQuestion{Prompt: "Q", Answer: "A", CategoryID: 77, Difficulty: 1})
	require.ErrorIs(t, err, question.ErrUnprocessable)
	var verr *question.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "category", verr.Field)
}

func TestStore_GetAndDeleteMissing(t *testing.T) {
	s := NewSeededStore()
	ctx := context.Background()

	_, err := s.GetQuestion(ctx, 5)
	assert.ErrorIs(t, err, question.ErrNotFound)
	_, err = s.GetCategory(ctx, 50)
	assert.ErrorIs(t, err, question.ErrNotFound)

	deleted, err := s.DeleteQuestion(ctx, 5)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestStore_ListReturnsCopies(t *testing.T) {
	s := NewStore()
	s.Seed(
		[]question.Category{{ID: 1, Type: "Science"}},
		[]question.Question{{ID: 4, Prompt: "Q", Answer: "A", CategoryID: 1, Difficulty: 1}},
	)
	ctx := context.Background()

	list, err := s.ListQuestions(ctx)
	require.NoError(t, err)
	list[0].Prompt = "mutated"

	got, err := s.GetQuestion(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Q", got.Prompt)

	created, err := s.InsertQuestion(ctx, question.NewQuestion{Prompt: "Q2", Answer: "A2", CategoryID: 1, Difficulty: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(5), created.ID)
}

func TestStore_EnsureCategory(t *testing.T) {
	s := NewSeededStore()
	ctx := context.Background()

	existing, created, err := s.EnsureCategory(ctx, "Science")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(1), existing.ID)

	mythology, created, err := s.EnsureCategory(ctx, "Mythology")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(7), mythology.ID)

	lower, created, err := s.EnsureCategory(ctx, "science")
	require.NoError(t, err)
	assert.True(t, created, "labels compare exactly")
	assert.Equal(t, int64(8), lower.ID)
}

func TestStore_ConcurrentInserts(t *testing.T) {
	s := NewSeededStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.InsertQuestion(ctx, question.NewQuestion{Prompt: "Q", Answer: "A", CategoryID: 1, Difficulty: 1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	n, err := s.CountQuestions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, n)
}

func TestStore_CanceledContext(t *testing.T) {
	s := NewSeededStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListQuestions(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
