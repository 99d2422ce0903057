package question

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	name  string
	items []ImportedQuestion
	err   error
}

func (s stubSource) Name() string { return s.name }

func (s stubSource) Fetch(_ context.Context, amount int) ([]ImportedQuestion, error) {
	if s.err != nil {
		return nil, s.err
	}
	if amount < len(s.items) {
		return s.items[:amount], nil
	}
	return s.items, nil
}

func TestImporter_Import(t *testing.T) {
	store := newFakeStore([]Category{{ID: 1, Type: "Science"}}, nil)
	cache := new(mockCache)
	cache.On("Invalidate", mock.Anything).Return(nil).Once()

	src := stubSource{name: "stub", items: []ImportedQuestion{
		{Category: "Science", Prompt: "What is Fe?", Answer: "Iron", Difficulty: 1},
		{Category: "Mythology", Prompt: "Who is Zeus's father?", Answer: "Cronus", Difficulty: 3},
		{Category: "Mythology", Prompt: "  ", Answer: "blank", Difficulty: 3},
		{Category: "Mythology", Prompt: "Hermes' sandals?", Answer: "Winged", Difficulty: 9},
		{Category: "Mythology", Prompt: "Who is Odin's son?", Answer: "Thor", Difficulty: 5},
	}}

	report, err := NewImporter(store, cache, zerolog.Nop()).Import(context.Background(), 10, src)
	require.NoError(t, err)
	assert.Equal(t, ImportReport{Categories: 1, Inserted: 3, Skipped: 2}, report)

	categories, _ := store.ListCategories(context.Background())
	assert.Len(t, categories, 2)

	questions, _ := store.ListQuestions(context.Background())
	require.Len(t, questions, 3)
	assert.Equal(t, int64(1), questions[0].CategoryID)
	assert.Equal(t, int64(2), questions[1].CategoryID)
	cache.AssertExpectations(t)
}

func TestImporter_CountsOnlyNewCategories(t *testing.T) {
	store := newFakeStore([]Category{{ID: 1, Type: "Science"}, {ID: 2, Type: "Art"}}, nil)
	cache := new(mockCache)

	src := stubSource{name: "stub", items: []ImportedQuestion{
		{Category: "Science", Prompt: "What is H2O?", Answer: "Water", Difficulty: 1},
		{Category: " Art ", Prompt: "Who painted Guernica?", Answer: "Picasso", Difficulty: 2},
		{Category: "Science", Prompt: "What is NaCl?", Answer: "Salt", Difficulty: 1},
	}}

	report, err := NewImporter(store, cache, zerolog.Nop()).Import(context.Background(), 10, src)
	require.NoError(t, err)
	assert.Equal(t, ImportReport{Categories: 0, Inserted: 3}, report)

	categories, _ := store.ListCategories(context.Background())
	assert.Len(t, categories, 2)
	cache.AssertNotCalled(t, "Invalidate", mock.Anything)
}

func TestImporter_PartialSourceFailure(t *testing.T) {
	store := newFakeStore(nil, nil)
	ok := stubSource{name: "ok", items: []ImportedQuestion{{Category: "Art", Prompt: "Q", Answer: "A", Difficulty: 2}}}
	broken := stubSource{name: "broken", err: errors.New("503")}

	report, err := NewImporter(store, nil, zerolog.Nop()).Import(context.Background(), 5, broken, ok)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted)
}

func TestImporter_AllSourcesFail(t *testing.T) {
	store := newFakeStore(nil, nil)
	a := stubSource{name: "a", err: errors.New("timeout")}
	b := stubSource{name: "b", err: errors.New("rate limited")}

	_, err := NewImporter(store, nil, zerolog.Nop()).Import(context.Background(), 5, a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a: timeout")
	assert.Contains(t, err.Error(), "b: rate limited")
}

func TestDifficultyFromLabel(t *testing.T) {
	assert.Equal(t, 1, DifficultyFromLabel("easy"))
	assert.Equal(t, 3, DifficultyFromLabel(" Medium "))
	assert.Equal(t, 5, DifficultyFromLabel("HARD"))
	assert.Equal(t, 0, DifficultyFromLabel("legendary"))
}
