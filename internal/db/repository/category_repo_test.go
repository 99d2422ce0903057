package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/trivia-bank/internal/question"
)

func TestCategoryRepository_ListCategories(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(sqlPattern("SELECT id, type FROM categories ORDER BY id")).
		WillReturnRows(pgxmock.NewRows([]string{"id", "type"}).
			AddRow(int64(1), "Science").
			AddRow(int64(2), "Art"))

	got, err := store.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []question.Category{{ID: 1, Type: "Science"}, {ID: 2, Type: "Art"}}, got)
}

func TestCategoryRepository_GetCategoryNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(sqlPattern("SELECT id, type FROM categories WHERE id = $1")).
		WithArgs(int64(42)).
		WillReturnError(pgx.ErrNoRows)

	_, err := store.GetCategory(context.Background(), 42)
	assert.ErrorIs(t, err, question.ErrNotFound)
}

func TestCategoryRepository_EnsureCategory(t *testing.T) {
	insert := sqlPattern("INSERT INTO categories (type) VALUES ($1) ON CONFLICT (type) DO NOTHING RETURNING id, type")
	find := sqlPattern("SELECT id, type FROM categories WHERE type = $1")

	tests := []struct {
		name        string
		label       string
		setup       func(mock pgxmock.PgxPoolIface)
		want        question.Category
		wantCreated bool
		wantErr     bool
	}{
		{
			name:  "inserts new label",
			label: "Mythology",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(insert).WithArgs("Mythology").
					WillReturnRows(pgxmock.NewRows([]string{"id", "type"}).AddRow(int64(7), "Mythology"))
			},
			want:        question.Category{ID: 7, Type: "Mythology"},
			wantCreated: true,
		},
		{
			name:  "returns existing label",
			label: "History",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(insert).WithArgs("History").WillReturnError(pgx.ErrNoRows)
				mock.ExpectQuery(find).WithArgs("History").
					WillReturnRows(pgxmock.NewRows([]string{"id", "type"}).AddRow(int64(4), "History"))
			},
			want: question.Category{ID: 4, Type: "History"},
		},
		{
			name:  "insert failure",
			label: "Art",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(insert).WithArgs("Art").WillReturnError(assert.AnError)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t)
			tt.setup(mock)

			got, created, err := store.EnsureCategory(context.Background(), tt.label)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCreated, created)
		})
	}
}

func TestStore_Ping(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectPing()
	assert.NoError(t, store.Ping(context.Background()))
}
