package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/gokatarajesh/trivia-bank/internal/question"
)

// CategoryRepository reads and seeds categories.
type CategoryRepository struct {
	db dbtx
}

func NewCategoryRepository(db dbtx) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListCategories returns every category ordered by id.
func (r *CategoryRepository) ListCategories(ctx context.Context) ([]question.Category, error) {
	query, args, err := psql.Select("id", "type").From("categories").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list categories: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []question.Category{}
	for rows.Next() {
		var c question.Category
		if err := rows.Scan(&c.ID, &c.Type); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// GetCategory fetches one category by id.
func (r *CategoryRepository) GetCategory(ctx context.Context, id int64) (question.Category, error) {
	query, args, err := psql.Select("id", "type").From("categories").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return question.Category{}, fmt.Errorf("build get category: %w", err)
	}

	var c question.Category
	if err := r.db.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Type); err != nil {
		return question.Category{}, mapError(err, "category", id)
	}
	return c, nil
}

// EnsureCategory returns the category labeled label, creating it if needed.
// Labels compare exactly. created reports whether a new row was inserted.
func (r *CategoryRepository) EnsureCategory(ctx context.Context, label string) (c question.Category, created bool, err error) {
	query, args, err := psql.Insert("categories").
		Columns("type").
		Values(label).
		Suffix("ON CONFLICT (type) DO NOTHING RETURNING id, type").
		ToSql()
	if err != nil {
		return question.Category{}, false, fmt.Errorf("build ensure category: %w", err)
	}

	err = r.db.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Type)
	switch {
	case err == nil:
		return c, true, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return question.Category{}, false, fmt.Errorf("ensure category %q: %w", label, err)
	}

	query, args, err = psql.Select("id", "type").From("categories").Where(sq.Eq{"type": label}).ToSql()
	if err != nil {
		return question.Category{}, false, fmt.Errorf("build find category: %w", err)
	}
	if err := r.db.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Type); err != nil {
		return question.Category{}, false, fmt.Errorf("find category %q: %w", label, err)
	}
	return c, false, nil
}
