// Package repository implements the question bank Store on PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gokatarajesh/trivia-bank/internal/question"
)

// dbtx is the subset of *pgxpool.Pool the repositories use.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store combines the category and question repositories into a question.Store.
type Store struct {
	*CategoryRepository
	*QuestionRepository
	db dbtx
}

var (
	_ question.Store       = (*Store)(nil)
	_ question.ImportStore = (*Store)(nil)
)

// NewStore wraps a pgx pool (or any compatible querier).
func NewStore(db dbtx) *Store {
	return &Store{
		CategoryRepository: NewCategoryRepository(db),
		QuestionRepository: NewQuestionRepository(db),
		db:                 db,
	}
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// mapError converts pgx errors to question errors.
// Context errors pass through wrapped.
func mapError(err error, entity string, id int64) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %d: %w", entity, id, err)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", entity, id, question.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign_key_violation
			return &question.ValidationError{Field: "category", Message: "category does not exist"}
		case "23514": // check_violation
			return fmt.Errorf("%s %d: %w", entity, id, question.ErrUnprocessable)
		}
	}
	return fmt.Errorf("%s %d: %w", entity, id, err)
}
