// Package sqlite implements the question bank Store on an embedded SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/gokatarajesh/trivia-bank/internal/db/sqlite/migrations"
	"github.com/gokatarajesh/trivia-bank/internal/question"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

var questionColumns = []string{"id", "question", "answer", "category", "difficulty"}

// Store persists categories and questions in SQLite.
type Store struct {
	db *sql.DB
}

var (
	_ question.Store       = (*Store)(nil)
	_ question.ImportStore = (*Store)(nil)
)

// Open opens the database at path and applies the embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if path != MemoryPath {
		path = filepath.Clean(path)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == MemoryPath {
		// every connection to :memory: sees its own database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping checks the database handle.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) ListCategories(ctx context.Context) ([]question.Category, error) {
	query, args, err := sq.Select("id", "type").From("categories").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list categories: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
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
	return categories, rows.Err()
}

func (s *Store) GetCategory(ctx context.Context, id int64) (question.Category, error) {
	query, args, err := sq.Select("id", "type").From("categories").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return question.Category{}, fmt.Errorf("build get category: %w", err)
	}

	var c question.Category
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.Type); err != nil {
		return question.Category{}, mapError(err, "category", id)
	}
	return c, nil
}

// EnsureCategory returns the category labeled label, creating it if needed.
// Labels compare exactly. created reports whether a new row was inserted.
func (s *Store) EnsureCategory(ctx context.Context, label string) (c question.Category, created bool, err error) {
	query, args, err := sq.Insert("categories").
		Columns("type").
		Values(label).
		Suffix("ON CONFLICT (type) DO NOTHING RETURNING id, type").
		ToSql()
	if err != nil {
		return question.Category{}, false, fmt.Errorf("build ensure category: %w", err)
	}

	err = s.db.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.Type)
	switch {
	case err == nil:
		return c, true, nil
	case !errors.Is(err, sql.ErrNoRows):
		return question.Category{}, false, fmt.Errorf("ensure category %q: %w", label, err)
	}

	query, args, err = sq.Select("id", "type").From("categories").Where(sq.Eq{"type": label}).ToSql()
	if err != nil {
		return question.Category{}, false, fmt.Errorf("build find category: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.Type); err != nil {
		return question.Category{}, false, fmt.Errorf("find category %q: %w", label, err)
	}
	return c, false, nil
}

func (s *Store) ListQuestions(ctx context.Context) ([]question.Question, error) {
	query, args, err := sq.Select(questionColumns...).From("questions").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list questions: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	questions := []question.Question{}
	for rows.Next() {
		var q question.Question
		if err := rows.Scan(&q.ID, &q.Prompt, &q.Answer, &q.CategoryID, &q.Difficulty); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *Store) GetQuestion(ctx context.Context, id int64) (question.Question, error) {
	query, args, err := sq.Select(questionColumns...).From("questions").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return question.Question{}, fmt.Errorf("build get question: %w", err)
	}

	var q question.Question
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&q.ID, &q.Prompt, &q.Answer, &q.CategoryID, &q.Difficulty); err != nil {
		return question.Question{}, mapError(err, "question", id)
	}
	return q, nil
}

func (s *Store) InsertQuestion(ctx context.Context, nq question.NewQuestion) (question.Question, error) {
	query, args, err := sq.Insert("questions").
		Columns("question", "answer", "category", "difficulty").
		Values(nq.Prompt, nq.Answer, nq.CategoryID, nq.Difficulty).
		Suffix("RETURNING id, question, answer, category, difficulty").
		ToSql()
	if err != nil {
		return question.Question{}, fmt.Errorf("build insert question: %w", err)
	}

	var q question.Question
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&q.ID, &q.Prompt, &q.Answer, &q.CategoryID, &q.Difficulty); err != nil {
		return question.Question{}, mapError(err, "question", 0)
	}
	return q, nil
}

func (s *Store) DeleteQuestion(ctx context.Context, id int64) (bool, error) {
	query, args, err := sq.Delete("questions").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete question: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, mapError(err, "question", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete question %d: %w", id, err)
	}
	return n > 0, nil
}

func (s *Store) CountQuestions(ctx context.Context) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From("questions").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count questions: %w", err)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

func mapError(err error, entity string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", entity, id, question.ErrNotFound)
	}

	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY:
			return &question.ValidationError{Field: "category", Message: "category does not exist"}
		case sqlite3lib.SQLITE_CONSTRAINT_CHECK:
			return fmt.Errorf("%s %d: %w", entity, id, question.ErrUnprocessable)
		}
	}
	return fmt.Errorf("%s %d: %w", entity, id, err)
}
