package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/gokatarajesh/trivia-bank/internal/question"
)

var questionColumns = []string{"id", "question", "answer", "category", "difficulty"}

// QuestionRepository wraps SQL access to the questions table.
type QuestionRepository struct {
	db dbtx
}

func NewQuestionRepository(db dbtx) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// ListQuestions returns every question ordered by id.
func (r *QuestionRepository) ListQuestions(ctx context.Context) ([]question.Question, error) {
	query, args, err := psql.Select(questionColumns...).From("questions").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list questions: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

// GetQuestion fetches one question by id.
func (r *QuestionRepository) GetQuestion(ctx context.Context, id int64) (question.Question, error) {
	query, args, err := psql.Select(questionColumns...).From("questions").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return question.Question{}, fmt.Errorf("build get question: %w", err)
	}

	var q question.Question
	if err := r.db.QueryRow(ctx, query, args...).Scan(&q.ID, &q.Prompt, &q.Answer, &q.CategoryID, &q.Difficulty); err != nil {
		return question.Question{}, mapError(err, "question", id)
	}
	return q, nil
}

// InsertQuestion stores a question and returns it with its new id.
func (r *QuestionRepository) InsertQuestion(ctx context.Context, nq question.NewQuestion) (question.Question, error) {
	query, args, err := psql.Insert("questions").
		Columns("question", "answer", "category", "difficulty").
		Values(nq.Prompt, nq.Answer, nq.CategoryID, nq.Difficulty).
		Suffix("RETURNING id, question, answer, category, difficulty").
		ToSql()
	if err != nil {
		return question.Question{}, fmt.Errorf("build insert question: %w", err)
	}

	var q question.Question
	if err := r.db.QueryRow(ctx, query, args...).Scan(&q.ID, &q.Prompt, &q.Answer, &q.CategoryID, &q.Difficulty); err != nil {
		return question.Question{}, mapError(err, "question", 0)
	}
	return q, nil
}

// DeleteQuestion removes a question; it reports whether a row was deleted.
func (r *QuestionRepository) DeleteQuestion(ctx context.Context, id int64) (bool, error) {
	query, args, err := psql.Delete("questions").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete question: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, mapError(err, "question", id)
	}
	return tag.RowsAffected() > 0, nil
}

// CountQuestions returns the number of stored questions.
func (r *QuestionRepository) CountQuestions(ctx context.Context) (int, error) {
	query, args, err := psql.Select("COUNT(*)").From("questions").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count questions: %w", err)
	}

	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}
