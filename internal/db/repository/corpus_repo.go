package repository

import (
	"context"
	"fmt"

	"github.com/playtrivia/trivia-backend/internal/corpus"
)

// CorpusRepository reads the curated question table.
type CorpusRepository struct {
	db Querier
}

// NewCorpusRepository wraps the connection pool.
func NewCorpusRepository(db Querier) *CorpusRepository {
	return &CorpusRepository{db: db}
}

// ListQuestions returns the full corpus in position order. Called once at
// startup; question indices are positions in this list.
func (r *CorpusRepository) ListQuestions(ctx context.Context) ([]corpus.Question, error) {
	rows, err := r.db.Query(ctx,
		`SELECT prompt, answers, COALESCE(follow_up, '')
		 FROM questions
		 ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []corpus.Question
	for rows.Next() {
		var q corpus.Question
		if err := rows.Scan(&q.Prompt, &q.Answers, &q.FollowUp); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return questions, nil
}
