package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// HistoryRepository persists per-user previously seen question indices.
type HistoryRepository struct {
	db Querier
}

// NewHistoryRepository wraps the connection pool.
func NewHistoryRepository(db Querier) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Get returns the user's question history, oldest first. A user with no
// record gets an empty history, not an error.
func (r *HistoryRepository) Get(ctx context.Context, userID string) ([]int, error) {
	var indices []int32
	err := r.db.QueryRow(ctx,
		`SELECT question_indices FROM user_history WHERE user_id = $1`,
		userID,
	).Scan(&indices)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	return toInts(indices), nil
}

// Save upserts the full history record. Last write wins.
func (r *HistoryRepository) Save(ctx context.Context, userID string, indices []int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_history (user_id, question_indices, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (user_id)
		 DO UPDATE SET question_indices = EXCLUDED.question_indices, updated_at = now()`,
		userID, toInt32s(indices),
	)
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

func toInts(xs []int32) []int {
	out := make([]int, len(xs))
	for i, x := range xs {
		out[i] = int(x)
	}
	return out
}

func toInt32s(xs []int) []int32 {
	out := make([]int32, len(xs))
	for i, x := range xs {
		out[i] = int32(x)
	}
	return out
}
