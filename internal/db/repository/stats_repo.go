package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/playtrivia/trivia-backend/internal/game"
)

// StatsRepository persists per-user score aggregates across rounds.
type StatsRepository struct {
	db Querier
}

// NewStatsRepository wraps the connection pool.
func NewStatsRepository(db Querier) *StatsRepository {
	return &StatsRepository{db: db}
}

// Get returns the user's score aggregates; zero stats when none recorded.
func (r *StatsRepository) Get(ctx context.Context, userID string) (game.ScoreStats, error) {
	var stats game.ScoreStats
	err := r.db.QueryRow(ctx,
		`SELECT highest, lowest, total, games FROM user_score_stats WHERE user_id = $1`,
		userID,
	).Scan(&stats.Highest, &stats.Lowest, &stats.Total, &stats.Count)
	if errors.Is(err, pgx.ErrNoRows) {
		return game.ScoreStats{}, nil
	}
	if err != nil {
		return game.ScoreStats{}, fmt.Errorf("get score stats: %w", err)
	}
	return stats, nil
}

// Record folds one finished round's score into the aggregates atomically.
func (r *StatsRepository) Record(ctx context.Context, userID string, score int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_score_stats (user_id, highest, lowest, total, games, updated_at)
		 VALUES ($1, $2, $2, $2, 1, now())
		 ON CONFLICT (user_id)
		 DO UPDATE SET
			highest    = GREATEST(user_score_stats.highest, EXCLUDED.highest),
			lowest     = LEAST(user_score_stats.lowest, EXCLUDED.lowest),
			total      = user_score_stats.total + EXCLUDED.total,
			games      = user_score_stats.games + 1,
			updated_at = now()`,
		userID, score,
	)
	if err != nil {
		return fmt.Errorf("record score: %w", err)
	}
	return nil
}
