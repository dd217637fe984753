package repository

import (
	"context"
	"fmt"

	"tipster/database"
	"tipster/domain/entities"

	"github.com/jackc/pgx/v5"
)

// UserScoreRepository reads the user_scores aggregate
type UserScoreRepository struct {
	q Queryable
}

// NewUserScoreRepository creates a new user score repository
func NewUserScoreRepository(db *database.DB) *UserScoreRepository {
	return &UserScoreRepository{q: db.Pool}
}

// GetAll returns the leaderboard, best first
func (r *UserScoreRepository) GetAll(ctx context.Context) ([]*entities.ScoreboardEntry, error) {
	query := `
		SELECT user_id, username, exact_hits, direction_hits, total_points
		FROM user_scores
		ORDER BY total_points DESC, exact_hits DESC, username ASC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get user scores: %w", err)
	}

	entries, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[entities.ScoreboardEntry])
	if err != nil {
		return nil, fmt.Errorf("failed to scan user scores: %w", err)
	}
	return entries, nil
}
