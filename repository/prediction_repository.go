package repository

import (
	"context"
	"fmt"

	"tipster/database"
	"tipster/domain/entities"

	"github.com/jackc/pgx/v5"
)

// PredictionRepository implements the PredictionRepository interface
type PredictionRepository struct {
	q Queryable
}

// NewPredictionRepository creates a new prediction repository
func NewPredictionRepository(db *database.DB) *PredictionRepository {
	return &PredictionRepository{q: db.Pool}
}

func newPredictionRepository(tx Queryable) *PredictionRepository {
	return &PredictionRepository{q: tx}
}

// GetByUser returns all predictions made by a user
func (r *PredictionRepository) GetByUser(ctx context.Context, userID string) ([]*entities.Prediction, error) {
	query := `
		SELECT user_id, match_id, predicted_home_score, predicted_away_score, created_at, updated_at
		FROM predictions
		WHERE user_id = $1
		ORDER BY match_id
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get predictions for user %s: %w", userID, err)
	}

	predictions, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[entities.Prediction])
	if err != nil {
		return nil, fmt.Errorf("failed to scan predictions for user %s: %w", userID, err)
	}
	return predictions, nil
}

// GetHistoryByUser returns a user's predictions with match details, latest kickoff first
func (r *PredictionRepository) GetHistoryByUser(ctx context.Context, userID string) ([]*entities.PredictionWithMatch, error) {
	query := `
		SELECT
			p.user_id, p.match_id, p.predicted_home_score, p.predicted_away_score,
			p.created_at, p.updated_at,
			m.id, m.matchday, m.match_date, m.home_team, m.away_team,
			m.actual_home_score, m.actual_away_score, m.created_at, m.updated_at
		FROM predictions p
		JOIN matches m ON m.id = p.match_id
		WHERE p.user_id = $1
		ORDER BY m.match_date DESC, m.id DESC
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction history for user %s: %w", userID, err)
	}
	defer rows.Close()

	history := make([]*entities.PredictionWithMatch, 0)
	for rows.Next() {
		var h entities.PredictionWithMatch
		err := rows.Scan(
			&h.UserID,
			&h.MatchID,
			&h.PredictedHomeScore,
			&h.PredictedAwayScore,
			&h.Prediction.CreatedAt,
			&h.Prediction.UpdatedAt,
			&h.Match.ID,
			&h.Match.Matchday,
			&h.Match.MatchDate,
			&h.Match.HomeTeam,
			&h.Match.AwayTeam,
			&h.Match.ActualHomeScore,
			&h.Match.ActualAwayScore,
			&h.Match.CreatedAt,
			&h.Match.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction history: %w", err)
		}
		history = append(history, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate prediction history: %w", err)
	}
	return history, nil
}

// UpsertBatch writes all predictions in one round trip. A second write for the
// same (user_id, match_id) overwrites the scores and keeps created_at.
func (r *PredictionRepository) UpsertBatch(ctx context.Context, predictions []*entities.Prediction) error {
	if len(predictions) == 0 {
		return nil
	}

	query := `
		INSERT INTO predictions (user_id, match_id, predicted_home_score, predicted_away_score)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, match_id) DO UPDATE
		SET predicted_home_score = EXCLUDED.predicted_home_score,
		    predicted_away_score = EXCLUDED.predicted_away_score,
		    updated_at = NOW()
	`

	batch := &pgx.Batch{}
	for _, p := range predictions {
		batch.Queue(query, p.UserID, p.MatchID, p.PredictedHomeScore, p.PredictedAwayScore)
	}

	results := r.q.SendBatch(ctx, batch)
	for _, p := range predictions {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("failed to upsert prediction for user %s match %d: %w", p.UserID, p.MatchID, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close prediction batch: %w", err)
	}
	return nil
}
