package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tipster/database"
	"tipster/domain/entities"

	"github.com/jackc/pgx/v5"
)

const matchColumns = `
	id, matchday, match_date, home_team, away_team,
	actual_home_score, actual_away_score, created_at, updated_at`

// MatchRepository implements the MatchRepository interface
type MatchRepository struct {
	q Queryable
}

// NewMatchRepository creates a new match repository
func NewMatchRepository(db *database.DB) *MatchRepository {
	return &MatchRepository{q: db.Pool}
}

// newMatchRepository creates a match repository bound to a transaction
func newMatchRepository(tx Queryable) *MatchRepository {
	return &MatchRepository{q: tx}
}

func scanMatch(row pgx.Row) (*entities.Match, error) {
	var m entities.Match
	err := row.Scan(
		&m.ID,
		&m.Matchday,
		&m.MatchDate,
		&m.HomeTeam,
		&m.AwayTeam,
		&m.ActualHomeScore,
		&m.ActualAwayScore,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MatchRepository) queryMatches(ctx context.Context, query string, args ...any) ([]*entities.Match, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*entities.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// GetUpcoming returns matches kicking off at or after from, ordered by matchday then kickoff
func (r *MatchRepository) GetUpcoming(ctx context.Context, from time.Time) ([]*entities.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE match_date >= $1
		ORDER BY matchday ASC, match_date ASC, id ASC
	`
	matches, err := r.queryMatches(ctx, query, from)
	if err != nil {
		return nil, fmt.Errorf("failed to get upcoming matches from %s: %w", from.Format(time.RFC3339), err)
	}
	return matches, nil
}

// GetAll returns every match ordered by kickoff
func (r *MatchRepository) GetAll(ctx context.Context) ([]*entities.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		ORDER BY match_date ASC, id ASC
	`
	matches, err := r.queryMatches(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}
	return matches, nil
}

// GetWithResults returns matches with a recorded result, latest kickoff first
func (r *MatchRepository) GetWithResults(ctx context.Context) ([]*entities.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE actual_home_score IS NOT NULL AND actual_away_score IS NOT NULL
		ORDER BY match_date DESC, id DESC
	`
	matches, err := r.queryMatches(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches with results: %w", err)
	}
	return matches, nil
}

// GetKickingOffBetween returns matches with from < match_date <= to
func (r *MatchRepository) GetKickingOffBetween(ctx context.Context, from, to time.Time) ([]*entities.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE match_date > $1 AND match_date <= $2
		ORDER BY match_date ASC, id ASC
	`
	matches, err := r.queryMatches(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches kicking off between %s and %s: %w",
			from.Format(time.RFC3339), to.Format(time.RFC3339), err)
	}
	return matches, nil
}

// GetByID returns the match or nil when it does not exist
func (r *MatchRepository) GetByID(ctx context.Context, id int64) (*entities.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match, err := scanMatch(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	return match, nil
}

// Create inserts a match without a result and fills in generated fields
func (r *MatchRepository) Create(ctx context.Context, match *entities.Match) error {
	query := `
		INSERT INTO matches (matchday, match_date, home_team, away_team)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.q.QueryRow(ctx, query,
		match.Matchday,
		match.MatchDate,
		match.HomeTeam,
		match.AwayTeam,
	).Scan(&match.ID, &match.CreatedAt, &match.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create match %s vs %s: %w", match.HomeTeam, match.AwayTeam, err)
	}
	return nil
}

// UpdateResult stores the actual score and returns the updated match, or nil
// when no match has that id.
func (r *MatchRepository) UpdateResult(ctx context.Context, id int64, homeScore, awayScore int) (*entities.Match, error) {
	query := `
		UPDATE matches
		SET actual_home_score = $2, actual_away_score = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + matchColumns

	match, err := scanMatch(r.q.QueryRow(ctx, query, id, homeScore, awayScore))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update result for match %d: %w", id, err)
	}
	return match, nil
}
