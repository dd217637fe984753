package testutil

import (
	"context"
	"testing"
	"time"

	"tipster/database"
	"tipster/domain/entities"

	"github.com/stretchr/testify/require"
)

// CreateTestMatch builds a match kicking off offset from now
func CreateTestMatch(matchday int, offset time.Duration) *entities.Match {
	return &entities.Match{
		Matchday:  matchday,
		MatchDate: time.Now().UTC().Add(offset).Truncate(time.Second),
		HomeTeam:  "Home FC",
		AwayTeam:  "Away United",
	}
}

// InsertMatch writes a match directly and returns its id
func InsertMatch(t *testing.T, db *database.DB, match *entities.Match) int64 {
	t.Helper()
	err := db.QueryRow(context.Background(), `
		INSERT INTO matches (matchday, match_date, home_team, away_team, actual_home_score, actual_away_score)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, match.Matchday, match.MatchDate, match.HomeTeam, match.AwayTeam, match.ActualHomeScore, match.ActualAwayScore,
	).Scan(&match.ID, &match.CreatedAt, &match.UpdatedAt)
	require.NoError(t, err)
	return match.ID
}

// InsertUserScore seeds the user_scores aggregate
func InsertUserScore(t *testing.T, db *database.DB, entry entities.ScoreboardEntry) {
	t.Helper()
	_, err := db.Exec(context.Background(), `
		INSERT INTO user_scores (user_id, username, exact_hits, direction_hits, total_points)
		VALUES ($1, $2, $3, $4, $5)
	`, entry.UserID, entry.Username, entry.ExactHits, entry.DirectionHits, entry.TotalPoints)
	require.NoError(t, err)
}

// CountRows returns the number of rows in table
func CountRows(t *testing.T, db *database.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}
