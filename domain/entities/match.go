package entities

import (
	"time"
)

// DefaultLockWindow is how long before kickoff a match stops accepting predictions
const DefaultLockWindow = 60 * time.Minute

// Match is a fixture that users predict and admins score
type Match struct {
	ID              int64     `db:"id"`
	Matchday        int       `db:"matchday"`
	MatchDate       time.Time `db:"match_date"`
	HomeTeam        string    `db:"home_team"`
	AwayTeam        string    `db:"away_team"`
	ActualHomeScore *int      `db:"actual_home_score"` // Nullable until recorded
	ActualAwayScore *int      `db:"actual_away_score"` // Nullable until recorded
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// IsLockedAt reports whether predictions for the match are closed at now.
// Matches in the past are always locked.
func (m *Match) IsLockedAt(now time.Time, window time.Duration) bool {
	return m.MatchDate.Sub(now) < window
}

// HasResult reports whether both actual scores are recorded
func (m *Match) HasResult() bool {
	return m.ActualHomeScore != nil && m.ActualAwayScore != nil
}

// Result returns the recorded score, if any
func (m *Match) Result() (Score, bool) {
	if !m.HasResult() {
		return Score{}, false
	}
	return Score{Home: *m.ActualHomeScore, Away: *m.ActualAwayScore}, true
}

// NewMatch is the input for creating a match
type NewMatch struct {
	HomeTeam  string
	AwayTeam  string
	MatchDate time.Time
	Matchday  int // 0 means the default round 1
}
