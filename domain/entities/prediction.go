package entities

import (
	"math"
	"time"
)

// MaxScore is the largest score the INTEGER score columns can hold
const MaxScore = math.MaxInt32

// Score is a home/away scoreline
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Valid reports whether both sides are within 0..MaxScore
func (s Score) Valid() bool {
	return s.Home >= 0 && s.Away >= 0 && s.Home <= MaxScore && s.Away <= MaxScore
}

// Prediction is one user's predicted score for one match.
// (UserID, MatchID) is unique.
type Prediction struct {
	UserID             string    `db:"user_id"`
	MatchID            int64     `db:"match_id"`
	PredictedHomeScore int       `db:"predicted_home_score"`
	PredictedAwayScore int       `db:"predicted_away_score"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

// Score returns the predicted scoreline
func (p *Prediction) Score() Score {
	return Score{Home: p.PredictedHomeScore, Away: p.PredictedAwayScore}
}

// PredictionWithMatch pairs a prediction with its fixture for history views
type PredictionWithMatch struct {
	Prediction
	Match Match
}
