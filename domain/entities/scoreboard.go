package entities

// ScoreboardEntry is a row of the externally computed user_scores aggregate
type ScoreboardEntry struct {
	UserID        string `db:"user_id" json:"user_id"`
	Username      string `db:"username" json:"username"`
	ExactHits     int    `db:"exact_hits" json:"exact_hits"`
	DirectionHits int    `db:"direction_hits" json:"direction_hits"`
	TotalPoints   int    `db:"total_points" json:"total_points"`
}
