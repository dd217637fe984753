package interfaces

import (
	"context"
	"time"

	"tipster/domain/entities"
)

// MatchRepository defines data access for matches
type MatchRepository interface {
	// GetUpcoming returns matches kicking off at or after from, ordered by matchday then kickoff
	GetUpcoming(ctx context.Context, from time.Time) ([]*entities.Match, error)

	// GetAll returns every match ordered by kickoff ascending
	GetAll(ctx context.Context) ([]*entities.Match, error)

	// GetWithResults returns matches that have a recorded result, latest first
	GetWithResults(ctx context.Context) ([]*entities.Match, error)

	// GetByID returns nil when the match does not exist
	GetByID(ctx context.Context, id int64) (*entities.Match, error)

	// GetKickingOffBetween returns matches with from < match_date <= to
	GetKickingOffBetween(ctx context.Context, from, to time.Time) ([]*entities.Match, error)

	// Create inserts the match and fills in ID and timestamps
	Create(ctx context.Context, match *entities.Match) error

	// UpdateResult stores the actual score. Returns nil when the match does not exist.
	UpdateResult(ctx context.Context, id int64, homeScore, awayScore int) (*entities.Match, error)
}

// PredictionRepository defines data access for predictions
type PredictionRepository interface {
	// GetByUser returns all predictions of a user
	GetByUser(ctx context.Context, userID string) ([]*entities.Prediction, error)

	// GetHistoryByUser returns a user's predictions joined with their matches, latest kickoff first
	GetHistoryByUser(ctx context.Context, userID string) ([]*entities.PredictionWithMatch, error)

	// UpsertBatch inserts or overwrites predictions keyed on (user_id, match_id)
	UpsertBatch(ctx context.Context, predictions []*entities.Prediction) error
}

// UserScoreRepository reads the externally computed leaderboard
type UserScoreRepository interface {
	GetAll(ctx context.Context) ([]*entities.ScoreboardEntry, error)
}

// AuthorizedEmailRepository reads and writes the role grants
type AuthorizedEmailRepository interface {
	// HasRole reports whether email was granted role
	HasRole(ctx context.Context, email string, role entities.Role) (bool, error)

	// Grant adds role to email; granting twice is a no-op
	Grant(ctx context.Context, email string, role entities.Role) error
}

// SessionRepository stores sessions keyed by token hash
type SessionRepository interface {
	// GetByTokenHash returns nil when no session matches
	GetByTokenHash(ctx context.Context, tokenHash string) (*entities.Session, error)

	Create(ctx context.Context, session *entities.Session) error

	Delete(ctx context.Context, tokenHash string) error

	// DeleteExpired removes sessions that expired before cutoff and returns how many
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
