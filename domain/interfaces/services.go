package interfaces

import (
	"context"
	"time"

	"tipster/domain/entities"
	"tipster/domain/events"
)

// PredictionService is the prediction submission and locking workflow
type PredictionService interface {
	// LoadOpenRound returns the next open round with the identity's predictions merged in
	LoadOpenRound(ctx context.Context, identity *entities.Identity) (*entities.OpenRound, error)

	// IsLocked reports whether match no longer accepts predictions at now
	IsLocked(match *entities.Match, now time.Time) bool

	// SubmitPredictions validates the mapping against the open round and upserts the accepted entries atomically
	SubmitPredictions(ctx context.Context, identity *entities.Identity, predictions map[int64]entities.Score) (*entities.SubmissionReport, error)

	// LoadResults returns played matches with the identity's predictions
	LoadResults(ctx context.Context, identity *entities.Identity) ([]*entities.ResultRow, error)

	// LoadHistory returns every prediction of the identity with its match
	LoadHistory(ctx context.Context, identity *entities.Identity) ([]*entities.PredictionWithMatch, error)
}

// MatchAdminService is the admin result recording workflow
type MatchAdminService interface {
	ListAllMatches(ctx context.Context) ([]*entities.Match, error)
	GetMatch(ctx context.Context, matchID int64) (*entities.Match, error)
	CreateMatch(ctx context.Context, input entities.NewMatch) (*entities.Match, error)
	RecordResult(ctx context.Context, matchID int64, homeScore, awayScore int) (*entities.Match, error)
}

// SessionGate resolves identities and enforces access per screen
type SessionGate interface {
	// ResolveIdentity returns nil when the token maps to no live session
	ResolveIdentity(ctx context.Context, token string) (*entities.Identity, error)
	RequireAuthenticated(ctx context.Context, token string) (entities.GateResult, error)
	RequireAdmin(ctx context.Context, token string) (entities.GateResult, error)
	SignOut(ctx context.Context, token string) error

	// IssueSession mints a session for an identity already verified elsewhere and returns the raw token
	IssueSession(ctx context.Context, userID, email string, ttl time.Duration) (string, error)
}

// LeaderboardService reads the scoreboard
type LeaderboardService interface {
	Leaderboard(ctx context.Context) ([]*entities.ScoreboardEntry, error)
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events until the surrounding transaction settles
type TransactionalEventPublisher interface {
	EventPublisher
	Flush(ctx context.Context) error
	Discard()
}

// UnitOfWork groups repository calls into one transaction
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	MatchRepository() MatchRepository
	PredictionRepository() PredictionRepository
	AuthorizedEmailRepository() AuthorizedEmailRepository
	SessionRepository() SessionRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
