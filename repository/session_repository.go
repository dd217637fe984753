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

// SessionRepository implements the SessionRepository interface
type SessionRepository struct {
	q Queryable
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{q: db.Pool}
}

func newSessionRepository(tx Queryable) *SessionRepository {
	return &SessionRepository{q: tx}
}

// GetByTokenHash returns the session or nil when none matches
func (r *SessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*entities.Session, error) {
	query := `
		SELECT token_hash, user_id, email, expires_at, created_at
		FROM sessions
		WHERE token_hash = $1
	`

	rows, err := r.q.Query(ctx, query, tokenHash)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	session, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[entities.Session])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}
	return session, nil
}

// Create stores a new session
func (r *SessionRepository) Create(ctx context.Context, session *entities.Session) error {
	query := `
		INSERT INTO sessions (token_hash, user_id, email, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	createdAt := session.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.q.Exec(ctx, query, session.TokenHash, session.UserID, session.Email, session.ExpiresAt, createdAt)
	if err != nil {
		return fmt.Errorf("failed to create session for user %s: %w", session.UserID, err)
	}
	session.CreatedAt = createdAt
	return nil
}

// Delete removes a session; deleting an unknown session is not an error
func (r *SessionRepository) Delete(ctx context.Context, tokenHash string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions that expired at or before cutoff
func (r *SessionRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
