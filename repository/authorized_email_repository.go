package repository

import (
	"context"
	"fmt"
	"strings"

	"tipster/database"
	"tipster/domain/entities"
)

// AuthorizedEmailRepository implements the AuthorizedEmailRepository interface
type AuthorizedEmailRepository struct {
	q Queryable
}

// NewAuthorizedEmailRepository creates a new authorized email repository
func NewAuthorizedEmailRepository(db *database.DB) *AuthorizedEmailRepository {
	return &AuthorizedEmailRepository{q: db.Pool}
}

func newAuthorizedEmailRepository(tx Queryable) *AuthorizedEmailRepository {
	return &AuthorizedEmailRepository{q: tx}
}

// HasRole reports whether email holds role. Emails compare case-insensitively.
func (r *AuthorizedEmailRepository) HasRole(ctx context.Context, email string, role entities.Role) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM authorized_emails
			WHERE lower(email) = lower($1) AND role = $2
		)
	`

	var exists bool
	if err := r.q.QueryRow(ctx, query, strings.TrimSpace(email), string(role)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check role %s for %s: %w", role, email, err)
	}
	return exists, nil
}

// Grant gives email the role; repeated grants are no-ops
func (r *AuthorizedEmailRepository) Grant(ctx context.Context, email string, role entities.Role) error {
	query := `
		INSERT INTO authorized_emails (email, role)
		VALUES ($1, $2)
		ON CONFLICT (email, role) DO NOTHING
	`

	if _, err := r.q.Exec(ctx, query, strings.ToLower(strings.TrimSpace(email)), string(role)); err != nil {
		return fmt.Errorf("failed to grant role %s to %s: %w", role, email, err)
	}
	return nil
}
