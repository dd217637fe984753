package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"tipster/domain"
	"tipster/domain/entities"
	"tipster/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const sessionTokenBytes = 32

// sessionGate implements the SessionGate interface
type sessionGate struct {
	sessionRepo interfaces.SessionRepository
	authRepo    interfaces.AuthorizedEmailRepository
	now         func() time.Time
}

// NewSessionGate creates a new session gate
func NewSessionGate(sessionRepo interfaces.SessionRepository, authRepo interfaces.AuthorizedEmailRepository) interfaces.SessionGate {
	return &sessionGate{
		sessionRepo: sessionRepo,
		authRepo:    authRepo,
		now:         time.Now,
	}
}

// HashToken returns the stored form of a bearer token
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ResolveIdentity maps a bearer token to an identity with its role. Missing,
// unknown and expired tokens resolve to nil without error.
func (g *sessionGate) ResolveIdentity(ctx context.Context, token string) (*entities.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}

	session, err := g.sessionRepo.GetByTokenHash(ctx, HashToken(token))
	if err != nil {
		return nil, domain.NewPersistenceFailure(err, "failed to look up session")
	}
	if session == nil || session.IsExpiredAt(g.now()) {
		return nil, nil
	}

	isAdmin, err := g.authRepo.HasRole(ctx, session.Email, entities.RoleAdmin)
	if err != nil {
		return nil, domain.NewPersistenceFailure(err, "failed to look up role")
	}

	identity := &entities.Identity{
		ID:    session.UserID,
		Email: session.Email,
		Role:  entities.RoleUser,
	}
	if isAdmin {
		identity.Role = entities.RoleAdmin
	}
	return identity, nil
}

// RequireAuthenticated resolves the token and redirects to login when there is no principal
func (g *sessionGate) RequireAuthenticated(ctx context.Context, token string) (entities.GateResult, error) {
	identity, err := g.ResolveIdentity(ctx, token)
	if err != nil {
		return entities.GateResult{}, err
	}
	if identity == nil {
		return entities.GateResult{Outcome: entities.GateRedirectLogin}, nil
	}
	return entities.GateResult{Outcome: entities.GateReady, Identity: identity}, nil
}

// RequireAdmin additionally redirects non-admin principals home
func (g *sessionGate) RequireAdmin(ctx context.Context, token string) (entities.GateResult, error) {
	result, err := g.RequireAuthenticated(ctx, token)
	if err != nil || !result.Ready() {
		return result, err
	}
	if !result.Identity.IsAdmin() {
		log.WithFields(log.Fields{
			"user_id": result.Identity.ID,
			"email":   result.Identity.Email,
		}).Info("Non-admin denied access to admin screen")
		return entities.GateResult{Outcome: entities.GateRedirectHome, Identity: result.Identity}, nil
	}
	return result, nil
}

// SignOut ends the session behind token
func (g *sessionGate) SignOut(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.NewUnauthenticated("no session to sign out of")
	}
	if err := g.sessionRepo.Delete(ctx, HashToken(token)); err != nil {
		return domain.NewPersistenceFailure(err, "failed to delete session")
	}
	return nil
}

// IssueSession stores a new session and returns the raw token. Only the hash is persisted.
func (g *sessionGate) IssueSession(ctx context.Context, userID, email string, ttl time.Duration) (string, error) {
	userID = strings.TrimSpace(userID)
	email = strings.ToLower(strings.TrimSpace(email))
	if userID == "" || email == "" {
		return "", domain.NewValidationFailure("user id and email are required")
	}
	if ttl <= 0 {
		return "", domain.NewValidationFailure("session ttl must be positive")
	}

	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	now := g.now()
	session := &entities.Session{
		TokenHash: HashToken(token),
		UserID:    userID,
		Email:     email,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := g.sessionRepo.Create(ctx, session); err != nil {
		return "", domain.NewPersistenceFailure(err, "failed to create session")
	}
	return token, nil
}
