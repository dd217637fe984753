package entities

import (
	"time"
)

// Role is the capability level of an identity
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is an authenticated principal
type Identity struct {
	ID    string
	Email string
	Role  Role
}

// IsAdmin reports whether the identity carries the admin role
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// Session maps a hashed bearer token to a principal
type Session struct {
	TokenHash string    `db:"token_hash"`
	UserID    string    `db:"user_id"`
	Email     string    `db:"email"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// IsExpiredAt reports whether the session is no longer valid at now
func (s *Session) IsExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// AuthorizedEmail grants a role to an email address
type AuthorizedEmail struct {
	Email     string    `db:"email"`
	Role      Role      `db:"role"`
	CreatedAt time.Time `db:"created_at"`
}
