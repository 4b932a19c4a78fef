// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// Role is the coarse access level of an identity.
type Role string

const (
	RoleCandidate Role = "CANDIDATE"
	RoleEmployer  Role = "EMPLOYER"
	RoleAdmin     Role = "ADMIN"
)

// Identity is a user record. Email is stored case-normalized.
type Identity struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	Mobile       string
	CreatedAt    time.Time
}

// Session is a server-held, revocable proof of authentication bound to one
// identity. A session is valid iff it exists, is unexpired, and its owning
// identity is active.
type Session struct {
	Token      string
	IdentityID int64
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// IdentityRepository defines the port for identity persistence operations.
type IdentityRepository interface {
	GetByEmail(ctx context.Context, email string) (*Identity, error)
	GetByID(ctx context.Context, id int64) (*Identity, error)
	Create(ctx context.Context, email, passwordHash string, role Role, mobile string) (*Identity, error)
	Delete(ctx context.Context, id int64) error
	SetActive(ctx context.Context, id int64, active bool) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// SessionRepository defines the port for session persistence operations.
type SessionRepository interface {
	Create(ctx context.Context, identityID int64, token string, expiresAt time.Time) error
	GetByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	DeleteAllForIdentity(ctx context.Context, identityID int64) error
	DeleteExpired(ctx context.Context) error
}
