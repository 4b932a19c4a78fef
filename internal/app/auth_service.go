// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"jobboard/internal/common"
	"jobboard/internal/domain"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Session tokens are 32 random bytes, hex-encoded. The edge gatekeeper
// pattern-matches on this exact shape, so it must not change without
// changing the gatekeeper.
const tokenBytes = 32

var tokenShape = regexp.MustCompile(`^[0-9a-f]{64}$`)

// ValidTokenShape reports whether s looks like a session token. It proves
// nothing about validity; full validation requires the store.
func ValidTokenShape(s string) bool {
	return tokenShape.MatchString(s)
}

// AuthService manages credentials and the session lifecycle.
type AuthService struct {
	identities domain.IdentityRepository
	sessions   domain.SessionRepository
	sessionTTL time.Duration
	bcryptCost int
	log        *logrus.Logger
}

// NewAuthService creates an AuthService backed by the given repositories.
func NewAuthService(identities domain.IdentityRepository, sessions domain.SessionRepository, sessionTTL time.Duration, bcryptCost int, log *logrus.Logger) *AuthService {
	return &AuthService{
		identities: identities,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

// Signup registers a new candidate or employer and opens a session.
// Admin identities are seeded out of band, never self-registered.
func (s *AuthService) Signup(ctx context.Context, email, password string, role domain.Role, mobile string) (*domain.Identity, string, error) {
	email = NormalizeEmail(email)
	if role != domain.RoleCandidate && role != domain.RoleEmployer {
		return nil, "", common.NewValidationError("invalid role", map[string]string{"role": "role must be CANDIDATE or EMPLOYER"})
	}

	existing, err := s.identities.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", common.NewError(common.CodeConflict, "email already registered", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, "", common.NewError(common.CodeInternal, "failed to hash password", err)
	}

	identity, err := s.identities.Create(ctx, email, string(hash), role, mobile)
	if err != nil {
		return nil, "", err
	}

	token, err := s.CreateSession(ctx, identity.ID)
	if err != nil {
		// Undo the identity write so a retry is not met with a duplicate
		// email conflict.
		if delErr := s.identities.Delete(ctx, identity.ID); delErr != nil {
			s.log.WithError(delErr).WithField("identity_id", identity.ID).Error("failed to roll back identity after session failure")
		}
		return nil, "", err
	}
	s.log.WithFields(logrus.Fields{"identity_id": identity.ID, "role": role}).Info("identity registered")
	return identity, token, nil
}

// Login verifies credentials and opens a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Identity, string, error) {
	identity, err := s.identities.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, "", err
	}
	if identity == nil {
		return nil, "", common.NewError(common.CodeUnauthorized, "invalid email or password", nil)
	}
	if !identity.IsActive {
		return nil, "", common.NewError(common.CodeUnauthorized, "account is disabled", nil)
	}
	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
		return nil, "", common.NewError(common.CodeUnauthorized, "invalid email or password", nil)
	}

	token, err := s.CreateSession(ctx, identity.ID)
	if err != nil {
		return nil, "", err
	}
	return identity, token, nil
}

// LoginWithSSO opens a session for an externally authenticated email,
// provisioning a candidate identity on first login.
func (s *AuthService) LoginWithSSO(ctx context.Context, email string) (string, error) {
	email = NormalizeEmail(email)
	identity, err := s.identities.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if identity == nil {
		identity, err = s.identities.Create(ctx, email, "", domain.RoleCandidate, "")
		if err != nil {
			// Lost a provisioning race; the row exists now.
			identity, err = s.identities.GetByEmail(ctx, email)
			if err != nil || identity == nil {
				return "", common.NewError(common.CodeInternal, "failed to provision identity", err)
			}
		}
	}
	if !identity.IsActive {
		return "", common.NewError(common.CodeUnauthorized, "account is disabled", nil)
	}
	return s.CreateSession(ctx, identity.ID)
}

// CreateSession generates a random token and persists it with an absolute
// expiration.
func (s *AuthService) CreateSession(ctx context.Context, identityID int64) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", common.NewError(common.CodeInternal, "failed to generate session token", err)
	}
	if err := s.sessions.Create(ctx, identityID, token, time.Now().Add(s.sessionTTL)); err != nil {
		return "", err
	}
	return token, nil
}

// ValidateSession resolves a token into an identity projection. It returns
// (nil, nil) for any authentication failure: unknown token, expired session
// (lazily deleted), or inactive owner. The inactive case leaves the session
// row in place.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, nil
	}
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	if time.Now().After(session.ExpiresAt) {
		if err := s.sessions.Delete(ctx, token); err != nil {
			s.log.WithError(err).Warn("failed to delete expired session")
		}
		return nil, nil
	}

	identity, err := s.identities.GetByID(ctx, session.IdentityID)
	if err != nil {
		return nil, err
	}
	if identity == nil || !identity.IsActive {
		return nil, nil
	}
	identity.PasswordHash = ""
	return identity, nil
}

// Logout revokes a single session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// ChangePassword verifies the current password, stores a new hash, and
// revokes every session for the identity.
func (s *AuthService) ChangePassword(ctx context.Context, identityID int64, current, next string) error {
	identity, err := s.identities.GetByID(ctx, identityID)
	if err != nil {
		return err
	}
	if identity == nil {
		return common.NewError(common.CodeUnauthorized, "identity not found", nil)
	}
	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(current)) != nil {
		return common.NewError(common.CodeUnauthorized, "current password is incorrect", nil)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.bcryptCost)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to hash password", err)
	}
	if err := s.identities.UpdatePassword(ctx, identityID, string(hash)); err != nil {
		return err
	}
	return s.sessions.DeleteAllForIdentity(ctx, identityID)
}

// SetActive flips the active flag. Deactivation revokes every open session so
// the lock-out takes effect immediately.
func (s *AuthService) SetActive(ctx context.Context, identityID int64, active bool) error {
	identity, err := s.identities.GetByID(ctx, identityID)
	if err != nil {
		return err
	}
	if identity == nil {
		return common.NewError(common.CodeNotFound, "user not found", nil)
	}
	if err := s.identities.SetActive(ctx, identityID, active); err != nil {
		return err
	}
	if !active {
		if err := s.sessions.DeleteAllForIdentity(ctx, identityID); err != nil {
			s.log.WithError(err).WithField("identity_id", identityID).Warn("failed to revoke sessions on deactivation")
		}
	}
	s.log.WithFields(logrus.Fields{"identity_id": identityID, "active": active}).Info("identity active flag changed")
	return nil
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
