package postgres

import (
	"context"
	"database/sql"
	"time"

	"jobboard/internal/domain"
)

const identityColumns = "id, email, password_hash, role, is_active, mobile, created_at"

// IdentityRepo implements domain.IdentityRepository.
type IdentityRepo struct {
	db *DB
}

// NewIdentityRepo wraps a DB as an IdentityRepository.
func NewIdentityRepo(db *DB) *IdentityRepo {
	return &IdentityRepo{db: db}
}

func scanIdentity(row *sql.Row) (*domain.Identity, error) {
	var i domain.Identity
	err := row.Scan(&i.ID, &i.Email, &i.PasswordHash, &i.Role, &i.IsActive, &i.Mobile, &i.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// GetByEmail retrieves an identity by its normalized email, or nil.
func (r *IdentityRepo) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return scanIdentity(r.db.sql.QueryRowContext(ctx,
		"SELECT "+identityColumns+" FROM identities WHERE email = $1",
		email,
	))
}

// GetByID retrieves an identity by id, or nil.
func (r *IdentityRepo) GetByID(ctx context.Context, id int64) (*domain.Identity, error) {
	return scanIdentity(r.db.sql.QueryRowContext(ctx,
		"SELECT "+identityColumns+" FROM identities WHERE id = $1",
		id,
	))
}

// Create inserts a new active identity.
func (r *IdentityRepo) Create(ctx context.Context, email, passwordHash string, role domain.Role, mobile string) (*domain.Identity, error) {
	return scanIdentity(r.db.sql.QueryRowContext(ctx,
		"INSERT INTO identities (email, password_hash, role, is_active, mobile, created_at) VALUES ($1, $2, $3, TRUE, $4, $5) RETURNING "+identityColumns,
		email, passwordHash, role, mobile, time.Now(),
	))
}

// Delete removes an identity row. Sessions go with it via the FK cascade.
func (r *IdentityRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM identities WHERE id = $1", id)
	return err
}

// SetActive flips the active flag.
func (r *IdentityRepo) SetActive(ctx context.Context, id int64, active bool) error {
	_, err := r.db.sql.ExecContext(ctx,
		"UPDATE identities SET is_active = $1 WHERE id = $2",
		active, id,
	)
	return err
}

// UpdatePassword replaces the stored password hash.
func (r *IdentityRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := r.db.sql.ExecContext(ctx,
		"UPDATE identities SET password_hash = $1 WHERE id = $2",
		passwordHash, id,
	)
	return err
}

// SessionRepo implements domain.SessionRepository.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo wraps a DB as a SessionRepository.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create inserts a new session row.
func (r *SessionRepo) Create(ctx context.Context, identityID int64, token string, expiresAt time.Time) error {
	_, err := r.db.sql.ExecContext(ctx,
		"INSERT INTO sessions (token, identity_id, expires_at, created_at) VALUES ($1, $2, $3, $4)",
		token, identityID, expiresAt, time.Now(),
	)
	return err
}

// GetByToken retrieves a session by token, or nil.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.sql.QueryRowContext(ctx,
		"SELECT token, identity_id, expires_at, created_at FROM sessions WHERE token = $1",
		token,
	).Scan(&s.Token, &s.IdentityID, &s.ExpiresAt, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete removes a session by token. Deleting an absent token is not an
// error.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM sessions WHERE token = $1", token)
	return err
}

// DeleteAllForIdentity revokes every session belonging to one identity.
func (r *SessionRepo) DeleteAllForIdentity(ctx context.Context, identityID int64) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM sessions WHERE identity_id = $1", identityID)
	return err
}

// DeleteExpired removes every expired session row.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= $1", time.Now())
	return err
}
