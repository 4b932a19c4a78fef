// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// DB wraps a *sql.DB shared by the repository types.
type DB struct {
	sql *sql.DB
}

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS identities (id BIGSERIAL PRIMARY KEY, email TEXT UNIQUE NOT NULL, password_hash TEXT NOT NULL, role TEXT NOT NULL CHECK(role IN ('CANDIDATE','EMPLOYER','ADMIN')), is_active BOOLEAN NOT NULL DEFAULT TRUE, mobile TEXT NOT NULL DEFAULT '', created_at TIMESTAMPTZ NOT NULL);",
		"CREATE TABLE IF NOT EXISTS sessions (token TEXT PRIMARY KEY, identity_id BIGINT NOT NULL REFERENCES identities(id) ON DELETE CASCADE, expires_at TIMESTAMPTZ NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);",
		"CREATE INDEX IF NOT EXISTS idx_sessions_identity_id ON sessions(identity_id);",
		"CREATE TABLE IF NOT EXISTS companies (id BIGSERIAL PRIMARY KEY, owner_id BIGINT UNIQUE NOT NULL REFERENCES identities(id) ON DELETE CASCADE, name TEXT NOT NULL, description TEXT NOT NULL DEFAULT '', website TEXT NOT NULL DEFAULT '', location TEXT NOT NULL DEFAULT '', logo_url TEXT NOT NULL DEFAULT '', company_type TEXT NOT NULL DEFAULT '', size TEXT NOT NULL DEFAULT '', verified BOOLEAN NOT NULL DEFAULT FALSE, created_at TIMESTAMPTZ NOT NULL, updated_at TIMESTAMPTZ NOT NULL);",
		"CREATE TABLE IF NOT EXISTS jobs (id BIGSERIAL PRIMARY KEY, company_id BIGINT NOT NULL REFERENCES companies(id) ON DELETE CASCADE, title TEXT NOT NULL, description TEXT NOT NULL, job_type TEXT NOT NULL, work_mode TEXT NOT NULL, location TEXT NOT NULL, salary_min BIGINT, salary_max BIGINT, experience_max INT, status TEXT NOT NULL CHECK(status IN ('OPEN','CLOSED')), created_at TIMESTAMPTZ NOT NULL, updated_at TIMESTAMPTZ NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_jobs_company_id ON jobs(company_id);",
		"CREATE INDEX IF NOT EXISTS idx_jobs_status_created_at ON jobs(status, created_at DESC);",
		"CREATE TABLE IF NOT EXISTS saved_jobs (identity_id BIGINT NOT NULL REFERENCES identities(id) ON DELETE CASCADE, job_id BIGINT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE, created_at TIMESTAMPTZ NOT NULL, PRIMARY KEY (identity_id, job_id));",
		"CREATE TABLE IF NOT EXISTS applications (id BIGSERIAL PRIMARY KEY, job_id BIGINT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE, candidate_id BIGINT NOT NULL REFERENCES identities(id) ON DELETE CASCADE, status TEXT NOT NULL CHECK(status IN ('APPLIED','REVIEWED','INTERVIEW','OFFERED','REJECTED')), cover_note TEXT NOT NULL DEFAULT '', created_at TIMESTAMPTZ NOT NULL, updated_at TIMESTAMPTZ NOT NULL, UNIQUE (job_id, candidate_id));",
		"CREATE INDEX IF NOT EXISTS idx_applications_candidate_id ON applications(candidate_id);",
		"CREATE INDEX IF NOT EXISTS idx_applications_job_id ON applications(job_id);",
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
