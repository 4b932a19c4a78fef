package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"jobboard/internal/common"
	"jobboard/internal/domain"
)

const applicationColumns = "id, job_id, candidate_id, status, cover_note, created_at, updated_at"

// uniqueViolation is the PostgreSQL error code fired by the
// (job_id, candidate_id) constraint.
const uniqueViolation = "23505"

// ApplicationRepo implements domain.ApplicationRepository.
type ApplicationRepo struct {
	db *DB
}

// NewApplicationRepo wraps a DB as an ApplicationRepository.
func NewApplicationRepo(db *DB) *ApplicationRepo {
	return &ApplicationRepo{db: db}
}

func scanApplication(row *sql.Row) (*domain.Application, error) {
	var a domain.Application
	err := row.Scan(&a.ID, &a.JobID, &a.CandidateID, &a.Status, &a.CoverNote, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new application. The unique constraint on
// (job_id, candidate_id) surfaces as a conflict-coded error.
func (r *ApplicationRepo) Create(ctx context.Context, a domain.Application) (*domain.Application, error) {
	now := time.Now()
	created, err := scanApplication(r.db.sql.QueryRowContext(ctx,
		"INSERT INTO applications (job_id, candidate_id, status, cover_note, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $5) RETURNING "+applicationColumns,
		a.JobID, a.CandidateID, a.Status, a.CoverNote, now,
	))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, common.NewError(common.CodeConflict, "you have already applied to this job", err)
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves an application by id, or nil.
func (r *ApplicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	return scanApplication(r.db.sql.QueryRowContext(ctx,
		"SELECT "+applicationColumns+" FROM applications WHERE id = $1",
		id,
	))
}

// FindByJobAndCandidate retrieves the application for one (job, candidate)
// pair, or nil.
func (r *ApplicationRepo) FindByJobAndCandidate(ctx context.Context, jobID, candidateID int64) (*domain.Application, error) {
	return scanApplication(r.db.sql.QueryRowContext(ctx,
		"SELECT "+applicationColumns+" FROM applications WHERE job_id = $1 AND candidate_id = $2",
		jobID, candidateID,
	))
}

// UpdateStatus moves the application to a new workflow state.
func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus) (*domain.Application, error) {
	return scanApplication(r.db.sql.QueryRowContext(ctx,
		"UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3 RETURNING "+applicationColumns,
		status, time.Now(), id,
	))
}

func (r *ApplicationRepo) list(ctx context.Context, query string, args ...any) ([]domain.Application, error) {
	rows, err := r.db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		var a domain.Application
		if err := rows.Scan(&a.ID, &a.JobID, &a.CandidateID, &a.Status, &a.CoverNote, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// ListByCandidate returns one candidate's applications, newest first.
func (r *ApplicationRepo) ListByCandidate(ctx context.Context, candidateID int64) ([]domain.Application, error) {
	return r.list(ctx,
		"SELECT "+applicationColumns+" FROM applications WHERE candidate_id = $1 ORDER BY created_at DESC",
		candidateID,
	)
}

// ListByJob returns every application for one job, newest first.
func (r *ApplicationRepo) ListByJob(ctx context.Context, jobID int64) ([]domain.Application, error) {
	return r.list(ctx,
		"SELECT "+applicationColumns+" FROM applications WHERE job_id = $1 ORDER BY created_at DESC",
		jobID,
	)
}

// ListRecentByCompany returns the newest applications across one company's
// jobs, or across all companies when companyID is 0.
func (r *ApplicationRepo) ListRecentByCompany(ctx context.Context, companyID int64, limit int) ([]domain.Application, error) {
	if companyID > 0 {
		return r.list(ctx,
			"SELECT a.id, a.job_id, a.candidate_id, a.status, a.cover_note, a.created_at, a.updated_at FROM applications a JOIN jobs j ON j.id = a.job_id WHERE j.company_id = $1 ORDER BY a.created_at DESC LIMIT $2",
			companyID, limit,
		)
	}
	return r.list(ctx,
		"SELECT "+applicationColumns+" FROM applications ORDER BY created_at DESC LIMIT $1",
		limit,
	)
}

func (r *ApplicationRepo) countByStatus(ctx context.Context, query string, args ...any) (map[domain.ApplicationStatus]int, error) {
	rows, err := r.db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.ApplicationStatus]int)
	for rows.Next() {
		var status domain.ApplicationStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// CountByStatusForCompany groups application counts by status for one
// company, or for all companies when companyID is 0. Absent statuses are
// left out; callers backfill zeros.
func (r *ApplicationRepo) CountByStatusForCompany(ctx context.Context, companyID int64) (map[domain.ApplicationStatus]int, error) {
	if companyID > 0 {
		return r.countByStatus(ctx,
			"SELECT a.status, COUNT(*) FROM applications a JOIN jobs j ON j.id = a.job_id WHERE j.company_id = $1 GROUP BY a.status",
			companyID,
		)
	}
	return r.countByStatus(ctx, "SELECT status, COUNT(*) FROM applications GROUP BY status")
}

// CountByStatusForJob groups application counts by status for one job.
func (r *ApplicationRepo) CountByStatusForJob(ctx context.Context, jobID int64) (map[domain.ApplicationStatus]int, error) {
	return r.countByStatus(ctx,
		"SELECT status, COUNT(*) FROM applications WHERE job_id = $1 GROUP BY status",
		jobID,
	)
}

// CountByCompany counts applications for one company, or across all
// companies when companyID is 0.
func (r *ApplicationRepo) CountByCompany(ctx context.Context, companyID int64) (int, error) {
	var count int
	if companyID > 0 {
		err := r.db.sql.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM applications a JOIN jobs j ON j.id = a.job_id WHERE j.company_id = $1",
			companyID,
		).Scan(&count)
		return count, err
	}
	err := r.db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM applications").Scan(&count)
	return count, err
}

// LatestForJob returns the most recent application for a job, or nil.
func (r *ApplicationRepo) LatestForJob(ctx context.Context, jobID int64) (*domain.Application, error) {
	return scanApplication(r.db.sql.QueryRowContext(ctx,
		"SELECT "+applicationColumns+" FROM applications WHERE job_id = $1 ORDER BY created_at DESC LIMIT 1",
		jobID,
	))
}
