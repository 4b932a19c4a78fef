package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"jobboard/internal/domain"
)

const jobColumns = "id, company_id, title, description, job_type, work_mode, location, salary_min, salary_max, experience_max, status, created_at, updated_at"

// JobRepo implements domain.JobRepository.
type JobRepo struct {
	db *DB
}

// NewJobRepo wraps a DB as a JobRepository.
func NewJobRepo(db *DB) *JobRepo {
	return &JobRepo{db: db}
}

func scanJob(row *sql.Row) (*domain.Job, error) {
	var j domain.Job
	err := row.Scan(&j.ID, &j.CompanyID, &j.Title, &j.Description, &j.JobType, &j.WorkMode, &j.Location, &j.SalaryMin, &j.SalaryMax, &j.ExperienceMax, &j.Status, &j.CreatedAt, &j.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// Create inserts a new job posting.
func (r *JobRepo) Create(ctx context.Context, j domain.Job) (*domain.Job, error) {
	now := time.Now()
	return scanJob(r.db.sql.QueryRowContext(ctx,
		"INSERT INTO jobs (company_id, title, description, job_type, work_mode, location, salary_min, salary_max, experience_max, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11) RETURNING "+jobColumns,
		j.CompanyID, j.Title, j.Description, j.JobType, j.WorkMode, j.Location, j.SalaryMin, j.SalaryMax, j.ExperienceMax, j.Status, now,
	))
}

// Update rewrites the mutable fields of an existing job.
func (r *JobRepo) Update(ctx context.Context, j domain.Job) (*domain.Job, error) {
	return scanJob(r.db.sql.QueryRowContext(ctx,
		"UPDATE jobs SET title = $1, description = $2, job_type = $3, work_mode = $4, location = $5, salary_min = $6, salary_max = $7, experience_max = $8, updated_at = $9 WHERE id = $10 RETURNING "+jobColumns,
		j.Title, j.Description, j.JobType, j.WorkMode, j.Location, j.SalaryMin, j.SalaryMax, j.ExperienceMax, time.Now(), j.ID,
	))
}

// GetByID retrieves a job by id regardless of status, or nil.
func (r *JobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	return scanJob(r.db.sql.QueryRowContext(ctx,
		"SELECT "+jobColumns+" FROM jobs WHERE id = $1",
		id,
	))
}

// SetStatus transitions the lifecycle state.
func (r *JobRepo) SetStatus(ctx context.Context, id int64, status domain.JobStatus) error {
	_, err := r.db.sql.ExecContext(ctx,
		"UPDATE jobs SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now(), id,
	)
	return err
}

// ListByCompany returns every job of one company, newest first.
func (r *JobRepo) ListByCompany(ctx context.Context, companyID int64) ([]domain.Job, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		"SELECT "+jobColumns+" FROM jobs WHERE company_id = $1 ORDER BY created_at DESC",
		companyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		var j domain.Job
		if err := rows.Scan(&j.ID, &j.CompanyID, &j.Title, &j.Description, &j.JobType, &j.WorkMode, &j.Location, &j.SalaryMin, &j.SalaryMax, &j.ExperienceMax, &j.Status, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// CountByCompany counts jobs for one company, or across all companies when
// companyID is 0.
func (r *JobRepo) CountByCompany(ctx context.Context, companyID int64, openOnly bool) (int, error) {
	query := "SELECT COUNT(*) FROM jobs"
	var conds []string
	var args []any
	if companyID > 0 {
		args = append(args, companyID)
		conds = append(conds, fmt.Sprintf("company_id = $%d", len(args)))
	}
	if openOnly {
		conds = append(conds, "status = 'OPEN'")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	var count int
	err := r.db.sql.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// searchClauses compiles the filter into SQL predicates and their arguments.
// Only open jobs are ever matched.
func searchClauses(f domain.SearchFilter) ([]string, []any) {
	conds := []string{"j.status = 'OPEN'"}
	var args []any

	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(j.title ILIKE $%d OR j.description ILIKE $%d)", n, n))
	}
	if f.Location != "" {
		args = append(args, "%"+f.Location+"%")
		conds = append(conds, fmt.Sprintf("j.location ILIKE $%d", len(args)))
	}
	if f.JobType != "" {
		args = append(args, f.JobType)
		conds = append(conds, fmt.Sprintf("j.job_type = $%d", len(args)))
	}
	// Salary predicates keep jobs whose range overlaps the requested range;
	// an unset bound on the posting never excludes it.
	if f.MinSalary != nil {
		args = append(args, *f.MinSalary)
		conds = append(conds, fmt.Sprintf("(j.salary_max IS NULL OR j.salary_max >= $%d)", len(args)))
	}
	if f.MaxSalary != nil {
		args = append(args, *f.MaxSalary)
		conds = append(conds, fmt.Sprintf("(j.salary_min IS NULL OR j.salary_min <= $%d)", len(args)))
	}
	if f.MaxExperience != nil {
		args = append(args, *f.MaxExperience)
		conds = append(conds, fmt.Sprintf("(j.experience_max IS NULL OR j.experience_max <= $%d)", len(args)))
	}
	if f.SavedBy > 0 {
		args = append(args, f.SavedBy)
		conds = append(conds, fmt.Sprintf("j.id IN (SELECT job_id FROM saved_jobs WHERE identity_id = $%d)", len(args)))
	}
	return conds, args
}

func searchOrder(sort domain.SortOrder) string {
	switch sort {
	case domain.SortSalaryHigh:
		return "j.salary_max DESC NULLS LAST, j.salary_min DESC NULLS LAST, j.created_at DESC"
	case domain.SortSalaryLow:
		return "j.salary_max ASC NULLS LAST, j.salary_min ASC NULLS LAST, j.created_at ASC"
	default:
		return "j.created_at DESC"
	}
}

// Search returns one page of matching open jobs plus the total match count.
func (r *JobRepo) Search(ctx context.Context, f domain.SearchFilter, limit, offset int) ([]domain.JobListing, int, error) {
	conds, args := searchClauses(f)
	where := strings.Join(conds, " AND ")

	var total int
	if err := r.db.sql.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM jobs j WHERE "+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageArgs := append(args, limit, offset)
	query := fmt.Sprintf(
		"SELECT j.id, j.title, c.name, j.location, j.job_type, j.work_mode, j.salary_min, j.salary_max, j.experience_max, j.created_at FROM jobs j JOIN companies c ON c.id = j.company_id WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		where, searchOrder(f.Sort), len(args)+1, len(args)+2,
	)
	rows, err := r.db.sql.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	listings := make([]domain.JobListing, 0, limit)
	for rows.Next() {
		var l domain.JobListing
		if err := rows.Scan(&l.ID, &l.Title, &l.CompanyName, &l.Location, &l.JobType, &l.WorkMode, &l.SalaryMin, &l.SalaryMax, &l.ExperienceMax, &l.CreatedAt); err != nil {
			return nil, 0, err
		}
		listings = append(listings, l)
	}
	return listings, total, rows.Err()
}

// SavedJobRepo implements domain.SavedJobRepository.
type SavedJobRepo struct {
	db *DB
}

// NewSavedJobRepo wraps a DB as a SavedJobRepository.
func NewSavedJobRepo(db *DB) *SavedJobRepo {
	return &SavedJobRepo{db: db}
}

// Save records a saved job. Saving twice is a no-op.
func (r *SavedJobRepo) Save(ctx context.Context, identityID, jobID int64) error {
	_, err := r.db.sql.ExecContext(ctx,
		"INSERT INTO saved_jobs (identity_id, job_id, created_at) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING",
		identityID, jobID, time.Now(),
	)
	return err
}

// Unsave removes a saved job. Removing an absent row is not an error.
func (r *SavedJobRepo) Unsave(ctx context.Context, identityID, jobID int64) error {
	_, err := r.db.sql.ExecContext(ctx,
		"DELETE FROM saved_jobs WHERE identity_id = $1 AND job_id = $2",
		identityID, jobID,
	)
	return err
}

// IDsForIdentity returns the saved-job id set in one query.
func (r *SavedJobRepo) IDsForIdentity(ctx context.Context, identityID int64) (map[int64]bool, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		"SELECT job_id FROM saved_jobs WHERE identity_id = $1",
		identityID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}
