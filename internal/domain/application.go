package domain

import (
	"context"
	"time"
)

// ApplicationStatus is the workflow state of an application.
type ApplicationStatus string

const (
	StatusApplied   ApplicationStatus = "APPLIED"
	StatusReviewed  ApplicationStatus = "REVIEWED"
	StatusInterview ApplicationStatus = "INTERVIEW"
	StatusOffered   ApplicationStatus = "OFFERED"
	StatusRejected  ApplicationStatus = "REJECTED"
)

// AllApplicationStatuses enumerates every workflow state in order. Aggregates
// report every entry, including zero counts.
var AllApplicationStatuses = []ApplicationStatus{
	StatusApplied,
	StatusReviewed,
	StatusInterview,
	StatusOffered,
	StatusRejected,
}

// Application links one candidate identity to one job. At most one row exists
// per (JobID, CandidateID) pair; the table carries a unique constraint.
type Application struct {
	ID          int64
	JobID       int64
	CandidateID int64
	Status      ApplicationStatus
	CoverNote   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ApplicationRepository defines the port for application persistence. Create
// surfaces a conflict-coded error when the uniqueness constraint fires.
type ApplicationRepository interface {
	Create(ctx context.Context, a Application) (*Application, error)
	GetByID(ctx context.Context, id int64) (*Application, error)
	FindByJobAndCandidate(ctx context.Context, jobID, candidateID int64) (*Application, error)
	UpdateStatus(ctx context.Context, id int64, status ApplicationStatus) (*Application, error)
	ListByCandidate(ctx context.Context, candidateID int64) ([]Application, error)
	ListByJob(ctx context.Context, jobID int64) ([]Application, error)
	// ListRecentByCompany returns the newest applications across a company's
	// jobs, or across all companies when companyID is 0.
	ListRecentByCompany(ctx context.Context, companyID int64, limit int) ([]Application, error)
	// CountByStatusForCompany groups application counts by status for one
	// company, or for all companies when companyID is 0. Statuses with no
	// rows are absent from the map; callers backfill zeros.
	CountByStatusForCompany(ctx context.Context, companyID int64) (map[ApplicationStatus]int, error)
	CountByStatusForJob(ctx context.Context, jobID int64) (map[ApplicationStatus]int, error)
	CountByCompany(ctx context.Context, companyID int64) (int, error)
	// LatestForJob returns the most recent application for a job, or nil.
	LatestForJob(ctx context.Context, jobID int64) (*Application, error)
}
