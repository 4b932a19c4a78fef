package domain

import (
	"context"
	"time"
)

// JobStatus is the lifecycle state of a posting. Only open jobs are visible
// to public search.
type JobStatus string

const (
	JobOpen   JobStatus = "OPEN"
	JobClosed JobStatus = "CLOSED"
)

// Job is a posting owned by a company. Salary bounds and the experience
// ceiling are independently optional; a nil bound means the posting did not
// state one and must be treated as non-restrictive by filters.
type Job struct {
	ID            int64
	CompanyID     int64
	Title         string
	Description   string
	JobType       string
	WorkMode      string
	Location      string
	SalaryMin     *int64
	SalaryMax     *int64
	ExperienceMax *int
	Status        JobStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SortOrder selects the ordering of search results.
type SortOrder string

const (
	SortNewest     SortOrder = "newest"
	SortSalaryHigh SortOrder = "salary_high"
	SortSalaryLow  SortOrder = "salary_low"
)

// SearchFilter holds the compiled predicates for the public job search.
// All fields are optional and AND-combined; zero values mean "no
// restriction".
type SearchFilter struct {
	// Query matches title or description, case-insensitive, OR-combined.
	Query    string
	Location string
	JobType  string
	// MinSalary keeps jobs whose SalaryMax is >= the value or unset.
	MinSalary *int64
	// MaxSalary keeps jobs whose SalaryMin is <= the value or unset.
	MaxSalary *int64
	// MaxExperience keeps jobs whose ExperienceMax is <= the value or unset.
	MaxExperience *int
	Sort          SortOrder
	// SavedBy restricts results to jobs saved by that identity when > 0.
	SavedBy int64
}

// JobListing is the read-optimized search projection. It carries the
// denormalized company name instead of foreign keys.
type JobListing struct {
	ID            int64
	Title         string
	CompanyName   string
	Location      string
	JobType       string
	WorkMode      string
	SalaryMin     *int64
	SalaryMax     *int64
	ExperienceMax *int
	CreatedAt     time.Time
}

// JobRepository defines the port for job persistence operations.
type JobRepository interface {
	Create(ctx context.Context, j Job) (*Job, error)
	Update(ctx context.Context, j Job) (*Job, error)
	GetByID(ctx context.Context, id int64) (*Job, error)
	SetStatus(ctx context.Context, id int64, status JobStatus) error
	ListByCompany(ctx context.Context, companyID int64) ([]Job, error)
	// Search returns one page of open jobs matching the filter plus the
	// total match count.
	Search(ctx context.Context, f SearchFilter, limit, offset int) ([]JobListing, int, error)
	// CountByCompany counts jobs for one company, or for all companies when
	// companyID is 0. openOnly restricts the count to open postings.
	CountByCompany(ctx context.Context, companyID int64, openOnly bool) (int, error)
}

// SavedJobRepository tracks per-candidate saved jobs.
type SavedJobRepository interface {
	Save(ctx context.Context, identityID, jobID int64) error
	Unsave(ctx context.Context, identityID, jobID int64) error
	// IDsForIdentity returns the saved-job id set in one batch lookup.
	IDsForIdentity(ctx context.Context, identityID int64) (map[int64]bool, error)
}
