package app

import (
	"context"

	"jobboard/internal/common"
	"jobboard/internal/domain"
)

// JobInput carries the mutable fields of a posting. Payload-level validation
// happens at the HTTP boundary before a JobInput is constructed.
type JobInput struct {
	Title         string
	Description   string
	JobType       string
	WorkMode      string
	Location      string
	SalaryMin     *int64
	SalaryMax     *int64
	ExperienceMax *int
}

// JobService covers the employer-side job lifecycle plus candidate saved
// jobs.
type JobService struct {
	jobs      domain.JobRepository
	companies domain.CompanyRepository
	saved     domain.SavedJobRepository
	guard     *Guard
}

// NewJobService creates a JobService backed by the given repositories.
func NewJobService(jobs domain.JobRepository, companies domain.CompanyRepository, saved domain.SavedJobRepository, guard *Guard) *JobService {
	return &JobService{jobs: jobs, companies: companies, saved: saved, guard: guard}
}

// Create posts a new open job under the employer's company.
func (s *JobService) Create(ctx context.Context, identity *domain.Identity, in JobInput) (*domain.Job, error) {
	identity, err := RequireEmployer(identity)
	if err != nil {
		return nil, err
	}
	company, err := s.requireOwnCompany(ctx, identity)
	if err != nil {
		return nil, err
	}
	return s.jobs.Create(ctx, domain.Job{
		CompanyID:     company.ID,
		Title:         in.Title,
		Description:   in.Description,
		JobType:       in.JobType,
		WorkMode:      in.WorkMode,
		Location:      in.Location,
		SalaryMin:     in.SalaryMin,
		SalaryMax:     in.SalaryMax,
		ExperienceMax: in.ExperienceMax,
		Status:        domain.JobOpen,
	})
}

// Update edits an owned job. The status is left untouched.
func (s *JobService) Update(ctx context.Context, identity *domain.Identity, jobID int64, in JobInput) (*domain.Job, error) {
	job, err := s.guard.RequireJobOwnership(ctx, identity, jobID)
	if err != nil {
		return nil, err
	}
	job.Title = in.Title
	job.Description = in.Description
	job.JobType = in.JobType
	job.WorkMode = in.WorkMode
	job.Location = in.Location
	job.SalaryMin = in.SalaryMin
	job.SalaryMax = in.SalaryMax
	job.ExperienceMax = in.ExperienceMax
	return s.jobs.Update(ctx, *job)
}

// Close marks an owned job closed, removing it from public search.
func (s *JobService) Close(ctx context.Context, identity *domain.Identity, jobID int64) error {
	return s.setStatus(ctx, identity, jobID, domain.JobClosed)
}

// Reopen marks an owned job open again.
func (s *JobService) Reopen(ctx context.Context, identity *domain.Identity, jobID int64) error {
	return s.setStatus(ctx, identity, jobID, domain.JobOpen)
}

func (s *JobService) setStatus(ctx context.Context, identity *domain.Identity, jobID int64, status domain.JobStatus) error {
	job, err := s.guard.RequireJobOwnership(ctx, identity, jobID)
	if err != nil {
		return err
	}
	if job.Status == status {
		return nil
	}
	return s.jobs.SetStatus(ctx, jobID, status)
}

// GetOpen returns a job on the public detail path. Closed and missing jobs
// are indistinguishable to the caller.
func (s *JobService) GetOpen(ctx context.Context, jobID int64) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil || job.Status != domain.JobOpen {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	return job, nil
}

// ListOwn lists every job of the employer's company, regardless of status.
func (s *JobService) ListOwn(ctx context.Context, identity *domain.Identity) ([]domain.Job, error) {
	identity, err := RequireEmployer(identity)
	if err != nil {
		return nil, err
	}
	company, err := s.requireOwnCompany(ctx, identity)
	if err != nil {
		return nil, err
	}
	return s.jobs.ListByCompany(ctx, company.ID)
}

// SaveJob marks a job as saved for the candidate. Saving twice is a no-op.
func (s *JobService) SaveJob(ctx context.Context, identity *domain.Identity, jobID int64) error {
	identity, err := RequireCandidate(identity)
	if err != nil {
		return err
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return common.NewError(common.CodeNotFound, "job not found", nil)
	}
	return s.saved.Save(ctx, identity.ID, jobID)
}

// UnsaveJob removes a saved-job mark. Unsaving an unsaved job is a no-op.
func (s *JobService) UnsaveJob(ctx context.Context, identity *domain.Identity, jobID int64) error {
	identity, err := RequireCandidate(identity)
	if err != nil {
		return err
	}
	return s.saved.Unsave(ctx, identity.ID, jobID)
}

// requireOwnCompany resolves the employer's company. An employer without a
// company profile gets a validation-coded error: the missing profile is a
// precondition of the request, not a lookup miss.
func (s *JobService) requireOwnCompany(ctx context.Context, identity *domain.Identity) (*domain.Company, error) {
	company, err := s.companies.GetByOwnerID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, common.NewError(common.CodeValidation, "company profile not found", nil)
	}
	return company, nil
}
