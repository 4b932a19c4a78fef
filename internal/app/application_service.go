package app

import (
	"context"

	"jobboard/internal/common"
	"jobboard/internal/domain"

	"github.com/sirupsen/logrus"
)

// allowedTransitions is the application workflow. OFFERED and REJECTED are
// terminal.
var allowedTransitions = map[domain.ApplicationStatus][]domain.ApplicationStatus{
	domain.StatusApplied:   {domain.StatusReviewed, domain.StatusInterview, domain.StatusOffered, domain.StatusRejected},
	domain.StatusReviewed:  {domain.StatusInterview, domain.StatusOffered, domain.StatusRejected},
	domain.StatusInterview: {domain.StatusOffered, domain.StatusRejected},
}

// ApplicationService covers the candidate apply flow and the employer-side
// applicant tracking.
type ApplicationService struct {
	applications domain.ApplicationRepository
	jobs         domain.JobRepository
	guard        *Guard
	log          *logrus.Logger
}

// NewApplicationService creates an ApplicationService backed by the given
// repositories.
func NewApplicationService(applications domain.ApplicationRepository, jobs domain.JobRepository, guard *Guard, log *logrus.Logger) *ApplicationService {
	return &ApplicationService{applications: applications, jobs: jobs, guard: guard, log: log}
}

// Apply creates an application for an open job. The existence pre-check is
// advisory only: two racing applies are arbitrated by the (job_id,
// candidate_id) unique constraint, and the loser's constraint violation is
// mapped to the same duplicate error as the fast path.
func (s *ApplicationService) Apply(ctx context.Context, identity *domain.Identity, jobID int64, coverNote string) (*domain.Application, error) {
	identity, err := RequireCandidate(identity)
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	if job.Status != domain.JobOpen {
		return nil, common.NewError(common.CodeValidation, "job is not open for applications", nil)
	}

	existing, err := s.applications.FindByJobAndCandidate(ctx, jobID, identity.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, duplicateApplication()
	}

	created, err := s.applications.Create(ctx, domain.Application{
		JobID:       jobID,
		CandidateID: identity.ID,
		Status:      domain.StatusApplied,
		CoverNote:   coverNote,
	})
	if err != nil {
		if common.Is(err, common.CodeConflict) {
			// Pre-check passed but the constraint fired: a concurrent
			// apply won the race.
			return nil, duplicateApplication()
		}
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"application_id": created.ID, "job_id": jobID, "candidate_id": identity.ID}).Info("application created")
	return created, nil
}

// UpdateStatus advances an application through the workflow. Only the owning
// employer (or an admin) may do so.
func (s *ApplicationService) UpdateStatus(ctx context.Context, identity *domain.Identity, applicationID int64, status domain.ApplicationStatus) (*domain.Application, error) {
	application, _, err := s.guard.RequireApplicationAccess(ctx, identity, applicationID)
	if err != nil {
		return nil, err
	}
	if !isKnownStatus(status) {
		return nil, common.NewValidationError("invalid status", map[string]string{
			"status": "status must be APPLIED, REVIEWED, INTERVIEW, OFFERED, or REJECTED",
		})
	}
	if status == application.Status {
		return application, nil
	}
	if !isAllowedTransition(application.Status, status) {
		return nil, common.NewValidationError("invalid status transition", map[string]string{
			"status": "cannot move from " + string(application.Status) + " to " + string(status),
		})
	}
	return s.applications.UpdateStatus(ctx, applicationID, status)
}

// ListOwn lists the candidate's applications, newest first.
func (s *ApplicationService) ListOwn(ctx context.Context, identity *domain.Identity) ([]domain.Application, error) {
	identity, err := RequireCandidate(identity)
	if err != nil {
		return nil, err
	}
	return s.applications.ListByCandidate(ctx, identity.ID)
}

// ListForJob lists every application to an owned job.
func (s *ApplicationService) ListForJob(ctx context.Context, identity *domain.Identity, jobID int64) ([]domain.Application, error) {
	if _, err := s.guard.RequireJobOwnership(ctx, identity, jobID); err != nil {
		return nil, err
	}
	return s.applications.ListByJob(ctx, jobID)
}

func isKnownStatus(status domain.ApplicationStatus) bool {
	for _, s := range domain.AllApplicationStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func isAllowedTransition(from, to domain.ApplicationStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func duplicateApplication() error {
	return common.NewError(common.CodeConflict, "you have already applied to this job", nil)
}
