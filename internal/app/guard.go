package app

import (
	"context"

	"jobboard/internal/common"
	"jobboard/internal/domain"

	"github.com/sirupsen/logrus"
)

// Role sets are computed here, at the definition site, so each guard's admin
// override (or lack of one) is visible in one place. ADMIN overrides
// employer-scoped guards only; candidate-only actions have no override.
var (
	candidateOnly   = []domain.Role{domain.RoleCandidate}
	employerOrAdmin = []domain.Role{domain.RoleEmployer, domain.RoleAdmin}
	adminOnly       = []domain.Role{domain.RoleAdmin}
)

// RequireIdentity asserts that a resolved identity is present.
func RequireIdentity(identity *domain.Identity) (*domain.Identity, error) {
	if identity == nil {
		return nil, common.NewError(common.CodeUnauthorized, "authentication required", nil)
	}
	return identity, nil
}

// RequireRole asserts that the identity holds one of the allowed roles.
func RequireRole(identity *domain.Identity, allowed ...domain.Role) (*domain.Identity, error) {
	identity, err := RequireIdentity(identity)
	if err != nil {
		return nil, err
	}
	for _, role := range allowed {
		if identity.Role == role {
			return identity, nil
		}
	}
	return nil, common.NewError(common.CodeForbidden, "insufficient role", nil)
}

// RequireCandidate asserts the caller is a candidate. Admins do not pass.
func RequireCandidate(identity *domain.Identity) (*domain.Identity, error) {
	return RequireRole(identity, candidateOnly...)
}

// RequireEmployer asserts the caller is an employer or an admin.
func RequireEmployer(identity *domain.Identity) (*domain.Identity, error) {
	return RequireRole(identity, employerOrAdmin...)
}

// RequireAdmin asserts the caller is an admin.
func RequireAdmin(identity *domain.Identity) (*domain.Identity, error) {
	return RequireRole(identity, adminOnly...)
}

// Guard performs ownership checks by walking the
// Application -> Job -> Company -> OwnerID chain. Failed checks collapse
// "does not exist" and "belongs to someone else" into one not-found-coded
// error so resource ids cannot be enumerated; the precise reason is logged.
type Guard struct {
	jobs         domain.JobRepository
	companies    domain.CompanyRepository
	applications domain.ApplicationRepository
	log          *logrus.Logger
}

// NewGuard creates a Guard over the given repositories.
func NewGuard(jobs domain.JobRepository, companies domain.CompanyRepository, applications domain.ApplicationRepository, log *logrus.Logger) *Guard {
	return &Guard{jobs: jobs, companies: companies, applications: applications, log: log}
}

// RequireJobOwnership asserts the identity owns the job's company, or is an
// admin. On success the job is returned so callers avoid a second load.
func (g *Guard) RequireJobOwnership(ctx context.Context, identity *domain.Identity, jobID int64) (*domain.Job, error) {
	identity, err := RequireIdentity(identity)
	if err != nil {
		return nil, err
	}
	job, err := g.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		g.denied(identity, "job", jobID, "job does not exist")
		return nil, deniedJob()
	}
	if identity.Role == domain.RoleAdmin {
		return job, nil
	}
	company, err := g.companies.GetByID(ctx, job.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil || company.OwnerID != identity.ID {
		g.denied(identity, "job", jobID, "job belongs to another company")
		return nil, deniedJob()
	}
	return job, nil
}

// RequireCompanyOwnership asserts the identity owns the company, or is an
// admin.
func (g *Guard) RequireCompanyOwnership(ctx context.Context, identity *domain.Identity, companyID int64) (*domain.Company, error) {
	identity, err := RequireIdentity(identity)
	if err != nil {
		return nil, err
	}
	company, err := g.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		g.denied(identity, "company", companyID, "company does not exist")
		return nil, deniedCompany()
	}
	if identity.Role == domain.RoleAdmin {
		return company, nil
	}
	if company.OwnerID != identity.ID {
		g.denied(identity, "company", companyID, "company belongs to another owner")
		return nil, deniedCompany()
	}
	return company, nil
}

// RequireApplicationAccess asserts the identity may manage the application:
// the owning employer of the job it targets, or an admin. The job is returned
// alongside the application.
func (g *Guard) RequireApplicationAccess(ctx context.Context, identity *domain.Identity, applicationID int64) (*domain.Application, *domain.Job, error) {
	identity, err := RequireIdentity(identity)
	if err != nil {
		return nil, nil, err
	}
	application, err := g.applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, nil, err
	}
	if application == nil {
		g.denied(identity, "application", applicationID, "application does not exist")
		return nil, nil, deniedApplication()
	}
	job, err := g.RequireJobOwnership(ctx, identity, application.JobID)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, nil, deniedApplication()
		}
		return nil, nil, err
	}
	return application, job, nil
}

// denied records the real denial reason internally; the external error never
// carries it.
func (g *Guard) denied(identity *domain.Identity, resource string, id int64, reason string) {
	g.log.WithFields(logrus.Fields{
		"identity_id": identity.ID,
		"role":        identity.Role,
		"resource":    resource,
		"resource_id": id,
		"reason":      reason,
	}).Info("ownership check denied")
}

func deniedJob() error {
	return common.NewError(common.CodeNotFound, "job not found or access denied", nil)
}

func deniedCompany() error {
	return common.NewError(common.CodeNotFound, "company not found or access denied", nil)
}

func deniedApplication() error {
	return common.NewError(common.CodeNotFound, "application not found or access denied", nil)
}
