package app

import (
	"context"

	"jobboard/internal/common"
	"jobboard/internal/domain"

	"github.com/sirupsen/logrus"
)

// CompanyInput carries the mutable fields of a company profile.
type CompanyInput struct {
	Name        string
	Description string
	Website     string
	Location    string
	LogoURL     string
	CompanyType string
	Size        string
}

// CompanyService covers employer company profiles and admin moderation.
type CompanyService struct {
	companies domain.CompanyRepository
	log       *logrus.Logger
}

// NewCompanyService creates a CompanyService backed by the given repository.
func NewCompanyService(companies domain.CompanyRepository, log *logrus.Logger) *CompanyService {
	return &CompanyService{companies: companies, log: log}
}

// Create registers the employer's company. One company per employer; a
// second create conflicts.
func (s *CompanyService) Create(ctx context.Context, identity *domain.Identity, in CompanyInput) (*domain.Company, error) {
	identity, err := RequireEmployer(identity)
	if err != nil {
		return nil, err
	}
	existing, err := s.companies.GetByOwnerID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, common.NewError(common.CodeConflict, "company profile already exists", nil)
	}
	return s.companies.Create(ctx, domain.Company{
		OwnerID:     identity.ID,
		Name:        in.Name,
		Description: in.Description,
		Website:     in.Website,
		Location:    in.Location,
		LogoURL:     in.LogoURL,
		CompanyType: in.CompanyType,
		Size:        in.Size,
	})
}

// Update edits the employer's own company. The verification flag is
// admin-controlled and not touchable here.
func (s *CompanyService) Update(ctx context.Context, identity *domain.Identity, in CompanyInput) (*domain.Company, error) {
	company, err := s.GetOwn(ctx, identity)
	if err != nil {
		return nil, err
	}
	company.Name = in.Name
	company.Description = in.Description
	company.Website = in.Website
	company.Location = in.Location
	company.LogoURL = in.LogoURL
	company.CompanyType = in.CompanyType
	company.Size = in.Size
	return s.companies.Update(ctx, *company)
}

// GetOwn resolves the employer's company profile.
func (s *CompanyService) GetOwn(ctx context.Context, identity *domain.Identity) (*domain.Company, error) {
	identity, err := RequireEmployer(identity)
	if err != nil {
		return nil, err
	}
	company, err := s.companies.GetByOwnerID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, common.NewError(common.CodeValidation, "company profile not found", nil)
	}
	return company, nil
}

// List returns every company for admin moderation.
func (s *CompanyService) List(ctx context.Context, identity *domain.Identity) ([]domain.Company, error) {
	if _, err := RequireAdmin(identity); err != nil {
		return nil, err
	}
	return s.companies.List(ctx)
}

// SetVerified flips the admin-controlled verification flag.
func (s *CompanyService) SetVerified(ctx context.Context, identity *domain.Identity, companyID int64, verified bool) error {
	identity, err := RequireAdmin(identity)
	if err != nil {
		return err
	}
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return err
	}
	if company == nil {
		return common.NewError(common.CodeNotFound, "company not found", nil)
	}
	if err := s.companies.SetVerified(ctx, companyID, verified); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"company_id": companyID, "verified": verified, "admin_id": identity.ID}).Info("company verification changed")
	return nil
}
