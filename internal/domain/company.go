package domain

import (
	"context"
	"time"
)

// Company is an employer profile. Each employer identity owns at most one
// company; the OwnerID column carries a unique constraint.
type Company struct {
	ID          int64
	OwnerID     int64
	Name        string
	Description string
	Website     string
	Location    string
	LogoURL     string
	CompanyType string
	Size        string
	Verified    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CompanyRepository defines the port for company persistence operations.
type CompanyRepository interface {
	Create(ctx context.Context, c Company) (*Company, error)
	Update(ctx context.Context, c Company) (*Company, error)
	GetByID(ctx context.Context, id int64) (*Company, error)
	GetByOwnerID(ctx context.Context, ownerID int64) (*Company, error)
	SetVerified(ctx context.Context, id int64, verified bool) error
	List(ctx context.Context) ([]Company, error)
}
