package postgres

import (
	"context"
	"database/sql"
	"time"

	"jobboard/internal/domain"
)

const companyColumns = "id, owner_id, name, description, website, location, logo_url, company_type, size, verified, created_at, updated_at"

// CompanyRepo implements domain.CompanyRepository.
type CompanyRepo struct {
	db *DB
}

// NewCompanyRepo wraps a DB as a CompanyRepository.
func NewCompanyRepo(db *DB) *CompanyRepo {
	return &CompanyRepo{db: db}
}

func scanCompany(row *sql.Row) (*domain.Company, error) {
	var c domain.Company
	err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.Website, &c.Location, &c.LogoURL, &c.CompanyType, &c.Size, &c.Verified, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new company profile.
func (r *CompanyRepo) Create(ctx context.Context, c domain.Company) (*domain.Company, error) {
	now := time.Now()
	return scanCompany(r.db.sql.QueryRowContext(ctx,
		"INSERT INTO companies (owner_id, name, description, website, location, logo_url, company_type, size, verified, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, $9, $9) RETURNING "+companyColumns,
		c.OwnerID, c.Name, c.Description, c.Website, c.Location, c.LogoURL, c.CompanyType, c.Size, now,
	))
}

// Update rewrites the profile fields of an existing company.
func (r *CompanyRepo) Update(ctx context.Context, c domain.Company) (*domain.Company, error) {
	return scanCompany(r.db.sql.QueryRowContext(ctx,
		"UPDATE companies SET name = $1, description = $2, website = $3, location = $4, logo_url = $5, company_type = $6, size = $7, updated_at = $8 WHERE id = $9 RETURNING "+companyColumns,
		c.Name, c.Description, c.Website, c.Location, c.LogoURL, c.CompanyType, c.Size, time.Now(), c.ID,
	))
}

// GetByID retrieves a company by id, or nil.
func (r *CompanyRepo) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	return scanCompany(r.db.sql.QueryRowContext(ctx,
		"SELECT "+companyColumns+" FROM companies WHERE id = $1",
		id,
	))
}

// GetByOwnerID retrieves the company owned by an identity, or nil.
func (r *CompanyRepo) GetByOwnerID(ctx context.Context, ownerID int64) (*domain.Company, error) {
	return scanCompany(r.db.sql.QueryRowContext(ctx,
		"SELECT "+companyColumns+" FROM companies WHERE owner_id = $1",
		ownerID,
	))
}

// SetVerified flips the moderation flag.
func (r *CompanyRepo) SetVerified(ctx context.Context, id int64, verified bool) error {
	_, err := r.db.sql.ExecContext(ctx,
		"UPDATE companies SET verified = $1, updated_at = $2 WHERE id = $3",
		verified, time.Now(), id,
	)
	return err
}

// List returns every company, newest first.
func (r *CompanyRepo) List(ctx context.Context) ([]domain.Company, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		"SELECT "+companyColumns+" FROM companies ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.Website, &c.Location, &c.LogoURL, &c.CompanyType, &c.Size, &c.Verified, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}
