package app

import (
	"context"
	"testing"

	"jobboard/internal/adapter/memory"
	"jobboard/internal/common"
	"jobboard/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyCreateOnePerEmployer(t *testing.T) {
	store := memory.New()
	svc := NewCompanyService(store.Companies(), testLogger())
	employer := &domain.Identity{ID: 2, Role: domain.RoleEmployer}

	company, err := svc.Create(context.Background(), employer, CompanyInput{Name: "Acme"})
	require.NoError(t, err)
	assert.False(t, company.Verified)

	_, err = svc.Create(context.Background(), employer, CompanyInput{Name: "Acme Again"})
	require.Error(t, err)
	assert.True(t, common.Is(err, common.CodeConflict))
}

func TestCompanyUpdateKeepsVerification(t *testing.T) {
	store := memory.New()
	svc := NewCompanyService(store.Companies(), testLogger())
	employer := &domain.Identity{ID: 2, Role: domain.RoleEmployer}
	admin := &domain.Identity{ID: 1, Role: domain.RoleAdmin}

	company, err := svc.Create(context.Background(), employer, CompanyInput{Name: "Acme"})
	require.NoError(t, err)
	require.NoError(t, svc.SetVerified(context.Background(), admin, company.ID, true))

	updated, err := svc.Update(context.Background(), employer, CompanyInput{Name: "Acme GmbH", Location: "Berlin"})
	require.NoError(t, err)
	assert.Equal(t, "Acme GmbH", updated.Name)
	assert.True(t, updated.Verified)
}

func TestCompanyGetOwnMissingProfile(t *testing.T) {
	store := memory.New()
	svc := NewCompanyService(store.Companies(), testLogger())

	_, err := svc.GetOwn(context.Background(), &domain.Identity{ID: 2, Role: domain.RoleEmployer})
	require.Error(t, err)
	assert.True(t, common.Is(err, common.CodeValidation))
}

func TestCompanyAdminOperations(t *testing.T) {
	store := memory.New()
	svc := NewCompanyService(store.Companies(), testLogger())
	employer := &domain.Identity{ID: 2, Role: domain.RoleEmployer}
	admin := &domain.Identity{ID: 1, Role: domain.RoleAdmin}

	_, err := svc.Create(context.Background(), employer, CompanyInput{Name: "Acme"})
	require.NoError(t, err)

	_, err = svc.List(context.Background(), employer)
	assert.True(t, common.Is(err, common.CodeForbidden))

	companies, err := svc.List(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, companies, 1)

	err = svc.SetVerified(context.Background(), admin, 999, true)
	assert.True(t, common.Is(err, common.CodeNotFound))

	err = svc.SetVerified(context.Background(), employer, companies[0].ID, true)
	assert.True(t, common.Is(err, common.CodeForbidden))
}
