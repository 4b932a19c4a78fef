package postgres

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/common"
	"jobboard/internal/domain"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })
	return &DB{sql: raw}, mock
}

func TestIdentityGetByEmailNoRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewIdentityRepo(db)

	mock.ExpectQuery("SELECT " + identityColumns + " FROM identities WHERE email = $1").
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	identity, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, identity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdentityGetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewIdentityRepo(db)
	now := time.Now()

	mock.ExpectQuery("SELECT " + identityColumns + " FROM identities WHERE email = $1").
		WithArgs("a@b.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "is_active", "mobile", "created_at"}).
			AddRow(3, "a@b.com", "hash", "EMPLOYER", true, "", now))

	identity, err := repo.GetByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, int64(3), identity.ID)
	assert.Equal(t, domain.RoleEmployer, identity.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdentityDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewIdentityRepo(db)

	mock.ExpectExec("DELETE FROM identities WHERE id = $1").
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 9))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionDeleteExpired(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepo(db)

	mock.ExpectExec("DELETE FROM sessions WHERE expires_at <= $1").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 4))

	require.NoError(t, repo.DeleteExpired(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationCreateUniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepo(db)

	mock.ExpectQuery("INSERT INTO applications (job_id, candidate_id, status, cover_note, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $5) RETURNING " + applicationColumns).
		WithArgs(int64(1), int64(5), domain.StatusApplied, "", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: uniqueViolation})

	_, err := repo.Create(context.Background(), domain.Application{
		JobID: 1, CandidateID: 5, Status: domain.StatusApplied,
	})
	require.Error(t, err)
	assert.True(t, common.Is(err, common.CodeConflict))
	assert.Contains(t, err.Error(), "already applied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobSearchBuildsOverlapPredicates(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJobRepo(db)
	now := time.Now()

	minSalary := int64(500000)
	f := domain.SearchFilter{
		Query:     "backend",
		MinSalary: &minSalary,
		Sort:      domain.SortNewest,
	}

	countQuery := "SELECT COUNT(*) FROM jobs j WHERE j.status = 'OPEN' AND (j.title ILIKE $1 OR j.description ILIKE $1) AND (j.salary_max IS NULL OR j.salary_max >= $2)"
	mock.ExpectQuery(countQuery).
		WithArgs("%backend%", minSalary).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	pageQuery := "SELECT j.id, j.title, c.name, j.location, j.job_type, j.work_mode, j.salary_min, j.salary_max, j.experience_max, j.created_at FROM jobs j JOIN companies c ON c.id = j.company_id WHERE j.status = 'OPEN' AND (j.title ILIKE $1 OR j.description ILIKE $1) AND (j.salary_max IS NULL OR j.salary_max >= $2) ORDER BY j.created_at DESC LIMIT $3 OFFSET $4"
	mock.ExpectQuery(pageQuery).
		WithArgs("%backend%", minSalary, 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "name", "location", "job_type", "work_mode", "salary_min", "salary_max", "experience_max", "created_at"}).
			AddRow(7, "Backend Engineer", "Acme", "Berlin", "FULL_TIME", "REMOTE", nil, 800000, nil, now))

	listings, total, err := repo.Search(context.Background(), f, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, listings, 1)
	assert.Equal(t, "Acme", listings[0].CompanyName)
	require.NotNil(t, listings[0].SalaryMax)
	assert.Equal(t, int64(800000), *listings[0].SalaryMax)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobSearchSalaryLowOrdersNullsLast(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJobRepo(db)

	mock.ExpectQuery("SELECT COUNT(*) FROM jobs j WHERE j.status = 'OPEN'").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT j.id, j.title, c.name, j.location, j.job_type, j.work_mode, j.salary_min, j.salary_max, j.experience_max, j.created_at FROM jobs j JOIN companies c ON c.id = j.company_id WHERE j.status = 'OPEN' ORDER BY j.salary_max ASC NULLS LAST, j.salary_min ASC NULLS LAST, j.created_at ASC LIMIT $1 OFFSET $2").
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "name", "location", "job_type", "work_mode", "salary_min", "salary_max", "experience_max", "created_at"}))

	_, total, err := repo.Search(context.Background(), domain.SearchFilter{Sort: domain.SortSalaryLow}, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByCompanyScopes(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJobRepo(db)

	mock.ExpectQuery("SELECT COUNT(*) FROM jobs WHERE company_id = $1 AND status = 'OPEN'").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountByCompany(context.Background(), 3, true)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Company id 0 drops the company predicate entirely.
	mock.ExpectQuery("SELECT COUNT(*) FROM jobs").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))

	count, err = repo.CountByCompany(context.Background(), 0, false)
	require.NoError(t, err)
	assert.Equal(t, 9, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByStatusForCompany(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepo(db)

	mock.ExpectQuery("SELECT a.status, COUNT(*) FROM applications a JOIN jobs j ON j.id = a.job_id WHERE j.company_id = $1 GROUP BY a.status").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("APPLIED", 3).
			AddRow("REJECTED", 1))

	counts, err := repo.CountByStatusForCompany(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 3, counts[domain.StatusApplied])
	assert.Equal(t, 1, counts[domain.StatusRejected])
	_, present := counts[domain.StatusOffered]
	assert.False(t, present)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSavedJobSaveIsIdempotent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSavedJobRepo(db)

	mock.ExpectExec("INSERT INTO saved_jobs (identity_id, job_id, created_at) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING").
		WithArgs(int64(5), int64(7), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), 5, 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}
