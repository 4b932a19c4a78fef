package adapthttp

import (
	"fmt"
	"net/http"
	"testing"

	"jobboard/internal/app"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupSetsCookieContract(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"email":    "new@example.com",
		"password": "password123",
		"role":     "CANDIDATE",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	cookie := sessionCookie(t, rec)
	assert.True(t, app.ValidTokenShape(cookie.Value))
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 3600, cookie.MaxAge)
	// Secure is off outside production.
	assert.False(t, cookie.Secure)

	body := decodeBody(t, rec)
	user := body["user"].(map[string]any)
	assert.Equal(t, "new@example.com", user["email"])
	assert.Equal(t, "CANDIDATE", user["role"])
}

func TestSignupValidation(t *testing.T) {
	f := newFixture(t)

	cases := []map[string]string{
		{"email": "not-an-email", "password": "password123", "role": "CANDIDATE"},
		{"email": "a@b.com", "password": "short", "role": "CANDIDATE"},
		{"email": "a@b.com", "password": "password123", "role": "ADMIN"},
	}
	for _, payload := range cases {
		rec := f.do(t, http.MethodPost, "/api/auth/signup", payload, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	}
}

func TestLoginAndMe(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "user@example.com", "CANDIDATE")

	rec := f.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "USER@example.com",
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookie := sessionCookie(t, rec)

	rec = f.do(t, http.MethodGet, "/api/auth/me", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	user := body["user"].(map[string]any)
	assert.Equal(t, "user@example.com", user["email"])
}

func TestLogoutClearsCookieAndRevokes(t *testing.T) {
	f := newFixture(t)
	cookie := f.signup(t, "user@example.com", "CANDIDATE")

	rec := f.do(t, http.MethodPost, "/api/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := sessionCookie(t, rec)
	assert.Negative(t, cleared.MaxAge)

	rec = f.do(t, http.MethodGet, "/api/auth/me", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChangePasswordRevokesSession(t *testing.T) {
	f := newFixture(t)
	cookie := f.signup(t, "user@example.com", "CANDIDATE")

	rec := f.do(t, http.MethodPost, "/api/auth/password", map[string]string{
		"currentPassword": "password123",
		"newPassword":     "even-better-password",
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The old session is gone; the new password works.
	rec = f.do(t, http.MethodGet, "/api/auth/me", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "user@example.com",
		"password": "even-better-password",
	}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJobPostingFlow(t *testing.T) {
	f := newFixture(t)
	employer := f.setupEmployer(t, "boss@acme.com")
	jobID := f.postJob(t, employer, "Backend Engineer")

	// Publicly visible.
	rec := f.do(t, http.MethodGet, fmt.Sprintf("/api/jobs/%d", jobID), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/jobs?q=backend", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	pagination := body["pagination"].(map[string]any)
	assert.Equal(t, float64(1), pagination["total"])

	// Closing removes it from public view.
	rec = f.do(t, http.MethodPost, fmt.Sprintf("/api/jobs/%d/close", jobID), nil, employer)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/api/jobs/%d", jobID), nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Still listed for the owner.
	rec = f.do(t, http.MethodGet, "/api/company/jobs", nil, employer)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Len(t, body["jobs"], 1)
}

func TestCreateJobSalaryRangeValidation(t *testing.T) {
	f := newFixture(t)
	employer := f.setupEmployer(t, "boss@acme.com")

	rec := f.do(t, http.MethodPost, "/api/jobs", map[string]any{
		"title":       "Backend Engineer",
		"description": "Design, build, and operate backend services",
		"jobType":     "FULL_TIME",
		"workMode":    "REMOTE",
		"location":    "Berlin",
		"salaryMin":   90000,
		"salaryMax":   60000,
	}, employer)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "salaryMax must be greater than or equal to salaryMin")
}

func TestCreateJobWithoutCompanyProfile(t *testing.T) {
	f := newFixture(t)
	employer := f.signup(t, "boss@acme.com", "EMPLOYER")

	rec := f.do(t, http.MethodPost, "/api/jobs", map[string]any{
		"title":       "Backend Engineer",
		"description": "Design, build, and operate backend services",
		"jobType":     "FULL_TIME",
		"workMode":    "REMOTE",
		"location":    "Berlin",
	}, employer)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "company profile not found")
}

func TestApplicationFlow(t *testing.T) {
	f := newFixture(t)
	employer := f.setupEmployer(t, "boss@acme.com")
	jobID := f.postJob(t, employer, "Backend Engineer")
	candidate := f.signup(t, "dev@example.com", "CANDIDATE")

	rec := f.do(t, http.MethodPost, fmt.Sprintf("/api/jobs/%d/apply", jobID), map[string]string{
		"coverNote": "I build things",
	}, candidate)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	application := body["application"].(map[string]any)
	applicationID := int64(application["id"].(float64))
	assert.Equal(t, "APPLIED", application["status"])

	// Applying again conflicts.
	rec = f.do(t, http.MethodPost, fmt.Sprintf("/api/jobs/%d/apply", jobID), map[string]string{}, candidate)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already applied")

	// Employers cannot apply.
	rec = f.do(t, http.MethodPost, fmt.Sprintf("/api/jobs/%d/apply", jobID), map[string]string{}, employer)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The candidate sees their application.
	rec = f.do(t, http.MethodGet, "/api/applications", nil, candidate)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Len(t, body["applications"], 1)

	// The employer advances it.
	rec = f.do(t, http.MethodPatch, fmt.Sprintf("/api/applications/%d/status", applicationID), map[string]string{
		"status": "REVIEWED",
	}, employer)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// A backwards transition is rejected.
	rec = f.do(t, http.MethodPatch, fmt.Sprintf("/api/applications/%d/status", applicationID), map[string]string{
		"status": "APPLIED",
	}, employer)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// A rival employer sees neither the list nor the application.
	rival := f.setupEmployer(t, "rival@globex.com")
	rec = f.do(t, http.MethodGet, fmt.Sprintf("/api/jobs/%d/applications", jobID), nil, rival)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPatch, fmt.Sprintf("/api/applications/%d/status", applicationID), map[string]string{
		"status": "REJECTED",
	}, rival)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSavedJobsFlow(t *testing.T) {
	f := newFixture(t)
	employer := f.setupEmployer(t, "boss@acme.com")
	jobID := f.postJob(t, employer, "Backend Engineer")
	f.postJob(t, employer, "Frontend Engineer")
	candidate := f.signup(t, "dev@example.com", "CANDIDATE")

	rec := f.do(t, http.MethodPost, fmt.Sprintf("/api/jobs/%d/save", jobID), nil, candidate)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/jobs?saved=true", nil, candidate)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	jobs := body["jobs"].([]any)
	require.Len(t, jobs, 1)
	first := jobs[0].(map[string]any)
	assert.Equal(t, true, first["isSaved"])

	rec = f.do(t, http.MethodDelete, fmt.Sprintf("/api/jobs/%d/save", jobID), nil, candidate)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/jobs?saved=true", nil, candidate)
	body = decodeBody(t, rec)
	assert.Len(t, body["jobs"], 0)
}

func TestCompanyStatsEndpoint(t *testing.T) {
	f := newFixture(t)
	employer := f.setupEmployer(t, "boss@acme.com")
	jobID := f.postJob(t, employer, "Backend Engineer")
	candidate := f.signup(t, "dev@example.com", "CANDIDATE")

	rec := f.do(t, http.MethodPost, fmt.Sprintf("/api/jobs/%d/apply", jobID), map[string]string{}, candidate)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/company/stats", nil, employer)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["totalJobs"])
	assert.Equal(t, float64(1), body["totalApplications"])
	byStatus := body["applicationsByStatus"].(map[string]any)
	assert.Len(t, byStatus, 5)
	assert.Equal(t, float64(1), byStatus["APPLIED"])
	assert.Equal(t, float64(0), byStatus["REJECTED"])

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/api/jobs/%d/stats", jobID), nil, employer)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, float64(1), body["totalApplications"])
	assert.NotNil(t, body["lastApplicationAt"])
}

func TestAdminEndpointsRequireAdminRole(t *testing.T) {
	f := newFixture(t)
	employer := f.setupEmployer(t, "boss@acme.com")
	candidate := f.signup(t, "dev@example.com", "CANDIDATE")

	for _, cookie := range []*http.Cookie{employer, candidate} {
		rec := f.do(t, http.MethodGet, "/api/admin/companies", nil, cookie)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = f.do(t, http.MethodGet, "/api/admin/stats", nil, cookie)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = f.do(t, http.MethodPost, "/api/admin/users/1/active", map[string]bool{"active": false}, cookie)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	}
}
