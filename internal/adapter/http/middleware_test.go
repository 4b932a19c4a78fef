package adapthttp

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatekeeperBlocksAPIWithoutCookie(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/applications", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication required")
}

func TestGatekeeperRejectsMalformedToken(t *testing.T) {
	f := newFixture(t)

	// 63 hex chars: one short of the token shape.
	short := &http.Cookie{Name: SessionCookieName, Value: strings.Repeat("a", 63)}
	rec := f.do(t, http.MethodGet, "/api/applications", nil, short)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication required")

	upper := &http.Cookie{Name: SessionCookieName, Value: strings.Repeat("A", 64)}
	rec = f.do(t, http.MethodGet, "/api/applications", nil, upper)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGatekeeperShapeOnlyCheckIsNotAuthentication(t *testing.T) {
	f := newFixture(t)

	// Well-formed but unknown token: passes the edge (the router 404s
	// instead of the gatekeeper redirecting) and resolves to a guest
	// downstream.
	fake := &http.Cookie{Name: SessionCookieName, Value: strings.Repeat("ab", 32)}
	rec := f.do(t, http.MethodGet, "/dashboard", nil, fake)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/applications", nil, fake)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGatekeeperRedirectsPagePaths(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/dashboard", nil, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?redirect=%2Fdashboard", rec.Header().Get("Location"))
}

func TestGatekeeperPublicPaths(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Search and job detail are public reads.
	rec = f.do(t, http.MethodGet, "/api/jobs", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/jobs/12", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Sub-resources of a job are not public.
	rec = f.do(t, http.MethodGet, "/api/jobs/12/applications", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Job mutation shares the path but not the allowlist.
	rec = f.do(t, http.MethodPost, "/api/jobs", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGatekeeperAuthEndpointsCarveOut(t *testing.T) {
	f := newFixture(t)

	// Login must be reachable without a token.
	rec := f.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "a@b.com", "password": "nope"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid email or password")

	// Me and password change are not part of the carve-out.
	rec = f.do(t, http.MethodGet, "/api/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication required")

	rec = f.do(t, http.MethodPost, "/api/auth/password", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication required")
}

func TestExpiredSessionRequestsAreGuests(t *testing.T) {
	f := newFixture(t)
	cookie := f.signup(t, "user@example.com", "CANDIDATE")

	// Kill the session behind the cookie.
	rec := f.do(t, http.MethodPost, "/api/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/auth/me", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
