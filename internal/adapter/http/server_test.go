package adapthttp

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobboard/internal/adapter/memory"
	"jobboard/internal/app"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	handler http.Handler
	store   *memory.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	log := logrus.New()
	log.SetOutput(io.Discard)

	guard := app.NewGuard(store.Jobs(), store.Companies(), store.Applications(), log)
	auth := app.NewAuthService(store.Identities(), store.Sessions(), time.Hour, bcrypt.MinCost, log)
	jobs := app.NewJobService(store.Jobs(), store.Companies(), store.SavedJobs(), guard)
	search := app.NewSearchService(store.Jobs(), store.SavedJobs())
	applications := app.NewApplicationService(store.Applications(), store.Jobs(), guard, log)
	companies := app.NewCompanyService(store.Companies(), log)
	stats := app.NewStatsService(store.Jobs(), store.Applications())

	server := New(auth, jobs, search, applications, companies, stats, guard, time.Hour, false, OIDCConfig{}, log)
	return &fixture{handler: server.Handler(), store: store}
}

func (f *fixture) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

// signup registers an identity and returns its session cookie.
func (f *fixture) signup(t *testing.T, email, role string) *http.Cookie {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"email":    email,
		"password": "password123",
		"role":     role,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return sessionCookie(t, rec)
}

// setupEmployer registers an employer with a company profile.
func (f *fixture) setupEmployer(t *testing.T, email string) *http.Cookie {
	t.Helper()
	cookie := f.signup(t, email, "EMPLOYER")
	rec := f.do(t, http.MethodPost, "/api/company", map[string]string{"name": "Acme GmbH"}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return cookie
}

// postJob creates an open posting and returns its id.
func (f *fixture) postJob(t *testing.T, cookie *http.Cookie, title string) int64 {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/jobs", map[string]any{
		"title":       title,
		"description": "Design, build, and operate backend services",
		"jobType":     "FULL_TIME",
		"workMode":    "REMOTE",
		"location":    "Berlin",
	}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	job := body["job"].(map[string]any)
	return int64(job["id"].(float64))
}
