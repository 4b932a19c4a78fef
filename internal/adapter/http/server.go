// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"
	"time"

	"jobboard/internal/app"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// OIDCConfig carries the optional SSO login wiring.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config *oauth2.Config
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth         *app.AuthService
	jobs         *app.JobService
	search       *app.SearchService
	applications *app.ApplicationService
	companies    *app.CompanyService
	stats        *app.StatsService
	guard        *app.Guard

	sessionTTL time.Duration
	production bool
	oidcConfig OIDCConfig
	log        *logrus.Logger
}

// New creates a Server wired to the given application services.
func New(auth *app.AuthService, jobs *app.JobService, search *app.SearchService, applications *app.ApplicationService, companies *app.CompanyService, stats *app.StatsService, guard *app.Guard, sessionTTL time.Duration, production bool, oidcConfig OIDCConfig, log *logrus.Logger) *Server {
	return &Server{
		auth:         auth,
		jobs:         jobs,
		search:       search,
		applications: applications,
		companies:    companies,
		stats:        stats,
		guard:        guard,
		sessionTTL:   sessionTTL,
		production:   production,
		oidcConfig:   oidcConfig,
		log:          log,
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/signup", s.handleSignup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", s.handleMe).Methods(http.MethodGet)
	api.HandleFunc("/auth/password", s.handleChangePassword).Methods(http.MethodPost)
	api.HandleFunc("/auth/sso/login", s.handleSSOLogin).Methods(http.MethodGet)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback).Methods(http.MethodGet)

	api.HandleFunc("/jobs", s.handleSearchJobs).Methods(http.MethodGet)
	api.HandleFunc("/jobs", s.handleCreateJob).Methods(http.MethodPost)
	api.HandleFunc("/jobs/{id}", s.handleGetJob).Methods(http.MethodGet)
	api.HandleFunc("/jobs/{id}", s.handleUpdateJob).Methods(http.MethodPut)
	api.HandleFunc("/jobs/{id}/close", s.handleCloseJob).Methods(http.MethodPost)
	api.HandleFunc("/jobs/{id}/reopen", s.handleReopenJob).Methods(http.MethodPost)
	api.HandleFunc("/jobs/{id}/apply", s.handleApply).Methods(http.MethodPost)
	api.HandleFunc("/jobs/{id}/save", s.handleSaveJob).Methods(http.MethodPost)
	api.HandleFunc("/jobs/{id}/save", s.handleUnsaveJob).Methods(http.MethodDelete)
	api.HandleFunc("/jobs/{id}/stats", s.handleJobStats).Methods(http.MethodGet)
	api.HandleFunc("/jobs/{id}/applications", s.handleJobApplications).Methods(http.MethodGet)

	api.HandleFunc("/applications", s.handleMyApplications).Methods(http.MethodGet)
	api.HandleFunc("/applications/{id}/status", s.handleUpdateApplicationStatus).Methods(http.MethodPatch)

	api.HandleFunc("/company", s.handleGetCompany).Methods(http.MethodGet)
	api.HandleFunc("/company", s.handleCreateCompany).Methods(http.MethodPost)
	api.HandleFunc("/company", s.handleUpdateCompany).Methods(http.MethodPut)
	api.HandleFunc("/company/jobs", s.handleOwnJobs).Methods(http.MethodGet)
	api.HandleFunc("/company/stats", s.handleCompanyStats).Methods(http.MethodGet)

	api.HandleFunc("/admin/companies", s.handleAdminListCompanies).Methods(http.MethodGet)
	api.HandleFunc("/admin/companies/{id}/verify", s.handleAdminVerifyCompany).Methods(http.MethodPost)
	api.HandleFunc("/admin/users/{id}/active", s.handleAdminSetUserActive).Methods(http.MethodPost)
	api.HandleFunc("/admin/stats", s.handleAdminStats).Methods(http.MethodGet)

	var h http.Handler = r
	h = s.identityMiddleware(h)
	h = s.gatekeeperMiddleware(h)
	h = s.loggingMiddleware(h)
	return h
}

// setSessionCookie writes the session cookie with the contract attributes:
// HttpOnly, SameSite=Lax, Secure in production, path /, lifetime matching
// the session duration.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.production,
		MaxAge:   int(s.sessionTTL.Seconds()),
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.production,
		MaxAge:   -1,
	})
}
