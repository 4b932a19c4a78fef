package adapthttp

import (
	"net/http"

	"jobboard/internal/app"
)

type verifyRequest struct {
	Verified bool `json:"verified"`
}

type activeRequest struct {
	Active bool `json:"active"`
}

func (s *Server) handleAdminListCompanies(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	companies, err := s.companies.List(r.Context(), identity)
	if err != nil {
		s.writeError(w, err)
		return
	}
	payload := make([]companyResponse, 0, len(companies))
	for i := range companies {
		payload = append(payload, companyPayload(&companies[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"companies": payload})
}

func (s *Server) handleAdminVerifyCompany(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req verifyRequest
	if err := parseJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.companies.SetVerified(r.Context(), identity, id, req.Verified); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleAdminSetUserActive(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	if _, err := app.RequireAdmin(identity); err != nil {
		s.writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req activeRequest
	if err := parseJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.auth.SetActive(r.Context(), id, req.Active); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	if _, err := app.RequireAdmin(identity); err != nil {
		s.writeError(w, err)
		return
	}
	overview, err := s.stats.CompanyOverview(r.Context(), 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}
