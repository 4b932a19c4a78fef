package adapthttp

import (
	"net/http"
	"time"

	"jobboard/internal/app"
	"jobboard/internal/domain"
)

type companyRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Description string `json:"description" validate:"omitempty,max=4000"`
	Website     string `json:"website" validate:"omitempty,url"`
	Location    string `json:"location" validate:"omitempty,max=120"`
	LogoURL     string `json:"logoUrl" validate:"omitempty,url"`
	CompanyType string `json:"companyType" validate:"omitempty,max=60"`
	Size        string `json:"size" validate:"omitempty,max=60"`
}

func (req companyRequest) input() app.CompanyInput {
	return app.CompanyInput{
		Name:        req.Name,
		Description: req.Description,
		Website:     req.Website,
		Location:    req.Location,
		LogoURL:     req.LogoURL,
		CompanyType: req.CompanyType,
		Size:        req.Size,
	}
}

type companyResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Website     string    `json:"website"`
	Location    string    `json:"location"`
	LogoURL     string    `json:"logoUrl"`
	CompanyType string    `json:"companyType"`
	Size        string    `json:"size"`
	Verified    bool      `json:"verified"`
	CreatedAt   time.Time `json:"createdAt"`
}

func companyPayload(c *domain.Company) companyResponse {
	return companyResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Website:     c.Website,
		Location:    c.Location,
		LogoURL:     c.LogoURL,
		CompanyType: c.CompanyType,
		Size:        c.Size,
		Verified:    c.Verified,
		CreatedAt:   c.CreatedAt,
	}
}

func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	company, err := s.companies.GetOwn(r.Context(), identity)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"company": companyPayload(company)})
}

func (s *Server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	var req companyRequest
	if err := parseJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := checkStruct(req); err != nil {
		s.writeError(w, err)
		return
	}
	company, err := s.companies.Create(r.Context(), identity, req.input())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "company": companyPayload(company)})
}

func (s *Server) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	var req companyRequest
	if err := parseJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := checkStruct(req); err != nil {
		s.writeError(w, err)
		return
	}
	company, err := s.companies.Update(r.Context(), identity, req.input())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "company": companyPayload(company)})
}

func (s *Server) handleCompanyStats(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	company, err := s.companies.GetOwn(r.Context(), identity)
	if err != nil {
		s.writeError(w, err)
		return
	}
	overview, err := s.stats.CompanyOverview(r.Context(), company.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handleJobStats(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	jobID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if _, err := s.guard.RequireJobOwnership(r.Context(), identity, jobID); err != nil {
		s.writeError(w, err)
		return
	}
	jobStats, err := s.stats.JobStats(r.Context(), jobID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobStats)
}
