package adapthttp

import (
	"net/http"
	"time"

	"jobboard/internal/domain"
)

type applyRequest struct {
	CoverNote string `json:"coverNote" validate:"omitempty,max=2000"`
}

type statusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

type applicationResponse struct {
	ID          int64     `json:"id"`
	JobID       int64     `json:"jobId"`
	CandidateID int64     `json:"candidateId"`
	Status      string    `json:"status"`
	CoverNote   string    `json:"coverNote"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func applicationPayload(a *domain.Application) applicationResponse {
	return applicationResponse{
		ID:          a.ID,
		JobID:       a.JobID,
		CandidateID: a.CandidateID,
		Status:      string(a.Status),
		CoverNote:   a.CoverNote,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func applicationListPayload(apps []domain.Application) []applicationResponse {
	payload := make([]applicationResponse, 0, len(apps))
	for i := range apps {
		payload = append(payload, applicationPayload(&apps[i]))
	}
	return payload
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	jobID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req applyRequest
	if err := parseJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := checkStruct(req); err != nil {
		s.writeError(w, err)
		return
	}
	application, err := s.applications.Apply(r.Context(), identity, jobID, req.CoverNote)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "application": applicationPayload(application)})
}

func (s *Server) handleMyApplications(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	apps, err := s.applications.ListOwn(r.Context(), identity)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"applications": applicationListPayload(apps)})
}

func (s *Server) handleJobApplications(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	jobID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	apps, err := s.applications.ListForJob(r.Context(), identity, jobID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"applications": applicationListPayload(apps)})
}

func (s *Server) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req statusUpdateRequest
	if err := parseJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := checkStruct(req); err != nil {
		s.writeError(w, err)
		return
	}
	application, err := s.applications.UpdateStatus(r.Context(), identity, id, domain.ApplicationStatus(req.Status))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "application": applicationPayload(application)})
}
