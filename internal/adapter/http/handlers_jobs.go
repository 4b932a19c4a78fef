package adapthttp

import (
	"context"
	"net/http"
	"time"

	"jobboard/internal/app"
	"jobboard/internal/common"
	"jobboard/internal/domain"
)

type jobRequest struct {
	Title         string `json:"title" validate:"required,min=3,max=120"`
	Description   string `json:"description" validate:"required,min=10"`
	JobType       string `json:"jobType" validate:"required,oneof=FULL_TIME PART_TIME CONTRACT INTERNSHIP"`
	WorkMode      string `json:"workMode" validate:"required,oneof=ONSITE REMOTE HYBRID"`
	Location      string `json:"location" validate:"required"`
	SalaryMin     *int64 `json:"salaryMin" validate:"omitempty,gte=0"`
	SalaryMax     *int64 `json:"salaryMax" validate:"omitempty,gte=0"`
	ExperienceMax *int   `json:"experienceMax" validate:"omitempty,gte=0,lte=50"`
}

// input validates the payload, including the cross-field salary invariant,
// and converts it to the service input shape.
func (req jobRequest) input() (app.JobInput, error) {
	if err := checkStruct(req); err != nil {
		return app.JobInput{}, err
	}
	if req.SalaryMin != nil && req.SalaryMax != nil && *req.SalaryMax < *req.SalaryMin {
		return app.JobInput{}, common.NewValidationError("invalid salary range", map[string]string{
			"salaryMax": "salaryMax must be greater than or equal to salaryMin",
		})
	}
	return app.JobInput{
		Title:         req.Title,
		Description:   req.Description,
		JobType:       req.JobType,
		WorkMode:      req.WorkMode,
		Location:      req.Location,
		SalaryMin:     req.SalaryMin,
		SalaryMax:     req.SalaryMax,
		ExperienceMax: req.ExperienceMax,
	}, nil
}

type jobResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	JobType       string    `json:"jobType"`
	WorkMode      string    `json:"workMode"`
	Location      string    `json:"location"`
	SalaryMin     *int64    `json:"salaryMin"`
	SalaryMax     *int64    `json:"salaryMax"`
	ExperienceMax *int      `json:"experienceMax"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

func jobPayload(j *domain.Job) jobResponse {
	return jobResponse{
		ID:            j.ID,
		Title:         j.Title,
		Description:   j.Description,
		JobType:       j.JobType,
		WorkMode:      j.WorkMode,
		Location:      j.Location,
		SalaryMin:     j.SalaryMin,
		SalaryMax:     j.SalaryMax,
		ExperienceMax: j.ExperienceMax,
		Status:        string(j.Status),
		CreatedAt:     j.CreatedAt,
	}
}

func (s *Server) handleSearchJobs(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	q := r.URL.Query()

	filter := domain.SearchFilter{
		Query:         q.Get("q"),
		Location:      q.Get("location"),
		JobType:       q.Get("jobType"),
		MinSalary:     int64QueryPtr(r, "minSalary"),
		MaxSalary:     int64QueryPtr(r, "maxSalary"),
		MaxExperience: intQueryPtr(r, "maxExperience"),
		Sort:          domain.SortOrder(q.Get("sort")),
	}
	req := app.SearchRequest{
		Filter: filter,
		Page:   intQuery(r, "page", 1),
		Limit:  intQuery(r, "limit", 0),
	}
	if identity != nil {
		req.IdentityID = identity.ID
		if q.Get("saved") == "true" {
			req.Filter.SavedBy = identity.ID
		}
	}

	result, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	job, err := s.jobs.GetOpen(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"job": jobPayload(job)})
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	var req jobRequest
	if err := parseJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	in, err := req.input()
	if err != nil {
		s.writeError(w, err)
		return
	}
	job, err := s.jobs.Create(r.Context(), identity, in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "job": jobPayload(job)})
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req jobRequest
	if err := parseJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	in, err := req.input()
	if err != nil {
		s.writeError(w, err)
		return
	}
	job, err := s.jobs.Update(r.Context(), identity, id, in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "job": jobPayload(job)})
}

func (s *Server) handleCloseJob(w http.ResponseWriter, r *http.Request) {
	s.handleSetJobStatus(w, r, s.jobs.Close)
}

func (s *Server) handleReopenJob(w http.ResponseWriter, r *http.Request) {
	s.handleSetJobStatus(w, r, s.jobs.Reopen)
}

func (s *Server) handleSetJobStatus(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, identity *domain.Identity, jobID int64) error) {
	identity := IdentityFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := op(r.Context(), identity, id); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleSaveJob(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.jobs.SaveJob(r.Context(), identity, id); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleUnsaveJob(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.jobs.UnsaveJob(r.Context(), identity, id); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleOwnJobs(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	jobs, err := s.jobs.ListOwn(r.Context(), identity)
	if err != nil {
		s.writeError(w, err)
		return
	}
	payload := make([]jobResponse, 0, len(jobs))
	for i := range jobs {
		payload = append(payload, jobPayload(&jobs[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": payload})
}
