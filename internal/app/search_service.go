package app

import (
	"context"
	"time"

	"jobboard/internal/domain"
)

// Pagination bounds. Out-of-range input is clamped, not rejected.
const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

// SearchRequest is the inbound search input before clamping.
// IdentityID is optional; when set, result rows carry an isSaved flag for
// that identity.
type SearchRequest struct {
	Filter     domain.SearchFilter
	Page       int
	Limit      int
	IdentityID int64
}

// JobDTO is the wire shape of one search result.
type JobDTO struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	CompanyName   string    `json:"companyName"`
	Location      string    `json:"location"`
	JobType       string    `json:"jobType"`
	WorkMode      string    `json:"workMode"`
	SalaryMin     *int64    `json:"salaryMin"`
	SalaryMax     *int64    `json:"salaryMax"`
	ExperienceMax *int      `json:"experienceMax"`
	IsSaved       bool      `json:"isSaved"`
	CreatedAt     time.Time `json:"createdAt"`
}

// PageInfo is the pagination metadata attached to every search response.
type PageInfo struct {
	Page            int  `json:"page"`
	Limit           int  `json:"limit"`
	Total           int  `json:"total"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// SearchResult is one page of results plus pagination metadata.
type SearchResult struct {
	Jobs       []JobDTO `json:"jobs"`
	Pagination PageInfo `json:"pagination"`
}

// SearchService turns search requests into repository queries and shapes
// the paginated response.
type SearchService struct {
	jobs  domain.JobRepository
	saved domain.SavedJobRepository
}

// NewSearchService creates a SearchService backed by the given repositories.
func NewSearchService(jobs domain.JobRepository, saved domain.SavedJobRepository) *SearchService {
	return &SearchService{jobs: jobs, saved: saved}
}

// Search runs the public job search. Only open jobs are ever returned.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit == 0 {
		limit = DefaultPageSize
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	filter := req.Filter
	if filter.Sort == "" {
		filter.Sort = domain.SortNewest
	}

	listings, total, err := s.jobs.Search(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	// One batch lookup for the caller's saved set; never per-row queries.
	var savedIDs map[int64]bool
	if req.IdentityID > 0 {
		savedIDs, err = s.saved.IDsForIdentity(ctx, req.IdentityID)
		if err != nil {
			return nil, err
		}
	}

	jobs := make([]JobDTO, 0, len(listings))
	for _, l := range listings {
		jobs = append(jobs, JobDTO{
			ID:            l.ID,
			Title:         l.Title,
			CompanyName:   l.CompanyName,
			Location:      l.Location,
			JobType:       l.JobType,
			WorkMode:      l.WorkMode,
			SalaryMin:     l.SalaryMin,
			SalaryMax:     l.SalaryMax,
			ExperienceMax: l.ExperienceMax,
			IsSaved:       savedIDs[l.ID],
			CreatedAt:     l.CreatedAt,
		})
	}

	totalPages := (total + limit - 1) / limit
	return &SearchResult{
		Jobs: jobs,
		Pagination: PageInfo{
			Page:            page,
			Limit:           limit,
			Total:           total,
			TotalPages:      totalPages,
			HasNextPage:     page < totalPages,
			HasPreviousPage: page > 1,
		},
	}, nil
}
