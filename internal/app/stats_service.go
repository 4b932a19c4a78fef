package app

import (
	"context"
	"time"

	"jobboard/internal/domain"

	"golang.org/x/sync/errgroup"
)

// CompanyOverview is the employer (or admin, company id 0) dashboard payload.
// ApplicationsByStatus always enumerates every defined status; consumers
// render a fixed set of columns and must never need to backfill.
type CompanyOverview struct {
	TotalJobs            int                              `json:"totalJobs"`
	OpenJobs             int                              `json:"openJobs"`
	TotalApplications    int                              `json:"totalApplications"`
	ApplicationsByStatus map[domain.ApplicationStatus]int `json:"applicationsByStatus"`
	RecentApplications   []domain.Application             `json:"recentApplications"`
}

// JobStats is the per-job dashboard payload.
type JobStats struct {
	TotalApplications    int                              `json:"totalApplications"`
	ApplicationsByStatus map[domain.ApplicationStatus]int `json:"applicationsByStatus"`
	LastApplicationAt    *time.Time                       `json:"lastApplicationAt"`
}

const recentApplicationLimit = 5

// StatsService computes dashboard aggregates with a small set of parallel
// queries.
type StatsService struct {
	jobs         domain.JobRepository
	applications domain.ApplicationRepository
}

// NewStatsService creates a StatsService backed by the given repositories.
func NewStatsService(jobs domain.JobRepository, applications domain.ApplicationRepository) *StatsService {
	return &StatsService{jobs: jobs, applications: applications}
}

// CompanyOverview aggregates one company's dashboard, or every company's
// when companyID is 0 (admin scope). Callers are responsible for the
// ownership check.
func (s *StatsService) CompanyOverview(ctx context.Context, companyID int64) (*CompanyOverview, error) {
	overview := &CompanyOverview{}
	var byStatus map[domain.ApplicationStatus]int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		overview.TotalJobs, err = s.jobs.CountByCompany(gctx, companyID, false)
		return err
	})
	g.Go(func() error {
		var err error
		overview.OpenJobs, err = s.jobs.CountByCompany(gctx, companyID, true)
		return err
	})
	g.Go(func() error {
		var err error
		overview.TotalApplications, err = s.applications.CountByCompany(gctx, companyID)
		return err
	})
	g.Go(func() error {
		var err error
		byStatus, err = s.applications.CountByStatusForCompany(gctx, companyID)
		return err
	})
	g.Go(func() error {
		var err error
		overview.RecentApplications, err = s.applications.ListRecentByCompany(gctx, companyID, recentApplicationLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	overview.ApplicationsByStatus = completeStatusCounts(byStatus)
	if overview.RecentApplications == nil {
		overview.RecentApplications = []domain.Application{}
	}
	return overview, nil
}

// JobStats aggregates one job's application breakdown. Callers are
// responsible for the ownership check.
func (s *StatsService) JobStats(ctx context.Context, jobID int64) (*JobStats, error) {
	var (
		byStatus map[domain.ApplicationStatus]int
		latest   *domain.Application
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byStatus, err = s.applications.CountByStatusForJob(gctx, jobID)
		return err
	})
	g.Go(func() error {
		var err error
		latest, err = s.applications.LatestForJob(gctx, jobID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &JobStats{ApplicationsByStatus: completeStatusCounts(byStatus)}
	for _, count := range stats.ApplicationsByStatus {
		stats.TotalApplications += count
	}
	if latest != nil {
		t := latest.CreatedAt
		stats.LastApplicationAt = &t
	}
	return stats, nil
}

// completeStatusCounts backfills zero counts so the output always enumerates
// the full status set.
func completeStatusCounts(counts map[domain.ApplicationStatus]int) map[domain.ApplicationStatus]int {
	complete := make(map[domain.ApplicationStatus]int, len(domain.AllApplicationStatuses))
	for _, status := range domain.AllApplicationStatuses {
		complete[status] = counts[status]
	}
	return complete
}
