// Package memory implements in-memory repositories for development and
// testing.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"jobboard/internal/common"
	"jobboard/internal/domain"
)

// Store holds every table behind one mutex. The repository view types share
// it so cross-table reads stay consistent.
type Store struct {
	mu           sync.Mutex
	identities   []*domain.Identity
	sessions     map[string]*domain.Session
	companies    []*domain.Company
	jobs         []*domain.Job
	applications []*domain.Application
	saved        map[int64]map[int64]bool // identity id -> job id set

	identityIDCounter    int64
	companyIDCounter     int64
	jobIDCounter         int64
	applicationIDCounter int64
}

// New creates an empty store.
func New() *Store {
	return &Store{
		sessions: make(map[string]*domain.Session),
		saved:    make(map[int64]map[int64]bool),
	}
}

// Identities returns the store viewed as an IdentityRepository.
func (s *Store) Identities() *IdentityRepo { return &IdentityRepo{s: s} }

// Sessions returns the store viewed as a SessionRepository.
func (s *Store) Sessions() *SessionRepo { return &SessionRepo{s: s} }

// Companies returns the store viewed as a CompanyRepository.
func (s *Store) Companies() *CompanyRepo { return &CompanyRepo{s: s} }

// Jobs returns the store viewed as a JobRepository.
func (s *Store) Jobs() *JobRepo { return &JobRepo{s: s} }

// SavedJobs returns the store viewed as a SavedJobRepository.
func (s *Store) SavedJobs() *SavedJobRepo { return &SavedJobRepo{s: s} }

// Applications returns the store viewed as an ApplicationRepository.
func (s *Store) Applications() *ApplicationRepo { return &ApplicationRepo{s: s} }

// Ensure interfaces are met.
var _ domain.IdentityRepository = (*IdentityRepo)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)
var _ domain.CompanyRepository = (*CompanyRepo)(nil)
var _ domain.JobRepository = (*JobRepo)(nil)
var _ domain.SavedJobRepository = (*SavedJobRepo)(nil)
var _ domain.ApplicationRepository = (*ApplicationRepo)(nil)

// --- IdentityRepository ---

// IdentityRepo is the identity view over a Store.
type IdentityRepo struct {
	s *Store
}

func (r *IdentityRepo) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, i := range r.s.identities {
		if i.Email == email {
			cp := *i
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *IdentityRepo) GetByID(ctx context.Context, id int64) (*domain.Identity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, i := range r.s.identities {
		if i.ID == id {
			cp := *i
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *IdentityRepo) Create(ctx context.Context, email, passwordHash string, role domain.Role, mobile string) (*domain.Identity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, i := range r.s.identities {
		if i.Email == email {
			return nil, common.NewError(common.CodeConflict, "an account with this email already exists", nil)
		}
	}
	r.s.identityIDCounter++
	identity := &domain.Identity{
		ID:           r.s.identityIDCounter,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		Mobile:       mobile,
		CreatedAt:    time.Now(),
	}
	r.s.identities = append(r.s.identities, identity)
	cp := *identity
	return &cp, nil
}

func (r *IdentityRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for idx, i := range r.s.identities {
		if i.ID == id {
			r.s.identities = append(r.s.identities[:idx], r.s.identities[idx+1:]...)
			break
		}
	}
	// Sessions cascade, matching the foreign key in the real store.
	for token, sess := range r.s.sessions {
		if sess.IdentityID == id {
			delete(r.s.sessions, token)
		}
	}
	return nil
}

func (r *IdentityRepo) SetActive(ctx context.Context, id int64, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, i := range r.s.identities {
		if i.ID == id {
			i.IsActive = active
			return nil
		}
	}
	return nil
}

func (r *IdentityRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, i := range r.s.identities {
		if i.ID == id {
			i.PasswordHash = passwordHash
			return nil
		}
	}
	return nil
}

// --- SessionRepository ---

// SessionRepo is the session view over a Store.
type SessionRepo struct {
	s *Store
}

func (r *SessionRepo) Create(ctx context.Context, identityID int64, token string, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sessions[token] = &domain.Session{
		Token:      token,
		IdentityID: identityID,
		ExpiresAt:  expiresAt,
		CreatedAt:  time.Now(),
	}
	return nil
}

func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session, ok := r.s.sessions[token]
	if !ok {
		return nil, nil
	}
	cp := *session
	return &cp, nil
}

func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sessions, token)
	return nil
}

func (r *SessionRepo) DeleteAllForIdentity(ctx context.Context, identityID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for token, session := range r.s.sessions {
		if session.IdentityID == identityID {
			delete(r.s.sessions, token)
		}
	}
	return nil
}

func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	for token, session := range r.s.sessions {
		if !session.ExpiresAt.After(now) {
			delete(r.s.sessions, token)
		}
	}
	return nil
}

// --- CompanyRepository ---

// CompanyRepo is the company view over a Store.
type CompanyRepo struct {
	s *Store
}

func (r *CompanyRepo) Create(ctx context.Context, c domain.Company) (*domain.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.companies {
		if existing.OwnerID == c.OwnerID {
			return nil, common.NewError(common.CodeConflict, "company profile already exists", nil)
		}
	}
	r.s.companyIDCounter++
	now := time.Now()
	c.ID = r.s.companyIDCounter
	c.Verified = false
	c.CreatedAt = now
	c.UpdatedAt = now
	company := c
	r.s.companies = append(r.s.companies, &company)
	cp := company
	return &cp, nil
}

func (r *CompanyRepo) Update(ctx context.Context, c domain.Company) (*domain.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.companies {
		if existing.ID == c.ID {
			existing.Name = c.Name
			existing.Description = c.Description
			existing.Website = c.Website
			existing.Location = c.Location
			existing.LogoURL = c.LogoURL
			existing.CompanyType = c.CompanyType
			existing.Size = c.Size
			existing.UpdatedAt = time.Now()
			cp := *existing
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CompanyRepo) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.companies {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CompanyRepo) GetByOwnerID(ctx context.Context, ownerID int64) (*domain.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.companies {
		if c.OwnerID == ownerID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CompanyRepo) SetVerified(ctx context.Context, id int64, verified bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.companies {
		if c.ID == id {
			c.Verified = verified
			c.UpdatedAt = time.Now()
			return nil
		}
	}
	return nil
}

func (r *CompanyRepo) List(ctx context.Context) ([]domain.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Company, 0, len(r.s.companies))
	for _, c := range r.s.companies {
		out = append(out, *c)
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out, nil
}

// --- JobRepository ---

// JobRepo is the job view over a Store.
type JobRepo struct {
	s *Store
}

func (r *JobRepo) Create(ctx context.Context, j domain.Job) (*domain.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.jobIDCounter++
	now := time.Now()
	j.ID = r.s.jobIDCounter
	j.CreatedAt = now
	j.UpdatedAt = now
	job := j
	r.s.jobs = append(r.s.jobs, &job)
	cp := job
	return &cp, nil
}

func (r *JobRepo) Update(ctx context.Context, j domain.Job) (*domain.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.jobs {
		if existing.ID == j.ID {
			existing.Title = j.Title
			existing.Description = j.Description
			existing.JobType = j.JobType
			existing.WorkMode = j.WorkMode
			existing.Location = j.Location
			existing.SalaryMin = j.SalaryMin
			existing.SalaryMax = j.SalaryMax
			existing.ExperienceMax = j.ExperienceMax
			existing.UpdatedAt = time.Now()
			cp := *existing
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *JobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, j := range r.s.jobs {
		if j.ID == id {
			cp := *j
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *JobRepo) SetStatus(ctx context.Context, id int64, status domain.JobStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, j := range r.s.jobs {
		if j.ID == id {
			j.Status = status
			j.UpdatedAt = time.Now()
			return nil
		}
	}
	return nil
}

func (r *JobRepo) ListByCompany(ctx context.Context, companyID int64) ([]domain.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Job
	for _, j := range r.s.jobs {
		if j.CompanyID == companyID {
			out = append(out, *j)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out, nil
}

func (r *JobRepo) CountByCompany(ctx context.Context, companyID int64, openOnly bool) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := 0
	for _, j := range r.s.jobs {
		if companyID > 0 && j.CompanyID != companyID {
			continue
		}
		if openOnly && j.Status != domain.JobOpen {
			continue
		}
		count++
	}
	return count, nil
}

func matchesFilter(j *domain.Job, f domain.SearchFilter, saved map[int64]bool) bool {
	if j.Status != domain.JobOpen {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(j.Title), q) && !strings.Contains(strings.ToLower(j.Description), q) {
			return false
		}
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(j.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.JobType != "" && j.JobType != f.JobType {
		return false
	}
	if f.MinSalary != nil && j.SalaryMax != nil && *j.SalaryMax < *f.MinSalary {
		return false
	}
	if f.MaxSalary != nil && j.SalaryMin != nil && *j.SalaryMin > *f.MaxSalary {
		return false
	}
	if f.MaxExperience != nil && j.ExperienceMax != nil && *j.ExperienceMax > *f.MaxExperience {
		return false
	}
	if f.SavedBy > 0 && !saved[j.ID] {
		return false
	}
	return true
}

// salaryLess orders unset bounds after every concrete value in both
// directions, matching NULLS LAST in the SQL adapter.
func salaryLess(a, b *domain.Job, ascending bool) bool {
	rank := func(v *int64) (int64, bool) {
		if v == nil {
			return 0, false
		}
		return *v, true
	}
	aMax, aOK := rank(a.SalaryMax)
	bMax, bOK := rank(b.SalaryMax)
	if aOK != bOK {
		return aOK
	}
	if aOK && aMax != bMax {
		if ascending {
			return aMax < bMax
		}
		return aMax > bMax
	}
	aMin, aMinOK := rank(a.SalaryMin)
	bMin, bMinOK := rank(b.SalaryMin)
	if aMinOK != bMinOK {
		return aMinOK
	}
	if aMinOK && aMin != bMin {
		if ascending {
			return aMin < bMin
		}
		return aMin > bMin
	}
	if ascending {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func (r *JobRepo) Search(ctx context.Context, f domain.SearchFilter, limit, offset int) ([]domain.JobListing, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	saved := r.s.saved[f.SavedBy]
	var matched []*domain.Job
	for _, j := range r.s.jobs {
		if matchesFilter(j, f, saved) {
			matched = append(matched, j)
		}
	}

	switch f.Sort {
	case domain.SortSalaryHigh:
		sort.SliceStable(matched, func(a, b int) bool { return salaryLess(matched[a], matched[b], false) })
	case domain.SortSalaryLow:
		sort.SliceStable(matched, func(a, b int) bool { return salaryLess(matched[a], matched[b], true) })
	default:
		sort.SliceStable(matched, func(a, b int) bool { return matched[a].CreatedAt.After(matched[b].CreatedAt) })
	}

	total := len(matched)
	if offset >= total {
		return []domain.JobListing{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}

	names := make(map[int64]string, len(r.s.companies))
	for _, c := range r.s.companies {
		names[c.ID] = c.Name
	}

	listings := make([]domain.JobListing, 0, end-offset)
	for _, j := range matched[offset:end] {
		listings = append(listings, domain.JobListing{
			ID:            j.ID,
			Title:         j.Title,
			CompanyName:   names[j.CompanyID],
			Location:      j.Location,
			JobType:       j.JobType,
			WorkMode:      j.WorkMode,
			SalaryMin:     j.SalaryMin,
			SalaryMax:     j.SalaryMax,
			ExperienceMax: j.ExperienceMax,
			CreatedAt:     j.CreatedAt,
		})
	}
	return listings, total, nil
}

// --- SavedJobRepository ---

// SavedJobRepo is the saved-jobs view over a Store.
type SavedJobRepo struct {
	s *Store
}

func (r *SavedJobRepo) Save(ctx context.Context, identityID, jobID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	set, ok := r.s.saved[identityID]
	if !ok {
		set = make(map[int64]bool)
		r.s.saved[identityID] = set
	}
	set[jobID] = true
	return nil
}

func (r *SavedJobRepo) Unsave(ctx context.Context, identityID, jobID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.saved[identityID], jobID)
	return nil
}

func (r *SavedJobRepo) IDsForIdentity(ctx context.Context, identityID int64) (map[int64]bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[int64]bool, len(r.s.saved[identityID]))
	for id := range r.s.saved[identityID] {
		out[id] = true
	}
	return out, nil
}

// --- ApplicationRepository ---

// ApplicationRepo is the application view over a Store.
type ApplicationRepo struct {
	s *Store
}

func (r *ApplicationRepo) Create(ctx context.Context, a domain.Application) (*domain.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.applications {
		if existing.JobID == a.JobID && existing.CandidateID == a.CandidateID {
			return nil, common.NewError(common.CodeConflict, "you have already applied to this job", nil)
		}
	}
	r.s.applicationIDCounter++
	now := time.Now()
	a.ID = r.s.applicationIDCounter
	a.CreatedAt = now
	a.UpdatedAt = now
	application := a
	r.s.applications = append(r.s.applications, &application)
	cp := application
	return &cp, nil
}

func (r *ApplicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.applications {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ApplicationRepo) FindByJobAndCandidate(ctx context.Context, jobID, candidateID int64) (*domain.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.applications {
		if a.JobID == jobID && a.CandidateID == candidateID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus) (*domain.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.applications {
		if a.ID == id {
			a.Status = status
			a.UpdatedAt = time.Now()
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ApplicationRepo) ListByCandidate(ctx context.Context, candidateID int64) ([]domain.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Application
	for _, a := range r.s.applications {
		if a.CandidateID == candidateID {
			out = append(out, *a)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out, nil
}

func (r *ApplicationRepo) ListByJob(ctx context.Context, jobID int64) ([]domain.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Application
	for _, a := range r.s.applications {
		if a.JobID == jobID {
			out = append(out, *a)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out, nil
}

func (s *Store) companyJobIDs(companyID int64) map[int64]bool {
	ids := make(map[int64]bool)
	for _, j := range s.jobs {
		if companyID == 0 || j.CompanyID == companyID {
			ids[j.ID] = true
		}
	}
	return ids
}

func (r *ApplicationRepo) ListRecentByCompany(ctx context.Context, companyID int64, limit int) ([]domain.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := r.s.companyJobIDs(companyID)
	var out []domain.Application
	for _, a := range r.s.applications {
		if ids[a.JobID] {
			out = append(out, *a)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ApplicationRepo) CountByStatusForCompany(ctx context.Context, companyID int64) (map[domain.ApplicationStatus]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := r.s.companyJobIDs(companyID)
	counts := make(map[domain.ApplicationStatus]int)
	for _, a := range r.s.applications {
		if ids[a.JobID] {
			counts[a.Status]++
		}
	}
	return counts, nil
}

func (r *ApplicationRepo) CountByStatusForJob(ctx context.Context, jobID int64) (map[domain.ApplicationStatus]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := make(map[domain.ApplicationStatus]int)
	for _, a := range r.s.applications {
		if a.JobID == jobID {
			counts[a.Status]++
		}
	}
	return counts, nil
}

func (r *ApplicationRepo) CountByCompany(ctx context.Context, companyID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := r.s.companyJobIDs(companyID)
	count := 0
	for _, a := range r.s.applications {
		if ids[a.JobID] {
			count++
		}
	}
	return count, nil
}

func (r *ApplicationRepo) LatestForJob(ctx context.Context, jobID int64) (*domain.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var latest *domain.Application
	for _, a := range r.s.applications {
		if a.JobID != jobID {
			continue
		}
		if latest == nil || a.CreatedAt.After(latest.CreatedAt) {
			latest = a
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}
