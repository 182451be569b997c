// Package fake provides an in-memory implementation of every repository
// port for service and handler tests.
package fake

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"jobboard_server/core/domain"
	"jobboard_server/core/port/out"

	"github.com/google/uuid"
)

// Store keeps all entities in maps guarded by one mutex.
type Store struct {
	mu sync.Mutex

	users        map[uuid.UUID]*domain.User
	students     map[int64]*domain.Student
	skills       map[int64]*domain.Skill
	experiences  map[int64]*domain.Experience
	companies    map[int64]*domain.Company
	admins       map[int64]*domain.Admin
	jobs         map[int64]*domain.Job
	applications map[int64]*domain.Application

	// Err, when set, is returned by every call.
	Err error
}

func NewStore() *Store {
	return &Store{
		users:        map[uuid.UUID]*domain.User{},
		students:     map[int64]*domain.Student{},
		skills:       map[int64]*domain.Skill{},
		experiences:  map[int64]*domain.Experience{},
		companies:    map[int64]*domain.Company{},
		admins:       map[int64]*domain.Admin{},
		jobs:         map[int64]*domain.Job{},
		applications: map[int64]*domain.Application{},
	}
}

var (
	_ out.UserRepository        = (*Store)(nil)
	_ out.StudentRepository     = (*Store)(nil)
	_ out.CompanyRepository     = (*Store)(nil)
	_ out.AdminRepository       = (*Store)(nil)
	_ out.JobRepository         = (*Store)(nil)
	_ out.ApplicationRepository = (*Store)(nil)
	_ out.ReportRepository      = (*Store)(nil)
)

// UserCount is the number of stored users.
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// ApplicationCount is the number of stored applications.
func (s *Store) ApplicationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.applications)
}

// =============================================================================
// Users
// =============================================================================

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if u, ok := s.users[id]; ok {
		u.PasswordHash = hash
		u.UpdatedAt = time.Now()
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context, filter *domain.UserFilter) ([]*domain.UserListItem, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, 0, s.Err
	}

	var items []*domain.UserListItem
	for _, u := range s.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		item := &domain.UserListItem{User: *u}
		if st := s.studentByUser(u.ID); st != nil {
			item.Student = &domain.StudentSummary{ID: st.ID, Name: st.Name, ProfilePicture: st.ProfilePicture}
		}
		if co := s.companyByUser(u.ID); co != nil {
			item.Company = &domain.CompanySummary{ID: co.ID, UserID: co.UserID, Name: co.Name, ResponsibleName: co.ResponsibleName}
		}
		if filter.Search != nil && *filter.Search != "" {
			q := *filter.Search
			match := contains(u.Email, q) ||
				(item.Student != nil && contains(item.Student.Name, q)) ||
				(item.Company != nil && contains(item.Company.Name, q))
			if !match {
				continue
			}
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return page(items, filter.Offset, filter.Limit), len(items), nil
}

func (s *Store) CreateStudentAccount(ctx context.Context, user *domain.User, student *domain.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.insertUser(user); err != nil {
		return err
	}
	cp := *student
	cp.Skills = nil
	s.students[student.ID] = &cp
	for i := range student.Skills {
		sk := student.Skills[i]
		s.skills[sk.ID] = &sk
	}
	return nil
}

func (s *Store) CreateCompanyAccount(ctx context.Context, user *domain.User, company *domain.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.companies {
		if c.TaxID == company.TaxID {
			return out.ErrDuplicate
		}
	}
	if err := s.insertUser(user); err != nil {
		return err
	}
	cp := *company
	s.companies[company.ID] = &cp
	return nil
}

func (s *Store) CreateAdminAccount(ctx context.Context, user *domain.User, admin *domain.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.insertUser(user); err != nil {
		return err
	}
	cp := *admin
	s.admins[admin.ID] = &cp
	return nil
}

func (s *Store) insertUser(user *domain.User) error {
	if s.Err != nil {
		return s.Err
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return out.ErrDuplicate
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

// =============================================================================
// Students
// =============================================================================

func (s *Store) GetStudent(ctx context.Context, id int64) (*domain.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	st, ok := s.students[id]
	if !ok {
		return nil, nil
	}
	return s.hydrateStudent(st), nil
}

func (s *Store) GetStudentByUserID(ctx context.Context, userID uuid.UUID) (*domain.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	st := s.studentByUser(userID)
	if st == nil {
		return nil, nil
	}
	return s.hydrateStudent(st), nil
}

func (s *Store) UpdateStudent(ctx context.Context, student *domain.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	cp := *student
	cp.Skills, cp.Experiences, cp.Applications = nil, nil, nil
	s.students[student.ID] = &cp
	return nil
}

func (s *Store) GetSkill(ctx context.Context, id int64) (*domain.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if sk, ok := s.skills[id]; ok {
		cp := *sk
		return &cp, nil
	}
	return nil, nil
}

func (s *Store) FindSkillByName(ctx context.Context, studentID int64, name string) (*domain.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, sk := range s.skills {
		if sk.StudentID == studentID && strings.EqualFold(sk.Name, name) {
			cp := *sk
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) CreateSkill(ctx context.Context, skill *domain.Skill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, sk := range s.skills {
		if sk.StudentID == skill.StudentID && strings.EqualFold(sk.Name, skill.Name) {
			return out.ErrDuplicate
		}
	}
	cp := *skill
	s.skills[skill.ID] = &cp
	return nil
}

func (s *Store) UpdateSkill(ctx context.Context, skill *domain.Skill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, sk := range s.skills {
		if sk.ID != skill.ID && sk.StudentID == skill.StudentID && strings.EqualFold(sk.Name, skill.Name) {
			return out.ErrDuplicate
		}
	}
	cp := *skill
	s.skills[skill.ID] = &cp
	return nil
}

func (s *Store) DeleteSkill(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.skills, id)
	return nil
}

func (s *Store) GetExperience(ctx context.Context, id int64) (*domain.Experience, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if e, ok := s.experiences[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (s *Store) CreateExperience(ctx context.Context, exp *domain.Experience) error {
	return s.UpdateExperience(ctx, exp)
}

func (s *Store) UpdateExperience(ctx context.Context, exp *domain.Experience) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	cp := *exp
	s.experiences[exp.ID] = &cp
	return nil
}

func (s *Store) DeleteExperience(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.experiences, id)
	return nil
}

func (s *Store) studentByUser(userID uuid.UUID) *domain.Student {
	for _, st := range s.students {
		if st.UserID == userID {
			return st
		}
	}
	return nil
}

func (s *Store) hydrateStudent(st *domain.Student) *domain.Student {
	cp := *st
	cp.Skills = s.skillsOf(st.ID)
	for _, e := range s.experiences {
		if e.StudentID == st.ID {
			cp.Experiences = append(cp.Experiences, *e)
		}
	}
	sort.Slice(cp.Experiences, func(i, j int) bool {
		return cp.Experiences[i].StartDate.After(cp.Experiences[j].StartDate)
	})
	return &cp
}

func (s *Store) skillsOf(studentID int64) []domain.Skill {
	var res []domain.Skill
	for _, sk := range s.skills {
		if sk.StudentID == studentID {
			res = append(res, *sk)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}

// =============================================================================
// Companies and admins
// =============================================================================

func (s *Store) GetCompany(ctx context.Context, id int64) (*domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if c, ok := s.companies[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (s *Store) GetCompanyByUserID(ctx context.Context, userID uuid.UUID) (*domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if c := s.companyByUser(userID); c != nil {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (s *Store) GetCompanyByTaxID(ctx context.Context, taxID string) (*domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, c := range s.companies {
		if c.TaxID == taxID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) UpdateCompany(ctx context.Context, company *domain.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	cp := *company
	cp.Jobs = nil
	s.companies[company.ID] = &cp
	return nil
}

func (s *Store) GetAdminByUserID(ctx context.Context, userID uuid.UUID) (*domain.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, a := range s.admins {
		if a.UserID == userID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) companyByUser(userID uuid.UUID) *domain.Company {
	for _, c := range s.companies {
		if c.UserID == userID {
			return c
		}
	}
	return nil
}

// =============================================================================
// Jobs
// =============================================================================

func (s *Store) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	j, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	return s.hydrateJob(j), nil
}

func (s *Store) ListJobs(ctx context.Context, filter *domain.JobFilter) ([]*domain.Job, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, 0, s.Err
	}

	var res []*domain.Job
	for _, j := range s.jobs {
		h := s.hydrateJob(j)
		if !matchJob(h, filter) {
			continue
		}
		if filter.WithCounts {
			n := 0
			for _, a := range s.applications {
				if a.JobID == j.ID {
					n++
				}
			}
			h.ApplicationCount = &n
		}
		res = append(res, h)
	}
	sort.Slice(res, func(a, b int) bool { return res[a].CreatedAt.After(res[b].CreatedAt) })
	return page(res, filter.Offset, filter.Limit), len(res), nil
}

func (s *Store) CreateJob(ctx context.Context, job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	cp := *job
	cp.RequiredSkills = append([]string(nil), job.RequiredSkills...)
	cp.Company, cp.Applications = nil, nil
	s.jobs[job.ID] = &cp
	return nil
}

func (s *Store) UpdateJob(ctx context.Context, job *domain.Job, replaceSkills bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	prev, ok := s.jobs[job.ID]
	if !ok {
		return nil
	}
	cp := *job
	cp.Company, cp.Applications, cp.ApplicationCount = nil, nil, nil
	if replaceSkills {
		cp.RequiredSkills = append([]string(nil), job.RequiredSkills...)
	} else {
		cp.RequiredSkills = prev.RequiredSkills
	}
	s.jobs[job.ID] = &cp
	return nil
}

func (s *Store) DeleteJob(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for aid, a := range s.applications {
		if a.JobID == id {
			delete(s.applications, aid)
		}
	}
	delete(s.jobs, id)
	return nil
}

func (s *Store) SetJobActive(ctx context.Context, id int64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if j, ok := s.jobs[id]; ok {
		j.IsActive = active
	}
	return nil
}

func (s *Store) hydrateJob(j *domain.Job) *domain.Job {
	cp := *j
	cp.RequiredSkills = append([]string{}, j.RequiredSkills...)
	if c, ok := s.companies[j.CompanyID]; ok {
		cp.Company = &domain.CompanySummary{ID: c.ID, UserID: c.UserID, Name: c.Name, ResponsibleName: c.ResponsibleName}
	}
	return &cp
}

func matchJob(j *domain.Job, f *domain.JobFilter) bool {
	if f.Level != nil && j.Level != *f.Level {
		return false
	}
	if f.LocationType != nil && j.LocationType != *f.LocationType {
		return false
	}
	if f.CompanyID != nil && j.CompanyID != *f.CompanyID {
		return false
	}
	if f.Active != nil && j.IsActive != *f.Active {
		return false
	}
	if len(f.Skills) > 0 {
		found := false
		for _, want := range f.Skills {
			for _, have := range j.RequiredSkills {
				if strings.EqualFold(want, have) {
					found = true
				}
			}
		}
		if !found {
			return false
		}
	}
	if f.Search != nil && *f.Search != "" {
		q := *f.Search
		company := ""
		if j.Company != nil {
			company = j.Company.Name
		}
		match := contains(j.Title, q) || contains(company, q)
		if !f.TitleSearchOnly {
			match = match || contains(j.Description, q) || (j.Location != nil && contains(*j.Location, q))
		}
		if !match {
			return false
		}
	}
	return true
}

// =============================================================================
// Applications
// =============================================================================

func (s *Store) GetApplication(ctx context.Context, id int64) (*domain.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	a, ok := s.applications[id]
	if !ok {
		return nil, nil
	}
	return s.applicationSummary(a, false), nil
}

func (s *Store) FindApplication(ctx context.Context, studentID, jobID int64) (*domain.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, a := range s.applications {
		if a.StudentID == studentID && a.JobID == jobID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) ListApplications(ctx context.Context, f *domain.ApplicationFilter) ([]*domain.Application, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, 0, s.Err
	}

	var res []*domain.Application
	for _, a := range s.applications {
		if f.StudentID != nil && a.StudentID != *f.StudentID {
			continue
		}
		if f.JobID != nil && a.JobID != *f.JobID {
			continue
		}
		if f.Status != nil && a.Status != *f.Status {
			continue
		}
		if f.CompanyID != nil {
			j, ok := s.jobs[a.JobID]
			if !ok || j.CompanyID != *f.CompanyID {
				continue
			}
		}
		res = append(res, s.applicationSummary(a, true))
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return page(res, f.Offset, f.Limit), len(res), nil
}

func (s *Store) CreateApplication(ctx context.Context, app *domain.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, a := range s.applications {
		if a.StudentID == app.StudentID && a.JobID == app.JobID {
			return out.ErrDuplicate
		}
	}
	cp := *app
	cp.Job, cp.Student = nil, nil
	s.applications[app.ID] = &cp
	return nil
}

func (s *Store) UpdateApplicationStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if a, ok := s.applications[id]; ok {
		a.Status = status
		a.UpdatedAt = time.Now()
	}
	return nil
}

func (s *Store) DeleteApplication(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.applications, id)
	return nil
}

// applicationSummary mirrors the joined application query: job, company and
// student summary columns, plus skills only where the list query loads them.
func (s *Store) applicationSummary(a *domain.Application, withSkills bool) *domain.Application {
	cp := *a
	cp.Job, cp.Student = nil, nil

	j, ok := s.jobs[a.JobID]
	if !ok {
		return &cp
	}
	c, ok := s.companies[j.CompanyID]
	if !ok {
		return &cp
	}
	st, ok := s.students[a.StudentID]
	if !ok {
		return &cp
	}

	job := &domain.Job{
		ID:             j.ID,
		CompanyID:      j.CompanyID,
		Title:          j.Title,
		Level:          j.Level,
		LocationType:   j.LocationType,
		Location:       j.Location,
		IsActive:       j.IsActive,
		RequiredSkills: []string{},
		CreatedAt:      j.CreatedAt,
		Company:        &domain.CompanySummary{ID: c.ID, UserID: c.UserID, Name: c.Name},
	}
	student := &domain.StudentSummary{
		ID:             st.ID,
		Name:           st.Name,
		ProfilePicture: st.ProfilePicture,
		City:           st.City,
		State:          st.State,
		Country:        st.Country,
		ResumeURL:      st.ResumeURL,
		GithubURL:      st.GithubURL,
		LinkedinURL:    st.LinkedinURL,
		PortfolioURL:   st.PortfolioURL,
		CreatedAt:      st.CreatedAt,
	}
	if withSkills {
		if len(j.RequiredSkills) > 0 {
			job.RequiredSkills = append([]string{}, j.RequiredSkills...)
		}
		student.Skills = s.skillsOf(st.ID)
	}
	cp.Job, cp.Student = job, student
	return &cp
}

// =============================================================================
// Reports
// =============================================================================

func (s *Store) SystemStats(ctx context.Context, since time.Time) (*domain.SystemStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	st := &domain.SystemStats{}
	st.Users.Total = len(s.users)
	for _, u := range s.users {
		switch u.Role {
		case domain.RoleStudent:
			st.Users.Students++
		case domain.RoleCompany:
			st.Users.Companies++
		case domain.RoleAdmin:
			st.Users.Admins++
		}
	}
	for _, x := range s.students {
		if !x.CreatedAt.Before(since) {
			st.Users.NewStudents++
		}
	}
	for _, x := range s.companies {
		if !x.CreatedAt.Before(since) {
			st.Users.NewCompanies++
		}
	}

	newJobs := 0
	st.Jobs.Total = len(s.jobs)
	for _, j := range s.jobs {
		if j.IsActive {
			st.Jobs.Active++
		}
		if !j.CreatedAt.Before(since) {
			newJobs++
		}
	}
	st.Jobs.Inactive = st.Jobs.Total - st.Jobs.Active
	st.Jobs.New = &newJobs

	st.Applications.ByStatus = domain.NewStatusCounts()
	for _, a := range s.applications {
		st.Applications.Total++
		st.Applications.ByStatus[a.Status]++
	}
	return st, nil
}

func (s *Store) CompanyStats(ctx context.Context, companyID int64) (*domain.CompanyStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	st := &domain.CompanyStats{}
	owned := map[int64]bool{}
	for _, j := range s.jobs {
		if j.CompanyID != companyID {
			continue
		}
		owned[j.ID] = true
		st.Jobs.Total++
		if j.IsActive {
			st.Jobs.Active++
		}
	}
	st.Jobs.Inactive = st.Jobs.Total - st.Jobs.Active

	st.Applications.ByStatus = domain.NewStatusCounts()
	for _, a := range s.applications {
		if owned[a.JobID] {
			st.Applications.Total++
			st.Applications.ByStatus[a.Status]++
		}
	}
	return st, nil
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
