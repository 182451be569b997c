// Package job manages job listings.
package job

import (
	"context"
	"strings"
	"time"

	"jobboard_server/core/domain"
	"jobboard_server/core/port/in"
	"jobboard_server/core/port/out"
	"jobboard_server/core/service/access"
	"jobboard_server/pkg/apperr"
	"jobboard_server/pkg/logger"
	"jobboard_server/pkg/snowflake"
)

const (
	msgJobNotFound   = "Job not found"
	msgInvalidLevel  = "Invalid job level. Must be JUNIOR, MID (PLENO), or SENIOR"
	msgInvalidLocTyp = "Invalid location type. Must be REMOTE, HYBRID, or ONSITE"
)

// Service implements in.JobService
type Service struct {
	jobs         out.JobRepository
	companies    out.CompanyRepository
	applications out.ApplicationRepository
	now          func() time.Time
}

// NewService creates a new JobService
func NewService(jobs out.JobRepository, companies out.CompanyRepository, applications out.ApplicationRepository) *Service {
	return &Service{
		jobs:         jobs,
		companies:    companies,
		applications: applications,
		now:          time.Now,
	}
}

var _ in.JobService = (*Service)(nil)

// =============================================================================
// Mutations
// =============================================================================

func (s *Service) Create(ctx context.Context, identity domain.Identity, req *in.CreateJobRequest) (*domain.Job, error) {
	if identity.Role != domain.RoleCompany {
		return nil, apperr.Forbidden("Only companies can create job listings")
	}
	company, err := s.companies.GetCompanyByUserID(ctx, identity.UserID)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to create job")
	}
	if company == nil {
		return nil, apperr.Forbidden("Access denied: Company profile not found")
	}

	level, ok := domain.ParseJobLevel(req.Level)
	if !ok {
		return nil, apperr.InvalidInput("level", msgInvalidLevel)
	}
	locType, ok := domain.ParseLocationType(req.LocationType)
	if !ok {
		return nil, apperr.InvalidInput("locationType", msgInvalidLocTyp)
	}

	now := s.now()
	job := &domain.Job{
		ID:             snowflake.ID(),
		CompanyID:      company.ID,
		Title:          req.Title,
		Level:          level,
		LocationType:   locType,
		Location:       nonEmpty(req.Location),
		Salary:         nonEmpty(req.Salary),
		Description:    req.Description,
		Benefits:       nonEmpty(req.Benefits),
		ContactInfo:    domain.ContactInfo{}.Merge(req.ContactInfo()),
		IsActive:       true,
		RequiredSkills: domain.NormalizeSkills(req.Skills),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := job.Validate(); err != nil {
		return nil, apperr.InvalidInput("location", err.Error())
	}

	if err := s.jobs.CreateJob(ctx, job); err != nil {
		return nil, apperr.Wrap(err, "Failed to create job")
	}
	job.Company = &domain.CompanySummary{ID: company.ID, UserID: company.UserID, Name: company.Name}

	logger.WithContext(ctx).WithFields(map[string]any{"job_id": job.ID, "company_id": company.ID}).Info("job created")
	return job, nil
}

func (s *Service) Update(ctx context.Context, identity domain.Identity, jobID int64, req *in.UpdateJobRequest) (*domain.Job, error) {
	job, err := s.owned(ctx, identity, jobID, "Access denied: You can only update your own job listings")
	if err != nil {
		return nil, err
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		job.Title = *req.Title
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) != "" {
		job.Description = *req.Description
	}
	if req.Level != nil {
		level, ok := domain.ParseJobLevel(*req.Level)
		if !ok {
			return nil, apperr.InvalidInput("level", msgInvalidLevel)
		}
		job.Level = level
	}
	if req.LocationType != nil {
		lt, ok := domain.ParseLocationType(*req.LocationType)
		if !ok {
			return nil, apperr.InvalidInput("locationType", msgInvalidLocTyp)
		}
		job.LocationType = lt
	}
	if req.Location != nil {
		job.Location = nonEmpty(req.Location)
	}
	if req.Salary != nil {
		job.Salary = nonEmpty(req.Salary)
	}
	if req.Benefits != nil {
		job.Benefits = nonEmpty(req.Benefits)
	}
	if req.IsActive != nil {
		job.IsActive = *req.IsActive
	}
	job.ContactInfo = job.ContactInfo.Merge(req.ContactInfo())

	replaceSkills := false
	if skills := domain.NormalizeSkills(req.Skills); len(skills) > 0 {
		job.RequiredSkills = skills
		replaceSkills = true
	}

	if err := job.Validate(); err != nil {
		return nil, apperr.InvalidInput("location", err.Error())
	}

	job.UpdatedAt = s.now()
	if err := s.jobs.UpdateJob(ctx, job, replaceSkills); err != nil {
		return nil, apperr.Wrap(err, "Failed to update job")
	}
	return job, nil
}

func (s *Service) Delete(ctx context.Context, identity domain.Identity, jobID int64) error {
	if _, err := s.owned(ctx, identity, jobID, "Access denied: You can only delete your own job listings"); err != nil {
		return err
	}
	if err := s.jobs.DeleteJob(ctx, jobID); err != nil {
		return apperr.Wrap(err, "Failed to delete job")
	}
	logger.WithContext(ctx).WithFields(map[string]any{"job_id": jobID, "role": identity.Role}).Info("job deleted")
	return nil
}

// owned loads a job and checks the caller may change it.
func (s *Service) owned(ctx context.Context, identity domain.Identity, jobID int64, denied string) (*domain.Job, error) {
	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch job")
	}
	if job == nil {
		return nil, apperr.NotFound(msgJobNotFound)
	}

	owner := job.Company
	if owner == nil {
		c, err := s.companies.GetCompany(ctx, job.CompanyID)
		if err != nil {
			return nil, apperr.Wrap(err, "Failed to fetch job")
		}
		if c != nil {
			owner = &domain.CompanySummary{ID: c.ID, UserID: c.UserID, Name: c.Name}
		}
	}
	if owner == nil {
		return nil, apperr.NotFound(msgJobNotFound)
	}
	if err := access.OwnerOrAdmin(identity, owner.UserID, denied); err != nil {
		return nil, err
	}
	return job, nil
}

// =============================================================================
// Queries
// =============================================================================

func (s *Service) List(ctx context.Context, filter *domain.JobFilter) (*in.JobListResponse, error) {
	jobs, total, err := s.jobs.ListJobs(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch jobs")
	}
	return &in.JobListResponse{Jobs: jobs, Total: total}, nil
}

func (s *Service) Get(ctx context.Context, jobID int64) (*domain.Job, error) {
	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch job")
	}
	if job == nil {
		return nil, apperr.NotFound(msgJobNotFound)
	}

	apps, _, err := s.applications.ListApplications(ctx, &domain.ApplicationFilter{JobID: &job.ID})
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch job")
	}
	for _, a := range apps {
		a.Job = nil
	}
	job.Applications = apps
	return job, nil
}

func (s *Service) ListMine(ctx context.Context, identity domain.Identity) ([]*domain.Job, error) {
	if err := access.RequireRole(identity, domain.RoleCompany); err != nil {
		return nil, err
	}
	company, err := s.companies.GetCompanyByUserID(ctx, identity.UserID)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch company jobs")
	}
	if company == nil {
		return nil, apperr.Forbidden("Access denied: Company profile not found")
	}

	jobs, _, err := s.jobs.ListJobs(ctx, &domain.JobFilter{CompanyID: &company.ID})
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch company jobs")
	}
	apps, _, err := s.applications.ListApplications(ctx, &domain.ApplicationFilter{CompanyID: &company.ID})
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch company jobs")
	}

	byJob := make(map[int64][]*domain.Application, len(jobs))
	for _, a := range apps {
		a.Job = nil
		byJob[a.JobID] = append(byJob[a.JobID], a)
	}
	for _, j := range jobs {
		j.Applications = byJob[j.ID]
	}
	return jobs, nil
}

func nonEmpty(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	s := *v
	return &s
}
