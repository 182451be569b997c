// Package admin backs the moderation screens.
package admin

import (
	"context"

	"jobboard_server/core/domain"
	"jobboard_server/core/port/in"
	"jobboard_server/core/port/out"
	"jobboard_server/pkg/apperr"
	"jobboard_server/pkg/logger"

	"github.com/google/uuid"
)

// Service implements in.AdminService. Callers are gated to ADMIN before
// reaching it.
type Service struct {
	users        out.UserRepository
	jobs         out.JobRepository
	applications out.ApplicationRepository
}

// NewService creates a new AdminService
func NewService(users out.UserRepository, jobs out.JobRepository, applications out.ApplicationRepository) *Service {
	return &Service{users: users, jobs: jobs, applications: applications}
}

var _ in.AdminService = (*Service)(nil)

func (s *Service) ListUsers(ctx context.Context, filter *domain.UserFilter) (*in.UserListResponse, error) {
	users, total, err := s.users.ListUsers(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch users")
	}
	return &in.UserListResponse{Users: users, Total: total}, nil
}

// ListJobs searches title and company name only and includes application
// counts.
func (s *Service) ListJobs(ctx context.Context, filter *domain.JobFilter) (*in.JobListResponse, error) {
	filter.TitleSearchOnly = true
	filter.WithCounts = true
	jobs, total, err := s.jobs.ListJobs(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch jobs")
	}
	return &in.JobListResponse{Jobs: jobs, Total: total}, nil
}

func (s *Service) ListApplications(ctx context.Context, filter *domain.ApplicationFilter) (*in.ApplicationListResponse, error) {
	apps, total, err := s.applications.ListApplications(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch applications")
	}
	return &in.ApplicationListResponse{Applications: apps, Total: total}, nil
}

// BlockUser is exposed but not supported.
func (s *Service) BlockUser(ctx context.Context, userID uuid.UUID) error {
	return apperr.NotImplemented()
}

func (s *Service) SetJobStatus(ctx context.Context, jobID int64, active bool) (*domain.Job, error) {
	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to update job status")
	}
	if job == nil {
		return nil, apperr.NotFound("Job not found")
	}

	if err := s.jobs.SetJobActive(ctx, jobID, active); err != nil {
		return nil, apperr.Wrap(err, "Failed to update job status")
	}
	logger.WithContext(ctx).WithFields(map[string]any{"job_id": jobID, "active": active}).Info("job status set by admin")

	job.IsActive = active
	return job, nil
}
