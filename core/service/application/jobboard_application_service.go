// Package application drives the student-to-job application lifecycle.
//
// Any status may follow any other; the company that owns the listing is the
// only party allowed to change it.
package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"jobboard_server/core/domain"
	"jobboard_server/core/port/in"
	"jobboard_server/core/port/out"
	"jobboard_server/core/service/access"
	"jobboard_server/core/service/company"
	"jobboard_server/pkg/apperr"
	"jobboard_server/pkg/logger"
	"jobboard_server/pkg/snowflake"
)

const (
	msgAlreadyApplied  = "You have already applied to this job"
	msgNotStudentsApp  = "Application not found or does not belong to this student"
	msgNotCompanysApp  = "Application not found or does not belong to your company"
	msgJobNotAvailable = "Job not found or not active"
	msgInvalidStatus   = "Invalid status value"
)

// Service implements in.ApplicationService
type Service struct {
	applications out.ApplicationRepository
	jobs         out.JobRepository
	students     out.StudentRepository
	companies    out.CompanyRepository
	now          func() time.Time
}

// NewService creates a new ApplicationService
func NewService(
	applications out.ApplicationRepository,
	jobs out.JobRepository,
	students out.StudentRepository,
	companies out.CompanyRepository,
) *Service {
	return &Service{
		applications: applications,
		jobs:         jobs,
		students:     students,
		companies:    companies,
		now:          time.Now,
	}
}

var _ in.ApplicationService = (*Service)(nil)

// =============================================================================
// Student side
// =============================================================================

func (s *Service) Apply(ctx context.Context, identity domain.Identity, jobID int64) (*domain.Application, error) {
	if identity.Role != domain.RoleStudent {
		return nil, apperr.Forbidden("Only students can apply to job listings")
	}
	st, err := s.students.GetStudentByUserID(ctx, identity.UserID)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to apply to job")
	}
	if st == nil {
		return nil, apperr.Forbidden("Access denied: Student profile not found")
	}

	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to apply to job")
	}
	if job == nil || !job.IsActive {
		return nil, apperr.NotFound(msgJobNotAvailable)
	}

	existing, err := s.applications.FindApplication(ctx, st.ID, jobID)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to apply to job")
	}
	if existing != nil {
		return nil, apperr.Conflict(msgAlreadyApplied)
	}

	now := s.now()
	app := &domain.Application{
		ID:        snowflake.ID(),
		StudentID: st.ID,
		JobID:     jobID,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.applications.CreateApplication(ctx, app); err != nil {
		if errors.Is(err, out.ErrDuplicate) {
			return nil, apperr.Conflict(msgAlreadyApplied)
		}
		return nil, apperr.Wrap(err, "Failed to apply to job")
	}

	logger.WithContext(ctx).WithFields(map[string]any{"application_id": app.ID, "job_id": jobID, "student_id": st.ID}).Info("application created")
	app.Job = job
	return app, nil
}

func (s *Service) Withdraw(ctx context.Context, identity domain.Identity, applicationID int64) error {
	st, err := s.student(ctx, identity)
	if err != nil {
		return err
	}

	app, err := s.applications.GetApplication(ctx, applicationID)
	if err != nil {
		return apperr.Wrap(err, "Failed to cancel application")
	}
	if app == nil || app.StudentID != st.ID {
		return apperr.NotFound(msgNotStudentsApp)
	}

	if err := s.applications.DeleteApplication(ctx, applicationID); err != nil {
		return apperr.Wrap(err, "Failed to cancel application")
	}
	return nil
}

func (s *Service) ListForStudent(ctx context.Context, identity domain.Identity, status string) ([]*domain.Application, error) {
	st, err := s.student(ctx, identity)
	if err != nil {
		return nil, err
	}
	filter := &domain.ApplicationFilter{StudentID: &st.ID}
	if filter.Status, err = parseStatusFilter(status); err != nil {
		return nil, err
	}

	apps, _, err := s.applications.ListApplications(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch applications")
	}
	for _, a := range apps {
		a.Student = nil
	}
	return apps, nil
}

// =============================================================================
// Company side
// =============================================================================

// UpdateStatus sets status on an application to one of the caller's listings.
// Setting the current status again succeeds without a write.
func (s *Service) UpdateStatus(ctx context.Context, identity domain.Identity, applicationID int64, status string) (*domain.Application, error) {
	next, ok := domain.ParseApplicationStatus(status)
	if !ok {
		return nil, apperr.InvalidInput("status", msgInvalidStatus)
	}

	c, err := company.Own(ctx, s.companies, identity)
	if err != nil {
		return nil, err
	}

	app, err := s.applications.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to update application status")
	}
	if app == nil || app.Job == nil || app.Job.CompanyID != c.ID {
		return nil, apperr.NotFound(msgNotCompanysApp)
	}

	if app.Status == next {
		return app, nil
	}
	if err := s.applications.UpdateApplicationStatus(ctx, app.ID, next); err != nil {
		return nil, apperr.Wrap(err, "Failed to update application status")
	}

	logger.WithContext(ctx).WithFields(map[string]any{
		"application_id": app.ID,
		"from":           app.Status,
		"to":             next,
	}).Info("application status changed")

	app.Status = next
	app.UpdatedAt = s.now()
	return app, nil
}

func (s *Service) ListForCompany(ctx context.Context, identity domain.Identity, jobID *int64, status string) ([]*domain.Application, error) {
	c, err := company.Own(ctx, s.companies, identity)
	if err != nil {
		return nil, err
	}
	filter := &domain.ApplicationFilter{CompanyID: &c.ID, JobID: jobID}
	if filter.Status, err = parseStatusFilter(status); err != nil {
		return nil, err
	}

	apps, _, err := s.applications.ListApplications(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch applications")
	}
	return apps, nil
}

func (s *Service) student(ctx context.Context, identity domain.Identity) (*domain.Student, error) {
	if err := access.RequireRole(identity, domain.RoleStudent); err != nil {
		return nil, err
	}
	st, err := s.students.GetStudentByUserID(ctx, identity.UserID)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch student profile")
	}
	if st == nil {
		return nil, apperr.NotFound("Student profile not found")
	}
	return st, nil
}

// parseStatusFilter turns an optional query value into a status filter.
func parseStatusFilter(raw string) (*domain.ApplicationStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	st, ok := domain.ParseApplicationStatus(raw)
	if !ok {
		return nil, apperr.InvalidInput("status", msgInvalidStatus)
	}
	return &st, nil
}
