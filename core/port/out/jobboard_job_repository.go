package out

import (
	"context"
	"time"

	"jobboard_server/core/domain"
)

// JobRepository persists listings and their required skills. Reads include
// skills and the owning company summary.
type JobRepository interface {
	GetJob(ctx context.Context, id int64) (*domain.Job, error)
	ListJobs(ctx context.Context, filter *domain.JobFilter) ([]*domain.Job, int, error)

	// CreateJob inserts the job and its RequiredSkills in one transaction.
	CreateJob(ctx context.Context, job *domain.Job) error
	// UpdateJob writes every column. When replaceSkills is set the stored
	// skill rows are deleted and job.RequiredSkills inserted in the same
	// transaction.
	UpdateJob(ctx context.Context, job *domain.Job, replaceSkills bool) error
	// DeleteJob removes applications, skills and the job in one transaction.
	DeleteJob(ctx context.Context, id int64) error
	SetJobActive(ctx context.Context, id int64, active bool) error
}

// ApplicationRepository persists applications. List results carry the job
// with its company and the student summary.
type ApplicationRepository interface {
	GetApplication(ctx context.Context, id int64) (*domain.Application, error)
	FindApplication(ctx context.Context, studentID, jobID int64) (*domain.Application, error)
	ListApplications(ctx context.Context, filter *domain.ApplicationFilter) ([]*domain.Application, int, error)

	CreateApplication(ctx context.Context, app *domain.Application) error
	UpdateApplicationStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error
	DeleteApplication(ctx context.Context, id int64) error
}

// ReportRepository runs the dashboard aggregates. since bounds the "new"
// counters.
type ReportRepository interface {
	SystemStats(ctx context.Context, since time.Time) (*domain.SystemStats, error)
	CompanyStats(ctx context.Context, companyID int64) (*domain.CompanyStats, error)
}
