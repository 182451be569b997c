package in

import (
	"context"

	"jobboard_server/core/domain"

	"github.com/google/uuid"
)

// AdminService backs the moderation screens.
type AdminService interface {
	ListUsers(ctx context.Context, filter *domain.UserFilter) (*UserListResponse, error)
	ListJobs(ctx context.Context, filter *domain.JobFilter) (*JobListResponse, error)
	ListApplications(ctx context.Context, filter *domain.ApplicationFilter) (*ApplicationListResponse, error)

	BlockUser(ctx context.Context, userID uuid.UUID) error
	SetJobStatus(ctx context.Context, jobID int64, active bool) (*domain.Job, error)
}

type SetJobStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type UserListResponse struct {
	Users []*domain.UserListItem `json:"users"`
	Total int                    `json:"total"`
}

type ApplicationListResponse struct {
	Applications []*domain.Application `json:"applications"`
	Total        int                   `json:"total"`
}

// ReportService computes dashboard statistics. Results are never cached.
type ReportService interface {
	SystemStats(ctx context.Context) (*domain.SystemStats, error)
	CompanyStats(ctx context.Context, identity domain.Identity) (*domain.CompanyStats, error)
}
