package in

import (
	"context"

	"jobboard_server/core/domain"
)

// ApplicationService drives the application lifecycle.
type ApplicationService interface {
	// === Student side ===
	Apply(ctx context.Context, identity domain.Identity, jobID int64) (*domain.Application, error)
	Withdraw(ctx context.Context, identity domain.Identity, applicationID int64) error
	ListForStudent(ctx context.Context, identity domain.Identity, status string) ([]*domain.Application, error)

	// === Company side ===
	UpdateStatus(ctx context.Context, identity domain.Identity, applicationID int64, status string) (*domain.Application, error)
	ListForCompany(ctx context.Context, identity domain.Identity, jobID *int64, status string) ([]*domain.Application, error)
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
