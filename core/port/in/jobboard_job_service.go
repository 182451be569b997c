package in

import (
	"context"

	"jobboard_server/core/domain"
)

// JobService manages job listings.
type JobService interface {
	Create(ctx context.Context, identity domain.Identity, req *CreateJobRequest) (*domain.Job, error)
	Update(ctx context.Context, identity domain.Identity, jobID int64, req *UpdateJobRequest) (*domain.Job, error)
	Delete(ctx context.Context, identity domain.Identity, jobID int64) error

	List(ctx context.Context, filter *domain.JobFilter) (*JobListResponse, error)
	Get(ctx context.Context, jobID int64) (*domain.Job, error)
	ListMine(ctx context.Context, identity domain.Identity) ([]*domain.Job, error)
}

// Contact fields are accepted flat and stored as one ContactInfo block.
type CreateJobRequest struct {
	Title               string   `json:"title" validate:"required"`
	Level               string   `json:"level" validate:"required"`
	LocationType        string   `json:"locationType" validate:"required"`
	Location            *string  `json:"location,omitempty"`
	Salary              *string  `json:"salary,omitempty"`
	Description         string   `json:"description" validate:"required"`
	Benefits            *string  `json:"benefits,omitempty"`
	Skills              []string `json:"skills,omitempty"`
	ContactEmail        *string  `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone        *string  `json:"contactPhone,omitempty"`
	ContactLinkedin     *string  `json:"contactLinkedin,omitempty"`
	ContactWebsite      *string  `json:"contactWebsite,omitempty"`
	ContactInstructions *string  `json:"contactInstructions,omitempty"`
}

func (r *CreateJobRequest) ContactInfo() domain.ContactInfo {
	return domain.ContactInfo{
		Email:        r.ContactEmail,
		Phone:        r.ContactPhone,
		LinkedIn:     r.ContactLinkedin,
		Website:      r.ContactWebsite,
		Instructions: r.ContactInstructions,
	}
}

// UpdateJobRequest is a partial update. A non-empty Skills list replaces the
// stored list; nil or empty keeps it.
type UpdateJobRequest struct {
	Title               *string  `json:"title,omitempty" validate:"omitempty,min=1"`
	Level               *string  `json:"level,omitempty"`
	LocationType        *string  `json:"locationType,omitempty"`
	Location            *string  `json:"location,omitempty"`
	Salary              *string  `json:"salary,omitempty"`
	Description         *string  `json:"description,omitempty" validate:"omitempty,min=1"`
	Benefits            *string  `json:"benefits,omitempty"`
	Skills              []string `json:"skills,omitempty"`
	IsActive            *bool    `json:"isActive,omitempty"`
	ContactEmail        *string  `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone        *string  `json:"contactPhone,omitempty"`
	ContactLinkedin     *string  `json:"contactLinkedin,omitempty"`
	ContactWebsite      *string  `json:"contactWebsite,omitempty"`
	ContactInstructions *string  `json:"contactInstructions,omitempty"`
}

func (r *UpdateJobRequest) ContactInfo() domain.ContactInfo {
	return domain.ContactInfo{
		Email:        r.ContactEmail,
		Phone:        r.ContactPhone,
		LinkedIn:     r.ContactLinkedin,
		Website:      r.ContactWebsite,
		Instructions: r.ContactInstructions,
	}
}

type JobListResponse struct {
	Jobs  []*domain.Job `json:"jobs"`
	Total int           `json:"total"`
}
