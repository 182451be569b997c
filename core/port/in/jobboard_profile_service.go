package in

import (
	"context"

	"jobboard_server/core/domain"
)

// StudentService manages the caller's student profile and its children.
type StudentService interface {
	// === Profile ===
	GetMe(ctx context.Context, identity domain.Identity) (*domain.Student, error)
	UpdateMe(ctx context.Context, identity domain.Identity, req *UpdateStudentRequest) (*domain.Student, error)
	GetPublic(ctx context.Context, studentID int64) (*domain.Student, error)

	// === Experiences ===
	AddExperience(ctx context.Context, identity domain.Identity, req *ExperienceRequest) (*domain.Experience, error)
	UpdateExperience(ctx context.Context, identity domain.Identity, experienceID int64, req *UpdateExperienceRequest) (*domain.Experience, error)
	DeleteExperience(ctx context.Context, identity domain.Identity, experienceID int64) error

	// === Skills ===
	AddSkill(ctx context.Context, identity domain.Identity, req *SkillInput) (*domain.Skill, error)
	UpdateSkill(ctx context.Context, identity domain.Identity, skillID int64, req *UpdateSkillRequest) (*domain.Skill, error)
	DeleteSkill(ctx context.Context, identity domain.Identity, skillID int64) error

	// === Uploads ===
	Upload(ctx context.Context, identity domain.Identity, kind domain.UploadKind, file *domain.UploadedFile) (*UploadResponse, error)
}

// UpdateStudentRequest is a partial update: nil fields are left alone.
type UpdateStudentRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,min=1"`
	Gender       *string `json:"gender,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	Country      *string `json:"country,omitempty" validate:"omitempty,min=1"`
	SpecialNeeds *string `json:"specialNeeds,omitempty"`
	PortfolioURL *string `json:"portfolioUrl,omitempty"`
	GithubURL    *string `json:"githubUrl,omitempty"`
	LinkedinURL  *string `json:"linkedinUrl,omitempty"`
	IsFreelancer *bool   `json:"isFreelancer,omitempty"`
	Bio          *string `json:"bio,omitempty"`
}

// Dates accept YYYY-MM-DD or RFC 3339.
type ExperienceRequest struct {
	Company     string  `json:"company" validate:"required"`
	Role        string  `json:"role" validate:"required"`
	StartDate   string  `json:"startDate" validate:"required"`
	EndDate     *string `json:"endDate,omitempty"`
	Current     bool    `json:"current"`
	Description *string `json:"description,omitempty"`
}

type UpdateExperienceRequest struct {
	Company     *string `json:"company,omitempty" validate:"omitempty,min=1"`
	Role        *string `json:"role,omitempty" validate:"omitempty,min=1"`
	StartDate   *string `json:"startDate,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
	Current     *bool   `json:"current,omitempty"`
	Description *string `json:"description,omitempty"`
}

type UpdateSkillRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Level *int    `json:"level,omitempty" validate:"omitempty,gte=1,lte=5"`
}

type UploadResponse struct {
	URL     string          `json:"url"`
	Student *domain.Student `json:"student"`
}

// CompanyService manages company profiles.
type CompanyService interface {
	GetMe(ctx context.Context, identity domain.Identity) (*domain.Company, error)
	UpdateMe(ctx context.Context, identity domain.Identity, req *UpdateCompanyRequest) (*domain.Company, error)
	GetPublic(ctx context.Context, companyID int64) (*domain.Company, error)
}

type UpdateCompanyRequest struct {
	Name            *string `json:"name,omitempty"`
	ResponsibleName *string `json:"responsibleName,omitempty"`
}
