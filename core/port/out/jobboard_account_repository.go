package out

import (
	"context"

	"jobboard_server/core/domain"

	"github.com/google/uuid"
)

// Repositories return (nil, nil) when a single-row lookup finds nothing.

// UserRepository persists credentials. Account creation writes the user and
// its profile in one transaction.
type UserRepository interface {
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	ListUsers(ctx context.Context, filter *domain.UserFilter) ([]*domain.UserListItem, int, error)

	CreateStudentAccount(ctx context.Context, user *domain.User, student *domain.Student) error
	CreateCompanyAccount(ctx context.Context, user *domain.User, company *domain.Company) error
	CreateAdminAccount(ctx context.Context, user *domain.User, admin *domain.Admin) error
}

// StudentRepository persists student profiles, skills and experiences.
type StudentRepository interface {
	// Profile lookups include skills and experiences.
	GetStudent(ctx context.Context, id int64) (*domain.Student, error)
	GetStudentByUserID(ctx context.Context, userID uuid.UUID) (*domain.Student, error)
	UpdateStudent(ctx context.Context, student *domain.Student) error

	// Skills
	GetSkill(ctx context.Context, id int64) (*domain.Skill, error)
	FindSkillByName(ctx context.Context, studentID int64, name string) (*domain.Skill, error)
	CreateSkill(ctx context.Context, skill *domain.Skill) error
	UpdateSkill(ctx context.Context, skill *domain.Skill) error
	DeleteSkill(ctx context.Context, id int64) error

	// Experiences
	GetExperience(ctx context.Context, id int64) (*domain.Experience, error)
	CreateExperience(ctx context.Context, exp *domain.Experience) error
	UpdateExperience(ctx context.Context, exp *domain.Experience) error
	DeleteExperience(ctx context.Context, id int64) error
}

// CompanyRepository persists company profiles.
type CompanyRepository interface {
	GetCompany(ctx context.Context, id int64) (*domain.Company, error)
	GetCompanyByUserID(ctx context.Context, userID uuid.UUID) (*domain.Company, error)
	GetCompanyByTaxID(ctx context.Context, taxID string) (*domain.Company, error)
	UpdateCompany(ctx context.Context, company *domain.Company) error
}

// AdminRepository reads admin profiles.
type AdminRepository interface {
	GetAdminByUserID(ctx context.Context, userID uuid.UUID) (*domain.Admin, error)
}
