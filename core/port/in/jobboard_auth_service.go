package in

import (
	"context"

	"jobboard_server/core/domain"

	"github.com/google/uuid"
)

// AuthService covers credentials and sessions.
type AuthService interface {
	// === Registration ===
	RegisterStudent(ctx context.Context, req *RegisterStudentRequest) (*AuthResponse, error)
	RegisterCompany(ctx context.Context, req *RegisterCompanyRequest) (*AuthResponse, error)
	CreateAdmin(ctx context.Context, req *CreateAdminRequest) (*AuthResponse, error)

	// === Sessions ===
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	AdminLogin(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	ChangePassword(ctx context.Context, identity domain.Identity, req *ChangePasswordRequest) error

	TokenVerifier
}

// TokenVerifier decodes a bearer token into the identity it was issued for.
type TokenVerifier interface {
	Verify(token string) (*domain.Identity, error)
}

type SkillInput struct {
	Name  string `json:"name" validate:"required"`
	Level int    `json:"level" validate:"gte=1,lte=5"`
}

type RegisterStudentRequest struct {
	Name         string       `json:"name" validate:"required"`
	Email        string       `json:"email" validate:"required,email"`
	Password     string       `json:"password" validate:"required,min=6"`
	Phone        string       `json:"phone" validate:"required"`
	Gender       *string      `json:"gender,omitempty"`
	City         *string      `json:"city,omitempty"`
	State        *string      `json:"state,omitempty"`
	Country      *string      `json:"country,omitempty"`
	NotInBrazil  bool         `json:"notInBrazil"`
	SpecialNeeds *string      `json:"specialNeeds,omitempty"`
	Github       *string      `json:"github,omitempty"`
	Linkedin     *string      `json:"linkedin,omitempty"`
	Portfolio    *string      `json:"portfolio,omitempty"`
	Bio          *string      `json:"bio,omitempty"`
	Skills       []SkillInput `json:"skills,omitempty" validate:"omitempty,dive"`
}

type RegisterCompanyRequest struct {
	CompanyName     string `json:"companyName" validate:"required"`
	ResponsibleName string `json:"responsibleName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	TaxID           string `json:"cnpj" validate:"required,min=14,max=18"`
}

type CreateAdminRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// AuthResponse identifies the profile a session belongs to. ID is the
// profile id; Token is empty for admin creation.
type AuthResponse struct {
	ID     int64       `json:"id"`
	UserID uuid.UUID   `json:"userId"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"userType"`
	Token  string      `json:"token,omitempty"`
}
