// Package auth implements registration, login and session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobboard_server/core/domain"
	"jobboard_server/core/port/in"
	"jobboard_server/core/port/out"
	"jobboard_server/pkg/apperr"
	"jobboard_server/pkg/logger"
	"jobboard_server/pkg/snowflake"

	"github.com/google/uuid"
)

const (
	DefaultTokenTTL      = 24 * time.Hour
	DefaultAdminTokenTTL = 8 * time.Hour
)

const (
	errEmailTaken = "Email already registered"
	errTaxIDTaken = "Tax ID already registered"
)

// Config tunes token lifetimes.
type Config struct {
	TokenTTL      time.Duration
	AdminTokenTTL time.Duration
}

// Service implements in.AuthService
type Service struct {
	users     out.UserRepository
	students  out.StudentRepository
	companies out.CompanyRepository
	admins    out.AdminRepository
	tokens    *TokenManager
	hasher    *PasswordHasher
	cfg       Config
	now       func() time.Time
}

// NewService creates a new AuthService
func NewService(
	users out.UserRepository,
	students out.StudentRepository,
	companies out.CompanyRepository,
	admins out.AdminRepository,
	tokens *TokenManager,
	hasher *PasswordHasher,
	cfg Config,
) *Service {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.AdminTokenTTL <= 0 {
		cfg.AdminTokenTTL = DefaultAdminTokenTTL
	}
	return &Service{
		users:     users,
		students:  students,
		companies: companies,
		admins:    admins,
		tokens:    tokens,
		hasher:    hasher,
		cfg:       cfg,
		now:       time.Now,
	}
}

var _ in.AuthService = (*Service)(nil)

// =============================================================================
// Registration
// =============================================================================

func (s *Service) RegisterStudent(ctx context.Context, req *in.RegisterStudentRequest) (*in.AuthResponse, error) {
	user, err := s.newUser(ctx, req.Email, req.Password, domain.RoleStudent)
	if err != nil {
		return nil, err
	}

	now := user.CreatedAt
	student := &domain.Student{
		ID:           snowflake.ID(),
		UserID:       user.ID,
		Name:         req.Name,
		Phone:        req.Phone,
		Gender:       req.Gender,
		Country:      domain.DefaultCountry,
		SpecialNeeds: req.SpecialNeeds,
		GithubURL:    req.Github,
		LinkedinURL:  req.Linkedin,
		PortfolioURL: req.Portfolio,
		Bio:          req.Bio,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.NotInBrazil {
		if req.Country != nil && strings.TrimSpace(*req.Country) != "" {
			student.Country = *req.Country
		}
	} else {
		student.City = req.City
		student.State = req.State
	}

	seen := make(map[string]struct{}, len(req.Skills))
	for _, sk := range req.Skills {
		name := strings.TrimSpace(sk.Name)
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		student.Skills = append(student.Skills, domain.Skill{
			ID:        snowflake.ID(),
			StudentID: student.ID,
			Name:      name,
			Level:     sk.Level,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := s.users.CreateStudentAccount(ctx, user, student); err != nil {
		if errors.Is(err, out.ErrDuplicate) {
			return nil, apperr.Conflict(errEmailTaken)
		}
		return nil, apperr.Wrap(err, "Registration failed")
	}

	logger.WithContext(ctx).WithFields(map[string]any{"account_id": user.ID, "student_id": student.ID}).Info("student registered")
	return s.session(user, student.ID, student.Name, s.cfg.TokenTTL)
}

func (s *Service) RegisterCompany(ctx context.Context, req *in.RegisterCompanyRequest) (*in.AuthResponse, error) {
	user, err := s.newUser(ctx, req.Email, req.Password, domain.RoleCompany)
	if err != nil {
		return nil, err
	}

	existing, err := s.companies.GetCompanyByTaxID(ctx, req.TaxID)
	if err != nil {
		return nil, apperr.Wrap(err, "Registration failed")
	}
	if existing != nil {
		return nil, apperr.Conflict(errTaxIDTaken)
	}

	company := &domain.Company{
		ID:              snowflake.ID(),
		UserID:          user.ID,
		Name:            req.CompanyName,
		ResponsibleName: req.ResponsibleName,
		TaxID:           req.TaxID,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.CreatedAt,
	}

	if err := s.users.CreateCompanyAccount(ctx, user, company); err != nil {
		if errors.Is(err, out.ErrDuplicate) {
			return nil, apperr.Conflict("Email or tax ID already registered")
		}
		return nil, apperr.Wrap(err, "Registration failed")
	}

	logger.WithContext(ctx).WithFields(map[string]any{"account_id": user.ID, "company_id": company.ID}).Info("company registered")
	return s.session(user, company.ID, company.Name, s.cfg.TokenTTL)
}

func (s *Service) CreateAdmin(ctx context.Context, req *in.CreateAdminRequest) (*in.AuthResponse, error) {
	user, err := s.newUser(ctx, req.Email, req.Password, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	admin := &domain.Admin{
		ID:        snowflake.ID(),
		UserID:    user.ID,
		Name:      req.Name,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.CreatedAt,
	}
	if err := s.users.CreateAdminAccount(ctx, user, admin); err != nil {
		if errors.Is(err, out.ErrDuplicate) {
			return nil, apperr.Conflict(errEmailTaken)
		}
		return nil, apperr.Wrap(err, "Failed to create admin")
	}

	return &in.AuthResponse{
		ID:     admin.ID,
		UserID: user.ID,
		Name:   admin.Name,
		Email:  user.Email,
		Role:   user.Role,
	}, nil
}

// newUser checks email uniqueness and builds the user row. The duplicate
// check is read-then-write; the repository reports a lost race as
// out.ErrDuplicate.
func (s *Service) newUser(ctx context.Context, email, password string, role domain.Role) (*domain.User, error) {
	email = normalizeEmail(email)

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Wrap(err, "Registration failed")
	}
	if existing != nil {
		return nil, apperr.Conflict(errEmailTaken)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperr.Wrap(err, "Registration failed")
	}

	now := s.now()
	return &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// =============================================================================
// Sessions
// =============================================================================

func (s *Service) Login(ctx context.Context, req *in.LoginRequest) (*in.AuthResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.InvalidCredentials("Invalid email or password")
	}

	ttl := s.cfg.TokenTTL
	profileID, name, err := s.profileOf(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.session(user, profileID, name, ttl)
}

func (s *Service) AdminLogin(ctx context.Context, req *in.LoginRequest) (*in.AuthResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Role != domain.RoleAdmin {
		return nil, apperr.InvalidCredentials("Invalid admin credentials")
	}

	admin, err := s.admins.GetAdminByUserID(ctx, user.ID)
	if err != nil {
		return nil, apperr.Wrap(err, "Login failed")
	}
	if admin == nil {
		return nil, apperr.InvalidCredentials("Invalid admin credentials")
	}
	return s.session(user, admin.ID, admin.Name, s.cfg.AdminTokenTTL)
}

// Verify decodes a session token.
func (s *Service) Verify(token string) (*domain.Identity, error) {
	return s.tokens.Verify(token)
}

func (s *Service) ChangePassword(ctx context.Context, identity domain.Identity, req *in.ChangePasswordRequest) error {
	user, err := s.users.GetUser(ctx, identity.UserID)
	if err != nil {
		return apperr.Wrap(err, "Failed to update password")
	}
	if user == nil {
		return apperr.NotFound("User not found")
	}

	ok, err := s.hasher.Matches(user.PasswordHash, req.CurrentPassword)
	if err != nil {
		return apperr.Wrap(err, "Failed to update password")
	}
	if !ok {
		return apperr.InvalidCredentials("Current password is incorrect")
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return apperr.Wrap(err, "Failed to update password")
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return apperr.Wrap(err, "Failed to update password")
	}
	return nil
}

// authenticate returns the user when email and password match, nil when they
// do not. Unknown email and wrong password are indistinguishable.
func (s *Service) authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, apperr.Wrap(err, "Login failed")
	}
	if user == nil {
		return nil, nil
	}

	ok, err := s.hasher.Matches(user.PasswordHash, password)
	if err != nil {
		logger.WithContext(ctx).WithError(err).WithField("account_id", user.ID).Warn("stored password hash unreadable")
		return nil, nil
	}
	if !ok {
		return nil, nil
	}
	return user, nil
}

func (s *Service) profileOf(ctx context.Context, user *domain.User) (int64, string, error) {
	switch user.Role {
	case domain.RoleStudent:
		st, err := s.students.GetStudentByUserID(ctx, user.ID)
		if err != nil {
			return 0, "", apperr.Wrap(err, "Login failed")
		}
		if st != nil {
			return st.ID, st.Name, nil
		}
	case domain.RoleCompany:
		co, err := s.companies.GetCompanyByUserID(ctx, user.ID)
		if err != nil {
			return 0, "", apperr.Wrap(err, "Login failed")
		}
		if co != nil {
			return co.ID, co.Name, nil
		}
	case domain.RoleAdmin:
		ad, err := s.admins.GetAdminByUserID(ctx, user.ID)
		if err != nil {
			return 0, "", apperr.Wrap(err, "Login failed")
		}
		if ad != nil {
			return ad.ID, ad.Name, nil
		}
	}
	return 0, "", apperr.Internal("Login failed").WithError(fmt.Errorf("user %s has no %s profile", user.ID, user.Role))
}

func (s *Service) session(user *domain.User, profileID int64, name string, ttl time.Duration) (*in.AuthResponse, error) {
	token, err := s.tokens.Issue(user.Identity(), ttl)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to issue token")
	}
	return &in.AuthResponse{
		ID:     profileID,
		UserID: user.ID,
		Name:   name,
		Email:  user.Email,
		Role:   user.Role,
		Token:  token,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
