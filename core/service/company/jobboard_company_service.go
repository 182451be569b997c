// Package company manages company profiles.
package company

import (
	"context"
	"strings"
	"time"

	"jobboard_server/core/domain"
	"jobboard_server/core/port/in"
	"jobboard_server/core/port/out"
	"jobboard_server/core/service/access"
	"jobboard_server/pkg/apperr"
)

// Service implements in.CompanyService
type Service struct {
	companies out.CompanyRepository
	jobs      out.JobRepository
	now       func() time.Time
}

// NewService creates a new CompanyService
func NewService(companies out.CompanyRepository, jobs out.JobRepository) *Service {
	return &Service{companies: companies, jobs: jobs, now: time.Now}
}

var _ in.CompanyService = (*Service)(nil)

func (s *Service) GetMe(ctx context.Context, identity domain.Identity) (*domain.Company, error) {
	return Own(ctx, s.companies, identity)
}

func (s *Service) UpdateMe(ctx context.Context, identity domain.Identity, req *in.UpdateCompanyRequest) (*domain.Company, error) {
	c, err := Own(ctx, s.companies, identity)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		c.Name = *req.Name
	}
	if req.ResponsibleName != nil && strings.TrimSpace(*req.ResponsibleName) != "" {
		c.ResponsibleName = *req.ResponsibleName
	}
	c.UpdatedAt = s.now()

	if err := s.companies.UpdateCompany(ctx, c); err != nil {
		return nil, apperr.Wrap(err, "Failed to update company profile")
	}
	return c, nil
}

// GetPublic returns a company with its active listings. The tax id is
// stripped.
func (s *Service) GetPublic(ctx context.Context, companyID int64) (*domain.Company, error) {
	c, err := s.companies.GetCompany(ctx, companyID)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch company")
	}
	if c == nil {
		return nil, apperr.NotFound("Company not found")
	}

	active := true
	jobs, _, err := s.jobs.ListJobs(ctx, &domain.JobFilter{CompanyID: &c.ID, Active: &active})
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch company")
	}

	pub := c.Public()
	pub.Jobs = jobs
	return pub, nil
}

// Own loads the company profile of a COMPANY identity. Other roles are
// rejected with Forbidden.
func Own(ctx context.Context, companies out.CompanyRepository, identity domain.Identity) (*domain.Company, error) {
	if err := access.RequireRole(identity, domain.RoleCompany); err != nil {
		return nil, err
	}
	c, err := companies.GetCompanyByUserID(ctx, identity.UserID)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch company profile")
	}
	if c == nil {
		return nil, apperr.NotFound("Company profile not found")
	}
	return c, nil
}
