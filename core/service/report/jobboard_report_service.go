// Package report computes dashboard statistics from source tables on every
// call.
package report

import (
	"context"
	"time"

	"jobboard_server/core/domain"
	"jobboard_server/core/port/in"
	"jobboard_server/core/port/out"
	"jobboard_server/core/service/company"
	"jobboard_server/pkg/apperr"
)

// NewWindow is the rolling period counted as "new".
const NewWindow = 30 * 24 * time.Hour

type Service struct {
	reports   out.ReportRepository
	companies out.CompanyRepository
	now       func() time.Time
}

func NewService(reports out.ReportRepository, companies out.CompanyRepository) *Service {
	return &Service{reports: reports, companies: companies, now: time.Now}
}

var _ in.ReportService = (*Service)(nil)

func (s *Service) SystemStats(ctx context.Context) (*domain.SystemStats, error) {
	stats, err := s.reports.SystemStats(ctx, s.now().Add(-NewWindow))
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch system statistics")
	}
	stats.Applications.ByStatus = withAllStatuses(stats.Applications.ByStatus)
	return stats, nil
}

func (s *Service) CompanyStats(ctx context.Context, identity domain.Identity) (*domain.CompanyStats, error) {
	c, err := company.Own(ctx, s.companies, identity)
	if err != nil {
		return nil, err
	}
	stats, err := s.reports.CompanyStats(ctx, c.ID)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch job statistics")
	}
	stats.Jobs.New = nil
	stats.Applications.ByStatus = withAllStatuses(stats.Applications.ByStatus)
	return stats, nil
}

// withAllStatuses makes sure every status appears, with zero when absent.
func withAllStatuses(c domain.StatusCounts) domain.StatusCounts {
	all := domain.NewStatusCounts()
	for st, n := range c {
		all[st] = n
	}
	return all
}
