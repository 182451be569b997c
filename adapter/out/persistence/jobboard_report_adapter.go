package persistence

import (
	"context"
	"fmt"
	"time"

	"jobboard_server/core/domain"
	"jobboard_server/core/port/out"

	"github.com/jmoiron/sqlx"
)

// ReportRepository implements out.ReportRepository
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *sqlx.DB) out.ReportRepository {
	return &ReportRepository{db: db}
}

type statusCountRow struct {
	Status string `db:"status"`
	Count  int    `db:"count"`
}

func (r *ReportRepository) SystemStats(ctx context.Context, since time.Time) (*domain.SystemStats, error) {
	var totals struct {
		Users        int `db:"users"`
		Students     int `db:"students"`
		Companies    int `db:"companies"`
		Admins       int `db:"admins"`
		NewStudents  int `db:"new_students"`
		NewCompanies int `db:"new_companies"`
		Jobs         int `db:"jobs"`
		ActiveJobs   int `db:"active_jobs"`
		NewJobs      int `db:"new_jobs"`
		Applications int `db:"applications"`
	}

	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM users WHERE role = 'STUDENT') AS students,
			(SELECT COUNT(*) FROM users WHERE role = 'COMPANY') AS companies,
			(SELECT COUNT(*) FROM users WHERE role = 'ADMIN') AS admins,
			(SELECT COUNT(*) FROM students WHERE created_at >= $1) AS new_students,
			(SELECT COUNT(*) FROM companies WHERE created_at >= $1) AS new_companies,
			(SELECT COUNT(*) FROM jobs) AS jobs,
			(SELECT COUNT(*) FROM jobs WHERE is_active) AS active_jobs,
			(SELECT COUNT(*) FROM jobs WHERE created_at >= $1) AS new_jobs,
			(SELECT COUNT(*) FROM applications) AS applications`

	if err := r.db.GetContext(ctx, &totals, query, since); err != nil {
		return nil, fmt.Errorf("system stats: %w", err)
	}

	byStatus, err := r.statusCounts(ctx, `SELECT status, COUNT(*) AS count FROM applications GROUP BY status`)
	if err != nil {
		return nil, err
	}

	newJobs := totals.NewJobs
	return &domain.SystemStats{
		Users: domain.UserStats{
			Total:        totals.Users,
			Students:     totals.Students,
			Companies:    totals.Companies,
			Admins:       totals.Admins,
			NewStudents:  totals.NewStudents,
			NewCompanies: totals.NewCompanies,
		},
		Jobs: domain.JobStats{
			Total:    totals.Jobs,
			Active:   totals.ActiveJobs,
			Inactive: totals.Jobs - totals.ActiveJobs,
			New:      &newJobs,
		},
		Applications: domain.ApplicationStats{
			Total:    totals.Applications,
			ByStatus: byStatus,
		},
	}, nil
}

func (r *ReportRepository) CompanyStats(ctx context.Context, companyID int64) (*domain.CompanyStats, error) {
	var totals struct {
		Jobs         int `db:"jobs"`
		ActiveJobs   int `db:"active_jobs"`
		Applications int `db:"applications"`
	}

	query := `
		SELECT
			(SELECT COUNT(*) FROM jobs WHERE company_id = $1) AS jobs,
			(SELECT COUNT(*) FROM jobs WHERE company_id = $1 AND is_active) AS active_jobs,
			(SELECT COUNT(*) FROM applications a JOIN jobs j ON j.id = a.job_id WHERE j.company_id = $1) AS applications`

	if err := r.db.GetContext(ctx, &totals, query, companyID); err != nil {
		return nil, fmt.Errorf("company stats: %w", err)
	}

	byStatus, err := r.statusCounts(ctx, `
		SELECT a.status, COUNT(*) AS count
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE j.company_id = $1
		GROUP BY a.status`, companyID)
	if err != nil {
		return nil, err
	}

	return &domain.CompanyStats{
		Jobs: domain.JobStats{
			Total:    totals.Jobs,
			Active:   totals.ActiveJobs,
			Inactive: totals.Jobs - totals.ActiveJobs,
		},
		Applications: domain.ApplicationStats{
			Total:    totals.Applications,
			ByStatus: byStatus,
		},
	}, nil
}

func (r *ReportRepository) statusCounts(ctx context.Context, query string, args ...interface{}) (domain.StatusCounts, error) {
	var rows []statusCountRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}

	counts := domain.NewStatusCounts()
	for _, row := range rows {
		counts[domain.ApplicationStatus(row.Status)] = row.Count
	}
	return counts, nil
}
