package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"jobboard_server/core/domain"
	"jobboard_server/core/port/out"

	"github.com/jmoiron/sqlx"
)

// ApplicationRepository implements out.ApplicationRepository
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db *sqlx.DB) out.ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const applicationColumns = `id, student_id, job_id, status, created_at, updated_at`

// applicationSummarySelect and applicationSummaryFrom load an application
// with the job, company and student columns applicationRow.toDomain turns
// into summaries.
const (
	applicationSummarySelect = `
		SELECT a.id, a.student_id, a.job_id, a.status, a.created_at, a.updated_at,
		       j.company_id, j.title AS job_title, j.level AS job_level,
		       j.location_type AS job_location_type, j.location AS job_location,
		       j.is_active AS job_is_active, j.created_at AS job_created_at,
		       c.name AS company_name, c.user_id AS company_user_id,
		       s.name AS student_name, s.profile_picture AS student_picture,
		       s.city AS student_city, s.state AS student_state, s.country AS student_country,
		       s.resume_url AS student_resume, s.github_url AS student_github,
		       s.linkedin_url AS student_linkedin, s.portfolio_url AS student_portfolio,
		       s.created_at AS student_created_at`

	applicationSummaryFrom = `
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		JOIN companies c ON c.id = j.company_id
		JOIN students s ON s.id = a.student_id`
)

// GetApplication returns the application with its job (owning company
// included) and student summaries. Skills are not loaded.
func (r *ApplicationRepository) GetApplication(ctx context.Context, id int64) (*domain.Application, error) {
	query := applicationSummarySelect + applicationSummaryFrom + ` WHERE a.id = $1`

	var row applicationRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	return row.toDomain(), nil
}

// FindApplication looks up the bare (student, job) pair.
func (r *ApplicationRepository) FindApplication(ctx context.Context, studentID, jobID int64) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE student_id = $1 AND job_id = $2`

	var row applicationRow
	if err := r.db.GetContext(ctx, &row, query, studentID, jobID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return row.toDomain(), nil
}

func (r *ApplicationRepository) ListApplications(ctx context.Context, filter *domain.ApplicationFilter) ([]*domain.Application, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.StudentID != nil {
		conditions = append(conditions, fmt.Sprintf("a.student_id = $%d", argIdx))
		args = append(args, *filter.StudentID)
		argIdx++
	}
	if filter.CompanyID != nil {
		conditions = append(conditions, fmt.Sprintf("j.company_id = $%d", argIdx))
		args = append(args, *filter.CompanyID)
		argIdx++
	}
	if filter.JobID != nil {
		conditions = append(conditions, fmt.Sprintf("a.job_id = $%d", argIdx))
		args = append(args, *filter.JobID)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, string(*filter.Status))
		argIdx++
	}

	from := applicationSummaryFrom + `
		WHERE ` + strings.Join(conditions, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+from, args...); err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}

	query := applicationSummarySelect + from + " ORDER BY a.created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	var rows []applicationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}

	apps := make([]*domain.Application, len(rows))
	studentIDs := make([]int64, 0, len(rows))
	jobIDs := make([]int64, 0, len(rows))
	for i := range rows {
		apps[i] = rows[i].toDomain()
		studentIDs = append(studentIDs, rows[i].StudentID)
		jobIDs = append(jobIDs, rows[i].JobID)
	}

	skills, err := loadSkills(ctx, r.db, studentIDs)
	if err != nil {
		return nil, 0, err
	}
	jobSkills, err := loadJobSkills(ctx, r.db, jobIDs)
	if err != nil {
		return nil, 0, err
	}
	for _, a := range apps {
		if a.Student != nil {
			a.Student.Skills = skills[a.StudentID]
		}
		if a.Job != nil {
			if s, ok := jobSkills[a.JobID]; ok {
				a.Job.RequiredSkills = s
			}
		}
	}
	return apps, total, nil
}

func (r *ApplicationRepository) CreateApplication(ctx context.Context, app *domain.Application) error {
	query := `
		INSERT INTO applications (id, student_id, job_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		app.ID, app.StudentID, app.JobID, string(app.Status), app.CreatedAt, app.UpdatedAt)
	return wrap("insert application", err)
}

func (r *ApplicationRepository) UpdateApplicationStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error {
	query := `UPDATE applications SET status = $2, updated_at = NOW() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, string(status))
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update application status: %w", ErrNotFound)
	}
	return nil
}

func (r *ApplicationRepository) DeleteApplication(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	return nil
}
