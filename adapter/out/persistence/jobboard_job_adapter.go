package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"jobboard_server/core/domain"
	"jobboard_server/core/port/out"
	"jobboard_server/pkg/snowflake"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// JobRepository implements out.JobRepository
type JobRepository struct {
	db *sqlx.DB
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(db *sqlx.DB) out.JobRepository {
	return &JobRepository{db: db}
}

const jobSelect = `
	SELECT j.id, j.company_id, j.title, j.level, j.location_type, j.location, j.salary,
	       j.description, j.benefits, j.contact_info, j.is_active, j.created_at, j.updated_at,
	       c.name AS company_name, c.user_id AS company_user_id, c.responsible_name AS company_responsible,
	       %s AS application_count
	FROM jobs j
	JOIN companies c ON c.id = j.company_id`

func (r *JobRepository) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	query := fmt.Sprintf(jobSelect, "NULL::bigint") + ` WHERE j.id = $1`

	var row jobRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get job: %w", err)
	}

	job, err := row.toDomain()
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	skills, err := loadJobSkills(ctx, r.db, []int64{job.ID})
	if err != nil {
		return nil, err
	}
	if s, ok := skills[job.ID]; ok {
		job.RequiredSkills = s
	}
	return job, nil
}

func (r *JobRepository) ListJobs(ctx context.Context, filter *domain.JobFilter) ([]*domain.Job, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Level != nil {
		conditions = append(conditions, fmt.Sprintf("j.level = $%d", argIdx))
		args = append(args, string(*filter.Level))
		argIdx++
	}
	if filter.LocationType != nil {
		conditions = append(conditions, fmt.Sprintf("j.location_type = $%d", argIdx))
		args = append(args, string(*filter.LocationType))
		argIdx++
	}
	if filter.CompanyID != nil {
		conditions = append(conditions, fmt.Sprintf("j.company_id = $%d", argIdx))
		args = append(args, *filter.CompanyID)
		argIdx++
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("j.is_active = $%d", argIdx))
		args = append(args, *filter.Active)
		argIdx++
	}
	if len(filter.Skills) > 0 {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM job_skills js WHERE js.job_id = j.id AND lower(js.name) = ANY($%d))", argIdx))
		args = append(args, lowerAll(filter.Skills))
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		cols := []string{"j.title", "c.name"}
		if !filter.TitleSearchOnly {
			cols = append(cols, "j.description", "j.location")
		}
		conditions = append(conditions, ilikeAny(cols, argIdx))
		args = append(args, containsPattern(*filter.Search))
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM jobs j JOIN companies c ON c.id = j.company_id WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	countExpr := "NULL::bigint"
	if filter.WithCounts {
		countExpr = "(SELECT COUNT(*) FROM applications a WHERE a.job_id = j.id)"
	}
	query := fmt.Sprintf(jobSelect, countExpr) + " WHERE " + whereClause + " ORDER BY j.created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	var rows []jobRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}

	jobs := make([]*domain.Job, len(rows))
	ids := make([]int64, len(rows))
	for i := range rows {
		job, err := rows[i].toDomain()
		if err != nil {
			return nil, 0, fmt.Errorf("list jobs: %w", err)
		}
		jobs[i] = job
		ids[i] = rows[i].ID
		if rows[i].ApplicationCount.Valid {
			n := int(rows[i].ApplicationCount.Int64)
			jobs[i].ApplicationCount = &n
		}
	}

	skills, err := loadJobSkills(ctx, r.db, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, j := range jobs {
		if s, ok := skills[j.ID]; ok {
			j.RequiredSkills = s
		}
	}
	return jobs, total, nil
}

// loadJobSkills returns the required skills of each job in insertion order.
func loadJobSkills(ctx context.Context, q sqlx.QueryerContext, ids []int64) (map[int64][]string, error) {
	res := make(map[int64][]string, len(ids))
	if len(ids) == 0 {
		return res, nil
	}

	var rows []jobSkillRow
	query := `SELECT id, job_id, name, position FROM job_skills WHERE job_id = ANY($1) ORDER BY job_id, position`
	if err := sqlx.SelectContext(ctx, q, &rows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("load job skills: %w", err)
	}
	for _, row := range rows {
		res[row.JobID] = append(res[row.JobID], row.Name)
	}
	return res, nil
}

func insertJobSkills(ctx context.Context, tx *sqlx.Tx, jobID int64, names []string) error {
	if len(names) == 0 {
		return nil
	}

	rows := make([]jobSkillRow, len(names))
	for i, name := range names {
		rows[i] = jobSkillRow{ID: snowflake.ID(), JobID: jobID, Name: name, Position: i}
	}
	query := `INSERT INTO job_skills (id, job_id, name, position) VALUES (:id, :job_id, :name, :position)`
	if _, err := tx.NamedExecContext(ctx, query, rows); err != nil {
		return fmt.Errorf("insert job skills: %w", err)
	}
	return nil
}

func (r *JobRepository) CreateJob(ctx context.Context, job *domain.Job) error {
	contact, err := contactJSON(job.ContactInfo)
	if err != nil {
		return fmt.Errorf("encode contact info: %w", err)
	}

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO jobs (
				id, company_id, title, level, location_type, location, salary,
				description, benefits, contact_info, is_active, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

		_, err := tx.ExecContext(ctx, query,
			job.ID, job.CompanyID, job.Title, string(job.Level), string(job.LocationType),
			nullString(job.Location), nullString(job.Salary), job.Description, nullString(job.Benefits),
			contact, job.IsActive, job.CreatedAt, job.UpdatedAt,
		)
		if err != nil {
			return wrap("insert job", err)
		}
		return insertJobSkills(ctx, tx, job.ID, job.RequiredSkills)
	})
}

func (r *JobRepository) UpdateJob(ctx context.Context, job *domain.Job, replaceSkills bool) error {
	contact, err := contactJSON(job.ContactInfo)
	if err != nil {
		return fmt.Errorf("encode contact info: %w", err)
	}

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE jobs SET
				title = $2, level = $3, location_type = $4, location = $5, salary = $6,
				description = $7, benefits = $8, contact_info = $9, is_active = $10, updated_at = $11
			WHERE id = $1`

		_, err := tx.ExecContext(ctx, query,
			job.ID, job.Title, string(job.Level), string(job.LocationType),
			nullString(job.Location), nullString(job.Salary), job.Description, nullString(job.Benefits),
			contact, job.IsActive, job.UpdatedAt,
		)
		if err != nil {
			return wrap("update job", err)
		}
		if !replaceSkills {
			return nil
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM job_skills WHERE job_id = $1`, job.ID); err != nil {
			return fmt.Errorf("clear job skills: %w", err)
		}
		return insertJobSkills(ctx, tx, job.ID, job.RequiredSkills)
	})
}

func (r *JobRepository) DeleteJob(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM applications WHERE job_id = $1`,
			`DELETE FROM job_skills WHERE job_id = $1`,
			`DELETE FROM jobs WHERE id = $1`,
		} {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return fmt.Errorf("delete job: %w", err)
			}
		}
		return nil
	})
}

func (r *JobRepository) SetJobActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE jobs SET is_active = $2, updated_at = NOW() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("set job active: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("set job active: %w", ErrNotFound)
	}
	return nil
}
