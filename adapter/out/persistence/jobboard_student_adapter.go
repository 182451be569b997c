package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"jobboard_server/core/domain"
	"jobboard_server/core/port/out"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// StudentRepository implements out.StudentRepository
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *sqlx.DB) out.StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `
	id, user_id, name, phone, gender, city, state, country, special_needs,
	github_url, linkedin_url, portfolio_url, is_freelancer, bio,
	resume_url, profile_picture, created_at, updated_at`

// =============================================================================
// Profile
// =============================================================================

func (r *StudentRepository) GetStudent(ctx context.Context, id int64) (*domain.Student, error) {
	return r.getStudent(ctx, "id", id)
}

func (r *StudentRepository) GetStudentByUserID(ctx context.Context, userID uuid.UUID) (*domain.Student, error) {
	return r.getStudent(ctx, "user_id", userID)
}

func (r *StudentRepository) getStudent(ctx context.Context, column string, key interface{}) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE ` + column + ` = $1`

	var row studentRow
	if err := r.db.GetContext(ctx, &row, query, key); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	student := row.toDomain()

	skills, err := loadSkills(ctx, r.db, []int64{student.ID})
	if err != nil {
		return nil, err
	}
	student.Skills = skills[student.ID]

	var exps []experienceRow
	expQuery := `
		SELECT id, student_id, company, role, start_date, end_date, current, description, created_at, updated_at
		FROM experiences
		WHERE student_id = $1
		ORDER BY start_date DESC`
	if err := r.db.SelectContext(ctx, &exps, expQuery, student.ID); err != nil {
		return nil, fmt.Errorf("get experiences: %w", err)
	}
	student.Experiences = make([]domain.Experience, len(exps))
	for i := range exps {
		student.Experiences[i] = exps[i].toDomain()
	}

	return student, nil
}

func (r *StudentRepository) UpdateStudent(ctx context.Context, s *domain.Student) error {
	query := `
		UPDATE students SET
			name = $2, phone = $3, gender = $4, city = $5, state = $6, country = $7,
			special_needs = $8, github_url = $9, linkedin_url = $10, portfolio_url = $11,
			is_freelancer = $12, bio = $13, resume_url = $14, profile_picture = $15,
			updated_at = $16
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		s.ID, s.Name, s.Phone, nullString(s.Gender), nullString(s.City), nullString(s.State), s.Country,
		nullString(s.SpecialNeeds), nullString(s.GithubURL), nullString(s.LinkedinURL), nullString(s.PortfolioURL),
		s.IsFreelancer, nullString(s.Bio), nullString(s.ResumeURL), nullString(s.ProfilePicture),
		s.UpdatedAt,
	)
	if err != nil {
		return wrap("update student", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update student: %w", ErrNotFound)
	}
	return nil
}

// =============================================================================
// Skills
// =============================================================================

const skillColumns = `id, student_id, name, level, created_at, updated_at`

// loadSkills returns the skills of every student in ids keyed by student.
func loadSkills(ctx context.Context, q sqlx.QueryerContext, ids []int64) (map[int64][]domain.Skill, error) {
	res := make(map[int64][]domain.Skill, len(ids))
	if len(ids) == 0 {
		return res, nil
	}

	query := `SELECT ` + skillColumns + ` FROM student_skills WHERE student_id = ANY($1) ORDER BY name`

	var rows []skillRow
	if err := sqlx.SelectContext(ctx, q, &rows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("load skills: %w", err)
	}
	for i := range rows {
		res[rows[i].StudentID] = append(res[rows[i].StudentID], rows[i].toDomain())
	}
	return res, nil
}

func insertSkill(ctx context.Context, e sqlx.ExecerContext, s *domain.Skill) error {
	query := `
		INSERT INTO student_skills (id, student_id, name, level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := e.ExecContext(ctx, query, s.ID, s.StudentID, s.Name, s.Level, s.CreatedAt, s.UpdatedAt)
	return wrap("insert skill", err)
}

func (r *StudentRepository) GetSkill(ctx context.Context, id int64) (*domain.Skill, error) {
	query := `SELECT ` + skillColumns + ` FROM student_skills WHERE id = $1`

	var row skillRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get skill: %w", err)
	}
	s := row.toDomain()
	return &s, nil
}

func (r *StudentRepository) FindSkillByName(ctx context.Context, studentID int64, name string) (*domain.Skill, error) {
	query := `SELECT ` + skillColumns + ` FROM student_skills WHERE student_id = $1 AND lower(name) = lower($2)`

	var row skillRow
	if err := r.db.GetContext(ctx, &row, query, studentID, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find skill: %w", err)
	}
	s := row.toDomain()
	return &s, nil
}

func (r *StudentRepository) CreateSkill(ctx context.Context, skill *domain.Skill) error {
	return insertSkill(ctx, r.db, skill)
}

func (r *StudentRepository) UpdateSkill(ctx context.Context, skill *domain.Skill) error {
	query := `UPDATE student_skills SET name = $2, level = $3, updated_at = $4 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, skill.ID, skill.Name, skill.Level, skill.UpdatedAt); err != nil {
		return wrap("update skill", err)
	}
	return nil
}

func (r *StudentRepository) DeleteSkill(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM student_skills WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete skill: %w", err)
	}
	return nil
}

// =============================================================================
// Experiences
// =============================================================================

func (r *StudentRepository) GetExperience(ctx context.Context, id int64) (*domain.Experience, error) {
	query := `
		SELECT id, student_id, company, role, start_date, end_date, current, description, created_at, updated_at
		FROM experiences
		WHERE id = $1`

	var row experienceRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get experience: %w", err)
	}
	e := row.toDomain()
	return &e, nil
}

func (r *StudentRepository) CreateExperience(ctx context.Context, exp *domain.Experience) error {
	query := `
		INSERT INTO experiences (id, student_id, company, role, start_date, end_date, current, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		exp.ID, exp.StudentID, exp.Company, exp.Role, exp.StartDate, nullTime(exp.EndDate),
		exp.Current, nullString(exp.Description), exp.CreatedAt, exp.UpdatedAt,
	)
	return wrap("insert experience", err)
}

func (r *StudentRepository) UpdateExperience(ctx context.Context, exp *domain.Experience) error {
	query := `
		UPDATE experiences SET
			company = $2, role = $3, start_date = $4, end_date = $5,
			current = $6, description = $7, updated_at = $8
		WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query,
		exp.ID, exp.Company, exp.Role, exp.StartDate, nullTime(exp.EndDate),
		exp.Current, nullString(exp.Description), exp.UpdatedAt,
	)
	return wrap("update experience", err)
}

func (r *StudentRepository) DeleteExperience(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM experiences WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete experience: %w", err)
	}
	return nil
}
