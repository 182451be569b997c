package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"jobboard_server/core/domain"
	"jobboard_server/core/port/out"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// UserRepository implements out.UserRepository
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sqlx.DB) out.UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, role, created_at, updated_at`

func (r *UserRepository) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return row.toDomain(), nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, strings.TrimSpace(email)); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return row.toDomain(), nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, hash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update password: %w", ErrNotFound)
	}
	return nil
}

type userListRow struct {
	userRow
	StudentID          sql.NullInt64  `db:"student_id"`
	StudentName        sql.NullString `db:"student_name"`
	StudentPicture     sql.NullString `db:"student_picture"`
	CompanyID          sql.NullInt64  `db:"company_id"`
	CompanyName        sql.NullString `db:"company_name"`
	CompanyResponsible sql.NullString `db:"company_responsible"`
}

func (r *UserRepository) ListUsers(ctx context.Context, filter *domain.UserFilter) ([]*domain.UserListItem, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("u.role = $%d", argIdx))
		args = append(args, string(*filter.Role))
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, ilikeAny([]string{"u.email", "s.name", "c.name"}, argIdx))
		args = append(args, containsPattern(*filter.Search))
		argIdx++
	}

	from := `
		FROM users u
		LEFT JOIN students s ON s.user_id = u.id
		LEFT JOIN companies c ON c.user_id = u.id
		WHERE ` + strings.Join(conditions, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+from, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := `
		SELECT u.id, u.email, u.password_hash, u.role, u.created_at, u.updated_at,
		       s.id AS student_id, s.name AS student_name, s.profile_picture AS student_picture,
		       c.id AS company_id, c.name AS company_name, c.responsible_name AS company_responsible` +
		from + fmt.Sprintf(" ORDER BY u.created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset)

	var rows []userListRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	items := make([]*domain.UserListItem, len(rows))
	for i := range rows {
		row := &rows[i]
		item := &domain.UserListItem{User: *row.toDomain()}
		if row.StudentID.Valid {
			item.Student = &domain.StudentSummary{
				ID:             row.StudentID.Int64,
				Name:           row.StudentName.String,
				ProfilePicture: ptr(row.StudentPicture),
			}
		}
		if row.CompanyID.Valid {
			item.Company = &domain.CompanySummary{
				ID:              row.CompanyID.Int64,
				UserID:          row.ID,
				Name:            row.CompanyName.String,
				ResponsibleName: row.CompanyResponsible.String,
			}
		}
		items[i] = item
	}
	return items, total, nil
}

// =============================================================================
// Account creation
// =============================================================================

func insertUser(ctx context.Context, tx *sqlx.Tx, u *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.ExecContext(ctx, query, u.ID, u.Email, u.PasswordHash, string(u.Role), u.CreatedAt, u.UpdatedAt)
	return wrap("insert user", err)
}

func (r *UserRepository) CreateStudentAccount(ctx context.Context, user *domain.User, student *domain.Student) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}

		query := `
			INSERT INTO students (
				id, user_id, name, phone, gender, city, state, country, special_needs,
				github_url, linkedin_url, portfolio_url, is_freelancer, bio,
				resume_url, profile_picture, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

		_, err := tx.ExecContext(ctx, query,
			student.ID, student.UserID, student.Name, student.Phone,
			nullString(student.Gender), nullString(student.City), nullString(student.State),
			student.Country, nullString(student.SpecialNeeds),
			nullString(student.GithubURL), nullString(student.LinkedinURL), nullString(student.PortfolioURL),
			student.IsFreelancer, nullString(student.Bio),
			nullString(student.ResumeURL), nullString(student.ProfilePicture),
			student.CreatedAt, student.UpdatedAt,
		)
		if err != nil {
			return wrap("insert student", err)
		}

		for i := range student.Skills {
			if err := insertSkill(ctx, tx, &student.Skills[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserRepository) CreateCompanyAccount(ctx context.Context, user *domain.User, company *domain.Company) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}

		query := `
			INSERT INTO companies (id, user_id, name, responsible_name, tax_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`

		_, err := tx.ExecContext(ctx, query,
			company.ID, company.UserID, company.Name, company.ResponsibleName, company.TaxID,
			company.CreatedAt, company.UpdatedAt,
		)
		return wrap("insert company", err)
	})
}

func (r *UserRepository) CreateAdminAccount(ctx context.Context, user *domain.User, admin *domain.Admin) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}

		query := `
			INSERT INTO admins (id, user_id, name, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)`

		_, err := tx.ExecContext(ctx, query, admin.ID, admin.UserID, admin.Name, admin.CreatedAt, admin.UpdatedAt)
		return wrap("insert admin", err)
	})
}

// =============================================================================
// Admins
// =============================================================================

// AdminRepository implements out.AdminRepository
type AdminRepository struct {
	db *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) out.AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetAdminByUserID(ctx context.Context, userID uuid.UUID) (*domain.Admin, error) {
	query := `SELECT id, user_id, name, created_at, updated_at FROM admins WHERE user_id = $1`

	var row adminRow
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return row.toDomain(), nil
}
