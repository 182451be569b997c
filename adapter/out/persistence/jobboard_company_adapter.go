package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"jobboard_server/core/domain"
	"jobboard_server/core/port/out"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CompanyRepository implements out.CompanyRepository
type CompanyRepository struct {
	db *sqlx.DB
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(db *sqlx.DB) out.CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) GetCompany(ctx context.Context, id int64) (*domain.Company, error) {
	return r.getBy(ctx, "id", id)
}

func (r *CompanyRepository) GetCompanyByUserID(ctx context.Context, userID uuid.UUID) (*domain.Company, error) {
	return r.getBy(ctx, "user_id", userID)
}

func (r *CompanyRepository) GetCompanyByTaxID(ctx context.Context, taxID string) (*domain.Company, error) {
	return r.getBy(ctx, "tax_id", taxID)
}

func (r *CompanyRepository) getBy(ctx context.Context, column string, key interface{}) (*domain.Company, error) {
	query := `
		SELECT id, user_id, name, responsible_name, tax_id, created_at, updated_at
		FROM companies
		WHERE ` + column + ` = $1`

	var row companyRow
	if err := r.db.GetContext(ctx, &row, query, key); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return row.toDomain(), nil
}

func (r *CompanyRepository) UpdateCompany(ctx context.Context, c *domain.Company) error {
	query := `
		UPDATE companies SET name = $2, responsible_name = $3, tax_id = $4, updated_at = $5
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.ResponsibleName, c.TaxID, c.UpdatedAt)
	if err != nil {
		return wrap("update company", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update company: %w", ErrNotFound)
	}
	return nil
}
