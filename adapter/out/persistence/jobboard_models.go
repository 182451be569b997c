package persistence

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"jobboard_server/core/domain"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Row structs carry db tags for sqlx scanning and gorm tags for schema
// migration. Snowflake ids are assigned by the services.

type userRow struct {
	ID           uuid.UUID `db:"id" gorm:"type:uuid;primaryKey"`
	Email        string    `db:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string    `db:"password_hash" gorm:"type:varchar(255);not null"`
	Role         string    `db:"role" gorm:"type:varchar(16);not null;index"`
	CreatedAt    time.Time `db:"created_at" gorm:"type:timestamptz;not null"`
	UpdatedAt    time.Time `db:"updated_at" gorm:"type:timestamptz;not null"`
}

func (userRow) TableName() string { return "users" }

func (r *userRow) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         domain.Role(r.Role),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type studentRow struct {
	ID             int64          `db:"id" gorm:"primaryKey;autoIncrement:false"`
	UserID         uuid.UUID      `db:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	Name           string         `db:"name" gorm:"type:varchar(255);not null"`
	Phone          string         `db:"phone" gorm:"type:varchar(32);not null"`
	Gender         sql.NullString `db:"gender" gorm:"type:varchar(32)"`
	City           sql.NullString `db:"city" gorm:"type:varchar(128)"`
	State          sql.NullString `db:"state" gorm:"type:varchar(64)"`
	Country        string         `db:"country" gorm:"type:varchar(64);not null;default:'Brasil'"`
	SpecialNeeds   sql.NullString `db:"special_needs" gorm:"type:text"`
	GithubURL      sql.NullString `db:"github_url" gorm:"type:varchar(512)"`
	LinkedinURL    sql.NullString `db:"linkedin_url" gorm:"type:varchar(512)"`
	PortfolioURL   sql.NullString `db:"portfolio_url" gorm:"type:varchar(512)"`
	IsFreelancer   bool           `db:"is_freelancer" gorm:"not null;default:false"`
	Bio            sql.NullString `db:"bio" gorm:"type:text"`
	ResumeURL      sql.NullString `db:"resume_url" gorm:"type:varchar(512)"`
	ProfilePicture sql.NullString `db:"profile_picture" gorm:"type:varchar(512)"`
	CreatedAt      time.Time      `db:"created_at" gorm:"type:timestamptz;not null;index"`
	UpdatedAt      time.Time      `db:"updated_at" gorm:"type:timestamptz;not null"`
}

func (studentRow) TableName() string { return "students" }

func (r *studentRow) toDomain() *domain.Student {
	return &domain.Student{
		ID:             r.ID,
		UserID:         r.UserID,
		Name:           r.Name,
		Phone:          r.Phone,
		Gender:         ptr(r.Gender),
		City:           ptr(r.City),
		State:          ptr(r.State),
		Country:        r.Country,
		SpecialNeeds:   ptr(r.SpecialNeeds),
		GithubURL:      ptr(r.GithubURL),
		LinkedinURL:    ptr(r.LinkedinURL),
		PortfolioURL:   ptr(r.PortfolioURL),
		IsFreelancer:   r.IsFreelancer,
		Bio:            ptr(r.Bio),
		ResumeURL:      ptr(r.ResumeURL),
		ProfilePicture: ptr(r.ProfilePicture),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

type skillRow struct {
	ID        int64     `db:"id" gorm:"primaryKey;autoIncrement:false"`
	StudentID int64     `db:"student_id" gorm:"not null;uniqueIndex:idx_student_skill_name,priority:1"`
	Name      string    `db:"name" gorm:"type:varchar(128);not null;uniqueIndex:idx_student_skill_name,priority:2"`
	Level     int       `db:"level" gorm:"not null;check:level BETWEEN 1 AND 5"`
	CreatedAt time.Time `db:"created_at" gorm:"type:timestamptz;not null"`
	UpdatedAt time.Time `db:"updated_at" gorm:"type:timestamptz;not null"`
}

func (skillRow) TableName() string { return "student_skills" }

func (r *skillRow) toDomain() domain.Skill {
	return domain.Skill{
		ID:        r.ID,
		StudentID: r.StudentID,
		Name:      r.Name,
		Level:     r.Level,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type experienceRow struct {
	ID          int64          `db:"id" gorm:"primaryKey;autoIncrement:false"`
	StudentID   int64          `db:"student_id" gorm:"not null;index"`
	Company     string         `db:"company" gorm:"type:varchar(255);not null"`
	Role        string         `db:"role" gorm:"type:varchar(255);not null"`
	StartDate   time.Time      `db:"start_date" gorm:"type:timestamptz;not null"`
	EndDate     sql.NullTime   `db:"end_date" gorm:"type:timestamptz"`
	Current     bool           `db:"current" gorm:"not null;default:false"`
	Description sql.NullString `db:"description" gorm:"type:text"`
	CreatedAt   time.Time      `db:"created_at" gorm:"type:timestamptz;not null"`
	UpdatedAt   time.Time      `db:"updated_at" gorm:"type:timestamptz;not null"`
}

func (experienceRow) TableName() string { return "experiences" }

func (r *experienceRow) toDomain() domain.Experience {
	e := domain.Experience{
		ID:          r.ID,
		StudentID:   r.StudentID,
		Company:     r.Company,
		Role:        r.Role,
		StartDate:   r.StartDate,
		Current:     r.Current,
		Description: ptr(r.Description),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.EndDate.Valid {
		t := r.EndDate.Time
		e.EndDate = &t
	}
	return e
}

type companyRow struct {
	ID              int64     `db:"id" gorm:"primaryKey;autoIncrement:false"`
	UserID          uuid.UUID `db:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	Name            string    `db:"name" gorm:"type:varchar(255);not null"`
	ResponsibleName string    `db:"responsible_name" gorm:"type:varchar(255);not null"`
	TaxID           string    `db:"tax_id" gorm:"type:varchar(18);not null;uniqueIndex"`
	CreatedAt       time.Time `db:"created_at" gorm:"type:timestamptz;not null;index"`
	UpdatedAt       time.Time `db:"updated_at" gorm:"type:timestamptz;not null"`
}

func (companyRow) TableName() string { return "companies" }

func (r *companyRow) toDomain() *domain.Company {
	return &domain.Company{
		ID:              r.ID,
		UserID:          r.UserID,
		Name:            r.Name,
		ResponsibleName: r.ResponsibleName,
		TaxID:           r.TaxID,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

type adminRow struct {
	ID        int64     `db:"id" gorm:"primaryKey;autoIncrement:false"`
	UserID    uuid.UUID `db:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	Name      string    `db:"name" gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `db:"created_at" gorm:"type:timestamptz;not null"`
	UpdatedAt time.Time `db:"updated_at" gorm:"type:timestamptz;not null"`
}

func (adminRow) TableName() string { return "admins" }

func (r *adminRow) toDomain() *domain.Admin {
	return &domain.Admin{ID: r.ID, UserID: r.UserID, Name: r.Name, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

type jobRow struct {
	ID           int64          `db:"id" gorm:"primaryKey;autoIncrement:false"`
	CompanyID    int64          `db:"company_id" gorm:"not null;index"`
	Title        string         `db:"title" gorm:"type:varchar(255);not null"`
	Level        string         `db:"level" gorm:"type:varchar(16);not null;index"`
	LocationType string         `db:"location_type" gorm:"type:varchar(16);not null;index"`
	Location     sql.NullString `db:"location" gorm:"type:varchar(255)"`
	Salary       sql.NullString `db:"salary" gorm:"type:varchar(128)"`
	Description  string         `db:"description" gorm:"type:text;not null"`
	Benefits     sql.NullString `db:"benefits" gorm:"type:text"`
	ContactInfo  []byte         `db:"contact_info" gorm:"type:jsonb"`
	IsActive     bool           `db:"is_active" gorm:"not null;default:true;index"`
	CreatedAt    time.Time      `db:"created_at" gorm:"type:timestamptz;not null;index"`
	UpdatedAt    time.Time      `db:"updated_at" gorm:"type:timestamptz;not null"`

	// Joined columns, not part of the table.
	CompanyName        sql.NullString `db:"company_name" gorm:"-"`
	CompanyUserID      uuid.NullUUID  `db:"company_user_id" gorm:"-"`
	CompanyResponsible sql.NullString `db:"company_responsible" gorm:"-"`
	ApplicationCount   sql.NullInt64  `db:"application_count" gorm:"-"`
}

func (jobRow) TableName() string { return "jobs" }

// toDomain fails on an undecodable contact_info so an update never merges
// onto an empty record and overwrites the stored value.
func (r *jobRow) toDomain() (*domain.Job, error) {
	j := &domain.Job{
		ID:             r.ID,
		CompanyID:      r.CompanyID,
		Title:          r.Title,
		Level:          domain.JobLevel(r.Level),
		LocationType:   domain.LocationType(r.LocationType),
		Location:       ptr(r.Location),
		Salary:         ptr(r.Salary),
		Description:    r.Description,
		Benefits:       ptr(r.Benefits),
		IsActive:       r.IsActive,
		RequiredSkills: []string{},
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if len(r.ContactInfo) > 0 {
		if err := json.Unmarshal(r.ContactInfo, &j.ContactInfo); err != nil {
			return nil, fmt.Errorf("job %d: decode contact_info: %w", r.ID, err)
		}
	}
	if r.CompanyName.Valid {
		j.Company = &domain.CompanySummary{
			ID:              r.CompanyID,
			UserID:          r.CompanyUserID.UUID,
			Name:            r.CompanyName.String,
			ResponsibleName: r.CompanyResponsible.String,
		}
	}
	return j, nil
}

// contactJSON encodes c for the jsonb column. It is bound as text since
// the simple query protocol sends []byte as bytea.
func contactJSON(c domain.ContactInfo) (sql.NullString, error) {
	if c.IsEmpty() {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

type jobSkillRow struct {
	ID       int64  `db:"id" gorm:"primaryKey;autoIncrement:false"`
	JobID    int64  `db:"job_id" gorm:"not null;index"`
	Name     string `db:"name" gorm:"type:varchar(128);not null;index"`
	Position int    `db:"position" gorm:"not null"`
}

func (jobSkillRow) TableName() string { return "job_skills" }

type applicationRow struct {
	ID        int64     `db:"id" gorm:"primaryKey;autoIncrement:false"`
	StudentID int64     `db:"student_id" gorm:"not null;uniqueIndex:idx_application_student_job,priority:1"`
	JobID     int64     `db:"job_id" gorm:"not null;uniqueIndex:idx_application_student_job,priority:2;index"`
	Status    string    `db:"status" gorm:"type:varchar(16);not null;index"`
	CreatedAt time.Time `db:"created_at" gorm:"type:timestamptz;not null"`
	UpdatedAt time.Time `db:"updated_at" gorm:"type:timestamptz;not null"`

	// Joined job, company and student columns.
	CompanyID        sql.NullInt64  `db:"company_id" gorm:"-"`
	JobTitle         sql.NullString `db:"job_title" gorm:"-"`
	JobLevel         sql.NullString `db:"job_level" gorm:"-"`
	JobLocationType  sql.NullString `db:"job_location_type" gorm:"-"`
	JobLocation      sql.NullString `db:"job_location" gorm:"-"`
	JobIsActive      sql.NullBool   `db:"job_is_active" gorm:"-"`
	JobCreatedAt     sql.NullTime   `db:"job_created_at" gorm:"-"`
	CompanyName      sql.NullString `db:"company_name" gorm:"-"`
	CompanyUserID    uuid.NullUUID  `db:"company_user_id" gorm:"-"`
	StudentName      sql.NullString `db:"student_name" gorm:"-"`
	StudentPicture   sql.NullString `db:"student_picture" gorm:"-"`
	StudentCity      sql.NullString `db:"student_city" gorm:"-"`
	StudentState     sql.NullString `db:"student_state" gorm:"-"`
	StudentCountry   sql.NullString `db:"student_country" gorm:"-"`
	StudentResume    sql.NullString `db:"student_resume" gorm:"-"`
	StudentGithub    sql.NullString `db:"student_github" gorm:"-"`
	StudentLinkedin  sql.NullString `db:"student_linkedin" gorm:"-"`
	StudentPortfolio sql.NullString `db:"student_portfolio" gorm:"-"`
	StudentCreatedAt sql.NullTime   `db:"student_created_at" gorm:"-"`
}

func (applicationRow) TableName() string { return "applications" }

func (r *applicationRow) toDomain() *domain.Application {
	a := &domain.Application{
		ID:        r.ID,
		StudentID: r.StudentID,
		JobID:     r.JobID,
		Status:    domain.ApplicationStatus(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.JobTitle.Valid {
		a.Job = &domain.Job{
			ID:             r.JobID,
			CompanyID:      r.CompanyID.Int64,
			Title:          r.JobTitle.String,
			Level:          domain.JobLevel(r.JobLevel.String),
			LocationType:   domain.LocationType(r.JobLocationType.String),
			Location:       ptr(r.JobLocation),
			IsActive:       r.JobIsActive.Bool,
			RequiredSkills: []string{},
			CreatedAt:      r.JobCreatedAt.Time,
			Company: &domain.CompanySummary{
				ID:     r.CompanyID.Int64,
				UserID: r.CompanyUserID.UUID,
				Name:   r.CompanyName.String,
			},
		}
	}
	if r.StudentName.Valid {
		a.Student = &domain.StudentSummary{
			ID:             r.StudentID,
			Name:           r.StudentName.String,
			ProfilePicture: ptr(r.StudentPicture),
			City:           ptr(r.StudentCity),
			State:          ptr(r.StudentState),
			Country:        r.StudentCountry.String,
			ResumeURL:      ptr(r.StudentResume),
			GithubURL:      ptr(r.StudentGithub),
			LinkedinURL:    ptr(r.StudentLinkedin),
			PortfolioURL:   ptr(r.StudentPortfolio),
			CreatedAt:      r.StudentCreatedAt.Time,
		}
	}
	return a
}

// Models lists every table for schema migration, parents first.
func Models() []any {
	return []any{
		&userRow{},
		&studentRow{},
		&skillRow{},
		&experienceRow{},
		&companyRow{},
		&adminRow{},
		&jobRow{},
		&jobSkillRow{},
		&applicationRow{},
	}
}

func ptr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func lowerAll(names []string) pq.StringArray {
	res := make(pq.StringArray, 0, len(names))
	for _, n := range names {
		res = append(res, strings.ToLower(n))
	}
	return res
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching search literally
// anywhere in the column.
func containsPattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}

// ilikeAny matches the pattern bound at $arg against any of cols.
func ilikeAny(cols []string, arg int) string {
	conds := make([]string, len(cols))
	for i, col := range cols {
		conds[i] = fmt.Sprintf(`%s ILIKE $%d ESCAPE '\'`, col, arg)
	}
	return "(" + strings.Join(conds, " OR ") + ")"
}
