// Package student manages student profiles, skills, experiences and
// uploaded files.
package student

import (
	"context"
	"errors"
	"strings"
	"time"

	"jobboard_server/core/domain"
	"jobboard_server/core/port/in"
	"jobboard_server/core/port/out"
	"jobboard_server/core/service/access"
	"jobboard_server/pkg/apperr"
	"jobboard_server/pkg/snowflake"
)

const (
	msgProfileNotFound    = "Student profile not found"
	msgExperienceNotFound = "Experience not found or does not belong to this student"
	msgSkillNotFound      = "Skill not found or does not belong to this student"
	msgSkillTaken         = "You already have this skill registered"
)

// Service implements in.StudentService
type Service struct {
	students     out.StudentRepository
	applications out.ApplicationRepository
	files        out.FileStorage
	now          func() time.Time
}

// NewService creates a new StudentService
func NewService(students out.StudentRepository, applications out.ApplicationRepository, files out.FileStorage) *Service {
	return &Service{
		students:     students,
		applications: applications,
		files:        files,
		now:          time.Now,
	}
}

var _ in.StudentService = (*Service)(nil)

// =============================================================================
// Profile
// =============================================================================

func (s *Service) GetMe(ctx context.Context, identity domain.Identity) (*domain.Student, error) {
	st, err := s.me(ctx, identity)
	if err != nil {
		return nil, err
	}

	apps, _, err := s.applications.ListApplications(ctx, &domain.ApplicationFilter{StudentID: &st.ID})
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch student profile")
	}
	st.Applications = make([]domain.Application, 0, len(apps))
	for _, a := range apps {
		a.Student = nil
		st.Applications = append(st.Applications, *a)
	}
	return st, nil
}

func (s *Service) UpdateMe(ctx context.Context, identity domain.Identity, req *in.UpdateStudentRequest) (*domain.Student, error) {
	st, err := s.me(ctx, identity)
	if err != nil {
		return nil, err
	}

	setString(&st.Name, req.Name)
	setString(&st.Phone, req.Phone)
	setString(&st.Country, req.Country)
	setOptional(&st.Gender, req.Gender)
	setOptional(&st.City, req.City)
	setOptional(&st.State, req.State)
	setOptional(&st.SpecialNeeds, req.SpecialNeeds)
	setOptional(&st.PortfolioURL, req.PortfolioURL)
	setOptional(&st.GithubURL, req.GithubURL)
	setOptional(&st.LinkedinURL, req.LinkedinURL)
	setOptional(&st.Bio, req.Bio)
	if req.IsFreelancer != nil {
		st.IsFreelancer = *req.IsFreelancer
	}
	st.UpdatedAt = s.now()

	if err := s.students.UpdateStudent(ctx, st); err != nil {
		return nil, apperr.Wrap(err, "Failed to update student profile")
	}
	return st, nil
}

func (s *Service) GetPublic(ctx context.Context, studentID int64) (*domain.Student, error) {
	st, err := s.students.GetStudent(ctx, studentID)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch student")
	}
	if st == nil {
		return nil, apperr.NotFound("Student not found")
	}
	return st, nil
}

// =============================================================================
// Experiences
// =============================================================================

func (s *Service) AddExperience(ctx context.Context, identity domain.Identity, req *in.ExperienceRequest) (*domain.Experience, error) {
	st, err := s.me(ctx, identity)
	if err != nil {
		return nil, err
	}

	start, err := parseDate("startDate", "Start date must be a valid date", req.StartDate)
	if err != nil {
		return nil, err
	}
	var end *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		t, err := parseDate("endDate", "End date must be a valid date", *req.EndDate)
		if err != nil {
			return nil, err
		}
		end = &t
	}

	now := s.now()
	exp := &domain.Experience{
		ID:          snowflake.ID(),
		StudentID:   st.ID,
		Company:     req.Company,
		Role:        req.Role,
		StartDate:   start,
		EndDate:     end,
		Current:     req.Current,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if exp.Current {
		exp.EndDate = nil
	}

	if err := s.students.CreateExperience(ctx, exp); err != nil {
		return nil, apperr.Wrap(err, "Failed to save experience")
	}
	return exp, nil
}

func (s *Service) UpdateExperience(ctx context.Context, identity domain.Identity, experienceID int64, req *in.UpdateExperienceRequest) (*domain.Experience, error) {
	exp, err := s.ownExperience(ctx, identity, experienceID)
	if err != nil {
		return nil, err
	}

	setString(&exp.Company, req.Company)
	setString(&exp.Role, req.Role)
	setOptional(&exp.Description, req.Description)
	if req.StartDate != nil && *req.StartDate != "" {
		t, err := parseDate("startDate", "Start date must be a valid date", *req.StartDate)
		if err != nil {
			return nil, err
		}
		exp.StartDate = t
	}
	if req.EndDate != nil {
		if *req.EndDate == "" {
			exp.EndDate = nil
		} else {
			t, err := parseDate("endDate", "End date must be a valid date", *req.EndDate)
			if err != nil {
				return nil, err
			}
			exp.EndDate = &t
		}
	}
	if req.Current != nil {
		exp.Current = *req.Current
	}
	if exp.Current {
		exp.EndDate = nil
	}
	exp.UpdatedAt = s.now()

	if err := s.students.UpdateExperience(ctx, exp); err != nil {
		return nil, apperr.Wrap(err, "Failed to save experience")
	}
	return exp, nil
}

func (s *Service) DeleteExperience(ctx context.Context, identity domain.Identity, experienceID int64) error {
	if _, err := s.ownExperience(ctx, identity, experienceID); err != nil {
		return err
	}
	if err := s.students.DeleteExperience(ctx, experienceID); err != nil {
		return apperr.Wrap(err, "Failed to delete experience")
	}
	return nil
}

func (s *Service) ownExperience(ctx context.Context, identity domain.Identity, id int64) (*domain.Experience, error) {
	st, err := s.me(ctx, identity)
	if err != nil {
		return nil, err
	}
	exp, err := s.students.GetExperience(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch experience")
	}
	if exp == nil || exp.StudentID != st.ID {
		return nil, apperr.NotFound(msgExperienceNotFound)
	}
	return exp, nil
}

// =============================================================================
// Skills
// =============================================================================

func (s *Service) AddSkill(ctx context.Context, identity domain.Identity, req *in.SkillInput) (*domain.Skill, error) {
	st, err := s.me(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !domain.ValidSkillLevel(req.Level) {
		return nil, apperr.InvalidInput("level", "Skill level must be between 1 and 5")
	}

	name := strings.TrimSpace(req.Name)
	existing, err := s.students.FindSkillByName(ctx, st.ID, name)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to save skill")
	}
	if existing != nil {
		return nil, apperr.Conflict(msgSkillTaken)
	}

	now := s.now()
	skill := &domain.Skill{
		ID:        snowflake.ID(),
		StudentID: st.ID,
		Name:      name,
		Level:     req.Level,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.students.CreateSkill(ctx, skill); err != nil {
		if errors.Is(err, out.ErrDuplicate) {
			return nil, apperr.Conflict(msgSkillTaken)
		}
		return nil, apperr.Wrap(err, "Failed to save skill")
	}
	return skill, nil
}

func (s *Service) UpdateSkill(ctx context.Context, identity domain.Identity, skillID int64, req *in.UpdateSkillRequest) (*domain.Skill, error) {
	skill, err := s.ownSkill(ctx, identity, skillID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != "" && !strings.EqualFold(name, skill.Name) {
			existing, err := s.students.FindSkillByName(ctx, skill.StudentID, name)
			if err != nil {
				return nil, apperr.Wrap(err, "Failed to save skill")
			}
			if existing != nil {
				return nil, apperr.Conflict(msgSkillTaken)
			}
		}
		if name != "" {
			skill.Name = name
		}
	}
	if req.Level != nil {
		if !domain.ValidSkillLevel(*req.Level) {
			return nil, apperr.InvalidInput("level", "Skill level must be between 1 and 5")
		}
		skill.Level = *req.Level
	}
	skill.UpdatedAt = s.now()

	if err := s.students.UpdateSkill(ctx, skill); err != nil {
		if errors.Is(err, out.ErrDuplicate) {
			return nil, apperr.Conflict(msgSkillTaken)
		}
		return nil, apperr.Wrap(err, "Failed to save skill")
	}
	return skill, nil
}

func (s *Service) DeleteSkill(ctx context.Context, identity domain.Identity, skillID int64) error {
	if _, err := s.ownSkill(ctx, identity, skillID); err != nil {
		return err
	}
	if err := s.students.DeleteSkill(ctx, skillID); err != nil {
		return apperr.Wrap(err, "Failed to delete skill")
	}
	return nil
}

func (s *Service) ownSkill(ctx context.Context, identity domain.Identity, id int64) (*domain.Skill, error) {
	st, err := s.me(ctx, identity)
	if err != nil {
		return nil, err
	}
	skill, err := s.students.GetSkill(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch skill")
	}
	if skill == nil || skill.StudentID != st.ID {
		return nil, apperr.NotFound(msgSkillNotFound)
	}
	return skill, nil
}

// =============================================================================
// Uploads
// =============================================================================

// Upload stores a resume or profile picture and records its URL on the
// profile. A file saved before a failed profile update is left in place.
func (s *Service) Upload(ctx context.Context, identity domain.Identity, kind domain.UploadKind, file *domain.UploadedFile) (*in.UploadResponse, error) {
	st, err := s.me(ctx, identity)
	if err != nil {
		return nil, err
	}

	failMsg := "Failed to upload resume"
	if kind == domain.UploadProfilePicture {
		failMsg = "Failed to upload profile picture"
	}

	if file == nil {
		return nil, apperr.BadRequest("No file uploaded")
	}
	if !kind.Accepts(file.ContentType) {
		return nil, apperr.BadRequest(kind.TypeError())
	}
	if file.Size > kind.MaxSize() {
		return nil, apperr.BadRequest("File is too large")
	}

	url, err := s.files.Save(ctx, kind, identity.UserID.String(), file)
	if err != nil {
		return nil, apperr.Wrap(err, failMsg)
	}

	if kind == domain.UploadResume {
		st.ResumeURL = &url
	} else {
		st.ProfilePicture = &url
	}
	st.UpdatedAt = s.now()
	if err := s.students.UpdateStudent(ctx, st); err != nil {
		return nil, apperr.Wrap(err, failMsg)
	}

	return &in.UploadResponse{URL: url, Student: st}, nil
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Service) me(ctx context.Context, identity domain.Identity) (*domain.Student, error) {
	if err := access.RequireRole(identity, domain.RoleStudent); err != nil {
		return nil, err
	}
	st, err := s.students.GetStudentByUserID(ctx, identity.UserID)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch student profile")
	}
	if st == nil {
		return nil, apperr.NotFound(msgProfileNotFound)
	}
	return st, nil
}

// setString overwrites dst when v carries a non-empty value.
func setString(dst *string, v *string) {
	if v != nil && strings.TrimSpace(*v) != "" {
		*dst = *v
	}
}

// setOptional overwrites dst whenever v is present. An empty string clears it.
func setOptional(dst **string, v *string) {
	if v == nil {
		return
	}
	if *v == "" {
		*dst = nil
		return
	}
	val := *v
	*dst = &val
}

func parseDate(field, msg, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperr.InvalidInput(field, msg)
}
