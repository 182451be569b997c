package http

import (
	"jobboard_server/core/domain"
	"jobboard_server/core/port/in"
	"jobboard_server/infra/middleware"
	"jobboard_server/pkg/apperr"
	"jobboard_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type StudentHandler struct {
	students     in.StudentService
	applications in.ApplicationService
	auth         *AuthHandler
}

func NewStudentHandler(students in.StudentService, applications in.ApplicationService, auth *AuthHandler) *StudentHandler {
	return &StudentHandler{students: students, applications: applications, auth: auth}
}

// Register mounts /api/students. Everything except the public profile
// requires a STUDENT session.
func (h *StudentHandler) Register(r fiber.Router, authn fiber.Handler) {
	with := guarded(authn, middleware.RequireRole(domain.RoleStudent))

	r.Get("/me", with(h.GetMe)...)
	r.Put("/me", with(h.UpdateMe)...)
	r.Put("/password", with(h.auth.ChangePassword)...)

	r.Post("/experiences", with(h.AddExperience)...)
	r.Put("/experiences/:id", with(h.UpdateExperience)...)
	r.Delete("/experiences/:id", with(h.DeleteExperience)...)

	r.Post("/skills", with(h.AddSkill)...)
	r.Put("/skills/:id", with(h.UpdateSkill)...)
	r.Delete("/skills/:id", with(h.DeleteSkill)...)

	r.Get("/applications", with(h.ListApplications)...)
	r.Delete("/applications/:id", with(h.WithdrawApplication)...)

	r.Post("/uploads/resume", with(h.UploadResume)...)
	r.Post("/uploads/profile-picture", with(h.UploadProfilePicture)...)

	r.Get("/:id", h.GetPublic)
}

func (h *StudentHandler) GetMe(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	student, err := h.students.GetMe(c.Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, "", student)
}

func (h *StudentHandler) UpdateMe(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	var req in.UpdateStudentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	student, err := h.students.UpdateMe(c.Context(), id, &req)
	if err != nil {
		return err
	}
	return response.OK(c, "Profile updated successfully", student)
}

func (h *StudentHandler) GetPublic(c *fiber.Ctx) error {
	studentID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	student, err := h.students.GetPublic(c.Context(), studentID)
	if err != nil {
		return err
	}
	return response.OK(c, "", student)
}

// =============================================================================
// Experiences
// =============================================================================

func (h *StudentHandler) AddExperience(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	var req in.ExperienceRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	exp, err := h.students.AddExperience(c.Context(), id, &req)
	if err != nil {
		return err
	}
	return response.Created(c, "Experience added successfully", exp)
}

func (h *StudentHandler) UpdateExperience(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	expID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req in.UpdateExperienceRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	exp, err := h.students.UpdateExperience(c.Context(), id, expID, &req)
	if err != nil {
		return err
	}
	return response.OK(c, "Experience updated successfully", exp)
}

func (h *StudentHandler) DeleteExperience(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	expID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.students.DeleteExperience(c.Context(), id, expID); err != nil {
		return err
	}
	return response.OK(c, "Experience deleted successfully", nil)
}

// =============================================================================
// Skills
// =============================================================================

func (h *StudentHandler) AddSkill(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	var req in.SkillInput
	if err := bind(c, &req); err != nil {
		return err
	}

	skill, err := h.students.AddSkill(c.Context(), id, &req)
	if err != nil {
		return err
	}
	return response.Created(c, "Skill added successfully", skill)
}

func (h *StudentHandler) UpdateSkill(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	skillID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req in.UpdateSkillRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	skill, err := h.students.UpdateSkill(c.Context(), id, skillID, &req)
	if err != nil {
		return err
	}
	return response.OK(c, "Skill updated successfully", skill)
}

func (h *StudentHandler) DeleteSkill(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	skillID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.students.DeleteSkill(c.Context(), id, skillID); err != nil {
		return err
	}
	return response.OK(c, "Skill deleted successfully", nil)
}

// =============================================================================
// Applications
// =============================================================================

func (h *StudentHandler) ListApplications(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	apps, err := h.applications.ListForStudent(c.Context(), id, c.Query("status"))
	if err != nil {
		return err
	}
	return response.OK(c, "", apps)
}

func (h *StudentHandler) WithdrawApplication(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	appID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.applications.Withdraw(c.Context(), id, appID); err != nil {
		return err
	}
	return response.OK(c, "Application cancelled successfully", nil)
}

// =============================================================================
// Uploads
// =============================================================================

func (h *StudentHandler) UploadResume(c *fiber.Ctx) error {
	return h.upload(c, domain.UploadResume, "resume", "resumeUrl", "Resume uploaded successfully")
}

func (h *StudentHandler) UploadProfilePicture(c *fiber.Ctx) error {
	return h.upload(c, domain.UploadProfilePicture, "profilePicture", "profilePicture", "Profile picture uploaded successfully")
}

func (h *StudentHandler) upload(c *fiber.Ctx, kind domain.UploadKind, field, key, message string) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	header, err := c.FormFile(field)
	if err != nil {
		return apperr.BadRequest("No file uploaded")
	}
	if header.Size > kind.MaxSize() {
		return apperr.BadRequest("File is too large")
	}

	f, err := header.Open()
	if err != nil {
		return apperr.Wrap(err, "Failed to read upload")
	}
	defer f.Close()

	file := &domain.UploadedFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Size:        header.Size,
		Body:        f,
	}

	resp, err := h.students.Upload(c.Context(), id, kind, file)
	if err != nil {
		return err
	}
	return response.OK(c, message, fiber.Map{key: resp.URL})
}
