package http

import (
	"jobboard_server/core/domain"
	"jobboard_server/core/port/in"
	"jobboard_server/infra/middleware"
	"jobboard_server/pkg/apperr"
	"jobboard_server/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminHandler struct {
	admin   in.AdminService
	reports in.ReportService
	auth    in.AuthService
}

func NewAdminHandler(admin in.AdminService, reports in.ReportService, auth in.AuthService) *AdminHandler {
	return &AdminHandler{admin: admin, reports: reports, auth: auth}
}

// Register mounts /api/admin; every route requires an ADMIN session.
func (h *AdminHandler) Register(r fiber.Router, authn fiber.Handler) {
	admin := guarded(authn, middleware.RequireRole(domain.RoleAdmin))

	r.Get("/stats", admin(h.Stats)...)
	r.Get("/users", admin(h.ListUsers)...)
	r.Get("/jobs", admin(h.ListJobs)...)
	r.Get("/applications", admin(h.ListApplications)...)
	r.Post("/create", admin(h.CreateAdmin)...)
	r.Put("/users/:id/block", admin(h.BlockUser)...)
	r.Put("/jobs/:id/status", admin(h.SetJobStatus)...)
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.reports.SystemStats(c.Context())
	if err != nil {
		return err
	}
	return response.OK(c, "", stats)
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page, err := response.GetPagination(c)
	if err != nil {
		return err
	}

	filter := &domain.UserFilter{
		Search: queryString(c, "search"),
		Offset: page.Offset(),
		Limit:  page.Limit,
	}
	if raw := c.Query("type"); raw != "" {
		role, ok := domain.ParseRole(raw)
		if !ok {
			return apperr.InvalidInput("type", "Invalid user type")
		}
		filter.Role = &role
	}

	result, err := h.admin.ListUsers(c.Context(), filter)
	if err != nil {
		return err
	}
	return response.OK(c, "", fiber.Map{
		"users":      result.Users,
		"pagination": response.NewPagination(page, result.Total),
	})
}

func (h *AdminHandler) ListJobs(c *fiber.Ctx) error {
	page, err := response.GetPagination(c)
	if err != nil {
		return err
	}

	filter := &domain.JobFilter{
		Search: queryString(c, "search"),
		Offset: page.Offset(),
		Limit:  page.Limit,
	}
	switch c.Query("status") {
	case "":
	case "active":
		active := true
		filter.Active = &active
	case "inactive":
		active := false
		filter.Active = &active
	default:
		return apperr.InvalidInput("status", "Status must be active or inactive")
	}

	result, err := h.admin.ListJobs(c.Context(), filter)
	if err != nil {
		return err
	}
	return response.OK(c, "", fiber.Map{
		"jobs":       result.Jobs,
		"pagination": response.NewPagination(page, result.Total),
	})
}

func (h *AdminHandler) ListApplications(c *fiber.Ctx) error {
	page, err := response.GetPagination(c)
	if err != nil {
		return err
	}

	filter := &domain.ApplicationFilter{Offset: page.Offset(), Limit: page.Limit}
	if raw := c.Query("status"); raw != "" {
		status, ok := domain.ParseApplicationStatus(raw)
		if !ok {
			return apperr.InvalidInput("status", "Invalid status value")
		}
		filter.Status = &status
	}

	result, err := h.admin.ListApplications(c.Context(), filter)
	if err != nil {
		return err
	}
	return response.OK(c, "", fiber.Map{
		"applications": result.Applications,
		"pagination":   response.NewPagination(page, result.Total),
	})
}

func (h *AdminHandler) CreateAdmin(c *fiber.Ctx) error {
	var req in.CreateAdminRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	resp, err := h.auth.CreateAdmin(c.Context(), &req)
	if err != nil {
		return err
	}
	return response.Created(c, "Admin created successfully", resp)
}

func (h *AdminHandler) BlockUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.InvalidInput("id", "Invalid ID")
	}
	return h.admin.BlockUser(c.Context(), userID)
}

func (h *AdminHandler) SetJobStatus(c *fiber.Ctx) error {
	jobID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req in.SetJobStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	job, err := h.admin.SetJobStatus(c.Context(), jobID, *req.IsActive)
	if err != nil {
		return err
	}

	message := "Job deactivated successfully"
	if job.IsActive {
		message = "Job activated successfully"
	}
	return response.OK(c, message, job)
}
