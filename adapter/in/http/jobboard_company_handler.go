package http

import (
	"jobboard_server/core/domain"
	"jobboard_server/core/port/in"
	"jobboard_server/infra/middleware"
	"jobboard_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type CompanyHandler struct {
	companies    in.CompanyService
	applications in.ApplicationService
	reports      in.ReportService
	auth         *AuthHandler
}

func NewCompanyHandler(
	companies in.CompanyService,
	applications in.ApplicationService,
	reports in.ReportService,
	auth *AuthHandler,
) *CompanyHandler {
	return &CompanyHandler{companies: companies, applications: applications, reports: reports, auth: auth}
}

// Register mounts /api/companies. The public profile is the only route
// without a COMPANY session.
func (h *CompanyHandler) Register(r fiber.Router, authn fiber.Handler) {
	with := guarded(authn, middleware.RequireRole(domain.RoleCompany))

	r.Get("/me", with(h.GetMe)...)
	r.Put("/me", with(h.UpdateMe)...)
	r.Put("/password", with(h.auth.ChangePassword)...)
	r.Get("/applications", with(h.ListApplications)...)
	r.Put("/applications/:id/status", with(h.UpdateApplicationStatus)...)
	r.Get("/stats", with(h.Stats)...)

	r.Get("/:id", h.GetPublic)
}

func (h *CompanyHandler) GetMe(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	company, err := h.companies.GetMe(c.Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, "", company)
}

func (h *CompanyHandler) UpdateMe(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	var req in.UpdateCompanyRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	company, err := h.companies.UpdateMe(c.Context(), id, &req)
	if err != nil {
		return err
	}
	return response.OK(c, "Profile updated successfully", company)
}

func (h *CompanyHandler) GetPublic(c *fiber.Ctx) error {
	companyID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	company, err := h.companies.GetPublic(c.Context(), companyID)
	if err != nil {
		return err
	}
	return response.OK(c, "", company)
}

func (h *CompanyHandler) ListApplications(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	jobID, err := queryID(c, "jobId")
	if err != nil {
		return err
	}

	apps, err := h.applications.ListForCompany(c.Context(), id, jobID, c.Query("status"))
	if err != nil {
		return err
	}
	return response.OK(c, "", apps)
}

func (h *CompanyHandler) UpdateApplicationStatus(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	appID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req in.UpdateStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	app, err := h.applications.UpdateStatus(c.Context(), id, appID, req.Status)
	if err != nil {
		return err
	}
	return response.OK(c, "Application status updated successfully", app)
}

func (h *CompanyHandler) Stats(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	stats, err := h.reports.CompanyStats(c.Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, "", stats)
}
