package http

import (
	"jobboard_server/core/domain"
	"jobboard_server/core/port/in"
	"jobboard_server/infra/middleware"
	"jobboard_server/pkg/apperr"
	"jobboard_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type JobHandler struct {
	jobs         in.JobService
	applications in.ApplicationService
}

func NewJobHandler(jobs in.JobService, applications in.ApplicationService) *JobHandler {
	return &JobHandler{jobs: jobs, applications: applications}
}

// Register mounts /api/jobs. Update and delete only need a session; the
// owner-or-admin rule is enforced by the service.
func (h *JobHandler) Register(r fiber.Router, authn fiber.Handler) {
	company := guarded(authn, middleware.RequireRole(domain.RoleCompany))
	student := guarded(authn, middleware.RequireRole(domain.RoleStudent))

	r.Post("/", company(h.Create)...)
	r.Get("/", h.List)
	r.Get("/company/me", company(h.ListMine)...)
	r.Get("/:id", h.Get)
	r.Put("/:id", authn, h.Update)
	r.Delete("/:id", authn, h.Delete)
	r.Post("/:id/apply", student(h.Apply)...)
}

func (h *JobHandler) Create(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	var req in.CreateJobRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	job, err := h.jobs.Create(c.Context(), id, &req)
	if err != nil {
		return err
	}
	return response.Created(c, "Job created successfully", job)
}

func (h *JobHandler) List(c *fiber.Ctx) error {
	page, err := response.GetPagination(c)
	if err != nil {
		return err
	}

	filter, err := jobFilter(c)
	if err != nil {
		return err
	}
	filter.Offset = page.Offset()
	filter.Limit = page.Limit

	result, err := h.jobs.List(c.Context(), filter)
	if err != nil {
		return err
	}
	return response.OK(c, "", fiber.Map{
		"jobs":       result.Jobs,
		"pagination": response.NewPagination(page, result.Total),
	})
}

// jobFilter reads the public listing filters from the query string.
func jobFilter(c *fiber.Ctx) (*domain.JobFilter, error) {
	filter := &domain.JobFilter{
		Search: queryString(c, "search"),
		Skills: queryList(c, "skills"),
	}

	if raw := c.Query("level"); raw != "" {
		level, ok := domain.ParseJobLevel(raw)
		if !ok {
			return nil, apperr.InvalidInput("level", "Invalid job level. Must be JUNIOR, PLENO, or SENIOR")
		}
		filter.Level = &level
	}
	if raw := c.Query("locationType"); raw != "" {
		lt, ok := domain.ParseLocationType(raw)
		if !ok {
			return nil, apperr.InvalidInput("locationType", "Invalid location type. Must be REMOTE, HYBRID, or ONSITE")
		}
		filter.LocationType = &lt
	}

	companyID, err := queryID(c, "companyId")
	if err != nil {
		return nil, err
	}
	filter.CompanyID = companyID

	active, err := queryBool(c, "active")
	if err != nil {
		return nil, err
	}
	filter.Active = active

	return filter, nil
}

func (h *JobHandler) Get(c *fiber.Ctx) error {
	jobID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	job, err := h.jobs.Get(c.Context(), jobID)
	if err != nil {
		return err
	}
	return response.OK(c, "", job)
}

func (h *JobHandler) ListMine(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	jobs, err := h.jobs.ListMine(c.Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, "", jobs)
}

func (h *JobHandler) Update(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	jobID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req in.UpdateJobRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	job, err := h.jobs.Update(c.Context(), id, jobID, &req)
	if err != nil {
		return err
	}
	return response.OK(c, "Job updated successfully", job)
}

func (h *JobHandler) Delete(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	jobID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.jobs.Delete(c.Context(), id, jobID); err != nil {
		return err
	}
	return response.OK(c, "Job deleted successfully", nil)
}

func (h *JobHandler) Apply(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	jobID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	app, err := h.applications.Apply(c.Context(), id, jobID)
	if err != nil {
		return err
	}
	return response.Created(c, "Applied to job successfully", app)
}
