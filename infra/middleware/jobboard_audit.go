package middleware

import (
	"context"
	"strings"
	"time"

	"jobboard_server/core/port/out"
	"jobboard_server/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
)

const auditTimeout = 2 * time.Second

// auditRoute maps a method and route pattern to an audit action.
type auditRoute struct {
	method  string
	pattern string
	action  string
}

// auditRoutes lists the mutating endpoints worth a trail. Patterns use
// fiber's route syntax and match c.Route().Path.
var auditRoutes = []auditRoute{
	{"POST", "/api/auth/register/student", "student_register"},
	{"POST", "/api/auth/register/company", "company_register"},
	{"POST", "/api/auth/login", "login"},
	{"POST", "/api/auth/admin/login", "admin_login"},
	{"PUT", "/api/students/password", "password_change"},
	{"PUT", "/api/companies/password", "password_change"},
	{"PUT", "/api/students/me", "student_update"},
	{"PUT", "/api/companies/me", "company_update"},
	{"POST", "/api/students/uploads/resume", "resume_upload"},
	{"POST", "/api/students/uploads/profile-picture", "picture_upload"},
	{"POST", "/api/jobs", "job_create"},
	{"PUT", "/api/jobs/:id", "job_update"},
	{"DELETE", "/api/jobs/:id", "job_delete"},
	{"POST", "/api/jobs/:id/apply", "application_create"},
	{"DELETE", "/api/students/applications/:id", "application_withdraw"},
	{"PUT", "/api/companies/applications/:id/status", "application_status"},
	{"POST", "/api/admin/create", "admin_create"},
	{"PUT", "/api/admin/jobs/:id/status", "job_status"},
	{"PUT", "/api/admin/users/:id/block", "user_block"},
}

func auditAction(method, route string) string {
	if len(route) > 1 {
		route = strings.TrimRight(route, "/")
	}
	for _, r := range auditRoutes {
		if r.method == method && r.pattern == route {
			return r.action
		}
	}
	return ""
}

// Audit records sensitive actions to sink after the response is rendered.
// Recording happens off the request goroutine, so every request-scoped
// string is copied first. A nil sink disables auditing.
func Audit(sink out.AuditSink) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sink == nil {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
			err = nil
		}

		action := auditAction(c.Method(), c.Route().Path)
		if action == "" {
			return err
		}

		status := c.Response().StatusCode()
		requestID, _ := c.Locals(LocalsRequest).(string)
		event := &out.AuditEvent{
			ID:         uuid.NewString(),
			Timestamp:  start.UTC(),
			Action:     action,
			Resource:   resourceOf(c.Route().Path),
			ResourceID: utils.CopyString(c.Params("id")),
			Method:     utils.CopyString(c.Method()),
			Path:       utils.CopyString(c.Path()),
			IP:         utils.CopyString(c.IP()),
			UserAgent:  utils.CopyString(c.Get(fiber.HeaderUserAgent)),
			StatusCode: status,
			Duration:   time.Since(start).Milliseconds(),
			RequestID:  requestID,
			Success:    status < 400,
		}
		if identity, ok := GetIdentity(c); ok {
			event.UserID = identity.UserID.String()
			event.Role = string(identity.Role)
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
			defer cancel()
			if logErr := sink.Record(ctx, event); logErr != nil {
				logger.WithError(logErr).WithField("action", event.Action).Warn("Failed to record audit event")
			}
		}()

		return err
	}
}

// resourceOf returns the segment after /api/.
func resourceOf(route string) string {
	parts := strings.Split(strings.TrimPrefix(route, "/api/"), "/")
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}
