// Package response provides the API response envelope.
package response

import (
	"strconv"

	"jobboard_server/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// =============================================================================
// Standard API Response
// =============================================================================

// Response is the standard API response structure.
type Response struct {
	Status    string              `json:"status"`
	Message   string              `json:"message,omitempty"`
	Data      interface{}         `json:"data,omitempty"`
	Error     string              `json:"error,omitempty"`
	Errors    []apperr.FieldError `json:"errors,omitempty"`
	Reference string              `json:"reference,omitempty"`
}

// =============================================================================
// Response Builders
// =============================================================================

// OK returns a successful response.
func OK(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

// Created returns a 201 created response.
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

// Error writes an error envelope for err. Internal errors never expose the
// underlying cause; the caller receives the request reference instead.
func Error(c *fiber.Ctx, err error) error {
	appErr := apperr.AsAppError(err)
	requestID, _ := c.Locals("request_id").(string)

	resp := Response{
		Status:  StatusError,
		Message: appErr.Message,
		Error:   appErr.Code,
		Errors:  appErr.Fields,
	}
	if appErr.Status >= fiber.StatusInternalServerError {
		resp.Reference = requestID
	}
	return c.Status(appErr.Status).JSON(resp)
}

// =============================================================================
// Pagination Helper
// =============================================================================

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageRequest is a validated page/limit pair.
type PageRequest struct {
	Page  int
	Limit int
}

// Offset returns the row offset of the first item of the page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination is returned next to every paginated list.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// NewPagination computes the page count for total items.
func NewPagination(req PageRequest, total int) Pagination {
	pages := 0
	if req.Limit > 0 {
		pages = (total + req.Limit - 1) / req.Limit
	}
	return Pagination{Total: total, Page: req.Page, Limit: req.Limit, Pages: pages}
}

// GetPagination extracts page and limit from the query string. Values outside
// page >= 1 and 1 <= limit <= 100 are rejected.
func GetPagination(c *fiber.Ctx) (PageRequest, error) {
	return ParsePagination(c.Query("page"), c.Query("limit"))
}

// ParsePagination validates raw page/limit query values.
func ParsePagination(rawPage, rawLimit string) (PageRequest, error) {
	req := PageRequest{Page: DefaultPage, Limit: DefaultLimit}

	if rawPage != "" {
		page, err := strconv.Atoi(rawPage)
		if err != nil || page < 1 {
			return req, apperr.InvalidInput("page", "Page must be a positive integer")
		}
		req.Page = page
	}

	if rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil || limit < 1 || limit > MaxLimit {
			return req, apperr.InvalidInput("limit", "Limit must be between 1 and 100")
		}
		req.Limit = limit
	}

	return req, nil
}
