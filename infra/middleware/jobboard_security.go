package middleware

import (
	"strings"

	"jobboard_server/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// SecurityHeaders adds security headers to all responses
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("Content-Security-Policy", "default-src 'self'; frame-ancestors 'none'")
		c.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		return c.Next()
	}
}

// NoCache marks API responses as uncacheable.
func NoCache() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-cache, no-store, must-revalidate")
		c.Set(fiber.HeaderPragma, "no-cache")
		return c.Next()
	}
}

// PreventPathTraversal rejects paths that try to escape a static root.
func PreventPathTraversal() fiber.Handler {
	patterns := []string{"..", "%2e%2e", "..%2f", "..%5c", "..\\"}

	return func(c *fiber.Ctx) error {
		path := strings.ToLower(string(c.Request().URI().PathOriginal()))
		for _, p := range patterns {
			if strings.Contains(path, p) {
				return apperr.BadRequest("Invalid path")
			}
		}
		return c.Next()
	}
}
