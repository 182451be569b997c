package middleware

import (
	"strings"

	"jobboard_server/core/domain"
	"jobboard_server/core/port/in"
	"jobboard_server/core/service/access"
	"jobboard_server/pkg/apperr"
	"jobboard_server/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const (
	LocalsIdentity = "identity"
	LocalsUserID   = logger.UserIDKey
	LocalsRequest  = logger.RequestIDKey
)

// Authenticate requires a valid bearer token and stores the decoded
// identity in the request locals.
func Authenticate(verifier in.TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return apperr.Unauthorized("Access denied. No token provided.")
		}

		identity, err := verifier.Verify(token)
		if err != nil {
			return err
		}

		c.Locals(LocalsIdentity, identity)
		c.Locals(LocalsUserID, identity.UserID)
		return c.Next()
	}
}

// RequireRole rejects authenticated callers without one of roles. It must run
// after Authenticate.
func RequireRole(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := GetIdentity(c)
		if !ok {
			return apperr.Unauthorized("")
		}
		if err := access.RequireRole(*identity, roles...); err != nil {
			return err
		}
		return c.Next()
	}
}

// GetIdentity returns the identity stored by Authenticate.
func GetIdentity(c *fiber.Ctx) (*domain.Identity, bool) {
	identity, ok := c.Locals(LocalsIdentity).(*domain.Identity)
	return identity, ok && identity != nil
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
