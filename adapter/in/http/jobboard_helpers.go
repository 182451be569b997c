package http

import (
	"strings"

	"jobboard_server/core/domain"
	"jobboard_server/infra/middleware"
	"jobboard_server/pkg/apperr"
	"jobboard_server/pkg/snowflake"
	"jobboard_server/pkg/validate"

	"github.com/gofiber/fiber/v2"
)

// identity returns the caller stored by the authentication middleware.
func identity(c *fiber.Ctx) (domain.Identity, error) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		return domain.Identity{}, apperr.Unauthorized("")
	}
	return *id, nil
}

// guarded returns a helper that prefixes a handler with the guard chain.
func guarded(guards ...fiber.Handler) func(fiber.Handler) []fiber.Handler {
	return func(h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, guards...), h)
	}
}

// bind decodes the JSON body into dst and validates its tags.
func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.BadRequest("Invalid request body").WithError(err)
	}
	return validate.Struct(dst)
}

// paramID parses a snowflake id from the route.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := snowflake.ParseID(c.Params(name))
	if err != nil {
		return 0, apperr.InvalidInput(name, "Invalid ID")
	}
	return id, nil
}

// queryID parses an optional snowflake id from the query string.
func queryID(c *fiber.Ctx, name string) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := snowflake.ParseID(raw)
	if err != nil {
		return nil, apperr.InvalidInput(name, "Invalid ID")
	}
	return &id, nil
}

// queryBool parses an optional "true"/"false" query value.
func queryBool(c *fiber.Ctx, name string) (*bool, error) {
	switch strings.ToLower(c.Query(name)) {
	case "":
		return nil, nil
	case "true":
		v := true
		return &v, nil
	case "false":
		v := false
		return &v, nil
	default:
		return nil, apperr.InvalidInput(name, name+" must be true or false")
	}
}

// queryString returns a trimmed optional query value.
func queryString(c *fiber.Ctx, name string) *string {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return nil
	}
	return &v
}

// queryList collects repeated and comma separated values of name.
func queryList(c *fiber.Ctx, name string) []string {
	var out []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(name) {
		for _, v := range strings.Split(string(raw), ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
