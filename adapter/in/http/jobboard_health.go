package http

import (
	"context"
	"time"

	"jobboard_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Pinger is satisfied by *pgxpool.Pool and by the redis ping adapter.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	redis Pinger
	stats func() any
}

// NewHealthHandler checks db and, when non-nil, redis.
func NewHealthHandler(db Pinger, redis Pinger) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// WithPoolStats adds the result of stats to every health response.
func (h *HealthHandler) WithPoolStats(stats func() any) *HealthHandler {
	h.stats = stats
	return h
}

func (h *HealthHandler) Register(r fiber.Router) {
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	check := func(name string, p Pinger) {
		if p == nil {
			checks[name] = "not configured"
			return
		}
		if err := p.Ping(ctx); err != nil {
			checks[name] = "unhealthy"
			healthy = false
			return
		}
		checks[name] = "healthy"
	}
	check("postgres", h.db)
	check("redis", h.redis)

	body := fiber.Map{
		"status":    response.StatusSuccess,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if h.stats != nil {
		body["pool"] = h.stats()
	}
	if !healthy {
		body["status"] = response.StatusError
		body["message"] = "Service unavailable"
		return c.Status(fiber.StatusServiceUnavailable).JSON(body)
	}
	body["message"] = "Server is running"
	return c.JSON(body)
}
