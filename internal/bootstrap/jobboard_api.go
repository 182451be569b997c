package bootstrap

import (
	"context"
	"strings"
	"time"

	"jobboard_server/adapter/in/http"
	"jobboard_server/adapter/out/storage"
	"jobboard_server/config"
	"jobboard_server/core/port/out"
	"jobboard_server/infra/database"
	"jobboard_server/infra/middleware"
	"jobboard_server/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// AppOptions carries the infrastructure NewApp mounts besides the services.
type AppOptions struct {
	DB    http.Pinger
	Redis http.Pinger
	Audit out.AuditSink

	// PoolStats, when set, is reported by the health check
	PoolStats func() any

	// UploadDir is served read-only under /uploads; empty disables it.
	UploadDir string
}

func NewAPI(cfg *config.Config) (*fiber.App, func(), error) {
	deps, cleanup, err := NewDependencies(context.Background(), cfg)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize dependencies")
		return nil, nil, err
	}

	opts := AppOptions{
		DB:        deps.DB,
		PoolStats: func() any { return database.GetPoolStats(deps.DB) },
		Audit:     deps.Audit,
		UploadDir: deps.Files.Root(),
	}
	// an untyped nil keeps the health check reporting "not configured"
	if deps.Redis != nil {
		opts.Redis = database.RedisPinger{Client: deps.Redis}
	}

	app, closeApp := NewApp(cfg, deps.Services, opts)

	logger.Info("API server initialized successfully")

	return app, func() {
		closeApp()
		cleanup()
	}, nil
}

// NewApp builds the fiber application: middleware stack and every route
// group. The returned func releases background resources.
func NewApp(cfg *config.Config, svc *Services, opts AppOptions) (*fiber.App, func()) {
	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(),
		DisableStartupMessage: cfg.IsProduction(),
		StrictRouting:         false,
		CaseSensitive:         false,

		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,

		// largest upload is a 5MB resume plus multipart overhead
		BodyLimit: 10 * 1024 * 1024,

		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,

		ServerHeader: "",
	})

	// Global middleware stack (order matters)
	app.Use(middleware.Recover())
	app.Use(middleware.RequestID())
	app.Use(middleware.SecurityHeaders())
	app.Use(middleware.PreventPathTraversal())
	app.Use(middleware.RequestLogger())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// AllowCredentials:true requires explicit origins (not "*")
	allowOrigins := strings.Join(cfg.AllowedOrigins, ",")
	allowCredentials := true
	if allowOrigins == "" || allowOrigins == "*" {
		if cfg.IsProduction() {
			allowOrigins = ""
			allowCredentials = false
		} else {
			allowOrigins = "http://localhost:3000,http://localhost:5173"
		}
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		ExposeHeaders:    "X-Request-ID,X-RateLimit-Limit,X-RateLimit-Remaining,X-RateLimit-Reset",
		AllowCredentials: allowCredentials,
		MaxAge:           86400,
	}))

	if opts.UploadDir != "" {
		app.Static(storage.URLPrefix, opts.UploadDir, fiber.Static{
			Browse: false,
			MaxAge: 3600,
		})
	}

	api := app.Group("/api")

	http.NewHealthHandler(opts.DB, opts.Redis).WithPoolStats(opts.PoolStats).Register(api)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMin, time.Minute)
	api.Use(rateLimiter.Handler())
	api.Use(middleware.Audit(opts.Audit))

	authn := middleware.Authenticate(svc.Auth)

	authHandler := http.NewAuthHandler(svc.Auth)
	authGroup := api.Group("/auth",
		middleware.NoCache(),
		middleware.AuthLimiter(cfg.AuthRateLimitPerMin, time.Minute),
	)
	authHandler.Register(authGroup)

	http.NewStudentHandler(svc.Students, svc.Applications, authHandler).
		Register(api.Group("/students"), authn)
	http.NewCompanyHandler(svc.Companies, svc.Applications, svc.Reports, authHandler).
		Register(api.Group("/companies"), authn)
	http.NewJobHandler(svc.Jobs, svc.Applications).
		Register(api.Group("/jobs"), authn)
	http.NewAdminHandler(svc.Admin, svc.Reports, svc.Auth).
		Register(api.Group("/admin"), authn)

	return app, rateLimiter.Close
}
