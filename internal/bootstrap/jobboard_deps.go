package bootstrap

import (
	"context"

	"jobboard_server/adapter/out/persistence"
	"jobboard_server/adapter/out/storage"
	"jobboard_server/config"
	"jobboard_server/core/port/in"
	"jobboard_server/core/port/out"
	"jobboard_server/core/service/admin"
	"jobboard_server/core/service/application"
	"jobboard_server/core/service/auth"
	"jobboard_server/core/service/company"
	"jobboard_server/core/service/job"
	"jobboard_server/core/service/report"
	"jobboard_server/core/service/student"
	"jobboard_server/infra/database"
	"jobboard_server/internal/stream"
	"jobboard_server/pkg/logger"
	"jobboard_server/pkg/snowflake"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Repositories groups the outbound ports the services are built on.
type Repositories struct {
	Users        out.UserRepository
	Students     out.StudentRepository
	Companies    out.CompanyRepository
	Admins       out.AdminRepository
	Jobs         out.JobRepository
	Applications out.ApplicationRepository
	Reports      out.ReportRepository
}

// Services groups the inbound ports mounted by the HTTP layer.
type Services struct {
	Auth         in.AuthService
	Students     in.StudentService
	Companies    in.CompanyService
	Jobs         in.JobService
	Applications in.ApplicationService
	Admin        in.AdminService
	Reports      in.ReportService
}

// NewServices wires every service over repos. Used by NewDependencies and
// by tests running against in-memory repositories.
func NewServices(cfg *config.Config, repos Repositories, files out.FileStorage) *Services {
	authService := auth.NewService(
		repos.Users,
		repos.Students,
		repos.Companies,
		repos.Admins,
		auth.NewTokenManager(cfg.JWTSecret),
		auth.NewPasswordHasher(cfg.BcryptCost),
		auth.Config{TokenTTL: cfg.TokenTTL, AdminTokenTTL: cfg.AdminTokenTTL},
	)

	return &Services{
		Auth:         authService,
		Students:     student.NewService(repos.Students, repos.Applications, files),
		Companies:    company.NewService(repos.Companies, repos.Jobs),
		Jobs:         job.NewService(repos.Jobs, repos.Companies, repos.Applications),
		Applications: application.NewService(repos.Applications, repos.Jobs, repos.Students, repos.Companies),
		Admin:        admin.NewService(repos.Users, repos.Jobs, repos.Applications),
		Reports:      report.NewService(repos.Reports, repos.Companies),
	}
}

type Dependencies struct {
	Config *config.Config
	DB     *pgxpool.Pool
	SQLDB  *sqlx.DB
	Redis  *redis.Client

	// Audit stream; nil when Redis is not configured
	Stream *stream.RedisStream
	Audit  out.AuditSink

	Files    *storage.LocalStorage
	Services *Services
}

func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg}
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	if err := snowflake.Init(cfg.WorkerID); err != nil {
		return nil, nil, err
	}

	db, err := database.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	deps.DB = db
	cleanups = append(cleanups, db.Close)

	deps.SQLDB = database.NewSQLX(db)
	cleanups = append(cleanups, func() { deps.SQLDB.Close() })
	logger.Info("PostgreSQL connected (pool max=%d)", db.Config().MaxConns)

	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis connection failed, audit trail disabled: %v", err)
		} else {
			deps.Redis = redisClient
			cleanups = append(cleanups, func() { redisClient.Close() })

			deps.Stream = stream.NewRedisStream(redisClient, cfg.AuditGroup)
			deps.Audit = stream.NewAuditProducer(deps.Stream)
			logger.Info("Redis connected, audit stream enabled")
		}
	} else {
		logger.Info("REDIS_URL not set, audit trail disabled")
	}

	deps.Files = storage.NewLocalStorage(cfg.UploadDir)

	repos := Repositories{
		Users:        persistence.NewUserRepository(deps.SQLDB),
		Students:     persistence.NewStudentRepository(deps.SQLDB),
		Companies:    persistence.NewCompanyRepository(deps.SQLDB),
		Admins:       persistence.NewAdminRepository(deps.SQLDB),
		Jobs:         persistence.NewJobRepository(deps.SQLDB),
		Applications: persistence.NewApplicationRepository(deps.SQLDB),
		Reports:      persistence.NewReportRepository(deps.SQLDB),
	}
	deps.Services = NewServices(cfg, repos, deps.Files)

	return deps, cleanup, nil
}

// Migrate brings the schema up to date with the persistence models.
func Migrate(cfg *config.Config) error {
	logger.Info("Running schema migration")
	if err := database.Migrate(cfg.DatabaseURL, persistence.Models()...); err != nil {
		return err
	}
	logger.Info("Schema migration complete")
	return nil
}
