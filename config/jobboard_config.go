package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	// Database
	DatabaseURL string
	RedisURL    string

	// Auth
	JWTSecret     string
	TokenTTL      time.Duration
	AdminTokenTTL time.Duration
	BcryptCost    int

	// Uploads
	UploadDir string

	// Snowflake node id
	WorkerID int64

	// Audit consumer (Redis Stream)
	AuditGroup    string
	AuditConsumer string

	// Rate limiting (requests per minute)
	RateLimitPerMin     int
	AuthRateLimitPerMin int

	// CORS
	AllowedOrigins []string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "3001"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		TokenTTL:      time.Duration(getEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,
		AdminTokenTTL: time.Duration(getEnvInt("ADMIN_JWT_TTL_HOURS", 8)) * time.Hour,
		BcryptCost:    getEnvInt("BCRYPT_COST", 10),

		UploadDir: getEnv("UPLOAD_DIR", "uploads"),

		WorkerID: int64(getEnvInt("WORKER_ID", 1)),

		AuditGroup:    getEnv("AUDIT_GROUP", "jobboard-audit"),
		AuditConsumer: getEnv("AUDIT_CONSUMER", consumerName()),

		RateLimitPerMin:     getEnvInt("RATE_LIMIT_PER_MIN", 100),
		AuthRateLimitPerMin: getEnvInt("AUTH_RATE_LIMIT_PER_MIN", 10),

		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.WorkerID < 0 || c.WorkerID > 1023 {
		return errors.New("WORKER_ID must be between 0 and 1023")
	}
	return nil
}

// consumerName identifies this process inside the audit consumer group.
func consumerName() string {
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "jobboard"
	}
	return hostname + "-" + strconv.Itoa(os.Getpid())
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		return origins
	}
	return defaultValue
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
