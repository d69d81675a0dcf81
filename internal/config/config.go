package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	AppEnv string

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Session tokens
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration
	SessionCookie    string
	CookieSecure     bool

	// Admin
	AdminUsernames string
	AdminToken     string

	// Server
	Port                   string
	CORSOrigins            string
	RateLimitPerMinute     int
	AuthRateLimitPerMinute int

	// Default templates and spending categories
	CatalogPath string

	LogLevel         string
	LogRetentionDays int

	SentryDSN string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	return &Config{
		AppEnv: getEnv("APP_ENV", "development"),

		DBDriver:   getEnv("DB_DRIVER", DriverPostgres),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "habit_tracker"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "habit-tracker.db"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),
		SessionCookie:    getEnv("SESSION_COOKIE", "session"),
		CookieSecure:     parseBool(getEnv("COOKIE_SECURE", ""), getEnv("APP_ENV", "development") == "production"),

		AdminUsernames: getEnv("ADMIN_USERNAMES", ""),
		AdminToken:     getEnv("ADMIN_TOKEN", ""),

		Port:                   getEnv("PORT", "8080"),
		CORSOrigins:            getEnv("CORS_ORIGINS", "*"),
		RateLimitPerMinute:     parseInt(getEnv("RATE_LIMIT_PER_MINUTE", "60"), 60),
		AuthRateLimitPerMinute: parseInt(getEnv("AUTH_RATE_LIMIT_PER_MINUTE", "10"), 10),

		CatalogPath: getEnv("CATALOG_PATH", ""),

		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),

		SentryDSN: getEnv("SENTRY_DSN", ""),
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) DSN() string {
	if c.DBDriver == DriverSQLite {
		return c.SQLitePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseBool(s string, fallback bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return b
}
