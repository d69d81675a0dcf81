package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_ACCESS_EXPIRY", "")
	t.Setenv("PORT", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("COOKIE_SECURE", "")

	cfg := Load()

	if cfg.DBDriver != DriverPostgres {
		t.Fatalf("DBDriver = %q, want %q", cfg.DBDriver, DriverPostgres)
	}
	if cfg.JWTAccessExpiry != 15*time.Minute {
		t.Fatalf("JWTAccessExpiry = %v, want 15m", cfg.JWTAccessExpiry)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.CookieSecure {
		t.Fatal("CookieSecure should default to false outside production")
	}
	if cfg.SessionCookie != "session" {
		t.Fatalf("SessionCookie = %q, want session", cfg.SessionCookie)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("COOKIE_SECURE", "")
	t.Setenv("JWT_REFRESH_EXPIRY", "not-a-duration")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "-5")
	t.Setenv("LOG_RETENTION_DAYS", "7")

	cfg := Load()

	if !cfg.IsProduction() {
		t.Fatal("expected production config")
	}
	if !cfg.CookieSecure {
		t.Fatal("CookieSecure should default to true in production")
	}
	if cfg.JWTRefreshExpiry != 168*time.Hour {
		t.Fatalf("JWTRefreshExpiry = %v, want fallback 168h", cfg.JWTRefreshExpiry)
	}
	if cfg.RateLimitPerMinute != 60 {
		t.Fatalf("RateLimitPerMinute = %d, want fallback 60", cfg.RateLimitPerMinute)
	}
	if cfg.LogRetentionDays != 7 {
		t.Fatalf("LogRetentionDays = %d, want 7", cfg.LogRetentionDays)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBDriver: DriverSQLite, SQLitePath: "data.db"}
	if dsn := cfg.DSN(); !strings.HasPrefix(dsn, "data.db?") || !strings.Contains(dsn, "foreign_keys(1)") {
		t.Fatalf("sqlite DSN = %q", dsn)
	}

	cfg = &Config{DBDriver: DriverPostgres, DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5432", DBSSLMode: "disable"}
	want := "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC"
	if dsn := cfg.DSN(); dsn != want {
		t.Fatalf("postgres DSN = %q, want %q", dsn, want)
	}
}
