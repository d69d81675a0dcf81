package middleware

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS allows credentials (the session cookie) only for explicit origins;
// Fiber refuses credentials with a wildcard origin.
func CORS(cfg *config.Config) fiber.Handler {
	origins := strings.TrimSpace(cfg.CORSOrigins)
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept, X-Admin-Token",
		AllowMethods:     "GET, POST, PUT, DELETE, PATCH, OPTIONS",
		AllowCredentials: origins != "" && !strings.Contains(origins, "*"),
	})
}
