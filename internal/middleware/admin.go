package middleware

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/config"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/session"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminRequired lets a request through when any of these hold:
// the X-Admin-Token header matches ADMIN_TOKEN, the username is listed in
// ADMIN_USERNAMES, or the user's role is "admin".
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminUsernames := parseCSV(cfg.AdminUsernames)

	return func(c *fiber.Ctx) error {
		if hasAdminToken(c, cfg) {
			return c.Next()
		}

		userID, err := session.GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		var user models.User
		if err := db.WithContext(c.UserContext()).Select("id", "username", "role").First(&user, "id = ?", userID).Error; err == nil {
			if user.Role == "admin" || contains(adminUsernames, user.Username) {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

// AdminSession authenticates admin routes: the admin token stands in for a
// session, otherwise a valid JWT is required.
func AdminSession(cfg *config.Config) fiber.Handler {
	protected := JWTProtected(cfg)
	return func(c *fiber.Ctx) error {
		if hasAdminToken(c, cfg) {
			return c.Next()
		}
		return protected(c)
	}
}

func hasAdminToken(c *fiber.Ctx, cfg *config.Config) bool {
	return cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
