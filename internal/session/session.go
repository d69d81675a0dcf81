package session

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const userIDKey = "user_id"

var ErrNoSession = errors.New("no authenticated user in context")

// SetUserID stores the resolved user id for the rest of the request.
func SetUserID(c *fiber.Ctx, userID uuid.UUID) {
	c.Locals(userIDKey, userID)
}

// GetUserID returns the current user. It prefers the id set by the auth
// middleware and falls back to the raw JWT claims.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	if id, ok := c.Locals(userIDKey).(uuid.UUID); ok && id != uuid.Nil {
		return id, nil
	}

	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return uuid.Nil, ErrNoSession
	}
	return UserIDFromToken(token)
}

// UserIDFromToken reads the sub claim as a UUID.
func UserIDFromToken(token *jwt.Token) (uuid.UUID, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}

// ForUser returns a GORM scope that filters by owner.
func ForUser(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}
