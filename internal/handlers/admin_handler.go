package handlers

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AdminHandler corrects challenge start dates.
type AdminHandler struct {
	authService *services.AuthService
}

func NewAdminHandler(authService *services.AuthService) *AdminHandler {
	return &AdminHandler{authService: authService}
}

// SetUserChallengeStart handles PUT /admin/users/:id/challenge-start.
func (h *AdminHandler) SetUserChallengeStart(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	return h.setChallengeStart(c, &id)
}

// SetAllChallengeStart handles PUT /admin/challenge-start.
func (h *AdminHandler) SetAllChallengeStart(c *fiber.Ctx) error {
	return h.setChallengeStart(c, nil)
}

func (h *AdminHandler) setChallengeStart(c *fiber.Ctx, userID *uuid.UUID) error {
	var req dto.ChallengeStartRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	date, err := services.ParseDate(req.Date)
	if err != nil {
		return serviceError(c, err)
	}

	n, err := h.authService.SetChallengeStartDate(c.UserContext(), userID, date)
	if err != nil {
		return serviceError(c, err)
	}

	slog.Info("challenge start date updated", "date", req.Date, "users", n)
	return c.JSON(dto.ChallengeStartResponse{Date: date.Format(dto.DateLayout), Updated: n})
}
