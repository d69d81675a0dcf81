package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/report"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/services"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Clock supplies "now" to handlers that default to today's date.
type Clock func() time.Time

func (clock Clock) today() time.Time {
	if clock == nil {
		return report.DateOnly(time.Now().UTC())
	}
	return report.DateOnly(clock().UTC())
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func invalidBody(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
}

// serviceError maps service errors onto the HTTP taxonomy. Anything
// unrecognised is passed to the app error handler as a 500.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return errorJSON(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		return errorJSON(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return errorJSON(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		return errorJSON(c, fiber.StatusUnauthorized, err.Error())
	}
	return err
}

func unauthorized(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
}

func currentUser(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := session.GetUserID(c)
	return id, err == nil
}

func paramID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}

func invalidID(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusBadRequest, "Invalid id")
}

// NewErrorHandler renders errors that escape handlers. 5xx messages are
// generic; details are only attached outside production.
func NewErrorHandler(production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		resp := dto.ErrorResponse{Error: true, Message: message}
		if code >= 500 {
			attrs := []any{"method", c.Method(), "path", c.Path(), "error", err.Error()}
			if id, idErr := session.GetUserID(c); idErr == nil {
				attrs = append(attrs, "user_id", id.String())
			}
			if rid, ok := c.Locals("requestid").(string); ok {
				attrs = append(attrs, "request_id", rid)
			}
			slog.Error("unhandled server error", attrs...)

			resp.Message = "Internal server error"
			if !production {
				resp.Details = err.Error()
			}
		}

		return c.Status(code).JSON(resp)
	}
}
