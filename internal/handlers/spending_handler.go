package handlers

import (
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/services"
	"github.com/gofiber/fiber/v2"
)

type SpendingHandler struct {
	spendings *services.SpendingService
	clock     Clock
}

func NewSpendingHandler(spendings *services.SpendingService, clock Clock) *SpendingHandler {
	return &SpendingHandler{spendings: spendings, clock: clock}
}

// List returns the spendings of ?date=, defaulting to today.
func (h *SpendingHandler) List(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	date := h.clock.today()
	if q := c.Query("date"); q != "" {
		d, err := services.ParseDate(q)
		if err != nil {
			return serviceError(c, err)
		}
		date = d
	}

	list, err := h.spendings.ListForDate(c.UserContext(), userID, date)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(list)
}

func (h *SpendingHandler) Categories(c *fiber.Ctx) error {
	return c.JSON(dto.CategoriesResponse{Categories: h.spendings.Categories()})
}

func (h *SpendingHandler) Create(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.CreateSpendingRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	spending, err := h.spendings.Create(c.UserContext(), userID, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(spending)
}

func (h *SpendingHandler) Update(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}

	var req dto.UpdateSpendingRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	spending, err := h.spendings.Update(c.UserContext(), userID, id, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(spending)
}

func (h *SpendingHandler) Delete(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}

	if err := h.spendings.Delete(c.UserContext(), userID, id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Spending deleted"})
}
