package handlers

import (
	"strconv"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/services"
	"github.com/gofiber/fiber/v2"
)

type DietHandler struct {
	diet *services.DietService
}

func NewDietHandler(diet *services.DietService) *DietHandler {
	return &DietHandler{diet: diet}
}

func (h *DietHandler) List(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var day *int
	if q := c.Query("day"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "day must be a number between 1 and 7")
		}
		day = &n
	}

	meals, err := h.diet.List(c.UserContext(), userID, day)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(meals)
}

func (h *DietHandler) Create(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.CreateDietMealRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	meal, err := h.diet.Create(c.UserContext(), userID, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(meal)
}

func (h *DietHandler) Update(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}

	var req dto.UpdateDietMealRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	meal, err := h.diet.Update(c.UserContext(), userID, id, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(meal)
}

func (h *DietHandler) Delete(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}

	if err := h.diet.Delete(c.UserContext(), userID, id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Diet meal deleted"})
}
