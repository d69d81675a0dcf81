package handlers

import (
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/services"
	"github.com/gofiber/fiber/v2"
)

type TemplateHandler struct {
	templates *services.TemplateService
}

func NewTemplateHandler(templates *services.TemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

func (h *TemplateHandler) List(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	list, err := h.templates.List(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(list)
}

func (h *TemplateHandler) Create(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.CreateTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	tpl, err := h.templates.Create(c.UserContext(), userID, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tpl)
}

func (h *TemplateHandler) Update(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}

	var req dto.UpdateTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	tpl, err := h.templates.Update(c.UserContext(), userID, id, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(tpl)
}

func (h *TemplateHandler) Delete(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}

	if err := h.templates.Delete(c.UserContext(), userID, id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Task template deleted"})
}

func (h *TemplateHandler) Reorder(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	if err := h.templates.Reorder(c.UserContext(), userID, req.Items); err != nil {
		return serviceError(c, err)
	}

	list, err := h.templates.List(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(list)
}
