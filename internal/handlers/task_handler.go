package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/services"
	"github.com/gofiber/fiber/v2"
)

// TaskHandler serves days: provisioning by date, flags, deletion.
type TaskHandler struct {
	days        *services.DailyTaskService
	completions *services.CompletionService
	clock       Clock
}

func NewTaskHandler(days *services.DailyTaskService, completions *services.CompletionService, clock Clock) *TaskHandler {
	return &TaskHandler{days: days, completions: completions, clock: clock}
}

// Today provisions the day named by ?date=, or today when it is absent.
func (h *TaskHandler) Today(c *fiber.Ctx) error {
	date := h.clock.today()
	if q := c.Query("date"); q != "" {
		d, err := services.ParseDate(q)
		if err != nil {
			return serviceError(c, err)
		}
		date = d
	}
	return h.provision(c, date)
}

// ByDate is Today with a mandatory date.
func (h *TaskHandler) ByDate(c *fiber.Ctx) error {
	date, err := services.ParseDate(c.Query("date"))
	if err != nil {
		return serviceError(c, err)
	}
	return h.provision(c, date)
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateDailyTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	date, err := services.ParseDate(req.Date)
	if err != nil {
		return serviceError(c, err)
	}
	return h.provision(c, date)
}

func (h *TaskHandler) provision(c *fiber.Ctx, date time.Time) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	task, err := h.days.GetOrCreate(c.UserContext(), userID, date)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.NewDailyTaskResponse(task))
}

func (h *TaskHandler) Get(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}

	task, err := h.days.Get(c.UserContext(), userID, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.NewDailyTaskResponse(task))
}

func (h *TaskHandler) Update(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}

	var req dto.UpdateDailyTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	task, err := h.days.UpdateFlags(c.UserContext(), userID, id, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.NewDailyTaskResponse(task))
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}

	if err := h.days.Delete(c.UserContext(), userID, id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Daily task deleted"})
}

// SetCompletion handles PATCH /task-completions/:id.
func (h *TaskHandler) SetCompletion(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}

	var req dto.UpdateCompletionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	tc, err := h.completions.SetCompletion(c.UserContext(), userID, id, req.Completed)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(tc)
}
