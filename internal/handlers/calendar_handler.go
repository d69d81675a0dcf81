package handlers

import (
	"math"
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/report"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CalendarHandler struct {
	calendar *services.CalendarService
	clock    Clock
}

func NewCalendarHandler(calendar *services.CalendarService, clock Clock) *CalendarHandler {
	return &CalendarHandler{calendar: calendar, clock: clock}
}

// Month handles GET /calendar?month=&year=. Both default to the current month.
func (h *CalendarHandler) Month(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	today := h.clock.today()
	year, month := today.Year(), int(today.Month())
	var err error
	if q := c.Query("year"); q != "" {
		if year, err = strconv.Atoi(q); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "year must be a number")
		}
	}
	if q := c.Query("month"); q != "" {
		if month, err = strconv.Atoi(q); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "month must be a number")
		}
	}

	tasks, err := h.calendar.Month(c.UserContext(), userID, year, time.Month(month))
	if err != nil {
		return serviceError(c, err)
	}

	resp := dto.CalendarMonthResponse{Year: year, Month: month, Days: make([]dto.CalendarDay, 0, len(tasks))}
	for i, day := range report.Days(tasks) {
		resp.Days = append(resp.Days, dto.CalendarDay{Day: day, Task: tasks[i]})
	}
	return c.JSON(resp)
}

// Summary handles GET /calendar/summary?from=&to=&today=&template_id=.
func (h *CalendarHandler) Summary(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	today := h.clock.today()
	from, to := services.MonthBounds(today.Year(), today.Month())

	dates := []struct {
		param string
		dst   *time.Time
	}{
		{"today", &today},
		{"from", &from},
		{"to", &to},
	}
	for _, d := range dates {
		q := c.Query(d.param)
		if q == "" {
			continue
		}
		parsed, err := services.ParseDate(q)
		if err != nil {
			return serviceError(c, err)
		}
		*d.dst = parsed
	}

	query := services.SummaryQuery{From: from, To: to, Today: today}
	if q := c.Query("template_id"); q != "" {
		id, err := uuid.Parse(q)
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "Invalid template_id")
		}
		query.TemplateID = &id
	}

	summary, err := h.calendar.Summary(c.UserContext(), userID, query)
	if err != nil {
		return serviceError(c, err)
	}

	stats := summary.Stats
	stats.AverageCompletion = round2(stats.AverageCompletion)
	stats.TotalSpent = round2(stats.TotalSpent)
	for k, v := range stats.SpentByCategory {
		stats.SpentByCategory[k] = round2(v)
	}

	resp := dto.CalendarSummaryResponse{
		From:   from.Format(dto.DateLayout),
		To:     to.Format(dto.DateLayout),
		Today:  today.Format(dto.DateLayout),
		Days:   summary.Days,
		Stats:  stats,
		Streak: summary.Streak,
	}
	if summary.TemplateRate != nil {
		rate := *summary.TemplateRate
		rate.Rate = round2(rate.Rate)
		resp.TemplateRate = &rate
	}
	return c.JSON(resp)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
