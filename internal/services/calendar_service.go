package services

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/report"
	"github.com/google/uuid"
)

type CalendarService struct {
	days *DailyTaskService
}

func NewCalendarService(days *DailyTaskService) *CalendarService {
	return &CalendarService{days: days}
}

// Month returns the user's existing days in the given month, oldest first.
func (s *CalendarService) Month(ctx context.Context, userID uuid.UUID, year int, month time.Month) ([]models.DailyTask, error) {
	if month < time.January || month > time.December {
		return nil, validationErr("month must be between 1 and 12")
	}
	if year < 1 {
		return nil, validationErr("year must be positive")
	}
	first, last := MonthBounds(year, month)
	return s.days.ListRange(ctx, userID, first, last)
}

type SummaryQuery struct {
	From       time.Time
	To         time.Time
	Today      time.Time
	TemplateID *uuid.UUID
}

type Summary struct {
	Days         []report.Day
	Stats        report.Stats
	Streak       int
	TemplateRate *report.TemplateRate
}

// Summary aggregates [From, To]. The streak looks back from Today and is not
// limited to the range.
func (s *CalendarService) Summary(ctx context.Context, userID uuid.UUID, q SummaryQuery) (*Summary, error) {
	if q.To.Before(q.From) {
		return nil, validationErr("from must not be after to")
	}

	tasks, err := s.days.ListRange(ctx, userID, q.From, q.To)
	if err != nil {
		return nil, err
	}

	history, err := s.days.ListUpTo(ctx, userID, q.Today)
	if err != nil {
		return nil, err
	}

	out := &Summary{
		Days:   report.Days(tasks),
		Stats:  report.Summarize(tasks),
		Streak: report.Streak(history, q.Today),
	}
	if q.TemplateID != nil {
		rate := report.RateFor(tasks, *q.TemplateID)
		out.TemplateRate = &rate
	}
	return out, nil
}

// MonthBounds returns the first and last calendar day of a month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}
