// Package report aggregates days into completion percentages, statuses,
// streaks and spending totals. It never reads the clock; callers pass today.
package report

import (
	"sort"
	"time"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/models"
	"github.com/google/uuid"
)

type Status string

const (
	StatusPerfect Status = "perfect"
	StatusGood    Status = "good"
	StatusPartial Status = "partial"
	StatusLow     Status = "low"
	StatusZero    Status = "zero"
)

type Completion struct {
	Completed  int     `json:"completed"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// Day is the per-day view used by calendars and summaries.
type Day struct {
	DailyTaskID uuid.UUID `json:"daily_task_id"`
	Date        time.Time `json:"date"`
	Completion
	Status Status  `json:"status"`
	Spent  float64 `json:"spent"`
}

type Stats struct {
	DayCount          int                `json:"day_count"`
	PerfectDays       int                `json:"perfect_days"`
	GoodDays          int                `json:"good_days"`
	TotalSpent        float64            `json:"total_spent"`
	SpentByCategory   map[string]float64 `json:"spent_by_category"`
	AverageCompletion float64            `json:"average_completion"`
}

type TemplateRate struct {
	TemplateID uuid.UUID `json:"template_id"`
	Completed  int       `json:"completed"`
	Total      int       `json:"total"`
	Rate       float64   `json:"rate"`
}

// CompletionOf counts checked completions against all completion rows.
func CompletionOf(day models.DailyTask) Completion {
	c := Completion{Total: len(day.TaskCompletions)}
	for _, tc := range day.TaskCompletions {
		if tc.Completed {
			c.Completed++
		}
	}
	if c.Total > 0 {
		c.Percentage = float64(c.Completed) / float64(c.Total) * 100
	}
	return c
}

// Classify buckets a day: 100 perfect, [75,100) good, [25,75) partial,
// (0,25) low, otherwise zero.
func Classify(c Completion) Status {
	switch {
	case c.Total == 0 || c.Percentage <= 0:
		return StatusZero
	case c.Percentage >= 100:
		return StatusPerfect
	case c.Percentage >= 75:
		return StatusGood
	case c.Percentage >= 25:
		return StatusPartial
	default:
		return StatusLow
	}
}

func SpentOn(day models.DailyTask) float64 {
	var total float64
	for _, s := range day.Spendings {
		total += s.Amount
	}
	return total
}

// Days builds the per-day view in the order given.
func Days(tasks []models.DailyTask) []Day {
	out := make([]Day, 0, len(tasks))
	for _, t := range tasks {
		c := CompletionOf(t)
		out = append(out, Day{
			DailyTaskID: t.ID,
			Date:        t.Date,
			Completion:  c,
			Status:      Classify(c),
			Spent:       SpentOn(t),
		})
	}
	return out
}

// Summarize computes aggregate stats. Days without completions count as 0%
// in the average.
func Summarize(tasks []models.DailyTask) Stats {
	stats := Stats{
		DayCount:        len(tasks),
		SpentByCategory: make(map[string]float64),
	}

	var pctSum float64
	for _, t := range tasks {
		c := CompletionOf(t)
		pctSum += c.Percentage

		switch Classify(c) {
		case StatusPerfect:
			stats.PerfectDays++
		case StatusGood:
			stats.GoodDays++
		}

		for _, s := range t.Spendings {
			stats.TotalSpent += s.Amount
			stats.SpentByCategory[s.Category] += s.Amount
		}
	}

	if len(tasks) > 0 {
		stats.AverageCompletion = pctSum / float64(len(tasks))
	}
	return stats
}

// Streak counts consecutive days with a nonzero completion, walking back from
// the most recent day on or before today. It stops at the first missing date
// or zero day, and is 0 when the most recent day is older than yesterday.
func Streak(tasks []models.DailyTask, today time.Time) int {
	today = DateOnly(today)

	days := make([]models.DailyTask, 0, len(tasks))
	for _, t := range tasks {
		if !DateOnly(t.Date).After(today) {
			days = append(days, t)
		}
	}
	if len(days) == 0 {
		return 0
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.After(days[j].Date)
	})

	expected := DateOnly(days[0].Date)
	if expected.Before(today.AddDate(0, 0, -1)) {
		return 0
	}

	streak := 0
	for _, d := range days {
		if !DateOnly(d.Date).Equal(expected) {
			break
		}
		if CompletionOf(d).Percentage <= 0 {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	return streak
}

// RateFor reports how often a template was completed on the days where it
// has a completion row at all.
func RateFor(tasks []models.DailyTask, templateID uuid.UUID) TemplateRate {
	rate := TemplateRate{TemplateID: templateID}
	for _, t := range tasks {
		for _, tc := range t.TaskCompletions {
			if tc.TaskTemplateID != templateID {
				continue
			}
			rate.Total++
			if tc.Completed {
				rate.Completed++
			}
			break
		}
	}
	if rate.Total > 0 {
		rate.Rate = float64(rate.Completed) / float64(rate.Total) * 100
	}
	return rate
}

// FilterRange keeps days whose date falls within [from, to], inclusive.
func FilterRange(tasks []models.DailyTask, from, to time.Time) []models.DailyTask {
	from, to = DateOnly(from), DateOnly(to)
	out := make([]models.DailyTask, 0, len(tasks))
	for _, t := range tasks {
		d := DateOnly(t.Date)
		if d.Before(from) || d.After(to) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// DateOnly strips the time of day, keeping the calendar date of t.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
