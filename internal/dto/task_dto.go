package dto

import (
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/report"
	"github.com/google/uuid"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

type CreateDailyTaskRequest struct {
	Date string `json:"date"`
}

// UpdateDailyTaskRequest patches the fixed habit flags. Omitted fields keep
// their stored value.
type UpdateDailyTaskRequest struct {
	Steps    *bool `json:"steps"`
	Training *bool `json:"training"`
	Diet     *bool `json:"diet"`
	Book     *bool `json:"book"`
	Learning *bool `json:"learning"`
	Water    *bool `json:"water"`
}

// Columns returns the provided flags keyed by column name.
func (r UpdateDailyTaskRequest) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	set := func(name string, v *bool) {
		if v != nil {
			cols[name] = *v
		}
	}
	set("steps", r.Steps)
	set("training", r.Training)
	set("diet", r.Diet)
	set("book", r.Book)
	set("learning", r.Learning)
	set("water", r.Water)
	return cols
}

type UpdateCompletionRequest struct {
	Completed *bool `json:"completed"`
}

// DailyTaskResponse is a day plus its computed completion.
type DailyTaskResponse struct {
	models.DailyTask
	Completion report.Completion `json:"completion"`
	Status     report.Status     `json:"status"`
}

func NewDailyTaskResponse(t *models.DailyTask) DailyTaskResponse {
	c := report.CompletionOf(*t)
	return DailyTaskResponse{
		DailyTask:  *t,
		Completion: c,
		Status:     report.Classify(c),
	}
}

type CalendarDay struct {
	report.Day
	Task models.DailyTask `json:"task"`
}

type CalendarMonthResponse struct {
	Year  int           `json:"year"`
	Month int           `json:"month"`
	Days  []CalendarDay `json:"days"`
}

type CalendarSummaryResponse struct {
	From         string               `json:"from"`
	To           string               `json:"to"`
	Today        string               `json:"today"`
	Days         []report.Day         `json:"days"`
	Stats        report.Stats         `json:"stats"`
	Streak       int                  `json:"streak"`
	TemplateRate *report.TemplateRate `json:"template_rate,omitempty"`
}

type ProvisionResult struct {
	UserID uuid.UUID `json:"user_id"`
	Days   int       `json:"days"`
}
