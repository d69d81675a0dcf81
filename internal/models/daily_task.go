package models

import (
	"time"

	"github.com/google/uuid"
)

// DailyTask is one user's calendar day. Date is stored date-only and is
// unique per user.
type DailyTask struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_daily_tasks_user_date" json:"user_id"`
	Date   time.Time `gorm:"type:date;not null;uniqueIndex:idx_daily_tasks_user_date" json:"date"`

	// Fixed-habit flags from before templates existed. Writable, never aggregated.
	Steps    bool `gorm:"not null" json:"steps"`
	Training bool `gorm:"not null" json:"training"`
	Diet     bool `gorm:"not null" json:"diet"`
	Book     bool `gorm:"not null" json:"book"`
	Learning bool `gorm:"not null" json:"learning"`
	Water    bool `gorm:"not null" json:"water"`

	TaskCompletions []TaskCompletion `gorm:"foreignKey:DailyTaskID;constraint:OnDelete:CASCADE" json:"task_completions"`
	Spendings       []Spending       `gorm:"foreignKey:DailyTaskID;constraint:OnDelete:CASCADE" json:"spendings"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	User            User             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TaskCompletion records whether a template was satisfied on a day.
type TaskCompletion struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	DailyTaskID    uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_task_completions_day_template" json:"daily_task_id"`
	TaskTemplateID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_task_completions_day_template;index" json:"task_template_id"`
	Completed      bool         `gorm:"not null" json:"completed"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	TaskTemplate   TaskTemplate `gorm:"foreignKey:TaskTemplateID;constraint:OnDelete:CASCADE" json:"task_template"`
}
