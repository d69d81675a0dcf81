package models

import (
	"time"

	"github.com/google/uuid"
)

// Spending carries its own UserID so ownership checks do not need the day.
type Spending struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	DailyTaskID uuid.UUID `gorm:"type:uuid;not null;index" json:"daily_task_id"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Category    string    `gorm:"size:100;not null" json:"category"`
	Description *string   `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	User        User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
