package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskTemplate is a user-defined recurring habit. Names are unique per user.
type TaskTemplate struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_task_templates_user_name" json:"user_id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex:idx_task_templates_user_name" json:"name"`
	Icon      string    `gorm:"size:50;not null" json:"icon"`
	SortOrder int       `gorm:"not null;index" json:"sort_order"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

const DefaultTemplateIcon = "CheckCircle"
