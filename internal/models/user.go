package models

import (
	"time"

	"github.com/google/uuid"
)

// User owns templates, days, spendings and diet meals.
type User struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username           string     `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Name               string     `gorm:"size:100;not null" json:"name"`
	Password           string     `gorm:"not null" json:"-"`
	Role               string     `gorm:"size:20;default:'user'" json:"role"`
	ChallengeStartDate *time.Time `gorm:"type:date" json:"challenge_start_date"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
