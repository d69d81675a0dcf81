package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DietMeal is plan data for a weekday (1 = Monday ... 7 = Sunday).
type DietMeal struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID                   `gorm:"type:uuid;not null;index:idx_diet_meals_user_day" json:"user_id"`
	Day         int                         `gorm:"not null;index:idx_diet_meals_user_day" json:"day"`
	MealType    string                      `gorm:"size:50;not null" json:"meal_type"`
	Name        string                      `gorm:"size:200;not null" json:"name"`
	Kcal        float64                     `gorm:"not null" json:"kcal"`
	Protein     float64                     `gorm:"not null" json:"protein"`
	Fat         float64                     `gorm:"not null" json:"fat"`
	Carbs       float64                     `gorm:"not null" json:"carbs"`
	Ingredients datatypes.JSONSlice[string] `json:"ingredients"`
	SortOrder   int                         `gorm:"not null" json:"sort_order"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
	User        User                        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
