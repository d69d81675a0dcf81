package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/session"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DietService manages the weekly meal plan. Days run 1 (Monday) to 7.
type DietService struct {
	db *gorm.DB
}

func NewDietService(db *gorm.DB) *DietService {
	return &DietService{db: db}
}

// List returns the plan ordered by day and sort order, optionally for one day.
func (s *DietService) List(ctx context.Context, userID uuid.UUID, day *int) ([]models.DietMeal, error) {
	q := s.db.WithContext(ctx).Scopes(session.ForUser(userID))
	if day != nil {
		if err := validateWeekday(*day); err != nil {
			return nil, err
		}
		q = q.Where("day = ?", *day)
	}

	meals := []models.DietMeal{}
	if err := q.Order("day ASC, sort_order ASC").Find(&meals).Error; err != nil {
		return nil, fmt.Errorf("failed to list diet meals: %w", err)
	}
	return meals, nil
}

func (s *DietService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateDietMealRequest) (*models.DietMeal, error) {
	if err := validateWeekday(req.Day); err != nil {
		return nil, err
	}
	mealType := strings.TrimSpace(req.MealType)
	name := strings.TrimSpace(req.Name)
	if mealType == "" || name == "" {
		return nil, validationErr("meal_type and name are required")
	}

	ingredients := req.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}

	meal := models.DietMeal{
		ID:          uuid.New(),
		UserID:      userID,
		Day:         req.Day,
		MealType:    mealType,
		Name:        name,
		Kcal:        req.Kcal,
		Protein:     req.Protein,
		Fat:         req.Fat,
		Carbs:       req.Carbs,
		Ingredients: datatypes.JSONSlice[string](ingredients),
		SortOrder:   req.SortOrder,
	}
	if err := s.db.WithContext(ctx).Omit("User").Create(&meal).Error; err != nil {
		return nil, fmt.Errorf("failed to create diet meal: %w", err)
	}
	return &meal, nil
}

func (s *DietService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.UpdateDietMealRequest) (*models.DietMeal, error) {
	db := s.db.WithContext(ctx)

	meal, err := s.get(db, userID, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Day != nil {
		if err := validateWeekday(*req.Day); err != nil {
			return nil, err
		}
		updates["day"] = *req.Day
	}
	if req.MealType != nil {
		v := strings.TrimSpace(*req.MealType)
		if v == "" {
			return nil, validationErr("meal_type must not be empty")
		}
		updates["meal_type"] = v
	}
	if req.Name != nil {
		v := strings.TrimSpace(*req.Name)
		if v == "" {
			return nil, validationErr("name must not be empty")
		}
		updates["name"] = v
	}
	if req.Kcal != nil {
		updates["kcal"] = *req.Kcal
	}
	if req.Protein != nil {
		updates["protein"] = *req.Protein
	}
	if req.Fat != nil {
		updates["fat"] = *req.Fat
	}
	if req.Carbs != nil {
		updates["carbs"] = *req.Carbs
	}
	if req.Ingredients != nil {
		ingredients := *req.Ingredients
		if ingredients == nil {
			ingredients = []string{}
		}
		updates["ingredients"] = datatypes.JSONSlice[string](ingredients)
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}

	if len(updates) > 0 {
		if err := db.Model(meal).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update diet meal: %w", err)
		}
	}
	return s.get(db, userID, id)
}

func (s *DietService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Scopes(session.ForUser(userID)).
		Delete(&models.DietMeal{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete diet meal: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrDietMealNotFound
	}
	return nil
}

func (s *DietService) get(db *gorm.DB, userID, id uuid.UUID) (*models.DietMeal, error) {
	var meal models.DietMeal
	if err := db.Scopes(session.ForUser(userID)).First(&meal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDietMealNotFound
		}
		return nil, fmt.Errorf("failed to load diet meal: %w", err)
	}
	return &meal, nil
}

func validateWeekday(day int) error {
	if day < 1 || day > 7 {
		return validationErr("day must be between 1 and 7")
	}
	return nil
}
