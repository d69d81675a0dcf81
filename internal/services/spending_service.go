package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/catalog"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/report"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/session"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SpendingService struct {
	db      *gorm.DB
	days    *DailyTaskService
	catalog *catalog.Catalog
}

func NewSpendingService(db *gorm.DB, days *DailyTaskService, cat *catalog.Catalog) *SpendingService {
	return &SpendingService{db: db, days: days, catalog: cat}
}

// Create logs a spending against a day. A day referenced by id must belong
// to the caller; a day referenced by date is provisioned on demand.
func (s *SpendingService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateSpendingRequest) (*models.Spending, error) {
	amount := float64(req.Amount)
	if !validAmount(amount) {
		return nil, ErrInvalidAmount
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return nil, validationErr("category is required")
	}

	db := s.db.WithContext(ctx)

	var dayID uuid.UUID
	switch {
	case req.DailyTaskID != nil:
		var task models.DailyTask
		if err := db.Select("id", "user_id").First(&task, "id = ?", *req.DailyTaskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDailyTaskNotFound
			}
			return nil, fmt.Errorf("failed to load daily task: %w", err)
		}
		if task.UserID != userID {
			return nil, ErrDailyTaskForbidden
		}
		dayID = task.ID
	case req.Date != "":
		date, err := ParseDate(req.Date)
		if err != nil {
			return nil, err
		}
		task, err := s.days.GetOrCreate(ctx, userID, date)
		if err != nil {
			return nil, err
		}
		dayID = task.ID
	default:
		return nil, validationErr("daily_task_id or date is required")
	}

	spending := models.Spending{
		ID:          uuid.New(),
		UserID:      userID,
		DailyTaskID: dayID,
		Amount:      amount,
		Category:    category,
		Description: trimOptional(req.Description),
	}
	if err := db.Omit("User").Create(&spending).Error; err != nil {
		return nil, fmt.Errorf("failed to create spending: %w", err)
	}
	return &spending, nil
}

// ListForDate returns the spendings of the user's day at date, newest first.
// A day that does not exist yields an empty list.
func (s *SpendingService) ListForDate(ctx context.Context, userID uuid.UUID, date time.Time) ([]models.Spending, error) {
	spendings := []models.Spending{}
	err := s.db.WithContext(ctx).
		Scopes(session.ForUser(userID)).
		Where("daily_task_id IN (SELECT id FROM daily_tasks WHERE user_id = ? AND date = ?)", userID, report.DateOnly(date)).
		Order("created_at DESC").
		Find(&spendings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list spendings: %w", err)
	}
	return spendings, nil
}

// Update applies only the supplied fields.
func (s *SpendingService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.UpdateSpendingRequest) (*models.Spending, error) {
	db := s.db.WithContext(ctx)

	spending, err := s.get(db, userID, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Amount != nil {
		if !validAmount(float64(*req.Amount)) {
			return nil, ErrInvalidAmount
		}
		updates["amount"] = float64(*req.Amount)
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return nil, validationErr("category must not be empty")
		}
		updates["category"] = category
	}
	if req.Description != nil {
		updates["description"] = trimOptional(req.Description)
	}

	if len(updates) > 0 {
		if err := db.Model(spending).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update spending: %w", err)
		}
	}
	return s.get(db, userID, id)
}

func (s *SpendingService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Scopes(session.ForUser(userID)).
		Delete(&models.Spending{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete spending: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSpendingNotFound
	}
	return nil
}

// Categories is the suggested vocabulary. It is not enforced on create.
func (s *SpendingService) Categories() []string {
	return s.catalog.SpendingCategories()
}

func (s *SpendingService) get(db *gorm.DB, userID, id uuid.UUID) (*models.Spending, error) {
	var spending models.Spending
	if err := db.Scopes(session.ForUser(userID)).First(&spending, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpendingNotFound
		}
		return nil, fmt.Errorf("failed to load spending: %w", err)
	}
	return &spending, nil
}

// trimOptional turns blank strings into NULL.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// validAmount rejects zero, negatives, NaN and infinities.
func validAmount(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
