package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const ownedByUser = "daily_task_id IN (SELECT id FROM daily_tasks WHERE user_id = ?)"

type CompletionService struct {
	db *gorm.DB
}

func NewCompletionService(db *gorm.DB) *CompletionService {
	return &CompletionService{db: db}
}

// SetCompletion stores completed as given. A nil value keeps the stored one.
// Completions are owned through their day.
func (s *CompletionService) SetCompletion(ctx context.Context, userID, id uuid.UUID, completed *bool) (*models.TaskCompletion, error) {
	db := s.db.WithContext(ctx)

	var tc models.TaskCompletion
	if err := db.Where(ownedByUser, userID).First(&tc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompletionNotFound
		}
		return nil, fmt.Errorf("failed to load completion: %w", err)
	}

	if completed != nil {
		if err := db.Model(&tc).Update("completed", *completed).Error; err != nil {
			return nil, fmt.Errorf("failed to update completion: %w", err)
		}
	}

	if err := db.Preload("TaskTemplate").First(&tc, "id = ?", tc.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload completion: %w", err)
	}
	return &tc, nil
}
