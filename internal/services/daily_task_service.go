package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/database"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/report"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/session"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DailyTaskService provisions and manages a user's days.
type DailyTaskService struct {
	db *gorm.DB
}

func NewDailyTaskService(db *gorm.DB) *DailyTaskService {
	return &DailyTaskService{db: db}
}

// GetOrCreate returns the user's day for date, creating it when absent and
// adding a completion for every active template that lacks one. Existing
// completions are never removed, even for templates deactivated since.
func (s *DailyTaskService) GetOrCreate(ctx context.Context, userID uuid.UUID, date time.Time) (*models.DailyTask, error) {
	day := report.DateOnly(date)
	db := s.db.WithContext(ctx)

	task, err := s.findByDate(db, userID, day)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		task, err = s.create(db, userID, day)
	}
	if err != nil {
		return nil, err
	}

	missing, err := s.backfill(db, task)
	if err != nil {
		return nil, err
	}
	// Missing rows may have been inserted by a concurrent request.
	if missing > 0 {
		if task, err = s.findByDate(db, userID, day); err != nil {
			return nil, fmt.Errorf("failed to reload daily task: %w", err)
		}
	}

	sortCompletions(task.TaskCompletions)
	return task, nil
}

// create inserts an empty day. Losing a race to a concurrent request shows up
// as a unique violation, which means the row now exists.
func (s *DailyTaskService) create(db *gorm.DB, userID uuid.UUID, day time.Time) (*models.DailyTask, error) {
	task := models.DailyTask{
		ID:     uuid.New(),
		UserID: userID,
		Date:   day,
	}

	if err := db.Omit(clause.Associations).Create(&task).Error; err != nil {
		if !database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("failed to create daily task: %w", err)
		}
		slog.Debug("daily task created concurrently, re-reading", "user_id", userID, "date", day.Format(dto.DateLayout))
	}

	found, err := s.findByDate(db, userID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily task: %w", err)
	}
	return found, nil
}

// backfill inserts completions for active templates the day lacks and
// reports how many were missing.
func (s *DailyTaskService) backfill(db *gorm.DB, task *models.DailyTask) (int, error) {
	var active []models.TaskTemplate
	if err := db.Scopes(session.ForUser(task.UserID)).
		Where("is_active = ?", true).
		Find(&active).Error; err != nil {
		return 0, fmt.Errorf("failed to load active templates: %w", err)
	}

	have := make(map[uuid.UUID]bool, len(task.TaskCompletions))
	for _, tc := range task.TaskCompletions {
		have[tc.TaskTemplateID] = true
	}

	var missing []models.TaskCompletion
	for _, tpl := range active {
		if have[tpl.ID] {
			continue
		}
		missing = append(missing, models.TaskCompletion{
			ID:             uuid.New(),
			DailyTaskID:    task.ID,
			TaskTemplateID: tpl.ID,
		})
	}
	if len(missing) == 0 {
		return 0, nil
	}

	err := db.Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&missing).Error
	if err != nil {
		return 0, fmt.Errorf("failed to backfill completions: %w", err)
	}
	return len(missing), nil
}

func (s *DailyTaskService) findByDate(db *gorm.DB, userID uuid.UUID, day time.Time) (*models.DailyTask, error) {
	var task models.DailyTask
	err := withDayRelations(db).
		Where("user_id = ? AND date = ?", userID, day).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Get loads a day by id without provisioning.
func (s *DailyTaskService) Get(ctx context.Context, userID, id uuid.UUID) (*models.DailyTask, error) {
	var task models.DailyTask
	err := withDayRelations(s.db.WithContext(ctx)).
		Scopes(session.ForUser(userID)).
		First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDailyTaskNotFound
		}
		return nil, fmt.Errorf("failed to load daily task: %w", err)
	}
	sortCompletions(task.TaskCompletions)
	return &task, nil
}

// UpdateFlags patches the fixed habit flags on a day.
func (s *DailyTaskService) UpdateFlags(ctx context.Context, userID, id uuid.UUID, req *dto.UpdateDailyTaskRequest) (*models.DailyTask, error) {
	task, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if cols := req.Columns(); len(cols) > 0 {
		if err := s.db.WithContext(ctx).Model(&models.DailyTask{ID: task.ID}).Updates(cols).Error; err != nil {
			return nil, fmt.Errorf("failed to update daily task: %w", err)
		}
	}

	return s.Get(ctx, userID, id)
}

// Delete removes a day with its completions and spendings.
func (s *DailyTaskService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task models.DailyTask
		if err := tx.Scopes(session.ForUser(userID)).First(&task, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDailyTaskNotFound
			}
			return err
		}

		if err := tx.Where("daily_task_id = ?", task.ID).Delete(&models.TaskCompletion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("daily_task_id = ?", task.ID).Delete(&models.Spending{}).Error; err != nil {
			return err
		}
		return tx.Delete(&task).Error
	})
}

// ListRange returns the user's existing days in [from, to], oldest first.
// It does not provision missing days.
func (s *DailyTaskService) ListRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.DailyTask, error) {
	var tasks []models.DailyTask
	err := withDayRelations(s.db.WithContext(ctx)).
		Scopes(session.ForUser(userID)).
		Where("date >= ? AND date <= ?", report.DateOnly(from), report.DateOnly(to)).
		Order("date ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list daily tasks: %w", err)
	}
	for i := range tasks {
		sortCompletions(tasks[i].TaskCompletions)
	}
	return tasks, nil
}

// ListUpTo returns every day dated on or before until.
func (s *DailyTaskService) ListUpTo(ctx context.Context, userID uuid.UUID, until time.Time) ([]models.DailyTask, error) {
	var tasks []models.DailyTask
	err := s.db.WithContext(ctx).
		Preload("TaskCompletions").
		Scopes(session.ForUser(userID)).
		Where("date <= ?", report.DateOnly(until)).
		Order("date DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list daily tasks: %w", err)
	}
	return tasks, nil
}

// ProvisionRange runs GetOrCreate for each date in [from, to].
func (s *DailyTaskService) ProvisionRange(ctx context.Context, userID uuid.UUID, from, to time.Time) (int, error) {
	from, to = report.DateOnly(from), report.DateOnly(to)
	if to.Before(from) {
		return 0, validationErr("from must not be after to")
	}

	n := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if _, err := s.GetOrCreate(ctx, userID, d); err != nil {
			return n, fmt.Errorf("provision %s: %w", d.Format(dto.DateLayout), err)
		}
		n++
	}
	return n, nil
}

func withDayRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("TaskCompletions.TaskTemplate").
		Preload("Spendings", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		})
}

// sortCompletions orders by template sort order, then name for ties.
func sortCompletions(tcs []models.TaskCompletion) {
	sort.SliceStable(tcs, func(i, j int) bool {
		a, b := tcs[i].TaskTemplate, tcs[j].TaskTemplate
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.Name < b.Name
	})
}
