package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/catalog"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/database"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/session"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TemplateService struct {
	db      *gorm.DB
	catalog *catalog.Catalog
}

func NewTemplateService(db *gorm.DB, cat *catalog.Catalog) *TemplateService {
	return &TemplateService{db: db, catalog: cat}
}

func (s *TemplateService) List(ctx context.Context, userID uuid.UUID) ([]models.TaskTemplate, error) {
	templates := []models.TaskTemplate{}
	err := s.db.WithContext(ctx).
		Scopes(session.ForUser(userID)).
		Order("sort_order ASC, name ASC").
		Find(&templates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// Create adds a template. Icon defaults to CheckCircle, is_active to true and
// sort_order to one past the user's current maximum.
func (s *TemplateService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateTemplateRequest) (*models.TaskTemplate, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationErr("name is required")
	}

	db := s.db.WithContext(ctx)

	tpl := models.TaskTemplate{
		ID:       uuid.New(),
		UserID:   userID,
		Name:     name,
		Icon:     strings.TrimSpace(req.Icon),
		IsActive: true,
	}
	if tpl.Icon == "" {
		tpl.Icon = models.DefaultTemplateIcon
	}
	if req.IsActive != nil {
		tpl.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		tpl.SortOrder = *req.SortOrder
	} else {
		var maxOrder int
		if err := db.Model(&models.TaskTemplate{}).
			Scopes(session.ForUser(userID)).
			Select("COALESCE(MAX(sort_order), 0)").
			Scan(&maxOrder).Error; err != nil {
			return nil, fmt.Errorf("failed to read sort order: %w", err)
		}
		tpl.SortOrder = maxOrder + 1
	}

	if err := db.Omit("User").Create(&tpl).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrTemplateNameTaken
		}
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return &tpl, nil
}

func (s *TemplateService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.UpdateTemplateRequest) (*models.TaskTemplate, error) {
	db := s.db.WithContext(ctx)

	tpl, err := s.get(db, userID, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validationErr("name must not be empty")
		}
		updates["name"] = name
	}
	if req.Icon != nil {
		icon := strings.TrimSpace(*req.Icon)
		if icon == "" {
			icon = models.DefaultTemplateIcon
		}
		updates["icon"] = icon
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := db.Model(tpl).Updates(updates).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return nil, ErrTemplateNameTaken
			}
			return nil, fmt.Errorf("failed to update template: %w", err)
		}
	}
	return s.get(db, userID, id)
}

// Delete removes the template and its completions on every day.
func (s *TemplateService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tpl, err := s.get(tx, userID, id)
		if err != nil {
			return err
		}
		if err := tx.Where("task_template_id = ?", tpl.ID).Delete(&models.TaskCompletion{}).Error; err != nil {
			return err
		}
		return tx.Delete(tpl).Error
	})
}

// Reorder applies every sort order in one transaction. An id the user does
// not own aborts the whole batch.
func (s *TemplateService) Reorder(ctx context.Context, userID uuid.UUID, items []dto.ReorderItem) error {
	if len(items) == 0 {
		return validationErr("items must not be empty")
	}
	for _, it := range items {
		if it.ID == uuid.Nil {
			return validationErr("every item needs an id")
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, it := range items {
			res := tx.Model(&models.TaskTemplate{}).
				Where("id = ? AND user_id = ?", it.ID, userID).
				Update("sort_order", it.SortOrder)
			if res.Error != nil {
				return fmt.Errorf("failed to reorder templates: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return ErrTemplateNotFound
			}
		}
		return nil
	})
}

// SeedDefaults gives a user the catalog templates when they have none.
// It returns the number of templates created.
func (s *TemplateService) SeedDefaults(ctx context.Context, userID uuid.UUID) (int, error) {
	var created int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.TaskTemplate{}).Scopes(session.ForUser(userID)).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		n, err := seedTemplates(tx, userID, s.catalog.DefaultTemplates())
		created = n
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to seed templates: %w", err)
	}
	return created, nil
}

func (s *TemplateService) get(db *gorm.DB, userID, id uuid.UUID) (*models.TaskTemplate, error) {
	var tpl models.TaskTemplate
	if err := db.Scopes(session.ForUser(userID)).First(&tpl, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return &tpl, nil
}

func seedTemplates(tx *gorm.DB, userID uuid.UUID, seeds []catalog.TemplateSeed) (int, error) {
	if len(seeds) == 0 {
		return 0, nil
	}
	templates := make([]models.TaskTemplate, 0, len(seeds))
	for _, seed := range seeds {
		icon := seed.Icon
		if icon == "" {
			icon = models.DefaultTemplateIcon
		}
		templates = append(templates, models.TaskTemplate{
			ID:        uuid.New(),
			UserID:    userID,
			Name:      seed.Name,
			Icon:      icon,
			SortOrder: seed.SortOrder,
			IsActive:  true,
		})
	}
	if err := tx.Omit("User").Create(&templates).Error; err != nil {
		return 0, err
	}
	return len(templates), nil
}
