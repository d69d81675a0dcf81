// Package testutil opens throwaway stores for tests.
package testutil

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/database"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database. A single connection
// keeps every query on the same in-memory database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// CreateUser inserts a bare user without templates.
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := models.User{
		ID:       uuid.New(),
		Username: username,
		Name:     username,
		Password: "not-a-real-hash",
		Role:     "user",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return &user
}

// CreateTemplate inserts an active template with the given sort order.
func CreateTemplate(t testing.TB, db *gorm.DB, userID uuid.UUID, name string, sortOrder int) *models.TaskTemplate {
	t.Helper()

	tpl := models.TaskTemplate{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Icon:      models.DefaultTemplateIcon,
		SortOrder: sortOrder,
		IsActive:  true,
	}
	if err := db.Omit("User").Create(&tpl).Error; err != nil {
		t.Fatalf("create template %s: %v", name, err)
	}
	return &tpl
}

// Day returns midnight UTC of the given calendar date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
