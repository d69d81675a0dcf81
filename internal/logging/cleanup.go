package logging

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/models"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartCleanup schedules a daily purge of system_logs older than
// retentionDays. Stop the returned scheduler on shutdown.
func StartCleanup(db *gorm.DB, retentionDays int) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(time.UTC))
	_, err := c.AddFunc("@daily", func() {
		deleted, err := Cleanup(db, retentionDays, time.Now())
		if err != nil {
			slog.Error("log cleanup failed", "error", err)
			return
		}
		if deleted > 0 {
			slog.Info("log cleanup completed", "deleted", deleted)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule log cleanup: %w", err)
	}
	c.Start()
	return c, nil
}

// Cleanup deletes log rows older than retentionDays before now.
func Cleanup(db *gorm.DB, retentionDays int, now time.Time) (int64, error) {
	cutoff := now.AddDate(0, 0, -retentionDays)
	res := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return res.RowsAffected, res.Error
}
