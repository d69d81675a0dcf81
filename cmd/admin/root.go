package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/catalog"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/config"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/database"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/logging"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/models"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:           "admin",
	Short:         "Habit tracker maintenance commands",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// env is what every subcommand needs: config, an open store and the catalog.
type env struct {
	cfg *config.Config
	db  *gorm.DB
	cat *catalog.Catalog
}

func openEnv() (*env, error) {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, db: db, cat: cat}, nil
}

func (e *env) close() {
	_ = database.Close(e.db)
}

// findUser accepts a user id or a username.
func findUser(ctx context.Context, db *gorm.DB, ref string) (*models.User, error) {
	var user models.User
	q := db.WithContext(ctx)
	if id, err := uuid.Parse(ref); err == nil {
		q = q.Where("id = ?", id)
	} else {
		q = q.Where("username = ?", ref)
	}
	if err := q.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %q not found", ref)
		}
		return nil, err
	}
	return &user, nil
}
