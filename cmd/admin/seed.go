package main

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/services"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed-templates",
	Short: "Give users without templates the default set",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	ctx := cmd.Context()
	var users []models.User
	if err := e.db.WithContext(ctx).Select("id", "username").Order("username").Find(&users).Error; err != nil {
		return err
	}

	svc := services.NewTemplateService(e.db, e.cat)
	seeded := 0
	for _, u := range users {
		n, err := svc.SeedDefaults(ctx, u.ID)
		if err != nil {
			return fmt.Errorf("seed %s: %w", u.Username, err)
		}
		if n > 0 {
			seeded++
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d templates\n", u.Username, n)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d of %d users\n", seeded, len(users))
	return nil
}
