package main

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if err := database.Migrate(e.db); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
	return nil
}
