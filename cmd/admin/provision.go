package main

import (
	"encoding/json"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/services"
	"github.com/spf13/cobra"
)

var (
	flagProvisionUser string
	flagProvisionFrom string
	flagProvisionTo   string
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Create daily tasks for every day in a range",
	RunE:  runProvision,
}

func init() {
	provisionCmd.Flags().StringVar(&flagProvisionUser, "user", "", "User id or username")
	provisionCmd.Flags().StringVar(&flagProvisionFrom, "from", "", "First day, YYYY-MM-DD")
	provisionCmd.Flags().StringVar(&flagProvisionTo, "to", "", "Last day, YYYY-MM-DD")
	for _, name := range []string{"user", "from", "to"} {
		_ = provisionCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(provisionCmd)
}

func runProvision(cmd *cobra.Command, _ []string) error {
	from, err := services.ParseDate(flagProvisionFrom)
	if err != nil {
		return err
	}
	to, err := services.ParseDate(flagProvisionTo)
	if err != nil {
		return err
	}
	if to.Before(from) {
		return fmt.Errorf("--to %s is before --from %s", flagProvisionTo, flagProvisionFrom)
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	ctx := cmd.Context()
	user, err := findUser(ctx, e.db, flagProvisionUser)
	if err != nil {
		return err
	}

	n, err := services.NewDailyTaskService(e.db).ProvisionRange(ctx, user.ID, from, to)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(dto.ProvisionResult{UserID: user.ID, Days: n}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
