package main

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/services"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	flagChallengeUser string
	flagChallengeDate string
)

var challengeCmd = &cobra.Command{
	Use:   "set-challenge-start",
	Short: "Correct the challenge start date for one user or everyone",
	RunE:  runChallenge,
}

func init() {
	challengeCmd.Flags().StringVar(&flagChallengeUser, "user", "", "User id or username (default: all users)")
	challengeCmd.Flags().StringVar(&flagChallengeDate, "date", "", "Start date, YYYY-MM-DD")
	_ = challengeCmd.MarkFlagRequired("date")
	rootCmd.AddCommand(challengeCmd)
}

func runChallenge(cmd *cobra.Command, _ []string) error {
	date, err := services.ParseDate(flagChallengeDate)
	if err != nil {
		return err
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	ctx := cmd.Context()
	var target *uuid.UUID
	if flagChallengeUser != "" {
		user, err := findUser(ctx, e.db, flagChallengeUser)
		if err != nil {
			return err
		}
		target = &user.ID
	}

	svc := services.NewAuthService(e.db, e.cfg, e.cat)
	n, err := svc.SetChallengeStartDate(ctx, target, date)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "challenge start set to %s for %d user(s)\n", date.Format(dto.DateLayout), n)
	return nil
}
