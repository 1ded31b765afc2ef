package cmd

import (
	"errors"
	"fmt"

	"feedback-tool-backend/service"
	"feedback-tool-backend/store"

	"github.com/spf13/cobra"
)

var seedUserID string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create test colleagues and sample feedback",
	Long: `Create four test colleagues (skipping any that already exist) and three
sample feedback records between --user and the first two colleagues.

Requires postgres with the database functions installed (migrate --provision).`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedUserID, "user", "", "Account id that sends and receives the sample feedback")
}

func runSeed(cmd *cobra.Command, args []string) error {
	if seedUserID == "" {
		return errors.New("--user is required")
	}

	db, closeDB, err := openDatabase()
	if err != nil {
		return err
	}
	defer closeDB()

	profiles := store.NewProfileStore(db)
	feedback := service.NewFeedbackService(store.NewFeedbackStore(db), profiles, cfg.Location())
	result, err := service.NewSeedService(db, profiles, feedback).Seed(cmd.Context(), seedUserID)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d colleagues and %d feedback records\n", len(result.Users), result.Feedback)
	return nil
}
