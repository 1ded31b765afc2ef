package cmd

import (
	"fmt"

	"feedback-tool-backend/service"
	"feedback-tool-backend/store"

	"github.com/spf13/cobra"
)

var fixProfilesCmd = &cobra.Command{
	Use:   "fix-profiles",
	Short: "Copy role, location and name from account metadata onto profiles",
	RunE:  runFixProfiles,
}

func runFixProfiles(cmd *cobra.Command, args []string) error {
	db, closeDB, err := openDatabase()
	if err != nil {
		return err
	}
	defer closeDB()

	profiles := store.NewProfileStore(db)
	results, err := service.NewMaintenanceService(db, store.NewAuthUserStore(db), profiles).RepairProfiles(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, d := range results.Details {
		fmt.Fprintln(out, d)
	}
	fmt.Fprintf(out, "Updated: %d, errors: %d\n", results.Updated, results.Errors)
	return nil
}
