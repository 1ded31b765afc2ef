package cmd

import (
	"feedback-tool-backend/service"
	"feedback-tool-backend/store"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var withProvisioning bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the application tables",
	Long: `Create or update the profiles and feedback tables.

With --provision (postgres only) also installs the database functions, the
foreign keys from feedback to profiles and the trigger that creates a profile
for every new account.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&withProvisioning, "provision", false, "Also install functions, relations and triggers")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	db, closeDB, err := openDatabase()
	if err != nil {
		return err
	}
	defer closeDB()

	profiles := store.NewProfileStore(db)
	maintenance := service.NewMaintenanceService(db, store.NewAuthUserStore(db), profiles)
	if err := maintenance.Migrate(); err != nil {
		return err
	}
	log.Info("Tables migrated")

	if !withProvisioning {
		return nil
	}

	ctx := cmd.Context()
	for _, step := range []func() error{
		func() error { return maintenance.CreateFunctions(ctx) },
		func() error { return maintenance.SetupRelations(ctx) },
		func() error { return maintenance.SetupTriggers(ctx) },
	} {
		if err := step(); err != nil {
			return err
		}
	}
	log.Info("Database provisioned")
	return nil
}
