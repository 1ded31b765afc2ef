package cmd

import (
	"fmt"
	"os"

	"feedback-tool-backend/config"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var cfg config.AppConfig

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "feedback-tool",
	Short: "Peer feedback web application",
	Long: `Peer feedback web application.

Signed-in users browse colleagues, send feedback or ask for it, and see
everything they sent or received on their home page.`,
	SilenceUsage:      true,
	RunE:              runServe,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.LoadConfig(); err != nil {
			return err
		}
		cfg.SetupLogging()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(fixProfilesCmd)
}

// Execute runs the command line; without a subcommand it serves HTTP.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openDatabase() (*gorm.DB, func(), error) {
	db, err := config.ConnectDatabase(&cfg)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		sqlDB, err := db.DB()
		if err != nil {
			return
		}
		if err := sqlDB.Close(); err != nil {
			log.WithError(err).Warn("Error closing database")
		}
	}
	return db, closeFn, nil
}
