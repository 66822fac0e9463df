package main

import (
	"shareit/internal/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, closer, err := loadConfigAndLogger("migrate")
		if err != nil {
			return err
		}
		defer closeQuietly(closer)

		db, err := database.Open(cfg.Database, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Migrate(cmd.Context()); err != nil {
			return err
		}
		logger.Info().Str("driver", db.Driver()).Msg("schema is up to date")
		return nil
	},
}
