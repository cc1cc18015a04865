package main

import (
	"fmt"

	"travelbot/internal/session"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the wizard_events audit table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config load failed: %w", err)
		}
		if !cfg.Database.Postgres.Enabled() {
			return fmt.Errorf("database.postgres.host is not configured")
		}
		zapLog, log := newLogger(cfg)
		defer zapLog.Sync()

		pg, err := connectPostgres(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer pg.Close()

		if err := session.Migrate(cmd.Context(), pg.DB); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		log.Info("audit schema is up to date", nil)
		return nil
	},
}
