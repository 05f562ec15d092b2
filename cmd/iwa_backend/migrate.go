package main

import (
	"log/slog"

	"github.com/SscSPs/incentive_wallet_app/pkg/database"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(database.MigrateUp)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back every migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(database.MigrateDown)
	},
}

func runMigrate(direction database.MigrationDirection) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	logger.Info("Running database migrations...", slog.String("direction", string(direction)))
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, direction, logger); err != nil {
		logger.Error("Migration failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}
