package main

import (
	"fmt"

	"github.com/jonathan/cv-uploader/internal/config"
	"github.com/jonathan/cv-uploader/internal/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the PostgreSQL document table",
	Long:  "Creates the cv_documents table and its index when the postgres backend is configured. Other backends need no migration.",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Backend != config.BackendPostgres {
		logger.Info().Str("backend", cfg.Backend).Msg("nothing to migrate")
		return nil
	}

	database, err := db.Connect(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.EnsureSchema(cmd.Context()); err != nil {
		return err
	}

	count, err := database.CountRecords(cmd.Context(), cfg.Collection)
	if err != nil {
		return err
	}
	logger.Info().Str("collection", cfg.Collection).Int64("records", count).Msg("schema ready")
	fmt.Println("Migration complete.")
	return nil
}
