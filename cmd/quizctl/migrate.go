package main

import (
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yourusername/streak-quiz-api/internal/config"
	"github.com/yourusername/streak-quiz-api/pkg/database"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
			if err != nil {
				return err
			}
			return database.MigrateDB(db, cfg.Database.MigrationsPath)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "force <version>",
		Short: "Clear a dirty migration state by forcing the version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := parseVersion(args[0])
			if err != nil {
				return err
			}
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if err := database.ForceMigrationVersion(cfg.Database.PostgresURL(), cfg.Database.MigrationsPath, version); err != nil {
				return err
			}
			log.Printf("Migration version forced to %d", version)
			return nil
		},
	})

	return cmd
}

// parseVersion допускает -1: golang-migrate трактует его как "нет версии"
func parseVersion(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v < -1 {
		return 0, fmt.Errorf("invalid migration version %q", s)
	}
	return v, nil
}
