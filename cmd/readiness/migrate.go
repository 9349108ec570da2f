package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"brightdesk-hq/readiness/pkg/assessment/storage"
	"brightdesk-hq/readiness/pkg/cli"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back PostgreSQL schema migrations",
	Long: `Apply or roll back the embedded PostgreSQL schema migrations.

Only the postgres backend uses migrations; the SQLite schema is created when
the store opens.

Examples:
  # Apply all pending migrations
  readiness migrate up

  # Roll back every migration
  readiness migrate down`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrations(cmd, "up")
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrations(cmd, "down")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}

func runMigrations(cmd *cobra.Command, direction string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Storage.Backend != "postgres" {
		return cli.NewConfigError("storage.backend",
			fmt.Sprintf("migrations apply to the postgres backend only, configured backend is %q", cfg.Storage.Backend))
	}
	logger, err := setupCommandLogging(cfg)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	pgCfg := postgresConfig(&cfg.Storage)
	pgCfg.AutoMigrate = false

	store, err := storage.NewPostgresStorage(commandContext(cmd), pgCfg)
	if err != nil {
		return cli.NewCommandError("migrate "+direction, err)
	}
	defer store.Close()

	if err := storage.MigratePostgres(store.DB(), direction); err != nil {
		return cli.NewCommandError("migrate "+direction, err)
	}

	logger.Info("migrations complete", "direction", direction)
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Migrations %s complete\n", direction)
	return nil
}
