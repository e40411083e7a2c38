package main

import (
	"fmt"
	"strconv"

	"hustlehub/internal/config"
	"hustlehub/internal/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database schema operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending SQL migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(_ *config.Config, db *gorm.DB) error {
				if err := database.RunMigrations(cmd.Context(), db); err != nil {
					return fmt.Errorf("sql migrations failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "sql migrations applied")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the schema policy and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(cfg *config.Config, db *gorm.DB) error {
				status, err := database.GetSchemaStatus(cmd.Context(), db, cfg)
				if err != nil {
					return fmt.Errorf("schema status failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "mode=%s env=%s run_sql=%t run_auto=%t applied=%d pending=%d\n",
					status.Mode, status.Environment, status.WillRunSQL, status.WillRunAutoMigrate,
					len(status.AppliedVersions), len(status.PendingMigrations))
				for _, m := range status.PendingMigrations {
					fmt.Fprintf(cmd.OutOrStdout(), "pending: %s\n", m.String())
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down <version>",
		Short: "Roll back one applied migration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}
			return withStore(func(_ *config.Config, db *gorm.DB) error {
				if err := database.RollbackMigration(cmd.Context(), db, version); err != nil {
					return fmt.Errorf("rollback failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "rolled back migration %d\n", version)
				return nil
			})
		},
	})

	return cmd
}

// withStore opens the store without touching its schema and closes it after fn.
func withStore(fn func(cfg *config.Config, db *gorm.DB) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer database.Close(db)
	return fn(cfg, db)
}
