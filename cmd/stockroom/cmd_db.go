package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/stockroom/pkg/app"
	"github.com/shashiranjanraj/stockroom/pkg/database"
)

// withDB connects, runs fn and disconnects.
func withDB(cmd *cobra.Command, fn func(ctx context.Context) error) error {
	ctx := cmd.Context()
	if err := app.Connect(ctx); err != nil {
		return err
	}
	defer database.Disconnect(context.Background()) //nolint:errcheck
	return fn(ctx)
}

// stockroom migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context) error {
			cmd.Println("Running migrations…")
			return app.Migrate(ctx, cmd.OutOrStdout())
		})
	},
}

// stockroom migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context) error {
			cmd.Println("Rolling back last batch…")
			return app.Rollback(ctx, cmd.OutOrStdout())
		})
	},
}

// stockroom migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context) error {
			return app.MigrationStatus(ctx, cmd.OutOrStdout())
		})
	},
}

// stockroom seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample product catalogue",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := app.Boot(ctx)
		if err != nil {
			return err
		}
		defer a.Shutdown(context.Background()) //nolint:errcheck

		cmd.Println("Running seeders…")
		return a.Seed(ctx, cmd.OutOrStdout())
	},
}
