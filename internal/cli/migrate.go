package cli

import (
	"context"
	"fmt"

	"github.com/hugh/go-tracker/internal/database"
	"github.com/spf13/cobra"
)

func migrateCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the tracker schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(ctx context.Context, app *App) error {
				if err := database.AutoMigrate(app.DB.WithContext(ctx)); err != nil {
					return fmt.Errorf("migrating: %w", err)
				}
				printStep(cmd.OutOrStdout(), okLabel("MIGRATED"), "%d tables", len(database.Models()))
				return nil
			})
		},
	}
}
