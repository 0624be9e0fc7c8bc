package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/hugh/go-tracker/internal/jobs"
	"github.com/hugh/go-tracker/pkg/queue"
	"github.com/spf13/cobra"
)

func purgeTokensCmd(open Opener) *cobra.Command {
	var (
		olderThan time.Duration
		enqueue   bool
	)

	cmd := &cobra.Command{
		Use:   "purge-tokens",
		Short: "Delete refresh tokens that have expired",
		Long: `Runs the refresh token purge job once, synchronously.
With --older-than, only tokens that expired at least that long ago are removed.
With --enqueue, the job is handed to the worker queue instead.
The redis token store expires keys on its own, so nothing is purged there.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(ctx context.Context, app *App) error {
				before := time.Now().UTC().Add(-olderThan)

				if enqueue {
					task, err := jobs.NewPurgeRefreshTokensTask(jobs.PurgeRefreshTokensPayload{Before: before})
					if err != nil {
						return err
					}
					client := queue.NewClient(&app.Config.Redis)
					defer client.Close()

					info, err := client.EnqueueContext(ctx, task)
					if err != nil {
						return fmt.Errorf("enqueueing purge: %w", err)
					}
					printStep(cmd.OutOrStdout(), okLabel("ENQUEUED"), "%s on queue %s", info.ID, info.Queue)
					return nil
				}

				purged, err := jobs.NewHandler(app.TokenStore(), app.Logger).Purge(ctx, before)
				if err != nil {
					return err
				}

				label := okLabel("PURGED")
				if purged == 0 {
					label = skipLabel("NOTHING")
				}
				printStep(cmd.OutOrStdout(), label, "%d refresh tokens expired before %s", purged, before.Format(time.RFC3339))
				return nil
			})
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "only purge tokens expired for at least this long")
	cmd.Flags().BoolVar(&enqueue, "enqueue", false, "enqueue the purge for the worker instead of running it")
	return cmd
}
