package cmd

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wishcal/wishcal/internal/utils"
	"github.com/wishcal/wishcal/pkg/consume"
	"github.com/wishcal/wishcal/pkg/steam"
)

// consumeCmd polls the work queue and syncs wishlist calendars until
// interrupted.
var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Consume queued work items and sync wishlist calendars",
	RunE: func(cmd *cobra.Command, args []string) error {
		pollInterval, _ := cmd.Flags().GetDuration("poll-interval")
		batchMax, _ := cmd.Flags().GetInt("batch-max")

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		store, err := newArtifactStore(ctx)
		if err != nil {
			return err
		}

		fetcher, err := newFetcher(steam.DefaultTimeout)
		if err != nil {
			return err
		}

		q := newQueue()
		defer q.Close()

		cfg := consume.Config{
			Fetcher: fetcher,
			Store:   store,
			Repo:    db,
			Log:     utils.Log,
		}

		utils.Log.Info("Consumer started, waiting for work items.")
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			items, err := q.Receive(ctx, batchMax)
			if err != nil {
				utils.Log.Error("Failed to receive work items: ", err)
			} else if len(items) > 0 {
				res := consume.ProcessBatch(ctx, cfg, items)
				utils.Log.Infof("Batch done: %d synced, %d skipped, %d failed",
					len(res.Synced), res.Skipped, len(res.Errors))
			}
			select {
			case <-ctx.Done():
				utils.Log.Info("Consumer shutting down.")
				return nil
			case <-ticker.C:
			}
		}
	},
}

func init() {
	consumeCmd.Flags().Duration("poll-interval", 5*time.Second, "How often to poll the queue for due work items")
	consumeCmd.Flags().Int("batch-max", 50, "Maximum work items claimed per poll")
	rootCmd.AddCommand(consumeCmd)
}
