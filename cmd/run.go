package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wishcal/wishcal/internal/utils"
	"github.com/wishcal/wishcal/pkg/consume"
	"github.com/wishcal/wishcal/pkg/dispatch"
	"github.com/wishcal/wishcal/pkg/queue"
	"github.com/wishcal/wishcal/pkg/steam"
)

// runCmd runs the whole pipeline in one process: a periodic dispatcher, an
// in-memory queue, and a consumer loop. Meant for small deployments and
// local use, where redis and separate workers are overkill.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run dispatcher and consumer together in a single process",
	RunE: func(cmd *cobra.Command, args []string) error {
		tickInterval, _ := cmd.Flags().GetDuration("tick-interval")
		pollInterval, _ := cmd.Flags().GetDuration("poll-interval")
		batchMax, _ := cmd.Flags().GetInt("batch-max")

		batchSize, delay, err := dispatch.ParseTickConfig(
			viper.GetString("dispatch.batchsize"),
			viper.GetString("dispatch.delayseconds"),
		)
		if err != nil {
			return err
		}

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

		q := queue.NewMemory()
		d := &dispatch.Dispatcher{
			Repo:      db,
			Queue:     q,
			BatchSize: batchSize,
			Delay:     delay,
			Log:       utils.Log,
		}
		go runDispatchLoop(ctx, d, tickInterval)

		cfg := consume.Config{
			Fetcher: fetcher,
			Store:   store,
			Repo:    db,
			Log:     utils.Log,
		}

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
				utils.Log.Info("Shutting down.")
				return nil
			case <-ticker.C:
			}
		}
	},
}

// runDispatchLoop runs one tick immediately, then one per interval.
func runDispatchLoop(ctx context.Context, d *dispatch.Dispatcher, interval time.Duration) {
	runOneTick(ctx, d)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOneTick(ctx, d)
		}
	}
}

func runOneTick(ctx context.Context, d *dispatch.Dispatcher) {
	if _, err := d.RunTick(ctx); err != nil {
		utils.Log.Error("Dispatch tick failed: ", err)
	}
}

func init() {
	runCmd.Flags().Duration("tick-interval", time.Hour, "How often the dispatcher walks all tracked profiles")
	runCmd.Flags().Duration("poll-interval", 5*time.Second, "How often to poll the queue for due work items")
	runCmd.Flags().Int("batch-max", 50, "Maximum work items claimed per poll")
	rootCmd.AddCommand(runCmd)
}
