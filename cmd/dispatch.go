package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wishcal/wishcal/internal/utils"
	"github.com/wishcal/wishcal/pkg/dispatch"
)

// dispatchCmd runs a single dispatcher tick: walk all tracked profiles in
// pages and enqueue one work item per profile, a wave at a time.
var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Run one dispatch tick over all tracked profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		batchSize, delay, err := dispatch.ParseTickConfig(
			viper.GetString("dispatch.batchsize"),
			viper.GetString("dispatch.delayseconds"),
		)
		if err != nil {
			return err
		}

		// Ticks must not overlap. A held lock means the previous tick is
		// still walking pages; skip and let the next tick catch up.
		lock, err := utils.NewTickLock(viper.GetString("db.path"))
		if err != nil {
			return err
		}
		locked, err := lock.TryLock()
		if err != nil {
			return err
		}
		if !locked {
			utils.Log.Warn("Previous dispatch tick still running, skipping this one.")
			return nil
		}
		defer lock.Unlock()

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		q := newQueue()
		defer q.Close()

		d := &dispatch.Dispatcher{
			Repo:      db,
			Queue:     q,
			BatchSize: batchSize,
			Delay:     delay,
			Log:       utils.Log,
		}
		_, err = d.RunTick(cmd.Context())
		return err
	},
}

func init() {
	rootCmd.AddCommand(dispatchCmd)
}
