package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wishcal/wishcal/internal/server"
	"github.com/wishcal/wishcal/internal/utils"
)

// serveCmd starts the HTTP API for managing users and tracked profiles.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		store, err := newArtifactStore(cmd.Context())
		if err != nil {
			return err
		}

		addr := viper.GetString("server.listen")
		utils.Log.Info("Listening on ", addr)
		return server.New(db, store, viper.GetString("server.token")).Start(addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
