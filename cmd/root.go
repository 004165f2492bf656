package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wishcal/wishcal/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `          _     _              _
 __      _(_)___| |__   ___ __ _| |
 \ \ /\ / / / __| '_ \ / __/ _` + "`" + ` | |
  \ V  V /| \__ \ | | | (_| (_| | |
   \_/\_/ |_|___/_| |_|\___\__,_|_|

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wishcal",
	Short: "Publish Steam wishlists as release-date calendars.",
	Long: LOGO + `wishcal tracks Steam wishlist profiles and republishes each one as an
iCalendar feed of upcoming release dates, kept fresh by a periodic sync
pipeline.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.wishcal.yaml)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".wishcal")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.wishcal.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Set default empty values for all keys
	viper.SetDefault("scrapingfish.apikey", "")
	viper.SetDefault("scrapingfish.endpoint", "")
	viper.SetDefault("dispatch.batchsize", "100")
	viper.SetDefault("dispatch.delayseconds", "30")
	viper.SetDefault("db.path", "")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("storage.backend", "fs")
	viper.SetDefault("storage.path", "./artifacts")
	viper.SetDefault("storage.bucket", "")
	viper.SetDefault("storage.credentials", "")
	viper.SetDefault("server.listen", ":8080")
	viper.SetDefault("server.token", "")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}
