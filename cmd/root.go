package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/syllascope/syllascope/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `	               _ _
	 ___ _   _    | | | __ _ ___  ___ ___  _ __   ___
	/ __| | | |   | | |/ _` + "`" + ` / __|/ __/ _ \| '_ \ / _ \
	\__ \ |_| |   | | | (_| \__ \ (_| (_) | |_) |  __/
	|___/\__, |_|_|_|_|\__,_|___/\___\___/| .__/ \___|
	     |___/                            |_|

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "syllascope",
	Short: "A fast catalog browser for curriculum syllabus datasets.",
	Long: LOGO + `syllascope loads a syllabus dataset, normalizes its loosely-shaped course
records, caches them locally with versioned invalidation, and lets you
filter, sort, and serve the catalog from your command line.`,
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
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.syllascope.yaml)")

	// Global flags
	rootCmd.PersistentFlags().String("url", "", "Dataset URL (overrides dataset.url from the config)")
	rootCmd.PersistentFlags().String("cache", "", "Path to the cache file (default: syllascope.sqlite in CWD)")
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
		viper.SetConfigName(".syllascope")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.syllascope.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Set default empty values for all keys
	viper.SetDefault("dataset.url", "")
	viper.SetDefault("cache.path", "")
	viper.SetDefault("server.username", "")
	viper.SetDefault("server.password", "")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}

// datasetURL resolves the dataset source: --url flag first, then config.
func datasetURL(cmd *cobra.Command) (string, error) {
	url, _ := cmd.Flags().GetString("url")
	if url == "" {
		url = viper.GetString("dataset.url")
	}
	if url == "" {
		return "", fmt.Errorf("no dataset URL configured: pass --url or set dataset.url in ~/.syllascope.yaml")
	}
	return url, nil
}

// cachePath resolves the cache file location: --cache flag, then config,
// then syllascope.sqlite in the working directory.
func cachePath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("cache")
	if path == "" {
		path = viper.GetString("cache.path")
	}
	if path == "" {
		path = "syllascope.sqlite"
	}
	return path
}
