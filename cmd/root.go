package cmd

import (
	"bytes"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cmmoran/cs2cpp/internal/errors"
	"github.com/cmmoran/cs2cpp/internal/logger"
)

var (
	configFiles    []string
	level, version string
	logJSON        bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "cs2cpp",
	Short:         "Generate C++ from C# semantic tree dumps",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err.Error())
		for _, hint := range errors.GetAllHints(err) {
			pterm.Info.Println(hint)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&level, "level", "l", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")
	rootCmd.PersistentFlags().StringSliceVar(&configFiles, "config", []string{}, "config file(s) - multiple config files are merged with last specified file having highest priority")
}

// initConfig sets up logging and reads in config files and ENV variables.
func initConfig() {
	if err := logger.Initialize(level, logJSON); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
	l := logger.Named("config")

	if len(configFiles) > 0 {
		viper.SetConfigFile(configFiles[0])
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("cs2cpp")
	}

	viper.SetEnvPrefix("CS2CPP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		l.Infow("using config file", "config", viper.ConfigFileUsed())
	} else {
		l.Debugw("no config file used", "error", err, "config", viper.ConfigFileUsed())
	}
	if len(configFiles) > 1 {
		for _, file := range configFiles[1:] {
			configBytes, err := os.ReadFile(file)
			if err != nil {
				l.Warnw("failed to read config file", "error", err, "file", file)
				continue
			}
			if err = viper.MergeConfig(bytes.NewReader(configBytes)); err != nil {
				l.Warnw("failed to merge config file", "error", err, "file", file)
			} else {
				l.Infow("merged config file", "file", file)
			}
		}
	}
	if len(version) > 0 {
		viper.Set("version", version)
	}
}
