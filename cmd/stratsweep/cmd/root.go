package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stratsweep",
	Short: "Walk-forward strategy backtesting and parameter search",
	Long: `Stratsweep evaluates trading-strategy parameter sets against historical
price series and searches for configurations that generalize to unseen data.

It provides tools for:
  - Backtesting a single configuration with regime/momentum filters
  - Walk-forward grid search across 2-8 parameter dimensions
  - Robustness ranking of in-sample vs out-of-sample performance
  - Journaling simulated trades to SQLite`,
}

var logLevel string

// Execute runs the root command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
}

func newLogger() zerolog.Logger {
	lvl, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger()
}
