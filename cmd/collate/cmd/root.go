package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "collate",
	Short: "Resample raw time series into fixed-width buckets",
	Long: `Collate reads raw timestamped samples from CSV files or SQL databases
and resamples each series into fixed-width time buckets.

It provides tools for:
  - Building datasets with start, end, all, sum, average or OHLC policies
  - Spreading samples that share one timestamp across the input period
  - Recording every build in a SQLite or CSV journal
  - Listing and showing recorded runs`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
