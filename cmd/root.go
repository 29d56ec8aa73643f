package cmd

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "strategy-backtest",
	Short: "Backtest user trading strategies against historical daily prices",
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(migrateCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
