package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "relay",
	Short: "Relay - multi-account proxy for AI model providers",
	Long: `Relay is a reverse proxy that fronts multiple AI-model provider accounts.

It provides:
  - Round-robin rotation across a pool of Claude and Gemini accounts
  - Per-account rate-limit tracking with automatic failover
  - A read-only reporting API for account status, stats, and request logs
  - Prometheus metrics for request outcomes and pool health`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "relay.yaml", "config file path")
}
