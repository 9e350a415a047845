package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"relay-hq/relay/pkg/accounts"
	"relay-hq/relay/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Validate a configuration file without starting the server.

Checks YAML syntax, required fields, and account list consistency, and
reports the provider distribution of the configured accounts.`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return err
	}

	byProvider := make(map[accounts.Provider]int)
	for _, ac := range cfg.Accounts {
		byProvider[accounts.ParseProvider(ac.Provider)]++
	}

	fmt.Printf("Configuration valid: %s\n", cfgFile)
	fmt.Printf("  Listen address: %s\n", cfg.Server.ListenAddress)
	fmt.Printf("  Accounts: %d total", len(cfg.Accounts))
	if len(cfg.Accounts) > 0 {
		fmt.Printf(" (Claude: %d, Gemini: %d, Unknown: %d)",
			byProvider[accounts.ProviderClaude],
			byProvider[accounts.ProviderGemini],
			byProvider[accounts.ProviderUnknown],
		)
	}
	fmt.Println()

	if n := byProvider[accounts.ProviderUnknown]; n > 0 {
		fmt.Printf("  Warning: %d account(s) have an unrecognized provider and will never be selected\n", n)
	}

	return nil
}
