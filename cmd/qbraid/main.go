// SPDX-License-Identifier: MIT

// Command qbraid is the command-line interface to the qBraid quantum
// platform: device discovery, job submission and tracking, program
// transpilation and the HTTP gateway.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/qbraid/qbraid-go/internal/config"
	"github.com/qbraid/qbraid-go/internal/log"
)

var (
	flagLogLevel string
	flagConfig   string
	flagAPIKey   string
	flagAPIURL   string
	flagJSON     bool

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:           "qbraid",
	Short:         "Interact with quantum devices through the qBraid platform",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		log.Configure(log.Config{Level: flagLogLevel})

		if flagConfig != "" {
			if err := os.Setenv(config.EnvConfigFile, flagConfig); err != nil {
				return fmt.Errorf("set %s: %w", config.EnvConfigFile, err)
			}
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if flagAPIKey != "" {
			cfg.APIKey = flagAPIKey
		}
		if flagAPIURL != "" {
			cfg.APIURL = flagAPIURL
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "profile file path (default ~/.qbraid/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "qBraid API key (overrides config and env)")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "qBraid API base URL")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "print machine-readable JSON output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
