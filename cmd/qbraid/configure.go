// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qbraid/qbraid-go/internal/config"
)

var (
	configureAPIKey string
	configureAPIURL string
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Store API credentials in the user config file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configureAPIKey == "" {
			return fmt.Errorf("--set-api-key is required")
		}
		cfg.APIKey = configureAPIKey
		if configureAPIURL != "" {
			cfg.APIURL = configureAPIURL
		}
		path := config.FilePath()
		if err := config.Save(path, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "configuration written to %s\n", path)
		return nil
	},
}

func init() {
	configureCmd.Flags().StringVar(&configureAPIKey, "set-api-key", "", "qBraid API key to store")
	configureCmd.Flags().StringVar(&configureAPIURL, "set-api-url", "", "API base URL to store")
	rootCmd.AddCommand(configureCmd)
}
