// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qbraid/qbraid-go/internal/runtime"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Browse the device catalog",
}

var (
	devicesProvider string
	devicesStatus   string
)

var devicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available quantum devices",
	RunE: func(cmd *cobra.Command, _ []string) error {
		providers, err := newProviders()
		if err != nil {
			return err
		}

		var all []runtime.Device
		for _, p := range providers {
			if devicesProvider != "" && p.Name() != devicesProvider {
				continue
			}
			devices, err := p.Devices(cmd.Context())
			if err != nil {
				return fmt.Errorf("provider %s: %w", p.Name(), err)
			}
			all = append(all, devices...)
		}

		if devicesStatus != "" {
			filtered := all[:0]
			for _, d := range all {
				status, err := d.Status(cmd.Context())
				if err != nil {
					continue
				}
				if strings.EqualFold(status, devicesStatus) {
					filtered = append(filtered, d)
				}
			}
			all = filtered
		}

		if flagJSON {
			views := make([]map[string]any, 0, len(all))
			for _, d := range all {
				profile := d.Profile()
				views = append(views, map[string]any{
					"id":        d.ID(),
					"provider":  profile.Provider,
					"type":      profile.DeviceType,
					"numQubits": profile.NumQubits,
					"format":    profile.Spec.Format,
				})
			}
			return printJSON(cmd.OutOrStdout(), views)
		}

		tw := table(cmd.OutOrStdout())
		fmt.Fprintln(tw, "ID\tPROVIDER\tTYPE\tQUBITS\tFORMAT")
		for _, d := range all {
			profile := d.Profile()
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
				d.ID(), profile.Provider, profile.DeviceType, profile.NumQubits, profile.Spec.Format)
		}
		return tw.Flush()
	},
}

var devicesGetCmd = &cobra.Command{
	Use:   "get <device-id>",
	Short: "Show one device, including live status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		device, err := findDevice(cmd, args[0])
		if err != nil {
			return err
		}
		profile := device.Profile()
		status, err := device.Status(cmd.Context())
		if err != nil {
			status = "UNKNOWN"
		}

		if flagJSON {
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"id":        device.ID(),
				"provider":  profile.Provider,
				"type":      profile.DeviceType,
				"numQubits": profile.NumQubits,
				"format":    profile.Spec.Format,
				"status":    status,
			})
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:        %s\n", device.ID())
		fmt.Fprintf(out, "Provider:  %s\n", profile.Provider)
		fmt.Fprintf(out, "Type:      %s\n", profile.DeviceType)
		fmt.Fprintf(out, "Qubits:    %d\n", profile.NumQubits)
		fmt.Fprintf(out, "Format:    %s\n", profile.Spec.Format)
		fmt.Fprintf(out, "Status:    %s\n", status)
		return nil
	},
}

func init() {
	devicesListCmd.Flags().StringVar(&devicesProvider, "provider", "", "only list devices from this provider")
	devicesListCmd.Flags().StringVar(&devicesStatus, "status", "", "only list devices with this status (e.g. ONLINE)")
	devicesCmd.AddCommand(devicesListCmd, devicesGetCmd)
	rootCmd.AddCommand(devicesCmd)
}
