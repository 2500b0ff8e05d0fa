// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qbraid/qbraid-go/internal/programs"
	"github.com/qbraid/qbraid-go/internal/runtime"
	"github.com/qbraid/qbraid-go/internal/store"
)

var (
	runDevice   string
	runShots    int
	runFormat   string
	runTags     []string
	runEstimate bool
)

var runCmd = &cobra.Command{
	Use:   "run <program-file>",
	Short: "Submit a program to a quantum device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if runDevice == "" {
			return fmt.Errorf("--device is required")
		}

		src, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read program: %w", err)
		}
		format := runFormat
		if format == "" {
			format = formatFromExtension(args[0])
		}
		program, err := programs.Decode(format, src)
		if err != nil {
			return fmt.Errorf("parse %s program: %w", format, err)
		}

		device, err := findDevice(cmd, runDevice)
		if err != nil {
			return err
		}

		if runEstimate {
			cost, err := device.EstimateCost(cmd.Context(), program, runShots)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "estimated cost: $%.4f\n", cost)
			return nil
		}

		opts := runtime.DefaultOptions()
		if tags := parseTags(runTags); tags != nil {
			if err := opts.Set(runtime.OptionTags, tags); err != nil {
				return err
			}
		}
		job, err := device.Run(cmd.Context(), program, runShots, opts)
		if err != nil {
			return err
		}

		rec := store.JobRecord{
			JobID:    job.ID(),
			DeviceID: device.ID(),
			Provider: device.Profile().Provider,
			Status:   runtime.StatusInitializing,
			Shots:    runShots,
			Tags:     parseTags(runTags),
		}
		if history, err := openHistory(); err == nil {
			_ = history.Upsert(cmd.Context(), rec)
			_ = history.Close()
		}

		fmt.Fprintf(cmd.OutOrStdout(), "submitted %s to %s\n", job.ID(), device.ID())
		return nil
	},
}

// formatFromExtension guesses the program format from the file name.
func formatFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".qasm", ".qasm3":
		return "qasm3"
	case ".qasm2":
		return "qasm2"
	case ".json":
		return "ir"
	default:
		return "qasm3"
	}
}

// parseTags turns key=value pairs into a map.
func parseTags(pairs []string) map[string]string {
	if len(pairs) == 0 {
		return nil
	}
	tags := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			continue
		}
		tags[key] = value
	}
	return tags
}

func init() {
	runCmd.Flags().StringVar(&runDevice, "device", "", "target device ID")
	runCmd.Flags().IntVar(&runShots, "shots", 1024, "number of shots")
	runCmd.Flags().StringVar(&runFormat, "format", "", "program format (default: from file extension)")
	runCmd.Flags().StringSliceVar(&runTags, "tag", nil, "job tag as key=value (repeatable)")
	runCmd.Flags().BoolVar(&runEstimate, "estimate", false, "print the cost estimate instead of submitting")
	rootCmd.AddCommand(runCmd)
}
