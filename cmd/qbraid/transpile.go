// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/qbraid/qbraid-go/internal/programs"
	"github.com/qbraid/qbraid-go/internal/transpiler"
)

var (
	transpileSource string
	transpileTarget string
	transpileOut    string
)

var transpileCmd = &cobra.Command{
	Use:   "transpile <program-file>",
	Short: "Convert a program between supported formats",
	Long: fmt.Sprintf(
		"Convert a quantum program between formats.\n\nSupported formats: %v",
		programs.Supported()),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if transpileTarget == "" {
			return fmt.Errorf("--to is required")
		}
		src, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read program: %w", err)
		}
		source := transpileSource
		if source == "" {
			source = formatFromExtension(args[0])
		}

		out, err := transpiler.Default().Convert(cmd.Context(), src, source, transpileTarget)
		if err != nil {
			return err
		}

		if transpileOut != "" {
			if err := os.WriteFile(transpileOut, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			return nil
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	transpileCmd.Flags().StringVar(&transpileSource, "from", "", "source format (default: from file extension)")
	transpileCmd.Flags().StringVar(&transpileTarget, "to", "", "target format")
	transpileCmd.Flags().StringVarP(&transpileOut, "output", "o", "", "output file (default: stdout)")
	rootCmd.AddCommand(transpileCmd)
}
