// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/qbraid/qbraid-go/internal/api"
	"github.com/qbraid/qbraid-go/internal/runtime"
	"github.com/qbraid/qbraid-go/internal/runtime/braket"
	"github.com/qbraid/qbraid-go/internal/runtime/native"
)

func newSession() (*api.Session, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured; run 'qbraid configure' or set QBRAID_API_KEY")
	}
	return api.NewSession(cfg), nil
}

func newProviders() ([]runtime.Provider, error) {
	session, err := newSession()
	if err != nil {
		return nil, err
	}
	return []runtime.Provider{
		native.NewProvider(session),
		braket.NewProvider(session, cfg),
	}, nil
}

// findDevice asks each provider for the ID; the first hit wins.
func findDevice(cmd *cobra.Command, id string) (runtime.Device, error) {
	providers, err := newProviders()
	if err != nil {
		return nil, err
	}
	var lastErr error = fmt.Errorf("%w: %s", runtime.ErrDeviceNotFound, id)
	for _, p := range providers {
		device, err := p.Device(cmd.Context(), id)
		if err == nil {
			return device, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// loadJob resolves a job handle across providers.
func loadJob(cmd *cobra.Command, id string) (runtime.Job, error) {
	providers, err := newProviders()
	if err != nil {
		return nil, err
	}
	for _, p := range providers {
		loader, ok := p.(runtime.JobLoader)
		if !ok {
			continue
		}
		job, err := loader.LoadJob(cmd.Context(), id)
		if err == nil {
			return job, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", runtime.ErrJobNotFound, id)
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table starts a tabwriter for aligned columns.
func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
