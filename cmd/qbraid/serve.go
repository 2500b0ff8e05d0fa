// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/qbraid/qbraid-go/internal/cache"
	"github.com/qbraid/qbraid-go/internal/config"
	"github.com/qbraid/qbraid-go/internal/log"
	"github.com/qbraid/qbraid-go/internal/service"
	"github.com/qbraid/qbraid-go/internal/store"
	"github.com/qbraid/qbraid-go/internal/telemetry"
	"github.com/qbraid/qbraid-go/internal/version"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP gateway",
	Long: "Serve the device catalog, job submission and transpilation API " +
		"over HTTP. The gateway shares the CLI configuration and job history.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if serveListen != "" {
			cfg.Listen = serveListen
		}
		return runServe(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := log.WithComponent("serve")

	tel, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        config.ParseBool("QBRAID_TRACING_ENABLED", false),
		ServiceName:    "qbraid-gateway",
		ServiceVersion: version.Version,
		Environment:    config.ParseString("QBRAID_ENVIRONMENT", "production"),
		ExporterType:   config.ParseString("QBRAID_OTLP_EXPORTER", "grpc"),
		Endpoint:       config.ParseString("QBRAID_OTLP_ENDPOINT", "localhost:4317"),
		SamplingRate:   config.ParseFloat("QBRAID_TRACE_SAMPLING_RATE", 1.0),
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("telemetry shutdown failed")
		}
	}()

	providers, err := newProviders()
	if err != nil {
		return err
	}

	history, err := store.OpenHistory(filepath.Join(cfg.DataDir, "jobs.db"))
	if err != nil {
		return fmt.Errorf("open job history: %w", err)
	}
	defer func() {
		if err := history.Close(); err != nil {
			logger.Warn().Err(err).Msg("history close failed")
		}
	}()

	devCache, err := cache.New("devices", cfg, logger)
	if err != nil {
		return fmt.Errorf("device cache: %w", err)
	}
	if stopper, ok := devCache.(interface{ Stop() }); ok {
		defer stopper.Stop()
	}

	srv := service.New(service.Deps{
		Config:    cfg,
		Providers: providers,
		History:   history,
		Cache:     devCache,
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(ctx)
	})
	g.Go(func() error {
		// Profile edits invalidate the catalog cache so the next request
		// refetches with the new settings.
		err := config.Watch(ctx, config.FilePath(), func(config.Config) {
			devCache.Clear(context.Background())
			logger.Info().Msg("configuration reloaded, device cache cleared")
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	return g.Wait()
}
