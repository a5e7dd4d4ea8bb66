package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"arbiter-hq/arbiter/pkg/cli"
	"arbiter-hq/arbiter/pkg/config"
	"arbiter-hq/arbiter/pkg/ledger"
	"arbiter-hq/arbiter/pkg/telemetry/health"
	"arbiter-hq/arbiter/pkg/telemetry/logging"
)

var runFlags struct {
	logLevel string
	dryRun   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Arbiter runtime",
	Long: `Start the Arbiter runtime with the specified configuration.

The runtime anchors the temporal guard against external time sources,
starts the hardening decay scheduler and the compliance sweeper, and
exposes metrics and health probes on the operations endpoint.

Examples:
  # Start with default config
  arbiter run

  # Start with custom config
  arbiter run --config /etc/arbiter/arbiter.yaml

  # Validate config without starting
  arbiter run --dry-run`,
	RunE: runRuntime,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting")
}

func runRuntime(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.ConfigErrorf("", "failed to load config: %v", err)
	}

	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.SetDefault(logging.Config{
		Level:  cfg.Telemetry.Logging.Level,
		Format: cfg.Telemetry.Logging.Format,
	})
	if err != nil {
		return cli.ConfigErrorf("telemetry.logging", "%v", err)
	}

	if runFlags.dryRun {
		fmt.Println("Configuration valid")
		return nil
	}

	ctx, stop := cli.ShutdownContext(context.Background())
	defer stop()

	rt, err := buildRuntime(ctx, cfg, logger)
	if err != nil {
		return cli.WrapCommand("run", err)
	}
	defer rt.Close()

	if err := rt.start(ctx); err != nil {
		return cli.WrapCommand("run", err)
	}

	logger.Info("arbiter runtime started",
		"ledger_backend", cfg.Ledger.Backend,
		"tampering_active", rt.guard.TamperingActive(),
	)

	// Operations endpoint: metrics, liveness, readiness, version.
	var opsServer *http.Server
	opsErr := make(chan error, 1)
	if cfg.Telemetry.Metrics.Enabled {
		checker := health.New(0)
		checker.Register("ledger", func(ctx context.Context) error {
			_, err := rt.ledger.CountInPeriod(ctx, ledger.PeriodKey(time.Now()))
			return err
		})
		checker.Register("temporal", func(ctx context.Context) error {
			if rt.guard.TamperingActive() {
				return errors.New("temporal tampering detected")
			}
			return nil
		})

		mux := http.NewServeMux()
		mux.Handle(cfg.Telemetry.Metrics.Path, rt.collector.Handler())
		mux.HandleFunc("/healthz", checker.LivenessHandler())
		mux.HandleFunc("/readyz", checker.ReadinessHandler())
		mux.HandleFunc("/version", health.VersionHandler(Version, GitCommit, BuildDate))

		opsServer = &http.Server{
			Addr:              cfg.Telemetry.Metrics.ListenAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("operations endpoint listening",
				"address", cfg.Telemetry.Metrics.ListenAddress,
				"metrics_path", cfg.Telemetry.Metrics.Path,
			)
			if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				opsErr <- err
			}
		}()
	}

	select {
	case err := <-opsErr:
		return cli.WrapCommand("run", err)
	case <-ctx.Done():
		logger.Info("shutdown signal received")

		if opsServer != nil {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := opsServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("operations endpoint shutdown failed", "error", err)
			}
		}
		return nil
	}
}
