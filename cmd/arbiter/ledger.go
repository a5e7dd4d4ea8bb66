package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"arbiter-hq/arbiter/pkg/cli"
	"arbiter-hq/arbiter/pkg/config"
	"arbiter-hq/arbiter/pkg/ledger"
	"arbiter-hq/arbiter/pkg/telemetry/logging"
)

var ledgerFlags struct {
	format string
	period string
	count  int64
}

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect and audit the royalty ledger",
	Long: `Inspect and audit the hash-chained royalty ledger.

Subcommands verify the hash chain, export entries, submit usage reports,
and run underreporting detection for a period.`,
}

var ledgerVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the ledger hash chain",
	Long: `Recompute every link of the ledger hash chain from the genesis
sentinel and report the first broken link, if any.`,
	RunE: runLedgerVerify,
}

var ledgerExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all ledger entries",
	RunE:  runLedgerExport,
}

var ledgerReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Submit a usage report for a period",
	Long: `Submit the externally reported usage count for a period
(YYYY-MM). Each period accepts exactly one report.`,
	RunE: runLedgerReport,
}

var ledgerComplianceCmd = &cobra.Command{
	Use:   "compliance",
	Short: "Run underreporting detection for a period",
	RunE:  runLedgerCompliance,
}

func init() {
	rootCmd.AddCommand(ledgerCmd)
	ledgerCmd.AddCommand(ledgerVerifyCmd, ledgerExportCmd, ledgerReportCmd, ledgerComplianceCmd)

	ledgerCmd.PersistentFlags().StringVarP(&ledgerFlags.format, "format", "f", "json", "output format (text, json)")
	ledgerReportCmd.Flags().StringVar(&ledgerFlags.period, "period", "", "reporting period, YYYY-MM (required)")
	ledgerReportCmd.Flags().Int64Var(&ledgerFlags.count, "count", 0, "reported usage count")
	_ = ledgerReportCmd.MarkFlagRequired("period")
	ledgerComplianceCmd.Flags().StringVar(&ledgerFlags.period, "period", "", "reporting period, YYYY-MM (required)")
	_ = ledgerComplianceCmd.MarkFlagRequired("period")
}

// openLedgerStack opens the configured ledger and report stores without
// assembling the full pipeline.
func openLedgerStack(ctx context.Context) (*config.Config, *ledger.Ledger, *ledger.Monitor, func(), error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, nil, nil, nil, cli.ConfigErrorf("", "failed to load config: %v", err)
	}

	logger, err := logging.SetDefault(logging.Config{Level: "error", Format: cfg.Telemetry.Logging.Format})
	if err != nil {
		return nil, nil, nil, nil, cli.ConfigErrorf("telemetry.logging", "%v", err)
	}

	var store ledger.Store
	switch cfg.Ledger.Backend {
	case "sqlite":
		store, err = ledger.NewSQLiteStore(&ledger.SQLiteConfig{
			Path:        cfg.Ledger.SQLite.Path,
			WALMode:     cfg.Ledger.SQLite.WALMode,
			BusyTimeout: cfg.Ledger.SQLite.BusyTimeout,
		})
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to open ledger store: %w", err)
		}
	case "memory":
		store = ledger.NewMemoryStore()
	default:
		return nil, nil, nil, nil, fmt.Errorf("unsupported ledger backend: %s", cfg.Ledger.Backend)
	}

	led, err := ledger.Open(ctx, store, logger)
	if err != nil {
		_ = store.Close()
		return nil, nil, nil, nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	var reports ledger.ReportStore
	if cfg.Ledger.ReportsPath != "" {
		reports, err = ledger.NewSQLiteReportStore(ledger.SQLiteReportStoreConfig{DBPath: cfg.Ledger.ReportsPath})
		if err != nil {
			_ = store.Close()
			return nil, nil, nil, nil, fmt.Errorf("failed to open report store: %w", err)
		}
	} else {
		reports = ledger.NewMemoryReportStore()
	}

	monitor := ledger.NewMonitor(led, reports, cfg.Ledger.TolerancePct, logger)
	cleanup := func() {
		_ = reports.Close()
		_ = store.Close()
	}
	return cfg, led, monitor, cleanup, nil
}

func runLedgerVerify(cmd *cobra.Command, args []string) error {
	ctx, stop := cli.ShutdownContext(context.Background())
	defer stop()

	_, led, _, cleanup, err := openLedgerStack(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := led.VerifyChain(ctx); err != nil {
		var chainErr *ledger.ChainError
		if errors.As(err, &chainErr) {
			fmt.Fprintf(os.Stderr, "chain broken at sequence %d\n", chainErr.Sequence)
		}
		return cli.WrapCommand("ledger verify", err)
	}

	fmt.Println("ledger chain intact")
	return nil
}

func runLedgerExport(cmd *cobra.Command, args []string) error {
	ctx, stop := cli.ShutdownContext(context.Background())
	defer stop()

	_, led, _, cleanup, err := openLedgerStack(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	entries, err := led.Export(ctx)
	if err != nil {
		return cli.WrapCommand("ledger export", err)
	}

	formatter := cli.NewFormatter(cli.OutputFormat(ledgerFlags.format))
	return formatter.FormatTo(os.Stdout, entries)
}

func runLedgerReport(cmd *cobra.Command, args []string) error {
	ctx, stop := cli.ShutdownContext(context.Background())
	defer stop()

	_, _, monitor, cleanup, err := openLedgerStack(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := monitor.SubmitReport(ctx, ledgerFlags.period, ledgerFlags.count); err != nil {
		if errors.Is(err, ledger.ErrDuplicateReport) {
			return cli.ConfigErrorf("period", "a report for %s was already submitted", ledgerFlags.period)
		}
		return cli.WrapCommand("ledger report", err)
	}

	fmt.Printf("report accepted for %s (count %d)\n", ledgerFlags.period, ledgerFlags.count)
	return nil
}

func runLedgerCompliance(cmd *cobra.Command, args []string) error {
	ctx, stop := cli.ShutdownContext(context.Background())
	defer stop()

	_, _, monitor, cleanup, err := openLedgerStack(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := monitor.DetectUnderreporting(ctx, ledgerFlags.period)
	if err != nil {
		return cli.WrapCommand("ledger compliance", err)
	}

	formatter := cli.NewFormatter(cli.OutputFormat(ledgerFlags.format))
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return cli.WrapCommand("ledger compliance", err)
	}

	if result.Status != ledger.StatusCompliant {
		os.Exit(1)
	}
	return nil
}
