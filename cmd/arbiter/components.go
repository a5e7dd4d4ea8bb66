package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"arbiter-hq/arbiter/pkg/admission"
	"arbiter-hq/arbiter/pkg/config"
	"arbiter-hq/arbiter/pkg/fees"
	"arbiter-hq/arbiter/pkg/hardening"
	"arbiter-hq/arbiter/pkg/ledger"
	"arbiter-hq/arbiter/pkg/pipeline"
	"arbiter-hq/arbiter/pkg/policy"
	"arbiter-hq/arbiter/pkg/scoring"
	"arbiter-hq/arbiter/pkg/security"
	"arbiter-hq/arbiter/pkg/telemetry/metrics"
	"arbiter-hq/arbiter/pkg/temporal"
)

// runtime bundles the assembled pipeline with everything that needs
// explicit shutdown.
type runtime struct {
	orchestrator *pipeline.Orchestrator
	vector       *policy.Vector
	guard        *temporal.Guard
	ledger       *ledger.Ledger
	monitor      *ledger.Monitor
	collector    *metrics.Collector

	store       ledger.Store
	reportStore ledger.ReportStore
	watcher     *policy.Watcher
	decay       *hardening.Scheduler
	sweeper     *ledger.Sweeper
}

// buildRuntime assembles every component from configuration. Schedulers and
// the baseline watcher are created but not started; start() runs them.
func buildRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*runtime, error) {
	rt := &runtime{}

	// Policy vector, optionally seeded from a baseline file.
	var baselines map[policy.Dimension]float64
	if cfg.Policy.BaselinePath != "" {
		var err error
		baselines, err = policy.LoadBaselines(cfg.Policy.BaselinePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load baseline weights: %w", err)
		}
	}
	rt.vector = policy.NewVector(baselines, logger)

	if cfg.Policy.Watch && cfg.Policy.BaselinePath != "" {
		watcher, err := policy.NewWatcher(cfg.Policy.BaselinePath, rt.vector, cfg.Policy.WatchDebounce, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create baseline watcher: %w", err)
		}
		rt.watcher = watcher
	}

	controller := admission.NewController(admission.Config{
		LoadMax:         cfg.Admission.LoadMax,
		HighWaterMark:   cfg.Admission.HighWaterMark,
		HistoryCapacity: cfg.Admission.HistoryCapacity,
		TrendWindow:     cfg.Admission.TrendWindow,
	}, rt.vector, logger)

	engine := scoring.NewEngine(scoring.NewKeywordStrategy(), logger)
	classifier := fees.NewClassifier(cfg.Fees.BaseFee, logger)

	// Temporal guard over the ordered source chain: NTP first, HTTP Date
	// headers as fallback.
	sources := []temporal.Source{
		temporal.NewNTPSource(cfg.Temporal.NTPServers, cfg.Temporal.SourceTimeout),
		temporal.NewHTTPSource(cfg.Temporal.HTTPSources, cfg.Temporal.SourceTimeout),
	}
	rt.guard = temporal.NewGuard(temporal.Config{
		TamperThreshold: cfg.Temporal.TamperThreshold,
		FetchTimeout:    cfg.Temporal.FetchTimeout,
	}, sources, logger)

	if cfg.Telemetry.Metrics.Enabled {
		rt.collector = metrics.NewCollector(metrics.Config{}, nil)
		rt.guard.OnTamper(func(temporal.TamperEvent) {
			rt.collector.RecordTamperEvent()
		})
	}

	var alertFn fees.AlertFunc
	if rt.collector != nil {
		alertFn = func(penaltyDay int, fee float64) {
			rt.collector.RecordFee(fee)
		}
	}
	clock := fees.NewClock(fees.ClockConfig{
		BaseFee:            cfg.Fees.BaseFee,
		GraceDeadlineHours: cfg.Fees.GraceDeadlineHours,
		GrowthRate:         cfg.Fees.GrowthRate,
		EternityHorizon:    time.Duration(cfg.Fees.EternityHorizonYears) * 365 * 24 * time.Hour,
	}, rt.guard, alertFn, logger)

	feedback := hardening.NewFeedback(hardening.Config{
		Cooldown:  cfg.Hardening.Cooldown,
		DecayRate: cfg.Hardening.DecayRate,
	}, rt.vector, logger)
	if cfg.Hardening.DecaySchedule != "" {
		rt.decay = hardening.NewScheduler(feedback, cfg.Hardening.DecaySchedule)
	}

	// Ledger storage.
	switch cfg.Ledger.Backend {
	case "sqlite":
		store, err := ledger.NewSQLiteStore(&ledger.SQLiteConfig{
			Path:        cfg.Ledger.SQLite.Path,
			WALMode:     cfg.Ledger.SQLite.WALMode,
			BusyTimeout: cfg.Ledger.SQLite.BusyTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open ledger store: %w", err)
		}
		rt.store = store
	case "memory":
		rt.store = ledger.NewMemoryStore()
	default:
		return nil, fmt.Errorf("unsupported ledger backend: %s", cfg.Ledger.Backend)
	}

	led, err := ledger.Open(ctx, rt.store, logger)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	rt.ledger = led

	if cfg.Ledger.ReportsPath != "" {
		reports, err := ledger.NewSQLiteReportStore(ledger.SQLiteReportStoreConfig{
			DBPath: cfg.Ledger.ReportsPath,
		})
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("failed to open report store: %w", err)
		}
		rt.reportStore = reports
	} else {
		rt.reportStore = ledger.NewMemoryReportStore()
	}

	rt.monitor = ledger.NewMonitor(led, rt.reportStore, cfg.Ledger.TolerancePct, logger)
	if rt.collector != nil {
		rt.monitor.OnBreach(func(*ledger.BreachEvent) {
			rt.collector.RecordBreach()
		})
	}
	if cfg.Ledger.ComplianceSchedule != "" {
		rt.sweeper = ledger.NewSweeper(rt.monitor, cfg.Ledger.ComplianceSchedule)
	}

	verifier, err := security.LoadAuthorityVerifier(cfg.Security.PrimaryKeyFile, cfg.Security.DelegatedKeyFile)
	if err != nil {
		rt.Close()
		return nil, err
	}
	veto := pipeline.NewVeto(verifier, logger)

	rt.orchestrator = pipeline.NewOrchestrator(pipeline.Config{
		RoyaltyRate:          cfg.Ledger.RoyaltyRate,
		ValueScale:           cfg.Pipeline.ValueScale,
		InitialLoad:          cfg.Pipeline.InitialLoad,
		InitialHistoricalAvg: cfg.Pipeline.InitialHistoricalAvg,
	}, pipeline.Components{
		Vector:     rt.vector,
		Controller: controller,
		Engine:     engine,
		Classifier: classifier,
		Clock:      clock,
		Feedback:   feedback,
		Ledger:     led,
		Guard:      rt.guard,
		Veto:       veto,
		Collector:  rt.collector,
	}, logger)

	return rt, nil
}

// start anchors the temporal guard and launches the schedulers and the
// baseline watcher.
func (rt *runtime) start(ctx context.Context) error {
	rt.orchestrator.Start(ctx)

	if rt.decay != nil {
		if err := rt.decay.Start(ctx); err != nil {
			return fmt.Errorf("failed to start decay scheduler: %w", err)
		}
	}
	if rt.sweeper != nil {
		if err := rt.sweeper.Start(ctx); err != nil {
			return fmt.Errorf("failed to start compliance sweeper: %w", err)
		}
	}
	if rt.watcher != nil {
		go func() {
			if err := rt.watcher.Watch(ctx); err != nil {
				slog.Error("baseline watcher exited", "error", err)
			}
		}()
	}
	return nil
}

// Close shuts down schedulers, the watcher, and storage. Safe to call on a
// partially built runtime.
func (rt *runtime) Close() {
	if rt.decay != nil {
		rt.decay.Stop()
	}
	if rt.sweeper != nil {
		rt.sweeper.Stop()
	}
	if rt.watcher != nil {
		if err := rt.watcher.Stop(); err != nil {
			slog.Warn("baseline watcher stop failed", "error", err)
		}
	}
	if rt.reportStore != nil {
		if err := rt.reportStore.Close(); err != nil {
			slog.Warn("report store close failed", "error", err)
		}
	}
	if rt.store != nil {
		if err := rt.store.Close(); err != nil {
			slog.Warn("ledger store close failed", "error", err)
		}
	}
}
