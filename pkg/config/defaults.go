package config

import "time"

// Default values for configuration fields.
const (
	// Policy defaults
	DefaultPolicyWatch         = false
	DefaultPolicyWatchDebounce = 100 * time.Millisecond

	// Scoring defaults
	DefaultScoringStrategy = "lexical"

	// Ledger defaults
	DefaultLedgerBackend            = "sqlite"
	DefaultLedgerSQLitePath         = "data/ledger.db"
	DefaultLedgerSQLiteWALMode      = true
	DefaultLedgerSQLiteBusyTimeout  = 5 * time.Second
	DefaultLedgerReportsPath        = "data/reports.db"
	DefaultLedgerComplianceSchedule = "0 4 1 * *"

	// Hardening defaults
	DefaultHardeningDecaySchedule = "0 2 * * *"

	// Temporal defaults
	DefaultFetchTimeout  = 10 * time.Second
	DefaultSourceTimeout = 2 * time.Second

	// Pipeline defaults
	DefaultValueScale           = 100.0
	DefaultInitialLoad          = 0.1
	DefaultInitialHistoricalAvg = 0.75

	// Telemetry defaults
	DefaultLoggingLevel         = "info"
	DefaultLoggingFormat        = "json"
	DefaultMetricsEnabled       = true
	DefaultMetricsListenAddress = "127.0.0.1:9464"
	DefaultMetricsPath          = "/metrics"
)

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values. Required forensic
// parameters (base fee, growth rate, royalty rate, hardening cooldown and
// decay rate, admission water marks and history sizes, tamper threshold,
// eternity horizon) have no defaults and are left for Validate to reject
// when unset.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Policy defaults
	if cfg.Policy.WatchDebounce == 0 {
		cfg.Policy.WatchDebounce = DefaultPolicyWatchDebounce
	}

	// Scoring defaults
	if cfg.Scoring.Strategy == "" {
		cfg.Scoring.Strategy = DefaultScoringStrategy
	}

	// Ledger defaults
	if cfg.Ledger.Backend == "" {
		cfg.Ledger.Backend = DefaultLedgerBackend
	}
	if cfg.Ledger.SQLite.Path == "" {
		cfg.Ledger.SQLite.Path = DefaultLedgerSQLitePath
	}
	if !cfg.Ledger.SQLite.WALMode {
		cfg.Ledger.SQLite.WALMode = DefaultLedgerSQLiteWALMode
	}
	if cfg.Ledger.SQLite.BusyTimeout == 0 {
		cfg.Ledger.SQLite.BusyTimeout = DefaultLedgerSQLiteBusyTimeout
	}
	if cfg.Ledger.ReportsPath == "" {
		cfg.Ledger.ReportsPath = DefaultLedgerReportsPath
	}
	if cfg.Ledger.ComplianceSchedule == "" {
		cfg.Ledger.ComplianceSchedule = DefaultLedgerComplianceSchedule
	}

	// Hardening defaults
	if cfg.Hardening.DecaySchedule == "" {
		cfg.Hardening.DecaySchedule = DefaultHardeningDecaySchedule
	}

	// Temporal defaults
	if cfg.Temporal.FetchTimeout == 0 {
		cfg.Temporal.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.Temporal.SourceTimeout == 0 {
		cfg.Temporal.SourceTimeout = DefaultSourceTimeout
	}

	// Pipeline defaults
	if cfg.Pipeline.ValueScale == 0 {
		cfg.Pipeline.ValueScale = DefaultValueScale
	}
	if cfg.Pipeline.InitialLoad == 0 {
		cfg.Pipeline.InitialLoad = DefaultInitialLoad
	}
	if cfg.Pipeline.InitialHistoricalAvg == 0 {
		cfg.Pipeline.InitialHistoricalAvg = DefaultInitialHistoricalAvg
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	// Metrics enabled defaults to true. Disabling it takes the
	// ARBITER_TELEMETRY_METRICS_ENABLED override, applied after defaults.
	if !cfg.Telemetry.Metrics.Enabled {
		cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
}
