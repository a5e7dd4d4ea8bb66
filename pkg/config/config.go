package config

import "time"

// Config is the root configuration structure for Arbiter.
// It contains all configuration sections for the policy vector, admission
// control, fee mandates, the royalty ledger, adversarial hardening, temporal
// verification, and telemetry.
type Config struct {
	// Policy contains configuration for the policy weight vector including
	// the baseline weights file and hot-reload settings.
	Policy PolicyConfig `yaml:"policy"`

	// Admission contains configuration for the admission controller
	// including load limits and freeze hysteresis.
	Admission AdmissionConfig `yaml:"admission"`

	// Scoring contains configuration for the alignment scoring engine.
	Scoring ScoringConfig `yaml:"scoring"`

	// Fees contains configuration for fee mandates and the forensic
	// fee clock.
	Fees FeesConfig `yaml:"fees"`

	// Ledger contains configuration for the royalty ledger including
	// storage backends and compliance monitoring.
	Ledger LedgerConfig `yaml:"ledger"`

	// Hardening contains configuration for the adversarial hardening
	// feedback loop.
	Hardening HardeningConfig `yaml:"hardening"`

	// Temporal contains configuration for external time verification.
	Temporal TemporalConfig `yaml:"temporal"`

	// Pipeline contains configuration for the validation pipeline.
	Pipeline PipelineConfig `yaml:"pipeline"`

	// Security contains authority key configuration for privileged
	// operations.
	Security SecurityConfig `yaml:"security"`

	// Telemetry contains configuration for observability including
	// logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// SecurityConfig contains authority key configuration.
type SecurityConfig struct {
	// PrimaryKeyFile is the path to the primary authority key. Critical
	// operations require signatures under this key. Empty disables the
	// primary authority, rejecting all critical operations.
	PrimaryKeyFile string `yaml:"primary_key_file"`

	// DelegatedKeyFile is the path to the delegated authority key,
	// accepted for important operations. Empty disables it.
	DelegatedKeyFile string `yaml:"delegated_key_file"`
}

// PolicyConfig contains configuration for the policy weight vector.
type PolicyConfig struct {
	// BaselinePath is the path to a YAML file of baseline dimension
	// weights. Empty means the built-in baselines are used.
	BaselinePath string `yaml:"baseline_path"`

	// Watch controls whether the baseline file is watched for changes
	// and hot-reloaded. Has no effect when BaselinePath is empty.
	// Default: false
	Watch bool `yaml:"watch"`

	// WatchDebounce is the quiet period required before a change event
	// triggers a reload.
	// Default: 100ms
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// AdmissionConfig contains configuration for the admission controller.
type AdmissionConfig struct {
	// LoadMax is the load ceiling used to normalize the load factor in
	// the threshold computation. Required, must be positive.
	LoadMax float64 `yaml:"load_max"`

	// HighWaterMark is the load above which the policy vector freezes
	// and requests are deferred. Unfreezing requires load below half
	// this mark. Required, must be in (0, 1].
	HighWaterMark float64 `yaml:"high_water_mark"`

	// HistoryCapacity is the ring capacity for load samples.
	// Required, must be positive.
	HistoryCapacity int `yaml:"history_capacity"`

	// TrendWindow is the sample window for the load slope estimate.
	// Required, must be positive and at most HistoryCapacity.
	TrendWindow int `yaml:"trend_window"`
}

// ScoringConfig contains configuration for the alignment scoring engine.
type ScoringConfig struct {
	// Strategy selects the similarity strategy.
	// Valid values: "lexical".
	// Default: "lexical"
	Strategy string `yaml:"strategy"`
}

// FeesConfig contains configuration for fee mandates and the fee clock.
type FeesConfig struct {
	// BaseFee is the base fee in currency units. Required, must be
	// positive.
	BaseFee float64 `yaml:"base_fee"`

	// GraceDeadlineHours is the length of the settlement grace window
	// in hours. Required, must be positive.
	GraceDeadlineHours float64 `yaml:"grace_deadline_hours"`

	// GrowthRate is the exponential escalation rate per penalty hour.
	// Required, must be positive.
	GrowthRate float64 `yaml:"growth_rate"`

	// EternityHorizonYears is the elapsed time, in years, substituted
	// into the fee clock when temporal tampering is active.
	// Required, must be positive.
	EternityHorizonYears int `yaml:"eternity_horizon_years"`
}

// LedgerConfig contains configuration for the royalty ledger.
type LedgerConfig struct {
	// RoyaltyRate is the fraction of generated value owed as royalty.
	// Required, must be in (0, 1].
	RoyaltyRate float64 `yaml:"royalty_rate"`

	// TolerancePct is the reporting discrepancy tolerance in percent.
	// Discrepancies strictly above it are breaches. Required, must be
	// non-negative.
	TolerancePct float64 `yaml:"tolerance_pct"`

	// Backend selects the ledger storage backend.
	// Valid values: "memory", "sqlite".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains settings for the sqlite ledger backend.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// ReportsPath is the database file path for usage reports and
	// breach events. Empty keeps reports in memory.
	// Default: "data/reports.db"
	ReportsPath string `yaml:"reports_path"`

	// ComplianceSchedule is the cron schedule for the underreporting
	// sweep over the previous period.
	// Default: "0 4 1 * *"
	ComplianceSchedule string `yaml:"compliance_schedule"`
}

// SQLiteConfig contains settings for a SQLite database file.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/ledger.db"
	Path string `yaml:"path"`

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// HardeningConfig contains configuration for the adversarial hardening
// feedback loop.
type HardeningConfig struct {
	// Cooldown is the minimum interval between hardening applications.
	// Required, must be positive.
	Cooldown time.Duration `yaml:"cooldown"`

	// DecayRate is the per-sweep erosion applied to hardened weights.
	// Required, must be in (0, 1).
	DecayRate float64 `yaml:"decay_rate"`

	// DecaySchedule is the cron schedule for decay sweeps. Empty
	// disables scheduled decay.
	// Default: "0 2 * * *"
	DecaySchedule string `yaml:"decay_schedule"`
}

// TemporalConfig contains configuration for external time verification.
type TemporalConfig struct {
	// TamperThreshold is the external-vs-local discrepancy beyond which
	// tampering is declared. Required, must be positive.
	TamperThreshold time.Duration `yaml:"tamper_threshold"`

	// FetchTimeout bounds one whole pass over the time source chain.
	// Default: 10s
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// SourceTimeout is the per-source query timeout.
	// Default: 2s
	SourceTimeout time.Duration `yaml:"source_timeout"`

	// NTPServers is the ordered list of NTP servers to query. Empty
	// uses the built-in list.
	NTPServers []string `yaml:"ntp_servers"`

	// HTTPSources is the ordered list of HTTPS hosts whose Date headers
	// serve as fallback time sources. Empty uses the built-in list.
	HTTPSources []string `yaml:"http_sources"`
}

// PipelineConfig contains configuration for the validation pipeline.
type PipelineConfig struct {
	// ValueScale converts an alignment score into generated value.
	// Default: 100
	ValueScale float64 `yaml:"value_scale"`

	// InitialLoad seeds the load estimate.
	// Default: 0.1
	InitialLoad float64 `yaml:"initial_load"`

	// InitialHistoricalAvg seeds the historical score average.
	// Default: 0.75
	InitialHistoricalAvg float64 `yaml:"initial_historical_avg"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level.
	// Valid values: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format selects the log output format.
	// Valid values: "json", "text".
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and exposed.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address for the metrics HTTP endpoint.
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path for the Prometheus scrape endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`
}
