package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "fees.base_fee").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
//
// The forensic parameters (base fee, growth rate, royalty rate, hardening
// cooldown and decay rate, admission water marks) have no defaults; a zero
// value for any of them is an error.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateAdmission(&cfg.Admission)...)
	errs = append(errs, validateScoring(&cfg.Scoring)...)
	errs = append(errs, validateFees(&cfg.Fees)...)
	errs = append(errs, validateLedger(&cfg.Ledger)...)
	errs = append(errs, validateHardening(&cfg.Hardening)...)
	errs = append(errs, validateTemporal(&cfg.Temporal)...)
	errs = append(errs, validatePipeline(&cfg.Pipeline)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateAdmission validates admission controller configuration.
func validateAdmission(cfg *AdmissionConfig) []FieldError {
	var errs []FieldError

	if cfg.LoadMax <= 0 {
		errs = append(errs, FieldError{
			Field:   "admission.load_max",
			Message: "load max is required and must be positive",
		})
	}
	if cfg.HighWaterMark <= 0 || cfg.HighWaterMark > 1 {
		errs = append(errs, FieldError{
			Field:   "admission.high_water_mark",
			Message: "high water mark is required and must be in (0, 1]",
		})
	}
	if cfg.HistoryCapacity <= 0 {
		errs = append(errs, FieldError{
			Field:   "admission.history_capacity",
			Message: "history capacity must be positive",
		})
	}
	if cfg.TrendWindow <= 0 {
		errs = append(errs, FieldError{
			Field:   "admission.trend_window",
			Message: "trend window must be positive",
		})
	}
	if cfg.TrendWindow > cfg.HistoryCapacity {
		errs = append(errs, FieldError{
			Field:   "admission.trend_window",
			Message: "trend window must not exceed history capacity",
		})
	}

	return errs
}

// validateScoring validates scoring engine configuration.
func validateScoring(cfg *ScoringConfig) []FieldError {
	var errs []FieldError

	switch cfg.Strategy {
	case "lexical":
	default:
		errs = append(errs, FieldError{
			Field:   "scoring.strategy",
			Message: fmt.Sprintf("invalid strategy %q (valid: lexical)", cfg.Strategy),
		})
	}

	return errs
}

// validateFees validates fee mandate and fee clock configuration.
func validateFees(cfg *FeesConfig) []FieldError {
	var errs []FieldError

	if cfg.BaseFee <= 0 {
		errs = append(errs, FieldError{
			Field:   "fees.base_fee",
			Message: "base fee is required and must be positive",
		})
	}
	if cfg.GraceDeadlineHours <= 0 {
		errs = append(errs, FieldError{
			Field:   "fees.grace_deadline_hours",
			Message: "grace deadline is required and must be positive",
		})
	}
	if cfg.GrowthRate <= 0 {
		errs = append(errs, FieldError{
			Field:   "fees.growth_rate",
			Message: "growth rate is required and must be positive",
		})
	}
	if cfg.EternityHorizonYears <= 0 {
		errs = append(errs, FieldError{
			Field:   "fees.eternity_horizon_years",
			Message: "eternity horizon must be positive",
		})
	}

	return errs
}

// validateLedger validates royalty ledger configuration.
func validateLedger(cfg *LedgerConfig) []FieldError {
	var errs []FieldError

	if cfg.RoyaltyRate <= 0 || cfg.RoyaltyRate > 1 {
		errs = append(errs, FieldError{
			Field:   "ledger.royalty_rate",
			Message: "royalty rate is required and must be in (0, 1]",
		})
	}
	if cfg.TolerancePct < 0 {
		errs = append(errs, FieldError{
			Field:   "ledger.tolerance_pct",
			Message: "tolerance must be non-negative",
		})
	}

	switch cfg.Backend {
	case "memory":
	case "sqlite":
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{
				Field:   "ledger.sqlite.path",
				Message: "sqlite path is required for the sqlite backend",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "ledger.backend",
			Message: fmt.Sprintf("invalid backend %q (valid: memory, sqlite)", cfg.Backend),
		})
	}

	if cfg.ComplianceSchedule != "" {
		if _, err := cron.ParseStandard(cfg.ComplianceSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "ledger.compliance_schedule",
				Message: fmt.Sprintf("invalid cron schedule: %v", err),
			})
		}
	}

	return errs
}

// validateHardening validates hardening feedback configuration.
func validateHardening(cfg *HardeningConfig) []FieldError {
	var errs []FieldError

	if cfg.Cooldown <= 0 {
		errs = append(errs, FieldError{
			Field:   "hardening.cooldown",
			Message: "cooldown is required and must be positive",
		})
	}
	if cfg.DecayRate <= 0 || cfg.DecayRate >= 1 {
		errs = append(errs, FieldError{
			Field:   "hardening.decay_rate",
			Message: "decay rate is required and must be in (0, 1)",
		})
	}
	if cfg.DecaySchedule != "" {
		if _, err := cron.ParseStandard(cfg.DecaySchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "hardening.decay_schedule",
				Message: fmt.Sprintf("invalid cron schedule: %v", err),
			})
		}
	}

	return errs
}

// validateTemporal validates temporal verification configuration.
func validateTemporal(cfg *TemporalConfig) []FieldError {
	var errs []FieldError

	if cfg.TamperThreshold <= 0 {
		errs = append(errs, FieldError{
			Field:   "temporal.tamper_threshold",
			Message: "tamper threshold must be positive",
		})
	}
	if cfg.FetchTimeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "temporal.fetch_timeout",
			Message: "fetch timeout must be positive",
		})
	}
	if cfg.SourceTimeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "temporal.source_timeout",
			Message: "source timeout must be positive",
		})
	}

	return errs
}

// validatePipeline validates validation pipeline configuration.
func validatePipeline(cfg *PipelineConfig) []FieldError {
	var errs []FieldError

	if cfg.ValueScale <= 0 {
		errs = append(errs, FieldError{
			Field:   "pipeline.value_scale",
			Message: "value scale must be positive",
		})
	}
	if cfg.InitialLoad < 0 || cfg.InitialLoad > 1 {
		errs = append(errs, FieldError{
			Field:   "pipeline.initial_load",
			Message: "initial load must be in [0, 1]",
		})
	}
	if cfg.InitialHistoricalAvg < 0 || cfg.InitialHistoricalAvg > 1 {
		errs = append(errs, FieldError{
			Field:   "pipeline.initial_historical_avg",
			Message: "initial historical average must be in [0, 1]",
		})
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (valid: json, text)", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && cfg.Metrics.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.listen_address",
			Message: "listen address is required when metrics are enabled",
		})
	}

	return errs
}
