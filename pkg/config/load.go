package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. The configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention ARBITER_SECTION_FIELD (e.g., ARBITER_FEES_BASE_FEE).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format ARBITER_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Policy overrides
	if val := os.Getenv("ARBITER_POLICY_BASELINE_PATH"); val != "" {
		cfg.Policy.BaselinePath = val
	}
	if val := os.Getenv("ARBITER_POLICY_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Policy.Watch = b
		}
	}

	// Admission overrides
	if val := os.Getenv("ARBITER_ADMISSION_LOAD_MAX"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Admission.LoadMax = f
		}
	}
	if val := os.Getenv("ARBITER_ADMISSION_HIGH_WATER_MARK"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Admission.HighWaterMark = f
		}
	}
	if val := os.Getenv("ARBITER_ADMISSION_HISTORY_CAPACITY"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Admission.HistoryCapacity = i
		}
	}
	if val := os.Getenv("ARBITER_ADMISSION_TREND_WINDOW"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Admission.TrendWindow = i
		}
	}

	// Fees overrides
	if val := os.Getenv("ARBITER_FEES_BASE_FEE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Fees.BaseFee = f
		}
	}
	if val := os.Getenv("ARBITER_FEES_GRACE_DEADLINE_HOURS"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Fees.GraceDeadlineHours = f
		}
	}
	if val := os.Getenv("ARBITER_FEES_GROWTH_RATE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Fees.GrowthRate = f
		}
	}

	// Ledger overrides
	if val := os.Getenv("ARBITER_LEDGER_ROYALTY_RATE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Ledger.RoyaltyRate = f
		}
	}
	if val := os.Getenv("ARBITER_LEDGER_TOLERANCE_PCT"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Ledger.TolerancePct = f
		}
	}
	if val := os.Getenv("ARBITER_LEDGER_BACKEND"); val != "" {
		cfg.Ledger.Backend = val
	}
	if val := os.Getenv("ARBITER_LEDGER_SQLITE_PATH"); val != "" {
		cfg.Ledger.SQLite.Path = val
	}
	if val := os.Getenv("ARBITER_LEDGER_REPORTS_PATH"); val != "" {
		cfg.Ledger.ReportsPath = val
	}

	// Hardening overrides
	if val := os.Getenv("ARBITER_HARDENING_COOLDOWN"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Hardening.Cooldown = d
		}
	}
	if val := os.Getenv("ARBITER_HARDENING_DECAY_RATE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Hardening.DecayRate = f
		}
	}

	// Temporal overrides
	if val := os.Getenv("ARBITER_TEMPORAL_TAMPER_THRESHOLD"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Temporal.TamperThreshold = d
		}
	}
	if val := os.Getenv("ARBITER_TEMPORAL_NTP_SERVERS"); val != "" {
		cfg.Temporal.NTPServers = splitList(val)
	}
	if val := os.Getenv("ARBITER_TEMPORAL_HTTP_SOURCES"); val != "" {
		cfg.Temporal.HTTPSources = splitList(val)
	}

	// Security overrides
	if val := os.Getenv("ARBITER_SECURITY_PRIMARY_KEY_FILE"); val != "" {
		cfg.Security.PrimaryKeyFile = val
	}
	if val := os.Getenv("ARBITER_SECURITY_DELEGATED_KEY_FILE"); val != "" {
		cfg.Security.DelegatedKeyFile = val
	}

	// Telemetry overrides
	if val := os.Getenv("ARBITER_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("ARBITER_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("ARBITER_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("ARBITER_TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
}

// splitList splits a comma-separated environment value into trimmed,
// non-empty entries.
func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
