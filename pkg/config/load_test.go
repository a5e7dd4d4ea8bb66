package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testConfigYAML = `
admission:
  load_max: 50
  high_water_mark: 0.8
  history_capacity: 20
  trend_window: 10

fees:
  base_fee: 50000
  grace_deadline_hours: 72
  growth_rate: 0.005
  eternity_horizon_years: 10

ledger:
  royalty_rate: 0.05
  tolerance_pct: 5
  backend: memory

hardening:
  cooldown: 1h
  decay_rate: 0.01

temporal:
  tamper_threshold: 1h
`

// writeTestConfig writes a config file into a temp dir and returns its path.
func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arbiter.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeTestConfig(t, testConfigYAML))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Fees.BaseFee != 50000 {
		t.Errorf("BaseFee = %v, want 50000", cfg.Fees.BaseFee)
	}
	if cfg.Ledger.RoyaltyRate != 0.05 {
		t.Errorf("RoyaltyRate = %v, want 0.05", cfg.Ledger.RoyaltyRate)
	}
	if cfg.Hardening.Cooldown != time.Hour {
		t.Errorf("Cooldown = %v, want 1h", cfg.Hardening.Cooldown)
	}
	if cfg.Ledger.Backend != "memory" {
		t.Errorf("Backend = %q, want memory", cfg.Ledger.Backend)
	}

	// Defaults filled in around the explicit values.
	if cfg.Telemetry.Logging.Format != DefaultLoggingFormat {
		t.Errorf("Logging.Format = %q, want default %q", cfg.Telemetry.Logging.Format, DefaultLoggingFormat)
	}
	if cfg.Temporal.FetchTimeout != DefaultFetchTimeout {
		t.Errorf("FetchTimeout = %v, want default %v", cfg.Temporal.FetchTimeout, DefaultFetchTimeout)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("LoadConfig() = nil, want error")
	}
	if !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("error = %v, want read failure", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	_, err := LoadConfig(writeTestConfig(t, "fees: [not: a: mapping"))
	if err == nil {
		t.Fatal("LoadConfig() = nil, want error")
	}
	if !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("error = %v, want parse failure", err)
	}
}

func TestLoadConfig_MissingForensicParameters(t *testing.T) {
	_, err := LoadConfig(writeTestConfig(t, "ledger:\n  backend: memory\n"))
	if err == nil {
		t.Fatal("LoadConfig() = nil, want validation error")
	}
	if !strings.Contains(err.Error(), "fees.base_fee") {
		t.Errorf("error = %v, want fees.base_fee failure", err)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	t.Setenv("ARBITER_FEES_BASE_FEE", "75000")
	t.Setenv("ARBITER_LEDGER_ROYALTY_RATE", "0.1")
	t.Setenv("ARBITER_HARDENING_COOLDOWN", "30m")
	t.Setenv("ARBITER_TELEMETRY_LOGGING_LEVEL", "debug")
	t.Setenv("ARBITER_TEMPORAL_NTP_SERVERS", "time.example.com, ntp.example.com")
	t.Setenv("ARBITER_TELEMETRY_METRICS_ENABLED", "false")

	cfg, err := LoadConfigWithEnvOverrides(writeTestConfig(t, testConfigYAML))
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}

	if cfg.Fees.BaseFee != 75000 {
		t.Errorf("BaseFee = %v, want env override 75000", cfg.Fees.BaseFee)
	}
	if cfg.Ledger.RoyaltyRate != 0.1 {
		t.Errorf("RoyaltyRate = %v, want env override 0.1", cfg.Ledger.RoyaltyRate)
	}
	if cfg.Hardening.Cooldown != 30*time.Minute {
		t.Errorf("Cooldown = %v, want env override 30m", cfg.Hardening.Cooldown)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want env override debug", cfg.Telemetry.Logging.Level)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, want env override false")
	}

	want := []string{"time.example.com", "ntp.example.com"}
	if len(cfg.Temporal.NTPServers) != len(want) {
		t.Fatalf("NTPServers = %v, want %v", cfg.Temporal.NTPServers, want)
	}
	for i, server := range want {
		if cfg.Temporal.NTPServers[i] != server {
			t.Errorf("NTPServers[%d] = %q, want %q", i, cfg.Temporal.NTPServers[i], server)
		}
	}
}

func TestLoadConfigWithEnvOverrides_InvalidOverrideFails(t *testing.T) {
	t.Setenv("ARBITER_LEDGER_ROYALTY_RATE", "2.0")

	_, err := LoadConfigWithEnvOverrides(writeTestConfig(t, testConfigYAML))
	if err == nil {
		t.Fatal("LoadConfigWithEnvOverrides() = nil, want validation error")
	}
	if !strings.Contains(err.Error(), "ledger.royalty_rate") {
		t.Errorf("error = %v, want ledger.royalty_rate failure", err)
	}
}
