// Package config provides configuration loading, validation, and management
// for Arbiter.
//
// Configuration is loaded from YAML files with support for environment
// variable overrides. The loading sequence is:
//
//  1. Load YAML from file
//  2. Apply default values for unset ambient fields
//  3. Apply environment variable overrides (ARBITER_SECTION_FIELD)
//  4. Validate the final configuration
//
// Ambient settings (storage paths, schedules, timeouts, telemetry) have
// sensible defaults. The forensic parameters that govern enforcement, such
// as the base fee, royalty rate, and hardening cooldown, have none and must
// be set explicitly; Validate rejects configurations that leave them zero.
//
// Basic usage:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("arbiter.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// The loaded Config is passed explicitly to the components that need it;
// there is no process-global accessor.
package config
