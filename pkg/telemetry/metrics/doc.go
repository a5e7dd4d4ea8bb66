// Package metrics provides Prometheus metrics for the validation pipeline:
// validation outcomes by status, the adaptive threshold, mandated fees,
// ledger appends, tamper events and hardening applications.
package metrics
