// Package telemetry provides observability for Arbiter.
//
// It is organized into subpackages:
//
//   - logging: structured logging built on log/slog
//   - metrics: Prometheus metrics for the validation pipeline
//   - health: liveness and readiness probes for the operations endpoint
//
// Components take a *slog.Logger and an optional *metrics.Collector; both
// are wired once at startup from the telemetry configuration section.
package telemetry
