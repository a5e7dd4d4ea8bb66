// Package health provides liveness and readiness probes for the Arbiter
// operations endpoint.
//
// Liveness reports only that the process is running. Readiness runs the
// registered component checks (ledger storage, temporal verification)
// concurrently and degrades when any of them fails.
package health
