// Package pipeline wires the full validation flow: sovereignty check for
// privileged commands, adaptive threshold and freeze handling, scoring, fee
// classification, ledger recording, hardening feedback and the time-escalated
// access fee.
//
// Validate is the primary entry point. Each invocation is independent; shared
// state (policy vector, load estimate, ledger chain) is serialized inside the
// owning components.
package pipeline
