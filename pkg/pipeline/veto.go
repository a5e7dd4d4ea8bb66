package pipeline

import (
	"log/slog"
	"sync"
	"time"
)

// Tier is the privilege level of a system operation.
type Tier string

const (
	TierCritical  Tier = "CRITICAL"
	TierImportant Tier = "IMPORTANT"
	TierRoutine   Tier = "ROUTINE"
)

// operationTiers maps known operations to their tier. Unknown operations are
// routine.
var operationTiers = map[string]Tier{
	"MAJOR_UPGRADE":          TierCritical,
	"AUDIT_CERTIFICATION":    TierCritical,
	"ALIGNMENT_ENGINE_RESET": TierCritical,
	"MINOR_UPGRADE":          TierImportant,
	"CONFIG_CHANGE":          TierImportant,
	"THRESHOLD_ADJUST":       TierImportant,
	"LOG_QUERY":              TierRoutine,
	"METRIC_EXPORT":          TierRoutine,
	"STATUS_CHECK":           TierRoutine,
}

// OperationTier returns the tier for an operation, defaulting to routine.
func OperationTier(operation string) Tier {
	if tier, ok := operationTiers[operation]; ok {
		return tier
	}
	return TierRoutine
}

// Verifier is the injected signature-verification capability. Cryptography
// lives outside this module; implementations decide what a valid primary or
// delegated signature is.
type Verifier interface {
	// VerifyPrimary reports whether the signature is a valid primary
	// authority signature for the operation.
	VerifyPrimary(operation, signature string) bool
	// VerifyDelegated reports whether the signature is a valid delegated
	// authority signature for the operation.
	VerifyDelegated(operation, signature string) bool
}

// SovereigntyViolation records one rejected privileged operation.
type SovereigntyViolation struct {
	Timestamp time.Time `json:"timestamp"`
	Operation string    `json:"operation"`
	Tier      Tier      `json:"tier"`
	Reason    string    `json:"reason"`
}

// Veto authorizes privileged operations by tier: critical operations require
// a primary signature, important ones accept a delegated signature as well,
// routine ones need none.
type Veto struct {
	verifier Verifier
	logger   *slog.Logger
	now      func() time.Time

	mu         sync.Mutex
	violations []SovereigntyViolation
}

// NewVeto creates a veto gate over the given verifier.
func NewVeto(verifier Verifier, logger *slog.Logger) *Veto {
	if logger == nil {
		logger = slog.Default().With("component", "pipeline.veto")
	}
	return &Veto{
		verifier: verifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Authorize checks the signature against the operation's tier. A failure is
// recorded as a sovereignty violation and returned as ErrAccessDenied.
func (v *Veto) Authorize(operation, signature string) error {
	tier := OperationTier(operation)

	switch tier {
	case TierCritical:
		if !v.verifier.VerifyPrimary(operation, signature) {
			return v.reject(operation, tier, "primary signature required but not valid")
		}
	case TierImportant:
		if !v.verifier.VerifyPrimary(operation, signature) &&
			!v.verifier.VerifyDelegated(operation, signature) {
			return v.reject(operation, tier, "primary or delegated signature required but not valid")
		}
	}

	v.logger.Debug("operation authorized",
		"operation", operation,
		"tier", tier,
	)
	return nil
}

func (v *Veto) reject(operation string, tier Tier, reason string) error {
	violation := SovereigntyViolation{
		Timestamp: v.now().UTC(),
		Operation: operation,
		Tier:      tier,
		Reason:    reason,
	}

	v.mu.Lock()
	v.violations = append(v.violations, violation)
	v.mu.Unlock()

	v.logger.Error("sovereignty violation",
		"operation", operation,
		"tier", tier,
		"reason", reason,
	)
	return ErrAccessDenied
}

// Violations returns a copy of the violation log.
func (v *Veto) Violations() []SovereigntyViolation {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]SovereigntyViolation, len(v.violations))
	copy(out, v.violations)
	return out
}
