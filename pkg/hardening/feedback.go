package hardening

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"arbiter-hq/arbiter/pkg/policy"
)

// AttackType tags the pattern class a below-threshold request matched.
type AttackType string

const (
	AttackRoleplayJailbreak     AttackType = "roleplay_jailbreak"
	AttackEmotionalManipulation AttackType = "emotional_manipulation"
	AttackFactualDeception      AttackType = "factual_deception"
	AttackAuthorityCoercion     AttackType = "authority_coercion"
	AttackUnknown               AttackType = "unknown"
)

// attackPatterns maps each attack type to the phrases that identify it.
// Matching is ordered: the first type with any matching phrase wins.
var attackPatterns = []struct {
	attack   AttackType
	patterns []string
}{
	{AttackRoleplayJailbreak, []string{"pretend you are", "act as", "roleplay", "you are now"}},
	{AttackEmotionalManipulation, []string{"please help", "i'm desperate", "my child", "emergency"}},
	{AttackFactualDeception, []string{"false information", "lie about", "misleading"}},
	{AttackAuthorityCoercion, []string{"you must", "i command", "obey", "override"}},
}

// attackTargets maps each attack type to the policy dimensions it stresses.
var attackTargets = map[AttackType][]policy.Dimension{
	AttackRoleplayJailbreak:     {policy.DimensionSovereignty, policy.DimensionCoherence},
	AttackEmotionalManipulation: {policy.DimensionCare, policy.DimensionDignity},
	AttackFactualDeception:      {policy.DimensionTruth, policy.DimensionNonHarm},
	AttackAuthorityCoercion:     {policy.DimensionSovereignty, policy.DimensionDignity},
	AttackUnknown:               {policy.DimensionCoherence},
}

// ApplicationEntry records one hardening application.
type ApplicationEntry struct {
	Timestamp     time.Time  `json:"timestamp"`
	EventID       string     `json:"event_id"`
	AttackType    AttackType `json:"attack_type"`
	Gap           float64    `json:"gap"`
	AppliedFactor float64    `json:"applied_factor"`
	ImmunityCount int        `json:"immunity_count"`
}

// Config holds the feedback parameters.
type Config struct {
	// Cooldown is the minimum interval between applications.
	Cooldown time.Duration
	// DecayRate is the per-sweep erosion applied by DecayAll.
	DecayRate float64
}

// Feedback is the attack-hardening loop over a shared policy vector.
type Feedback struct {
	config Config
	vector *policy.Vector
	logger *slog.Logger
	now    func() time.Time

	mu            sync.Mutex
	lastApplied   time.Time
	immunityCount int
	log           []ApplicationEntry
}

// NewFeedback creates a hardening feedback loop bound to the given vector.
func NewFeedback(config Config, vector *policy.Vector, logger *slog.Logger) *Feedback {
	if logger == nil {
		logger = slog.Default().With("component", "hardening.feedback")
	}
	return &Feedback{
		config: config,
		vector: vector,
		logger: logger,
		now:    time.Now,
	}
}

// ClassifyAttack tags the request text with the first matching attack type,
// or AttackUnknown when no pattern matches.
func ClassifyAttack(text string) AttackType {
	lower := strings.ToLower(text)
	for _, entry := range attackPatterns {
		for _, p := range entry.patterns {
			if strings.Contains(lower, p) {
				return entry.attack
			}
		}
	}
	return AttackUnknown
}

// Apply classifies the request and boosts the dimensions mapped to its attack
// type, splitting gap x 0.1 evenly across them. Inside the cooldown window it
// is a silent no-op returning 0. Returns the total applied factor.
func (f *Feedback) Apply(gap float64, text, eventID string) float64 {
	if gap <= 0 {
		return 0
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	if !f.lastApplied.IsZero() && now.Sub(f.lastApplied) < f.config.Cooldown {
		return 0
	}

	attack := ClassifyAttack(text)
	targets := attackTargets[attack]
	factor := gap * 0.1
	perDimension := factor / float64(len(targets))

	for _, dim := range targets {
		if err := f.vector.Boost(dim, perDimension, "hardening_"+string(attack), eventID); err != nil {
			f.logger.Warn("hardening boost rejected",
				"dimension", dim,
				"error", err,
			)
		}
	}

	f.immunityCount++
	f.lastApplied = now
	f.log = append(f.log, ApplicationEntry{
		Timestamp:     now,
		EventID:       eventID,
		AttackType:    attack,
		Gap:           gap,
		AppliedFactor: factor,
		ImmunityCount: f.immunityCount,
	})

	f.logger.Info("hardening applied",
		"event_id", eventID,
		"attack_type", attack,
		"factor", factor,
		"immunity_count", f.immunityCount,
	)
	return factor
}

// DecayAll erodes accumulated boosts on the underlying vector using the
// configured rate. Safe to call while the vector is frozen.
func (f *Feedback) DecayAll() {
	f.vector.Decay(f.config.DecayRate)
	f.logger.Debug("hardening decay sweep completed",
		"rate", f.config.DecayRate,
	)
}

// ImmunityCount returns the number of hardening applications so far.
func (f *Feedback) ImmunityCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.immunityCount
}

// ApplicationLog returns a copy of the application log.
func (f *Feedback) ApplicationLog() []ApplicationEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ApplicationEntry, len(f.log))
	copy(out, f.log)
	return out
}
