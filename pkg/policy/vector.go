package policy

import (
	"log/slog"
	"sync"
	"time"
)

// ChangeEntry is one append-only record of a weight mutation.
type ChangeEntry struct {
	// Timestamp is when the mutation was applied.
	Timestamp time.Time `json:"timestamp"`

	// Dimension is the dimension that changed.
	Dimension Dimension `json:"dimension"`

	// OldWeight and NewWeight are the weight before and after the change.
	OldWeight float64 `json:"old_weight"`
	NewWeight float64 `json:"new_weight"`

	// Delta is the requested adjustment (before clamping).
	Delta float64 `json:"delta"`

	// Reason describes why the change was applied.
	Reason string `json:"reason"`

	// EventID correlates the change with the triggering pipeline event.
	EventID string `json:"event_id"`
}

// Vector is the shared policy vector store. All mutation goes through
// bounded-delta operations under a single mutex; weights never leave [0, 1]
// and the change log is strictly ordered.
type Vector struct {
	mu        sync.RWMutex
	weights   map[Dimension]float64
	baselines map[Dimension]float64
	frozen    bool
	changeLog []ChangeEntry
	logger    *slog.Logger
}

// NewVector creates a policy vector initialized to the given baselines.
// Passing nil uses DefaultBaselines.
func NewVector(baselines map[Dimension]float64, logger *slog.Logger) *Vector {
	if baselines == nil {
		baselines = DefaultBaselines()
	}
	if logger == nil {
		logger = slog.Default()
	}

	weights := make(map[Dimension]float64, len(baselines))
	base := make(map[Dimension]float64, len(baselines))
	for dim, w := range baselines {
		weights[dim] = w
		base[dim] = w
	}

	return &Vector{
		weights:   weights,
		baselines: base,
		logger:    logger.With("component", "policy.vector"),
	}
}

// Weights returns a copy of the current dimension weights.
func (v *Vector) Weights() map[Dimension]float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make(map[Dimension]float64, len(v.weights))
	for dim, w := range v.weights {
		out[dim] = w
	}
	return out
}

// Weight returns the current weight of a single dimension.
func (v *Vector) Weight(dim Dimension) (float64, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	w, ok := v.weights[dim]
	return w, ok
}

// Boost raises a dimension weight by delta, capped at 1.0, and appends a
// change-log entry. It fails with ErrFrozen while the vector is frozen and
// ErrUnknownDimension for dimensions outside the closed set; on failure no
// weight changes.
func (v *Vector) Boost(dim Dimension, delta float64, reason, eventID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.frozen {
		return &BoostError{Dimension: dim, Delta: delta, Cause: ErrFrozen}
	}

	old, ok := v.weights[dim]
	if !ok {
		return &BoostError{Dimension: dim, Delta: delta, Cause: ErrUnknownDimension}
	}

	next := old + delta
	if next > 1.0 {
		next = 1.0
	}
	if next < 0.0 {
		next = 0.0
	}
	v.weights[dim] = next

	v.changeLog = append(v.changeLog, ChangeEntry{
		Timestamp: time.Now(),
		Dimension: dim,
		OldWeight: old,
		NewWeight: next,
		Delta:     delta,
		Reason:    reason,
		EventID:   eventID,
	})

	v.logger.Info("dimension weight adjusted",
		"dimension", dim,
		"old_weight", old,
		"new_weight", next,
		"reason", reason,
		"event_id", eventID,
	)

	return nil
}

// Decay subtracts rate from the boost component of every dimension, floored
// at the baseline. Baselines are never touched; a dimension already at or
// below its baseline is left as-is. Decay is permitted while frozen since it
// only moves weights toward their anchors.
func (v *Vector) Decay(rate float64) {
	if rate <= 0 {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	now := time.Now()
	for dim, w := range v.weights {
		base := v.baselines[dim]
		if w <= base {
			continue
		}

		next := w - rate
		if next < base {
			next = base
		}
		if next == w {
			continue
		}

		v.weights[dim] = next
		v.changeLog = append(v.changeLog, ChangeEntry{
			Timestamp: now,
			Dimension: dim,
			OldWeight: w,
			NewWeight: next,
			Delta:     -rate,
			Reason:    "boost_decay",
		})
	}
}

// Drift returns the average absolute deviation of current weights from their
// baselines across all dimensions.
func (v *Vector) Drift() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if len(v.weights) == 0 {
		return 0
	}

	var total float64
	for dim, w := range v.weights {
		d := w - v.baselines[dim]
		if d < 0 {
			d = -d
		}
		total += d
	}
	return total / float64(len(v.weights))
}

// SetFrozen toggles the frozen flag.
func (v *Vector) SetFrozen(frozen bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.frozen == frozen {
		return
	}
	v.frozen = frozen

	if frozen {
		v.logger.Warn("policy vector frozen")
	} else {
		v.logger.Info("policy vector unfrozen")
	}
}

// Frozen reports whether the vector is frozen.
func (v *Vector) Frozen() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.frozen
}

// ChangeLog returns a copy of the append-only change log.
func (v *Vector) ChangeLog() []ChangeEntry {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]ChangeEntry, len(v.changeLog))
	copy(out, v.changeLog)
	return out
}

// Reset restores every weight to its baseline and appends matching change-log
// entries. Used when a new baseline file is loaded.
func (v *Vector) Reset(baselines map[Dimension]float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := time.Now()
	for dim, base := range baselines {
		old, ok := v.weights[dim]
		if !ok || old == base {
			v.baselines[dim] = base
			v.weights[dim] = base
			continue
		}
		v.baselines[dim] = base
		v.weights[dim] = base
		v.changeLog = append(v.changeLog, ChangeEntry{
			Timestamp: now,
			Dimension: dim,
			OldWeight: old,
			NewWeight: base,
			Delta:     base - old,
			Reason:    "baseline_reload",
		})
	}
}
