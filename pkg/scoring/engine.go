package scoring

import (
	"log/slog"

	"arbiter-hq/arbiter/pkg/policy"
)

// Metrics is the per-request scoring result. It is derived state: the
// pipeline owns it for the lifetime of one request and it is never persisted
// beyond the request's result.
type Metrics struct {
	// AlignmentScore is the weight-normalized alignment in [0, 1].
	AlignmentScore float64 `json:"alignment_score"`

	// Stability reflects how far the score sits from the ambiguous midpoint,
	// clipped to [0.1, 1.0]. Low stability amplifies fee severity.
	Stability float64 `json:"stability"`

	// Deviation is the absolute gap between the mean dimension weight and
	// the alignment score.
	Deviation float64 `json:"deviation"`
}

// Strategy computes the similarity of text to a single policy dimension.
// Implementations must return a value in [0, 1] and must not fail; text with
// no relation to the dimension scores 0.
type Strategy interface {
	Similarity(text string, dimension policy.Dimension) float64
}

// Engine scores requests against a policy vector using a similarity strategy.
type Engine struct {
	strategy Strategy
	logger   *slog.Logger
}

// NewEngine creates a scoring engine. A nil strategy falls back to the
// keyword matcher.
func NewEngine(strategy Strategy, logger *slog.Logger) *Engine {
	if strategy == nil {
		strategy = NewKeywordStrategy()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		strategy: strategy,
		logger:   logger.With("component", "scoring.engine"),
	}
}

// Score computes alignment metrics for the given text against the current
// vector weights. It never fails; empty or unmapped text yields score 0.
func (e *Engine) Score(text string, vector *policy.Vector) Metrics {
	weights := vector.Weights()

	var totalAlignment, totalWeight float64
	for dim, weight := range weights {
		sim := e.strategy.Similarity(text, dim)
		totalAlignment += sim * weight
		totalWeight += weight
	}

	var score float64
	if totalWeight > 0 {
		score = totalAlignment / totalWeight
	}
	score = clip(score, 0.0, 1.0)

	var meanWeight float64
	if len(weights) > 0 {
		meanWeight = totalWeight / float64(len(weights))
	}

	stability := clip(1.0-abs(score-0.5), 0.1, 1.0)
	deviation := abs(meanWeight - score)

	e.logger.Debug("request scored",
		"alignment_score", score,
		"stability", stability,
		"deviation", deviation,
	)

	return Metrics{
		AlignmentScore: score,
		Stability:      stability,
		Deviation:      deviation,
	}
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
