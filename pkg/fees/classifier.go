package fees

import "log/slog"

// FeeGapResult is the outcome of classifying a scored request against the
// admission threshold.
type FeeGapResult struct {
	// Required is true when the score fell below the threshold.
	Required bool `json:"required"`
	// Gap is threshold minus score, zero when not required.
	Gap float64 `json:"gap"`
	// Instability is 1 minus the scoring stability.
	Instability float64 `json:"instability"`
	// SeverityTier is the ordinal multiplier: 1, 2, 5 or 10.
	SeverityTier int `json:"severity_tier"`
	// Fee is the mandated fee: baseFee x gap x instability x tier.
	Fee float64 `json:"fee"`
}

// Classifier turns alignment gaps into fee mandates.
type Classifier struct {
	baseFee float64
	logger  *slog.Logger
}

// NewClassifier creates a classifier with the given base fee.
func NewClassifier(baseFee float64, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default().With("component", "fees.classifier")
	}
	return &Classifier{
		baseFee: baseFee,
		logger:  logger,
	}
}

// Classify maps a scored request to a FeeGapResult. A score at or above the
// threshold requires no fee. Otherwise the gap selects a severity tier, with
// bands closed on their lower edge: a gap of exactly 0.1 is tier 2, exactly
// 0.3 is tier 5, exactly 0.5 is tier 10.
func (c *Classifier) Classify(score, threshold, stability float64) FeeGapResult {
	if score >= threshold {
		return FeeGapResult{Required: false}
	}

	gap := threshold - score
	instability := 1 - stability
	tier := severityTier(gap)
	fee := c.baseFee * gap * instability * float64(tier)

	c.logger.Info("fee mandated",
		"gap", gap,
		"severity_tier", tier,
		"fee", fee,
	)

	return FeeGapResult{
		Required:     true,
		Gap:          gap,
		Instability:  instability,
		SeverityTier: tier,
		Fee:          fee,
	}
}

func severityTier(gap float64) int {
	switch {
	case gap < 0.1:
		return 1
	case gap < 0.3:
		return 2
	case gap < 0.5:
		return 5
	default:
		return 10
	}
}
