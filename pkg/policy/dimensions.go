package policy

// Dimension is one named weighted criterion in the policy vector.
// The set of dimensions is closed: there is no API to add or remove one.
type Dimension string

const (
	DimensionCare           Dimension = "care"
	DimensionDignity        Dimension = "dignity"
	DimensionTruth          Dimension = "truth"
	DimensionSovereignty    Dimension = "sovereignty"
	DimensionNonHarm        Dimension = "non_harm"
	DimensionCoherence      Dimension = "coherence"
	DimensionLifeProtection Dimension = "life_protection"
)

// Dimensions returns the closed dimension set in a stable order.
func Dimensions() []Dimension {
	return []Dimension{
		DimensionCare,
		DimensionDignity,
		DimensionTruth,
		DimensionSovereignty,
		DimensionNonHarm,
		DimensionCoherence,
		DimensionLifeProtection,
	}
}

// DefaultBaselines returns the baseline weight for every dimension.
// Baselines are the anchor that Decay erodes boosts back toward; they are
// never mutated at runtime.
func DefaultBaselines() map[Dimension]float64 {
	return map[Dimension]float64{
		DimensionCare:           0.95,
		DimensionDignity:        0.98,
		DimensionTruth:          0.97,
		DimensionSovereignty:    1.0,
		DimensionNonHarm:        0.96,
		DimensionCoherence:      1.0,
		DimensionLifeProtection: 0.99,
	}
}

// ValidDimension reports whether d is a member of the closed dimension set.
func ValidDimension(d Dimension) bool {
	switch d {
	case DimensionCare, DimensionDignity, DimensionTruth, DimensionSovereignty,
		DimensionNonHarm, DimensionCoherence, DimensionLifeProtection:
		return true
	}
	return false
}
