package fees

import (
	"math"
	"testing"
)

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier(50000, nil)

	tests := []struct {
		name      string
		score     float64
		threshold float64
		stability float64
		required  bool
		tier      int
	}{
		{name: "score above threshold", score: 0.8, threshold: 0.5, stability: 0.9, required: false},
		{name: "score equals threshold", score: 0.5, threshold: 0.5, stability: 0.9, required: false},
		{name: "small gap tier one", score: 0.45, threshold: 0.5, stability: 0.9, required: true, tier: 1},
		{name: "moderate gap tier two", score: 0.3, threshold: 0.5, stability: 0.9, required: true, tier: 2},
		{name: "large gap tier five", score: 0.1, threshold: 0.5, stability: 0.9, required: true, tier: 5},
		{name: "severe gap tier ten", score: 0.1, threshold: 0.7, stability: 0.9, required: true, tier: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.score, tt.threshold, tt.stability)
			if got.Required != tt.required {
				t.Fatalf("Required = %v, want %v", got.Required, tt.required)
			}
			if !tt.required {
				if got.Fee != 0 {
					t.Errorf("Fee = %v, want 0 for passing score", got.Fee)
				}
				return
			}
			if got.SeverityTier != tt.tier {
				t.Errorf("SeverityTier = %d, want %d", got.SeverityTier, tt.tier)
			}
			wantGap := tt.threshold - tt.score
			if math.Abs(got.Gap-wantGap) > 1e-9 {
				t.Errorf("Gap = %v, want %v", got.Gap, wantGap)
			}
			wantFee := 50000 * wantGap * (1 - tt.stability) * float64(tt.tier)
			if math.Abs(got.Fee-wantFee) > 1e-6 {
				t.Errorf("Fee = %v, want %v", got.Fee, wantFee)
			}
		})
	}
}

func TestSeverityTierBoundaries(t *testing.T) {
	// Bands are closed on their lower edge.
	tests := []struct {
		gap  float64
		want int
	}{
		{gap: 0.0, want: 1},
		{gap: 0.099, want: 1},
		{gap: 0.1, want: 2},
		{gap: 0.299, want: 2},
		{gap: 0.3, want: 5},
		{gap: 0.499, want: 5},
		{gap: 0.5, want: 10},
		{gap: 0.9, want: 10},
	}

	for _, tt := range tests {
		if got := severityTier(tt.gap); got != tt.want {
			t.Errorf("severityTier(%v) = %d, want %d", tt.gap, got, tt.want)
		}
	}
}
