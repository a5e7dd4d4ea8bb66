package scoring

import (
	"math"
	"testing"

	"arbiter-hq/arbiter/pkg/policy"
)

// fixedStrategy returns the same similarity for every dimension.
type fixedStrategy struct{ value float64 }

func (s fixedStrategy) Similarity(string, policy.Dimension) float64 { return s.value }

func TestEngine_ScoreBounds(t *testing.T) {
	vector := policy.NewVector(nil, nil)
	engine := NewEngine(NewKeywordStrategy(), nil)

	inputs := []string{
		"",
		"completely unrelated text about weather patterns",
		"compassion empathy support kindness nurture honesty accuracy factual integrity transparency",
		"respect autonomy safety consistency preservation freedom",
	}

	for _, text := range inputs {
		m := engine.Score(text, vector)
		if m.AlignmentScore < 0 || m.AlignmentScore > 1 {
			t.Errorf("Score(%q) alignment = %v, want in [0,1]", text, m.AlignmentScore)
		}
		if m.Stability < 0.1 || m.Stability > 1.0 {
			t.Errorf("Score(%q) stability = %v, want in [0.1,1.0]", text, m.Stability)
		}
	}
}

func TestEngine_EmptyTextScoresZero(t *testing.T) {
	vector := policy.NewVector(nil, nil)
	engine := NewEngine(nil, nil)

	m := engine.Score("", vector)
	if m.AlignmentScore != 0 {
		t.Errorf("empty text alignment = %v, want 0", m.AlignmentScore)
	}
	// Stability at score 0: clip(1-|0-0.5|, 0.1, 1.0) = 0.5
	if math.Abs(m.Stability-0.5) > 1e-9 {
		t.Errorf("empty text stability = %v, want 0.5", m.Stability)
	}
}

func TestEngine_WeightNormalization(t *testing.T) {
	// With a fixed similarity of s for every dimension, the weight-normalized
	// average is exactly s regardless of the weights.
	vector := policy.NewVector(map[policy.Dimension]float64{
		policy.DimensionCare:  0.3,
		policy.DimensionTruth: 0.9,
	}, nil)
	engine := NewEngine(fixedStrategy{value: 0.6}, nil)

	m := engine.Score("anything", vector)
	if math.Abs(m.AlignmentScore-0.6) > 1e-9 {
		t.Errorf("alignment = %v, want 0.6", m.AlignmentScore)
	}

	// deviation = |mean(weights) - score| = |0.6 - 0.6| = 0
	if math.Abs(m.Deviation) > 1e-9 {
		t.Errorf("deviation = %v, want 0", m.Deviation)
	}
}

func TestEngine_StabilityMidpoint(t *testing.T) {
	tests := []struct {
		name          string
		similarity    float64
		wantStability float64
	}{
		{name: "at midpoint", similarity: 0.5, wantStability: 1.0},
		{name: "near edge clipped", similarity: 1.0, wantStability: 0.5},
		{name: "at zero", similarity: 0.0, wantStability: 0.5},
	}

	vector := policy.NewVector(nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(fixedStrategy{value: tt.similarity}, nil)
			m := engine.Score("x", vector)
			if math.Abs(m.Stability-tt.wantStability) > 1e-9 {
				t.Errorf("stability = %v, want %v", m.Stability, tt.wantStability)
			}
		})
	}
}

func TestKeywordStrategy_Similarity(t *testing.T) {
	s := NewKeywordStrategy()

	tests := []struct {
		name      string
		text      string
		dimension policy.Dimension
		want      float64
	}{
		{
			name:      "no matches",
			text:      "the quick brown fox",
			dimension: policy.DimensionTruth,
			want:      0,
		},
		{
			name:      "all keywords present",
			text:      "honesty accuracy factual integrity transparency",
			dimension: policy.DimensionTruth,
			want:      1.0,
		},
		{
			name:      "partial match",
			text:      "with honesty and integrity",
			dimension: policy.DimensionTruth,
			want:      0.4,
		},
		{
			name:      "case insensitive",
			text:      "HONESTY above all",
			dimension: policy.DimensionTruth,
			want:      0.2,
		},
		{
			name:      "empty text",
			text:      "",
			dimension: policy.DimensionCare,
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Similarity(tt.text, tt.dimension)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Similarity() = %v, want %v", got, tt.want)
			}
		})
	}
}
