package policy

import (
	"errors"
	"math"
	"testing"
)

func TestNewVector_Defaults(t *testing.T) {
	v := NewVector(nil, nil)

	weights := v.Weights()
	if len(weights) != len(Dimensions()) {
		t.Fatalf("Weights() returned %d dimensions, want %d", len(weights), len(Dimensions()))
	}

	for dim, base := range DefaultBaselines() {
		if weights[dim] != base {
			t.Errorf("weight[%s] = %v, want baseline %v", dim, weights[dim], base)
		}
	}

	if v.Frozen() {
		t.Error("new vector should not be frozen")
	}
	if drift := v.Drift(); drift != 0 {
		t.Errorf("Drift() on fresh vector = %v, want 0", drift)
	}
}

func TestVector_Boost(t *testing.T) {
	tests := []struct {
		name       string
		dimension  Dimension
		start      float64
		delta      float64
		wantWeight float64
		wantErr    error
	}{
		{
			name:       "simple boost",
			dimension:  DimensionCare,
			start:      0.5,
			delta:      0.2,
			wantWeight: 0.7,
		},
		{
			name:       "boost capped at one",
			dimension:  DimensionTruth,
			start:      0.97,
			delta:      0.5,
			wantWeight: 1.0,
		},
		{
			name:       "boost exactly to one",
			dimension:  DimensionNonHarm,
			start:      0.9,
			delta:      0.1,
			wantWeight: 1.0,
		},
		{
			name:      "unknown dimension rejected",
			dimension: Dimension("velocity"),
			start:     0.5,
			delta:     0.1,
			wantErr:   ErrUnknownDimension,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVector(map[Dimension]float64{tt.dimension: tt.start}, nil)
			if !ValidDimension(tt.dimension) {
				// Rebuild with a real dimension so the map only holds valid keys.
				v = NewVector(nil, nil)
			}

			err := v.Boost(tt.dimension, tt.delta, "test", "evt-1")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Boost() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Boost() unexpected error: %v", err)
			}

			got, _ := v.Weight(tt.dimension)
			if math.Abs(got-tt.wantWeight) > 1e-9 {
				t.Errorf("weight after boost = %v, want %v", got, tt.wantWeight)
			}
			if got > 1.0 {
				t.Errorf("weight %v exceeds 1.0", got)
			}

			log := v.ChangeLog()
			if len(log) != 1 {
				t.Fatalf("change log has %d entries, want 1", len(log))
			}
			if log[0].Dimension != tt.dimension || log[0].EventID != "evt-1" {
				t.Errorf("change log entry = %+v", log[0])
			}
		})
	}
}

func TestVector_BoostFrozen(t *testing.T) {
	v := NewVector(nil, nil)
	before := v.Weights()

	v.SetFrozen(true)
	err := v.Boost(DimensionCare, 0.1, "test", "evt-2")
	if !errors.Is(err, ErrFrozen) {
		t.Fatalf("Boost() on frozen vector error = %v, want ErrFrozen", err)
	}

	after := v.Weights()
	for dim, w := range before {
		if after[dim] != w {
			t.Errorf("weight[%s] changed from %v to %v despite frozen rejection", dim, w, after[dim])
		}
	}
	if len(v.ChangeLog()) != 0 {
		t.Error("rejected boost must not append to the change log")
	}

	v.SetFrozen(false)
	if err := v.Boost(DimensionCare, 0.01, "test", "evt-3"); err != nil {
		t.Errorf("Boost() after unfreeze failed: %v", err)
	}
}

func TestVector_Decay(t *testing.T) {
	v := NewVector(map[Dimension]float64{
		DimensionCare:  0.5,
		DimensionTruth: 0.8,
	}, nil)

	if err := v.Boost(DimensionCare, 0.3, "hardening", "evt-4"); err != nil {
		t.Fatal(err)
	}

	// Decay larger than the boost floors at the baseline.
	v.Decay(0.5)

	care, _ := v.Weight(DimensionCare)
	if care != 0.5 {
		t.Errorf("care after full decay = %v, want baseline 0.5", care)
	}
	truth, _ := v.Weight(DimensionTruth)
	if truth != 0.8 {
		t.Errorf("truth (never boosted) = %v, want untouched 0.8", truth)
	}

	// Partial decay erodes incrementally.
	if err := v.Boost(DimensionCare, 0.2, "hardening", "evt-5"); err != nil {
		t.Fatal(err)
	}
	v.Decay(0.05)
	care, _ = v.Weight(DimensionCare)
	if math.Abs(care-0.65) > 1e-9 {
		t.Errorf("care after partial decay = %v, want 0.65", care)
	}
}

func TestVector_Drift(t *testing.T) {
	v := NewVector(map[Dimension]float64{
		DimensionCare:  0.5,
		DimensionTruth: 0.5,
	}, nil)

	if err := v.Boost(DimensionCare, 0.2, "test", "evt-6"); err != nil {
		t.Fatal(err)
	}

	// |0.7-0.5| + |0.5-0.5| over 2 dimensions.
	want := 0.1
	if got := v.Drift(); math.Abs(got-want) > 1e-9 {
		t.Errorf("Drift() = %v, want %v", got, want)
	}
}

func TestVector_Reset(t *testing.T) {
	v := NewVector(nil, nil)
	if err := v.Boost(DimensionCare, 0.04, "test", "evt-7"); err != nil {
		t.Fatal(err)
	}

	v.Reset(map[Dimension]float64{DimensionCare: 0.9})

	care, _ := v.Weight(DimensionCare)
	if care != 0.9 {
		t.Errorf("care after reset = %v, want 0.9", care)
	}
	if drift := v.Drift(); drift != 0 {
		t.Errorf("Drift() after reset = %v, want 0", drift)
	}
}
