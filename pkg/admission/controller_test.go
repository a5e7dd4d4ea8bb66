package admission

import (
	"math"
	"testing"

	"arbiter-hq/arbiter/pkg/policy"
)

func newTestController() (*Controller, *policy.Vector) {
	vector := policy.NewVector(nil, nil)
	c := NewController(Config{
		LoadMax:         0.9,
		HighWaterMark:   0.85,
		HistoryCapacity: 20,
		TrendWindow:     10,
	}, vector, nil)
	return c, vector
}

func TestController_PredictTrend(t *testing.T) {
	c, _ := newTestController()

	// Insufficient history returns zero.
	c.RecordLoad(0.1)
	c.RecordLoad(0.2)
	if got := c.PredictTrend(10); got != 0 {
		t.Errorf("PredictTrend() with short history = %v, want 0", got)
	}

	// Ten rising samples: slope = (last - first-in-window) / window.
	c, _ = newTestController()
	for i := 0; i < 10; i++ {
		c.RecordLoad(0.1 * float64(i))
	}
	want := (0.9 - 0.0) / 10
	if got := c.PredictTrend(10); math.Abs(got-want) > 1e-9 {
		t.Errorf("PredictTrend() = %v, want %v", got, want)
	}
}

func TestController_PredictTrendRingEviction(t *testing.T) {
	c, _ := newTestController()

	// Fill past capacity; the window must read the surviving newest samples.
	for i := 0; i < 30; i++ {
		c.RecordLoad(float64(i) / 30)
	}
	got := c.PredictTrend(10)
	want := (float64(29)/30 - float64(20)/30) / 10
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("PredictTrend() after eviction = %v, want %v", got, want)
	}
}

func TestController_ComputeThresholdBounds(t *testing.T) {
	c, _ := newTestController()

	tests := []struct {
		name    string
		histAvg float64
		load    float64
		risk    float64
	}{
		{name: "low everything", histAvg: 0, load: 0, risk: 0},
		{name: "high everything", histAvg: 1, load: 1, risk: 1},
		{name: "typical", histAvg: 0.75, load: 0.1, risk: 0.1},
		{name: "adversarial context", histAvg: 0.75, load: 0.1, risk: 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.ComputeThreshold(tt.histAvg, tt.load, tt.risk)
			if got < 0.3 || got > 0.7 {
				t.Errorf("ComputeThreshold() = %v, want in [0.3, 0.7]", got)
			}
		})
	}
}

func TestController_ComputeThresholdFormula(t *testing.T) {
	c, _ := newTestController()

	// Flat history keeps the proactive term out.
	histAvg, load, risk := 0.75, 0.1, 0.1
	got := c.ComputeThreshold(histAvg, load, risk)

	loadFactor := (1 - load/0.9) * 0.1
	want := 0.5 + risk*0.1 + (1-histAvg)*0.05 - loadFactor
	if want < 0.3 {
		want = 0.3
	}
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("ComputeThreshold() = %v, want %v", got, want)
	}
}

func TestController_ProactiveAdjustment(t *testing.T) {
	// A controller fed fast-rising load computes a threshold 0.05 below an
	// otherwise-identical controller with flat load history.
	rising, _ := newTestController()
	flat, _ := newTestController()

	for i := 0; i < 10; i++ {
		rising.RecordLoad(0.08 * float64(i))
		flat.RecordLoad(0.9)
	}

	histAvg, load, risk := 0.75, 0.9, 0.1
	r := rising.ComputeThreshold(histAvg, load, risk)
	f := flat.ComputeThreshold(histAvg, load, risk)

	if math.Abs((f-r)-0.05) > 1e-9 {
		t.Errorf("proactive adjustment = %v, want 0.05 (rising=%v flat=%v)", f-r, r, f)
	}
}

func TestController_ComputeThresholdDoesNotRecordLoad(t *testing.T) {
	// Load samples enter the history through RecordLoad only; repeated
	// threshold computations must not pad the trend window.
	c, _ := newTestController()

	for i := 0; i < 9; i++ {
		c.RecordLoad(0.1 * float64(i))
	}
	for i := 0; i < 5; i++ {
		c.ComputeThreshold(0.75, 0.9, 0.1)
	}

	// Nine samples stay short of the ten-sample window.
	if got := c.PredictTrend(10); got != 0 {
		t.Errorf("PredictTrend() = %v after threshold computations, want 0 (window still short)", got)
	}

	c.RecordLoad(0.9)
	if got := c.PredictTrend(10); got == 0 {
		t.Error("PredictTrend() = 0 after tenth RecordLoad, want non-zero slope")
	}
}

func TestController_FreezeHysteresis(t *testing.T) {
	c, vector := newTestController()

	// Below the mark: stays unfrozen.
	if c.CheckFreeze(0.5) {
		t.Fatal("CheckFreeze(0.5) = true, want false")
	}

	// Above the mark: freezes.
	if !c.CheckFreeze(0.9) {
		t.Fatal("CheckFreeze(0.9) = false, want true")
	}
	if !vector.Frozen() {
		t.Fatal("vector not frozen after high load")
	}

	// Load drops but stays above half the mark: still frozen (hysteresis).
	if !c.CheckFreeze(0.6) {
		t.Error("CheckFreeze(0.6) unfroze inside hysteresis band")
	}

	// Below half the mark: unfreezes.
	if c.CheckFreeze(0.3) {
		t.Error("CheckFreeze(0.3) = true, want false")
	}
	if vector.Frozen() {
		t.Error("vector still frozen after load normalized")
	}
}

func TestController_DrainQueuePriority(t *testing.T) {
	c, _ := newTestController()

	c.Enqueue(Deferred{Score: 0.2, RequestText: "low", EventID: "a"})
	c.Enqueue(Deferred{Score: 0.9, RequestText: "high", EventID: "b"})
	c.Enqueue(Deferred{Score: 0.5, RequestText: "mid", EventID: "c"})

	if depth := c.QueueDepth(); depth != 3 {
		t.Fatalf("QueueDepth() = %d, want 3", depth)
	}

	drained := c.DrainQueue()
	if len(drained) != 3 {
		t.Fatalf("DrainQueue() returned %d entries, want 3", len(drained))
	}

	wantOrder := []string{"high", "mid", "low"}
	for i, want := range wantOrder {
		if drained[i].RequestText != want {
			t.Errorf("drained[%d] = %q, want %q", i, drained[i].RequestText, want)
		}
	}

	// Queue is empty after a drain.
	if depth := c.QueueDepth(); depth != 0 {
		t.Errorf("QueueDepth() after drain = %d, want 0", depth)
	}
	if again := c.DrainQueue(); len(again) != 0 {
		t.Errorf("second DrainQueue() returned %d entries, want 0", len(again))
	}
}
