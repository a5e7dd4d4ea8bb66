package admission

import (
	"log/slog"
	"sync"

	"arbiter-hq/arbiter/pkg/policy"
)

const (
	// baseThreshold is the neutral admission cutoff before adjustments.
	baseThreshold = 0.5

	// thresholdFloor and thresholdCeil bound the adaptive threshold.
	thresholdFloor = 0.3
	thresholdCeil  = 0.7

	// proactiveTrendCutoff is the slope above which load is considered to be
	// rising fast enough to warrant anticipatory loosening.
	proactiveTrendCutoff = 0.05

	// proactiveAdjustment is subtracted from the threshold when load is
	// rising fast.
	proactiveAdjustment = 0.05
)

// Config contains configuration for the threshold controller.
type Config struct {
	// LoadMax is the load ceiling used to normalize the load factor.
	LoadMax float64

	// HighWaterMark is the load above which the vector freezes.
	// Unfreezing requires load below HighWaterMark/2.
	HighWaterMark float64

	// HistoryCapacity is the ring capacity for load samples.
	HistoryCapacity int

	// TrendWindow is the sample window for the slope estimate.
	TrendWindow int
}

// Controller computes adaptive thresholds and governs the freeze transition.
// Load history and the deferred queue are single-writer state guarded by one
// mutex.
type Controller struct {
	config Config
	vector *policy.Vector
	logger *slog.Logger

	mu      sync.Mutex
	history *ring
	queue   []Deferred
}

// Deferred is a request parked while the vector is frozen.
type Deferred struct {
	// Score is the alignment score computed at enqueue time.
	Score float64

	// RequestText is the deferred request payload.
	RequestText string

	// EventID correlates the deferral with the pipeline event.
	EventID string
}

// NewController creates a threshold controller bound to the shared vector.
func NewController(config Config, vector *policy.Vector, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if config.HistoryCapacity <= 0 {
		config.HistoryCapacity = 20
	}
	if config.TrendWindow <= 0 {
		config.TrendWindow = 10
	}

	return &Controller{
		config:  config,
		vector:  vector,
		logger:  logger.With("component", "admission.controller"),
		history: newRing(config.HistoryCapacity),
	}
}

// RecordLoad appends a load sample to the bounded history. Samples are
// clamped to [0, 1]; the oldest sample is evicted at capacity.
func (c *Controller) RecordLoad(sample float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history.push(clamp01(sample))
}

// PredictTrend estimates the load slope over the trailing window:
// (newest − oldest-in-window) / window. It returns 0 when fewer than window
// samples exist.
func (c *Controller) PredictTrend(window int) float64 {
	if window <= 0 {
		window = c.config.TrendWindow
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.predictTrendLocked(window)
}

func (c *Controller) predictTrendLocked(window int) float64 {
	if c.history.len() < window {
		return 0
	}
	newest := c.history.at(c.history.len() - 1)
	oldest := c.history.at(c.history.len() - window)
	return (newest - oldest) / float64(window)
}

// ComputeThreshold derives the admission threshold from historical score
// average, current load, and context risk, clipped to [0.3, 0.7]. It reads
// the load history but never writes it; RecordLoad owns the samples, one per
// validation.
func (c *Controller) ComputeThreshold(historicalAvgScore, currentLoad, contextRisk float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	load := currentLoad
	if load > c.config.LoadMax {
		load = c.config.LoadMax
	}
	loadFactor := (1 - load/c.config.LoadMax) * 0.1
	contextFactor := contextRisk * 0.1
	historyFactor := (1 - historicalAvgScore) * 0.05

	proactive := 0.0
	if trend := c.predictTrendLocked(c.config.TrendWindow); trend > proactiveTrendCutoff {
		proactive = -proactiveAdjustment
		c.logger.Info("load rising fast, proactive threshold adjustment applied",
			"trend", trend,
		)
	}

	threshold := baseThreshold + contextFactor + historyFactor - loadFactor + proactive
	if threshold < thresholdFloor {
		threshold = thresholdFloor
	}
	if threshold > thresholdCeil {
		threshold = thresholdCeil
	}

	return threshold
}

// CheckFreeze applies the freeze hysteresis for the given load and returns
// the resulting frozen state. Freezing happens above the high water mark;
// unfreezing only below half of it.
func (c *Controller) CheckFreeze(load float64) bool {
	frozen := c.vector.Frozen()

	switch {
	case load > c.config.HighWaterMark:
		if !frozen {
			c.logger.Warn("load above high water mark, freezing admission",
				"load", load,
				"high_water_mark", c.config.HighWaterMark,
			)
			c.vector.SetFrozen(true)
		}
		return true

	case frozen && load < 0.5*c.config.HighWaterMark:
		c.logger.Info("load normalized, unfreezing admission",
			"load", load,
		)
		c.vector.SetFrozen(false)
		return false
	}

	return frozen
}

// Enqueue parks a request in the deferred queue.
func (c *Controller) Enqueue(d Deferred) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.queue = append(c.queue, d)
	c.logger.Info("request deferred",
		"score", d.Score,
		"event_id", d.EventID,
		"queue_depth", len(c.queue),
	)
}

// QueueDepth returns the number of deferred requests.
func (c *Controller) QueueDepth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// DrainQueue empties the deferred queue and returns its entries sorted by
// descending score. This is a priority drain, not FIFO: arrival order is
// discarded and low-score requests can starve while load stays high.
func (c *Controller) DrainQueue() []Deferred {
	c.mu.Lock()
	defer c.mu.Unlock()

	drained := c.queue
	c.queue = nil

	// Insertion sort by descending score; stable for equal scores.
	for i := 1; i < len(drained); i++ {
		for j := i; j > 0 && drained[j].Score > drained[j-1].Score; j-- {
			drained[j], drained[j-1] = drained[j-1], drained[j]
		}
	}

	if len(drained) > 0 {
		c.logger.Info("deferred queue drained", "count", len(drained))
	}
	return drained
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ring is a fixed-capacity ring buffer of load samples.
type ring struct {
	buf   []float64
	start int
	count int
}

func newRing(capacity int) *ring {
	return &ring{buf: make([]float64, capacity)}
}

func (r *ring) push(v float64) {
	if r.count < len(r.buf) {
		r.buf[(r.start+r.count)%len(r.buf)] = v
		r.count++
		return
	}
	r.buf[r.start] = v
	r.start = (r.start + 1) % len(r.buf)
}

func (r *ring) len() int { return r.count }

// at returns the i-th oldest sample.
func (r *ring) at(i int) float64 {
	return r.buf[(r.start+i)%len(r.buf)]
}
