package temporal

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Config holds the guard parameters.
type Config struct {
	// TamperThreshold is the external-vs-local discrepancy beyond which
	// tampering is declared. A discrepancy of exactly the threshold is not
	// tampering; anything above it is.
	TamperThreshold time.Duration
	// FetchTimeout bounds one whole pass over the source chain, on top of
	// the per-source timeouts.
	FetchTimeout time.Duration
}

// TamperEvent records one detected clock manipulation.
type TamperEvent struct {
	Timestamp        time.Time `json:"timestamp"`
	SystemTime       time.Time `json:"system_time"`
	DiscrepancyHours float64   `json:"discrepancy_hours"`
	Verdict          string    `json:"verdict"`
}

// VerdictTampering is the verdict recorded on every tamper event.
const VerdictTampering = "TEMPORAL_TAMPERING_DETECTED"

// State is a snapshot of the guard for forensic reporting.
type State struct {
	StartTime         time.Time     `json:"start_time"`
	StartTimeVerified bool          `json:"start_time_verified"`
	LastVerifiedTime  time.Time     `json:"last_verified_time"`
	Degraded          bool          `json:"degraded"`
	TamperingActive   bool          `json:"tampering_active"`
	TamperLog         []TamperEvent `json:"tamper_log"`
}

// Guard verifies current time against external sources and latches a
// tampering flag once a discrepancy beyond threshold is seen.
type Guard struct {
	config  Config
	sources []Source
	logger  *slog.Logger
	now     func() time.Time

	mu                sync.Mutex
	startTime         time.Time
	startTimeVerified bool
	lastVerified      time.Time
	lastVerifiedAt    time.Time // monotonic anchor for degraded estimates
	degraded          bool
	tampering         bool
	tamperLog         []TamperEvent
	onTamper          func(TamperEvent)
}

// NewGuard creates a guard over the given source chain, tried in order.
func NewGuard(config Config, sources []Source, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default().With("component", "temporal.guard")
	}
	if config.TamperThreshold <= 0 {
		config.TamperThreshold = time.Hour
	}
	if config.FetchTimeout <= 0 {
		config.FetchTimeout = 10 * time.Second
	}
	return &Guard{
		config:  config,
		sources: sources,
		logger:  logger,
		now:     time.Now,
		// Degraded until the first source fetch succeeds.
		degraded: true,
	}
}

// OnTamper registers a hook invoked once per latched tamper event. Set it
// before Start; it is called outside the guard's lock.
func (g *Guard) OnTamper(fn func(TamperEvent)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onTamper = fn
}

// Start performs the initial consistency check and anchors the obligation
// start time to the verified result.
func (g *Guard) Start(ctx context.Context) {
	anchor, tampering, _ := g.CheckConsistency(ctx)
	degraded := g.Degraded()

	g.mu.Lock()
	g.startTime = anchor
	g.startTimeVerified = !tampering && !degraded
	g.mu.Unlock()

	if tampering {
		g.logger.Error("temporal tampering detected at initialization")
	}
	if degraded {
		g.logger.Warn("obligation start anchored to unverified time")
	}
}

// FetchExternalTime walks the source chain and returns the first success,
// marked verified. When every source fails it degrades: a prior verification
// yields lastVerified plus a monotonic elapsed reading, otherwise local time.
// Degraded results are never marked verified.
func (g *Guard) FetchExternalTime(ctx context.Context) (time.Time, bool) {
	ctx, cancel := context.WithTimeout(ctx, g.config.FetchTimeout)
	defer cancel()

	for _, src := range g.sources {
		fetched, err := src.Fetch(ctx)
		if err != nil {
			g.logger.Warn("time source failed, trying next",
				"source", src.Name(),
				"error", err,
			)
			continue
		}

		g.mu.Lock()
		g.lastVerified = fetched
		g.lastVerifiedAt = time.Now() // monotonic anchor
		g.degraded = false
		g.mu.Unlock()
		return fetched, true
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.degraded = true

	if !g.lastVerified.IsZero() {
		estimate := g.lastVerified.Add(time.Since(g.lastVerifiedAt))
		g.logger.Warn("all time sources failed, estimating from last verification",
			"last_verified", g.lastVerified,
			"estimate", estimate,
		)
		return estimate, false
	}

	g.logger.Error("all time sources failed with no prior verification, using local time unverified")
	return g.now(), false
}

// CheckConsistency compares external time against the local clock. A
// discrepancy strictly above the threshold latches the tampering flag,
// records a tamper event and arms the eternity override for the fee clock.
func (g *Guard) CheckConsistency(ctx context.Context) (time.Time, bool, float64) {
	local := g.now()
	external, verified := g.FetchExternalTime(ctx)

	discrepancy := external.Sub(local)
	if discrepancy < 0 {
		discrepancy = -discrepancy
	}
	discrepancyHours := discrepancy.Hours()

	if discrepancy > g.config.TamperThreshold {
		event := TamperEvent{
			Timestamp:        external,
			SystemTime:       local,
			DiscrepancyHours: discrepancyHours,
			Verdict:          VerdictTampering,
		}

		g.mu.Lock()
		g.tampering = true
		g.tamperLog = append(g.tamperLog, event)
		hook := g.onTamper
		g.mu.Unlock()

		if hook != nil {
			hook(event)
		}
		g.logger.Error("temporal tampering detected",
			"system_time", local,
			"external_time", external,
			"discrepancy_hours", discrepancyHours,
		)
		return external, true, discrepancyHours
	}

	if verified {
		g.logger.Debug("temporal consistency verified",
			"discrepancy_hours", discrepancyHours,
		)
	} else {
		g.logger.Warn("consistency check ran on unverified time",
			"discrepancy_hours", discrepancyHours,
		)
	}
	return external, false, discrepancyHours
}

// Degraded reports whether the most recent fetch fell back to an unverified
// estimate. A guard that has never reached a source is degraded.
func (g *Guard) Degraded() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.degraded
}

// VerifiedNow returns the best available current time. Satisfies the fee
// clock's guard dependency.
func (g *Guard) VerifiedNow(ctx context.Context) time.Time {
	t, _, _ := g.CheckConsistency(ctx)
	return t
}

// TamperingActive reports whether a tamper event has been latched.
func (g *Guard) TamperingActive() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tampering
}

// StartTime returns the verified obligation start time set by Start.
func (g *Guard) StartTime() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.startTime
}

// State returns a forensic snapshot of the guard.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	log := make([]TamperEvent, len(g.tamperLog))
	copy(log, g.tamperLog)

	return State{
		StartTime:         g.startTime,
		StartTimeVerified: g.startTimeVerified,
		LastVerifiedTime:  g.lastVerified,
		Degraded:          g.degraded,
		TamperingActive:   g.tampering,
		TamperLog:         log,
	}
}
