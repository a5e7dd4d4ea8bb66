package fees

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"
)

// TimeGuard supplies verified time to the clock and reports whether local
// clock tampering has been detected.
type TimeGuard interface {
	// VerifiedNow returns the best available current time.
	VerifiedNow(ctx context.Context) time.Time
	// TamperingActive reports whether a tamper event is in effect.
	TamperingActive() bool
}

// ClockConfig holds the escalation parameters. All fields are required; zero
// values are rejected by config validation upstream.
type ClockConfig struct {
	// BaseFee is the fee owed inside the grace window.
	BaseFee float64
	// GraceDeadlineHours is the length of the grace window.
	GraceDeadlineHours float64
	// GrowthRate is the exponential escalation rate per penalty hour.
	GrowthRate float64
	// EternityHorizon is the elapsed time substituted when tampering is
	// active, typically ten years.
	EternityHorizon time.Duration
}

// AlertFunc is invoked once per penalty day crossed.
type AlertFunc func(penaltyDay int, fee float64)

// Clock computes the time-escalated access fee from guard-verified time.
type Clock struct {
	config  ClockConfig
	guard   TimeGuard
	logger  *slog.Logger
	alertFn AlertFunc

	mu             sync.Mutex
	lastAlertedDay int
}

// NewClock creates a fee clock backed by the given temporal guard. alertFn
// may be nil, in which case alerts are only logged.
func NewClock(config ClockConfig, guard TimeGuard, alertFn AlertFunc, logger *slog.Logger) *Clock {
	if logger == nil {
		logger = slog.Default().With("component", "fees.clock")
	}
	return &Clock{
		config:  config,
		guard:   guard,
		logger:  logger,
		alertFn: alertFn,
	}
}

// CurrentFee returns the fee owed at verified-now for an obligation that
// started at startTime. While tampering is active the elapsed time is forced
// to the eternity horizon, so rolling the local clock back can never reduce
// the fee. Within the grace window the fee is the base fee; afterwards it
// grows as baseFee x e^(growthRate x penaltyHours). A daily alert fires the
// first time each penalty day is observed and never again for the same day.
func (c *Clock) CurrentFee(ctx context.Context, startTime time.Time) float64 {
	now := c.guard.VerifiedNow(ctx)
	if c.guard.TamperingActive() {
		now = startTime.Add(c.config.EternityHorizon)
		c.logger.Warn("tampering active, elapsed time forced to eternity horizon",
			"start_time", startTime,
			"horizon", c.config.EternityHorizon,
		)
	}

	elapsedHrs := now.Sub(startTime).Hours()
	if elapsedHrs <= c.config.GraceDeadlineHours {
		return c.config.BaseFee
	}

	penaltyHrs := elapsedHrs - c.config.GraceDeadlineHours
	fee := c.config.BaseFee * math.Exp(c.config.GrowthRate*penaltyHrs)

	c.maybeAlert(penaltyHrs, fee)
	return fee
}

// PenaltyDay returns the one-based penalty day for the given penalty hours.
func PenaltyDay(penaltyHrs float64) int {
	return int(math.Ceil(penaltyHrs / 24))
}

func (c *Clock) maybeAlert(penaltyHrs, fee float64) {
	day := PenaltyDay(penaltyHrs)

	c.mu.Lock()
	defer c.mu.Unlock()
	if day <= c.lastAlertedDay {
		return
	}
	c.lastAlertedDay = day

	c.logger.Warn("fee escalation alert",
		"penalty_day", day,
		"penalty_hours", penaltyHrs,
		"fee", fee,
	)
	if c.alertFn != nil {
		c.alertFn(day, fee)
	}
}
