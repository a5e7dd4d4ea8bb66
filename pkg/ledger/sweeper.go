package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Sweeper runs a scheduled compliance check for the previous period using
// cron syntax, e.g. "0 2 1 * *" for monthly on the first at 2 AM.
type Sweeper struct {
	monitor  *Monitor
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewSweeper creates a compliance sweeper for the given monitor.
func NewSweeper(monitor *Monitor, schedule string) *Sweeper {
	return &Sweeper{
		monitor:  monitor,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "ledger.sweeper"),
	}
}

// Start begins scheduled sweeps. An empty schedule disables the sweeper.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("compliance schedule not configured, skipping sweeper")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		s.runSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule compliance sweep: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("compliance sweeper started",
		"schedule", s.schedule,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runSweep checks the previous month's period.
func (s *Sweeper) runSweep(ctx context.Context) {
	period := PeriodKey(s.monitor.now().AddDate(0, -1, 0))

	result, err := s.monitor.DetectUnderreporting(ctx, period)
	if err != nil {
		s.logger.Error("compliance sweep failed",
			"period", period,
			"error", err,
		)
		return
	}

	s.logger.Info("compliance sweep completed",
		"period", period,
		"status", result.Status,
		"actual_count", result.ActualCount,
	)
}

// Stop stops the sweeper and waits for any running sweep to complete.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("compliance sweeper stopped")
	}
}

// IsRunning returns true if the sweeper is running.
func (s *Sweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
