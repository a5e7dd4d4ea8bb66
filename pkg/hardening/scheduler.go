package hardening

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Scheduler runs periodic decay sweeps off the request path using cron
// syntax, e.g. "0 * * * *" for hourly.
type Scheduler struct {
	feedback *Feedback
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewScheduler creates a decay scheduler for the given feedback loop.
func NewScheduler(feedback *Feedback, schedule string) *Scheduler {
	return &Scheduler{
		feedback: feedback,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "hardening.scheduler"),
	}
}

// Start begins scheduled decay. An empty schedule disables the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("decay schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		s.feedback.DecayAll()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule decay: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("hardening decay scheduler started",
		"schedule", s.schedule,
		"rate", s.feedback.config.DecayRate,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the scheduler and waits for any running sweep to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("hardening decay scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
