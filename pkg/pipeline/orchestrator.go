package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"arbiter-hq/arbiter/pkg/admission"
	"arbiter-hq/arbiter/pkg/fees"
	"arbiter-hq/arbiter/pkg/hardening"
	"arbiter-hq/arbiter/pkg/ledger"
	"arbiter-hq/arbiter/pkg/policy"
	"arbiter-hq/arbiter/pkg/scoring"
	"arbiter-hq/arbiter/pkg/telemetry/metrics"
	"arbiter-hq/arbiter/pkg/temporal"
)

// Status is the terminal state of one validation.
type Status string

const (
	StatusPassedCoherence    Status = "PASSED_COHERENCE"
	StatusFailedDivergence   Status = "FAILED_DIVERGENCE"
	StatusFrozenKernel       Status = "ATLAS_FROZEN_KERNEL"
	StatusBlockedSovereignty Status = "BLOCKED_SOVEREIGNTY_VIOLATION"
)

// ContextSystemCommand marks a request as a privileged system operation
// subject to the sovereignty check.
const ContextSystemCommand = "system_command"

// Result is the per-request pipeline output.
type Result struct {
	Status         Status            `json:"status"`
	EventID        string            `json:"event_id"`
	Reason         string            `json:"reason,omitempty"`
	Score          scoring.Metrics   `json:"score"`
	Threshold      float64           `json:"threshold"`
	FeeMandate     fees.FeeGapResult `json:"fee_mandate"`
	CurrentFee     float64           `json:"current_fee"`
	TimeVerified   bool              `json:"time_verified"`
	Frozen         bool              `json:"frozen"`
	ImmunityCount  int               `json:"immunity_count"`
	ValidationTime time.Duration     `json:"validation_time"`
}

// ForensicReport is the guard and fee-clock snapshot for audits.
type ForensicReport struct {
	StartTime       time.Time              `json:"start_time"`
	CurrentTime     time.Time              `json:"current_time"`
	CurrentFee      float64                `json:"current_fee"`
	TimeVerified    bool                   `json:"time_verified"`
	TamperingActive bool                   `json:"tampering_active"`
	TamperLog       []temporal.TamperEvent `json:"tamper_log"`
	Status          string                 `json:"status"`
}

// Report statuses: tampering dominates, then unverified time.
const (
	ReportStatusVerified    = "VERIFIED"
	ReportStatusDegraded    = "DEGRADED"
	ReportStatusCompromised = "COMPROMISED"
)

// Config holds the orchestrator parameters.
type Config struct {
	// RoyaltyRate is applied to generated value on ledger records.
	RoyaltyRate float64
	// ValueScale converts an alignment score into generated value.
	// Default: 100
	ValueScale float64
	// InitialLoad seeds the load estimate. Default: 0.1
	InitialLoad float64
	// InitialHistoricalAvg seeds the historical score average.
	// Default: 0.75
	InitialHistoricalAvg float64
}

// Orchestrator runs the validation pipeline over its shared components.
type Orchestrator struct {
	config     Config
	vector     *policy.Vector
	controller *admission.Controller
	engine     *scoring.Engine
	classifier *fees.Classifier
	clock      *fees.Clock
	feedback   *hardening.Feedback
	ledger     *ledger.Ledger
	guard      *temporal.Guard
	veto       *Veto
	collector  *metrics.Collector
	logger     *slog.Logger

	mu        sync.Mutex
	load      float64
	histAvg   float64
	startTime time.Time
}

// Components bundles the pipeline's dependencies.
type Components struct {
	Vector     *policy.Vector
	Controller *admission.Controller
	Engine     *scoring.Engine
	Classifier *fees.Classifier
	Clock      *fees.Clock
	Feedback   *hardening.Feedback
	Ledger     *ledger.Ledger
	Guard      *temporal.Guard
	Veto       *Veto
	Collector  *metrics.Collector // optional
}

// NewOrchestrator assembles the pipeline.
func NewOrchestrator(config Config, c Components, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default().With("component", "pipeline")
	}
	if config.ValueScale <= 0 {
		config.ValueScale = 100
	}
	if config.InitialLoad <= 0 {
		config.InitialLoad = 0.1
	}
	if config.InitialHistoricalAvg <= 0 {
		config.InitialHistoricalAvg = 0.75
	}

	return &Orchestrator{
		config:     config,
		vector:     c.Vector,
		controller: c.Controller,
		engine:     c.Engine,
		classifier: c.Classifier,
		clock:      c.Clock,
		feedback:   c.Feedback,
		ledger:     c.Ledger,
		guard:      c.Guard,
		veto:       c.Veto,
		collector:  c.Collector,
		logger:     logger,
		load:       config.InitialLoad,
		histAvg:    config.InitialHistoricalAvg,
	}
}

// Start verifies time and anchors the fee obligation start.
func (o *Orchestrator) Start(ctx context.Context) {
	o.guard.Start(ctx)

	o.mu.Lock()
	o.startTime = o.guard.StartTime()
	o.mu.Unlock()

	o.logger.Info("pipeline started",
		"start_time", o.guard.StartTime(),
	)
}

// Validate runs the full pipeline for one request. The terminal status is
// carried in the Result; an error is returned only for malformed input or a
// storage failure.
func (o *Orchestrator) Validate(ctx context.Context, text, requestContext, signature string) (*Result, error) {
	if text == "" {
		return nil, ErrEmptyRequest
	}

	start := time.Now()
	eventID := "EVT-" + uuid.New().String()

	// Privileged system commands must clear the sovereignty check before
	// anything else runs.
	if requestContext == ContextSystemCommand {
		if err := o.veto.Authorize(text, signature); err != nil {
			result := &Result{
				Status:       StatusBlockedSovereignty,
				EventID:      eventID,
				Reason:       "invalid signature",
				TimeVerified: !o.guard.Degraded(),
			}
			o.finish(result, start)
			return result, nil
		}
	}

	contextRisk := riskForContext(requestContext)

	o.mu.Lock()
	load := o.load
	histAvg := o.histAvg
	o.mu.Unlock()

	threshold := o.controller.ComputeThreshold(histAvg, load, contextRisk)
	if o.collector != nil {
		o.collector.SetThreshold(threshold)
	}

	if o.controller.CheckFreeze(load) {
		score := o.engine.Score(text, o.vector)
		o.controller.Enqueue(admission.Deferred{
			Score:       score.AlignmentScore,
			RequestText: text,
			EventID:     eventID,
		})
		if o.collector != nil {
			o.collector.SetQueueDepth(o.controller.QueueDepth())
		}

		result := &Result{
			Status:       StatusFrozenKernel,
			EventID:      eventID,
			Reason:       "excess load, request deferred",
			Score:        score,
			Threshold:    threshold,
			TimeVerified: !o.guard.Degraded(),
			Frozen:       true,
		}
		o.finish(result, start)
		return result, nil
	}

	score := o.engine.Score(text, o.vector)
	mandate := o.classifier.Classify(score.AlignmentScore, threshold, score.Stability)

	if score.AlignmentScore >= threshold {
		value := score.AlignmentScore * o.config.ValueScale
		txID := "TX-" + uuid.New().String()
		if _, err := o.ledger.Record(ctx, txID, value, o.config.RoyaltyRate); err != nil {
			return nil, err
		}
		if o.collector != nil {
			o.collector.RecordLedgerAppend()
		}
	}

	if mandate.Required {
		o.feedback.Apply(mandate.Gap, text, eventID)
		if o.collector != nil {
			o.collector.RecordFee(mandate.Fee)
			o.collector.RecordHardening(string(hardening.ClassifyAttack(text)))
		}
	}

	o.mu.Lock()
	startTime := o.startTime
	o.mu.Unlock()
	currentFee := o.clock.CurrentFee(ctx, startTime)

	status := StatusFailedDivergence
	if score.AlignmentScore >= threshold {
		status = StatusPassedCoherence
	}

	result := &Result{
		Status:        status,
		EventID:       eventID,
		Score:         score,
		Threshold:     threshold,
		FeeMandate:    mandate,
		CurrentFee:    currentFee,
		TimeVerified:  !o.guard.Degraded(),
		Frozen:        false,
		ImmunityCount: o.feedback.ImmunityCount(),
	}
	o.updateHistory(score.AlignmentScore)
	o.finish(result, start)

	o.logger.Info("validation completed",
		"event_id", eventID,
		"status", status,
		"score", score.AlignmentScore,
		"threshold", threshold,
		"fee_required", mandate.Required,
	)
	return result, nil
}

// AuditExport returns the full ledger, gated by the sovereignty check. An
// invalid signature yields ErrAccessDenied and never touches the ledger.
func (o *Orchestrator) AuditExport(ctx context.Context, signature string) ([]*ledger.Entry, error) {
	if err := o.veto.Authorize("AUDIT_CERTIFICATION", signature); err != nil {
		return nil, err
	}
	return o.ledger.Export(ctx)
}

// ForceMajeure resets the fee obligation start with a valid primary
// signature, restarting the grace window.
func (o *Orchestrator) ForceMajeure(ctx context.Context, signature string) error {
	if err := o.veto.Authorize("ALIGNMENT_ENGINE_RESET", signature); err != nil {
		return err
	}

	restarted := o.guard.VerifiedNow(ctx)
	o.mu.Lock()
	o.startTime = restarted
	o.mu.Unlock()

	o.logger.Warn("force majeure accepted, grace window restarted",
		"new_start_time", restarted,
	)
	return nil
}

// Report assembles the forensic snapshot of the guard and fee clock.
func (o *Orchestrator) Report(ctx context.Context) *ForensicReport {
	o.mu.Lock()
	startTime := o.startTime
	o.mu.Unlock()

	now := o.guard.VerifiedNow(ctx)
	fee := o.clock.CurrentFee(ctx, startTime)
	state := o.guard.State()

	status := ReportStatusVerified
	switch {
	case state.TamperingActive:
		status = ReportStatusCompromised
	case state.Degraded:
		status = ReportStatusDegraded
	}

	return &ForensicReport{
		StartTime:       startTime,
		CurrentTime:     now,
		CurrentFee:      fee,
		TimeVerified:    !state.Degraded,
		TamperingActive: state.TamperingActive,
		TamperLog:       state.TamperLog,
		Status:          status,
	}
}

// finish updates the load estimate from observed latency and records the
// validation metric.
func (o *Orchestrator) finish(result *Result, start time.Time) {
	elapsed := time.Since(start)
	result.ValidationTime = elapsed

	o.mu.Lock()
	o.load = clampLoad(o.load*0.95 + elapsed.Seconds()*0.05)
	load := o.load
	o.mu.Unlock()

	o.controller.RecordLoad(load)
	if o.collector != nil {
		o.collector.SetLoad(load)
		o.collector.RecordValidation(string(result.Status), elapsed)
	}
}

func (o *Orchestrator) updateHistory(score float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.histAvg = o.histAvg*0.9 + score*0.1
}

func riskForContext(requestContext string) float64 {
	if strings.Contains(requestContext, "adversarial") {
		return 0.9
	}
	return 0.1
}

func clampLoad(v float64) float64 {
	if v < 0.05 {
		return 0.05
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
