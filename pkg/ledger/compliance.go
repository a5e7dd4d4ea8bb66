package ledger

import (
	"context"
	"log/slog"
	"time"
)

// ComplianceStatus is the outcome of an underreporting check.
type ComplianceStatus string

const (
	StatusCompliant         ComplianceStatus = "COMPLIANT"
	StatusUnderreporting    ComplianceStatus = "UNDERREPORTING_DETECTED"
	StatusNoReportSubmitted ComplianceStatus = "NO_REPORT_SUBMITTED"
)

// PenaltyTagAutoAudit marks a breach that triggers an automatic audit.
const PenaltyTagAutoAudit = "BREACH_AUTO_AUDIT_TRIGGERED"

// UsageReport is a self-reported usage count for one period.
type UsageReport struct {
	Period        string    `json:"period"`
	ReportedCount int64     `json:"reported_count"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// BreachEvent records an underreporting violation beyond tolerance.
type BreachEvent struct {
	Timestamp      time.Time `json:"timestamp"`
	Period         string    `json:"period"`
	ActualCount    int64     `json:"actual_count"`
	ReportedCount  int64     `json:"reported_count"`
	DiscrepancyPct float64   `json:"discrepancy_pct"`
	PenaltyTag     string    `json:"penalty_tag"`
}

// ComplianceResult is the outcome of DetectUnderreporting for a period.
type ComplianceResult struct {
	Status         ComplianceStatus `json:"status"`
	Period         string           `json:"period"`
	ActualCount    int64            `json:"actual_count"`
	ReportedCount  int64            `json:"reported_count"`
	DiscrepancyPct float64          `json:"discrepancy_pct"`
	Breach         *BreachEvent     `json:"breach,omitempty"`
}

// ReportStore persists usage reports and breach events.
type ReportStore interface {
	// SaveReport persists a report; a second report for the same period
	// fails with ErrDuplicateReport.
	SaveReport(ctx context.Context, r *UsageReport) error
	// GetReport returns the report for a period, or nil when none exists.
	GetReport(ctx context.Context, period string) (*UsageReport, error)
	// SaveBreach persists a breach event.
	SaveBreach(ctx context.Context, b *BreachEvent) error
	// Breaches returns all recorded breach events.
	Breaches(ctx context.Context) ([]*BreachEvent, error)
	// Close releases backend resources.
	Close() error
}

// Monitor runs underreporting detection over a ledger and its report store.
type Monitor struct {
	ledger       *Ledger
	reports      ReportStore
	tolerancePct float64
	logger       *slog.Logger
	now          func() time.Time
	onBreach     func(*BreachEvent)
}

// NewMonitor creates a compliance monitor with the given discrepancy
// tolerance in percent.
func NewMonitor(l *Ledger, reports ReportStore, tolerancePct float64, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default().With("component", "ledger.compliance")
	}
	return &Monitor{
		ledger:       l,
		reports:      reports,
		tolerancePct: tolerancePct,
		logger:       logger,
		now:          time.Now,
	}
}

// OnBreach registers a hook invoked for every persisted breach event.
func (m *Monitor) OnBreach(fn func(*BreachEvent)) {
	m.onBreach = fn
}

// SubmitReport accepts one usage report per period.
func (m *Monitor) SubmitReport(ctx context.Context, period string, reportedCount int64) error {
	err := m.reports.SaveReport(ctx, &UsageReport{
		Period:        period,
		ReportedCount: reportedCount,
		SubmittedAt:   m.now().UTC(),
	})
	if err != nil {
		return err
	}

	m.logger.Info("usage report received",
		"period", period,
		"reported_count", reportedCount,
	)
	return nil
}

// DetectUnderreporting compares the actual ledger entry count for the period
// against the submitted report. A discrepancy above tolerance produces a
// breach event with a penalty tag; a missing report is its own violation.
func (m *Monitor) DetectUnderreporting(ctx context.Context, period string) (*ComplianceResult, error) {
	actual, err := m.ledger.CountInPeriod(ctx, period)
	if err != nil {
		return nil, err
	}

	report, err := m.reports.GetReport(ctx, period)
	if err != nil {
		return nil, err
	}
	if report == nil {
		m.logger.Warn("no usage report submitted for period",
			"period", period,
			"actual_count", actual,
		)
		return &ComplianceResult{
			Status:      StatusNoReportSubmitted,
			Period:      period,
			ActualCount: actual,
		}, nil
	}

	var discrepancyPct float64
	if actual > 0 {
		discrepancyPct = float64(actual-report.ReportedCount) / float64(actual) * 100
	}

	result := &ComplianceResult{
		Period:         period,
		ActualCount:    actual,
		ReportedCount:  report.ReportedCount,
		DiscrepancyPct: discrepancyPct,
	}

	if discrepancyPct > m.tolerancePct {
		breach := &BreachEvent{
			Timestamp:      m.now().UTC(),
			Period:         period,
			ActualCount:    actual,
			ReportedCount:  report.ReportedCount,
			DiscrepancyPct: discrepancyPct,
			PenaltyTag:     PenaltyTagAutoAudit,
		}
		if err := m.reports.SaveBreach(ctx, breach); err != nil {
			return nil, err
		}
		if m.onBreach != nil {
			m.onBreach(breach)
		}

		m.logger.Error("underreporting detected",
			"period", period,
			"actual_count", actual,
			"reported_count", report.ReportedCount,
			"discrepancy_pct", discrepancyPct,
		)

		result.Status = StatusUnderreporting
		result.Breach = breach
		return result, nil
	}

	result.Status = StatusCompliant
	return result, nil
}
