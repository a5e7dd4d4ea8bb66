package ledger

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestMonitor(t *testing.T) (*Monitor, *Ledger, *MemoryReportStore) {
	t.Helper()
	l, _ := newTestLedger(t)
	l.now = func() time.Time {
		return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	}
	reports := NewMemoryReportStore()
	return NewMonitor(l, reports, 5.0, nil), l, reports
}

func TestMonitor_DuplicateReport(t *testing.T) {
	m, _, _ := newTestMonitor(t)
	ctx := context.Background()

	if err := m.SubmitReport(ctx, "2026-03", 10); err != nil {
		t.Fatalf("SubmitReport() error = %v", err)
	}
	if err := m.SubmitReport(ctx, "2026-03", 12); !errors.Is(err, ErrDuplicateReport) {
		t.Errorf("second SubmitReport() error = %v, want ErrDuplicateReport", err)
	}
}

func TestMonitor_NoReportSubmitted(t *testing.T) {
	m, l, _ := newTestMonitor(t)
	ctx := context.Background()

	if _, err := l.Record(ctx, "tx-1", 100, 0.05); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	result, err := m.DetectUnderreporting(ctx, "2026-03")
	if err != nil {
		t.Fatalf("DetectUnderreporting() error = %v", err)
	}
	if result.Status != StatusNoReportSubmitted {
		t.Errorf("status = %q, want %q", result.Status, StatusNoReportSubmitted)
	}
	if result.ActualCount != 1 {
		t.Errorf("actual count = %d, want 1", result.ActualCount)
	}
}

func TestMonitor_UnderreportingBreach(t *testing.T) {
	// One recorded usage, reported as zero: 100% discrepancy.
	m, l, reports := newTestMonitor(t)
	ctx := context.Background()

	entry, err := l.Record(ctx, "tx-1", 500, 0.05)
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if entry.Fee != 25.0 {
		t.Fatalf("fee = %v, want 25.0", entry.Fee)
	}

	if err := m.SubmitReport(ctx, "2026-03", 0); err != nil {
		t.Fatalf("SubmitReport() error = %v", err)
	}

	result, err := m.DetectUnderreporting(ctx, "2026-03")
	if err != nil {
		t.Fatalf("DetectUnderreporting() error = %v", err)
	}
	if result.Status != StatusUnderreporting {
		t.Fatalf("status = %q, want %q", result.Status, StatusUnderreporting)
	}
	if result.DiscrepancyPct != 100.0 {
		t.Errorf("discrepancy = %v, want 100.0", result.DiscrepancyPct)
	}
	if result.Breach == nil || result.Breach.PenaltyTag != PenaltyTagAutoAudit {
		t.Errorf("breach = %+v, want penalty tag %q", result.Breach, PenaltyTagAutoAudit)
	}

	saved, err := reports.Breaches(ctx)
	if err != nil {
		t.Fatalf("Breaches() error = %v", err)
	}
	if len(saved) != 1 {
		t.Errorf("saved breaches = %d, want 1", len(saved))
	}
}

func TestMonitor_BreachHook(t *testing.T) {
	m, l, _ := newTestMonitor(t)
	ctx := context.Background()

	var hooked []*BreachEvent
	m.OnBreach(func(b *BreachEvent) { hooked = append(hooked, b) })

	if _, err := l.Record(ctx, "tx-1", 500, 0.05); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := m.SubmitReport(ctx, "2026-03", 0); err != nil {
		t.Fatalf("SubmitReport() error = %v", err)
	}

	if _, err := m.DetectUnderreporting(ctx, "2026-03"); err != nil {
		t.Fatalf("DetectUnderreporting() error = %v", err)
	}
	if len(hooked) != 1 {
		t.Fatalf("breach hook calls = %d, want 1", len(hooked))
	}
	if hooked[0].Period != "2026-03" {
		t.Errorf("hooked breach period = %q, want 2026-03", hooked[0].Period)
	}

	// A compliant period fires nothing.
	if _, err := m.DetectUnderreporting(ctx, "2026-04"); err != nil {
		t.Fatalf("DetectUnderreporting() error = %v", err)
	}
	if len(hooked) != 1 {
		t.Errorf("breach hook calls = %d after compliant period, want 1", len(hooked))
	}
}

func TestMonitor_ToleranceBoundary(t *testing.T) {
	// 20 actual, 19 reported is exactly 5% discrepancy: compliant, since the
	// breach threshold is strictly greater than tolerance.
	m, l, _ := newTestMonitor(t)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		if _, err := l.Record(ctx, "tx", 100, 0.05); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	if err := m.SubmitReport(ctx, "2026-03", 19); err != nil {
		t.Fatalf("SubmitReport() error = %v", err)
	}

	result, err := m.DetectUnderreporting(ctx, "2026-03")
	if err != nil {
		t.Fatalf("DetectUnderreporting() error = %v", err)
	}
	if result.Status != StatusCompliant {
		t.Errorf("status = %q, want %q (5%% is within tolerance)", result.Status, StatusCompliant)
	}
	if result.DiscrepancyPct != 5.0 {
		t.Errorf("discrepancy = %v, want 5.0", result.DiscrepancyPct)
	}
}

func TestMonitor_EmptyPeriodZeroDiscrepancy(t *testing.T) {
	m, _, _ := newTestMonitor(t)
	ctx := context.Background()

	if err := m.SubmitReport(ctx, "2026-03", 0); err != nil {
		t.Fatalf("SubmitReport() error = %v", err)
	}

	result, err := m.DetectUnderreporting(ctx, "2026-03")
	if err != nil {
		t.Fatalf("DetectUnderreporting() error = %v", err)
	}
	if result.Status != StatusCompliant {
		t.Errorf("status = %q, want %q", result.Status, StatusCompliant)
	}
	if result.DiscrepancyPct != 0 {
		t.Errorf("discrepancy = %v, want 0", result.DiscrepancyPct)
	}
}

func TestMonitor_OverreportingCompliant(t *testing.T) {
	m, l, _ := newTestMonitor(t)
	ctx := context.Background()

	if _, err := l.Record(ctx, "tx-1", 100, 0.05); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := m.SubmitReport(ctx, "2026-03", 5); err != nil {
		t.Fatalf("SubmitReport() error = %v", err)
	}

	result, err := m.DetectUnderreporting(ctx, "2026-03")
	if err != nil {
		t.Fatalf("DetectUnderreporting() error = %v", err)
	}
	if result.Status != StatusCompliant {
		t.Errorf("status = %q, want %q", result.Status, StatusCompliant)
	}
}
