package ledger

import (
	"context"
	"sync"
)

// MemoryReportStore is an in-memory ReportStore for tests and ephemeral
// deployments.
type MemoryReportStore struct {
	mu       sync.RWMutex
	reports  map[string]*UsageReport
	breaches []*BreachEvent
}

// NewMemoryReportStore creates an empty in-memory report store.
func NewMemoryReportStore() *MemoryReportStore {
	return &MemoryReportStore{
		reports: make(map[string]*UsageReport),
	}
}

func (s *MemoryReportStore) SaveReport(_ context.Context, r *UsageReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.reports[r.Period]; exists {
		return ErrDuplicateReport
	}
	clone := *r
	s.reports[r.Period] = &clone
	return nil
}

func (s *MemoryReportStore) GetReport(_ context.Context, period string) (*UsageReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[period]
	if !ok {
		return nil, nil
	}
	clone := *r
	return &clone, nil
}

func (s *MemoryReportStore) SaveBreach(_ context.Context, b *BreachEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *b
	s.breaches = append(s.breaches, &clone)
	return nil
}

func (s *MemoryReportStore) Breaches(_ context.Context) ([]*BreachEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*BreachEvent, len(s.breaches))
	for i, b := range s.breaches {
		clone := *b
		out[i] = &clone
	}
	return out, nil
}

func (s *MemoryReportStore) Close() error { return nil }
