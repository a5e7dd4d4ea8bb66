package ledger

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Store persists ledger entries. Append order defines the chain; backends
// must return entries in ascending sequence from All.
type Store interface {
	// Append persists one entry.
	Append(ctx context.Context, e *Entry) error
	// Last returns the highest-sequence entry, or nil for an empty ledger.
	Last(ctx context.Context) (*Entry, error)
	// All returns every entry in ascending sequence order.
	All(ctx context.Context) ([]*Entry, error)
	// CountInPeriod counts entries whose timestamp falls in the period key
	// (an RFC 3339 UTC prefix such as "2026-03").
	CountInPeriod(ctx context.Context, period string) (int64, error)
	// Close releases backend resources.
	Close() error
}

// MemoryStore is an in-memory Store for tests and ephemeral deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []*Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *e
	s.entries = append(s.entries, &clone)
	return nil
}

func (s *MemoryStore) Last(_ context.Context) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.entries) == 0 {
		return nil, nil
	}
	clone := *s.entries[len(s.entries)-1]
	return &clone, nil
}

func (s *MemoryStore) All(_ context.Context) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Entry, len(s.entries))
	for i, e := range s.entries {
		clone := *e
		out[i] = &clone
	}
	return out, nil
}

func (s *MemoryStore) CountInPeriod(_ context.Context, period string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, e := range s.entries {
		if InPeriod(e.Timestamp, period) {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) Close() error { return nil }

// InPeriod reports whether the timestamp falls in the period key, where the
// key is a prefix of the RFC 3339 UTC form, e.g. "2026", "2026-03" or
// "2026-03-15".
func InPeriod(ts time.Time, period string) bool {
	return strings.HasPrefix(ts.UTC().Format(time.RFC3339), period)
}

// PeriodKey returns the month-granularity period key for a timestamp.
func PeriodKey(ts time.Time) string {
	return ts.UTC().Format("2006-01")
}
