package ledger

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Ledger is the append-only hash-chained event log. All appends go through a
// single mutex so each entry's hash covers the immediately preceding one.
type Ledger struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	lastHash string
	nextSeq  uint64
}

// Open creates a ledger over the given store, resuming the chain from the
// last persisted entry.
func Open(ctx context.Context, store Store, logger *slog.Logger) (*Ledger, error) {
	if logger == nil {
		logger = slog.Default().With("component", "ledger")
	}

	l := &Ledger{
		store:    store,
		logger:   logger,
		now:      time.Now,
		lastHash: GenesisHash,
		nextSeq:  1,
	}

	last, err := store.Last(ctx)
	if err != nil {
		return nil, err
	}
	if last != nil {
		l.lastHash = last.Hash
		l.nextSeq = last.Sequence + 1
		logger.Info("ledger chain resumed",
			"last_sequence", last.Sequence,
		)
	}
	return l, nil
}

// Record appends a chargeable event. The fee is value times royaltyRate, the
// sequence is strictly monotonic, and the hash chains to the previous entry.
// Prior entries are never mutated or removed.
func (l *Ledger) Record(ctx context.Context, transactionID string, value, royaltyRate float64) (*Entry, error) {
	if transactionID == "" {
		return nil, ErrEmptyTransactionID
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e := &Entry{
		Sequence:      l.nextSeq,
		TransactionID: transactionID,
		Value:         value,
		Fee:           value * royaltyRate,
		Timestamp:     l.now().UTC(),
	}
	e.Hash = ComputeHash(l.lastHash, e)

	if err := l.store.Append(ctx, e); err != nil {
		return nil, err
	}

	l.lastHash = e.Hash
	l.nextSeq++

	l.logger.Info("ledger entry recorded",
		"sequence", e.Sequence,
		"transaction_id", e.TransactionID,
		"fee", e.Fee,
	)
	return e, nil
}

// VerifyChain recomputes every hash link from the genesis sentinel. The
// first mismatch is returned as a ChainError.
func (l *Ledger) VerifyChain(ctx context.Context) error {
	entries, err := l.store.All(ctx)
	if err != nil {
		return err
	}

	prevHash := GenesisHash
	for _, e := range entries {
		expected := ComputeHash(prevHash, e)
		if e.Hash != expected {
			return &ChainError{
				Sequence: e.Sequence,
				Expected: expected,
				Actual:   e.Hash,
			}
		}
		prevHash = e.Hash
	}

	l.logger.Debug("ledger chain verified",
		"entries", len(entries),
	)
	return nil
}

// Export returns every entry in sequence order.
func (l *Ledger) Export(ctx context.Context) ([]*Entry, error) {
	return l.store.All(ctx)
}

// CountInPeriod counts entries whose timestamp falls in the period key.
func (l *Ledger) CountInPeriod(ctx context.Context, period string) (int64, error) {
	return l.store.CountInPeriod(ctx, period)
}
