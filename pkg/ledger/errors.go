package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateReport is returned when a usage report already exists for
	// the period.
	ErrDuplicateReport = errors.New("usage report already submitted for period")

	// ErrEmptyTransactionID is returned by Record for an empty transaction ID.
	ErrEmptyTransactionID = errors.New("transaction id must not be empty")
)

// ChainError reports a broken hash link found during verification.
type ChainError struct {
	Sequence uint64
	Expected string
	Actual   string
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("ledger chain broken at sequence %d: expected hash %s, got %s",
		e.Sequence, e.Expected, e.Actual)
}

// StorageError wraps a storage backend failure.
type StorageError struct {
	Backend string
	Op      string
	Err     error
}

// NewStorageError creates a storage error for the given backend and operation.
func NewStorageError(backend, op string, err error) *StorageError {
	return &StorageError{Backend: backend, Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("ledger storage %s: %s: %v", e.Backend, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
