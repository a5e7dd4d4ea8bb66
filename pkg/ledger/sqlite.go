package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteConfig contains configuration for the SQLite ledger store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:        "data/ledger.db",
		WALMode:     true,
		BusyTimeout: 5 * time.Second,
	}
}

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS ledger (
	sequence       INTEGER PRIMARY KEY,
	transaction_id TEXT NOT NULL,
	value          REAL NOT NULL,
	fee            REAL NOT NULL,
	timestamp      TEXT NOT NULL,
	hash           TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_ledger_timestamp ON ledger(timestamp);
`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore opens (creating if needed) a SQLite-backed ledger store.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "ledger.storage.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}

	s := &SQLiteStore{db: db, config: config, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite ledger store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStorageError("sqlite", "enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(ledgerSchema); err != nil {
		return NewStorageError("sqlite", "create_schema", err)
	}
	return nil
}

func (s *SQLiteStore) Append(ctx context.Context, e *Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ledger (sequence, transaction_id, value, fee, timestamp, hash)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Sequence, e.TransactionID, e.Value, e.Fee,
		e.Timestamp.UTC().Format(time.RFC3339Nano), e.Hash,
	)
	if err != nil {
		return NewStorageError("sqlite", "append", err)
	}
	return nil
}

func (s *SQLiteStore) Last(ctx context.Context) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT sequence, transaction_id, value, fee, timestamp, hash
		 FROM ledger ORDER BY sequence DESC LIMIT 1`)

	e, err := scanEntry(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, NewStorageError("sqlite", "last", err)
	}
	return e, nil
}

func (s *SQLiteStore) All(ctx context.Context) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sequence, transaction_id, value, fee, timestamp, hash
		 FROM ledger ORDER BY sequence ASC`)
	if err != nil {
		return nil, NewStorageError("sqlite", "all", err)
	}
	defer rows.Close()

	entries := []*Entry{}
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, NewStorageError("sqlite", "scan", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "all", err)
	}
	return entries, nil
}

func (s *SQLiteStore) CountInPeriod(ctx context.Context, period string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ledger WHERE timestamp LIKE ?`,
		period+"%",
	).Scan(&count)
	if err != nil {
		return 0, NewStorageError("sqlite", "count_in_period", err)
	}
	return count, nil
}

func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStorageError("sqlite", "close", err)
	}
	s.logger.Info("SQLite ledger store closed")
	return nil
}

func scanEntry(scan func(dest ...any) error) (*Entry, error) {
	var e Entry
	var ts string
	if err := scan(&e.Sequence, &e.TransactionID, &e.Value, &e.Fee, &ts, &e.Hash); err != nil {
		return nil, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return nil, err
	}
	e.Timestamp = parsed
	return &e, nil
}
