package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteReportStoreConfig configures the SQLite report store.
type SQLiteReportStoreConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

const reportSchema = `
CREATE TABLE IF NOT EXISTS usage_reports (
	period         TEXT PRIMARY KEY,
	reported_count INTEGER NOT NULL,
	submitted_at   TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS breach_events (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp       TEXT NOT NULL,
	period          TEXT NOT NULL,
	actual_count    INTEGER NOT NULL,
	reported_count  INTEGER NOT NULL,
	discrepancy_pct REAL NOT NULL,
	penalty_tag     TEXT NOT NULL
);
`

// SQLiteReportStore implements ReportStore using SQLite.
type SQLiteReportStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteReportStore opens (creating if needed) a SQLite-backed report
// store.
func NewSQLiteReportStore(cfg SQLiteReportStoreConfig) (*SQLiteReportStore, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}

	if _, err := db.Exec(reportSchema); err != nil {
		db.Close()
		return nil, NewStorageError("sqlite", "create_schema", err)
	}

	logger := slog.Default().With("component", "ledger.reportstore.sqlite")
	logger.Info("SQLite report store initialized", "path", cfg.DBPath)

	return &SQLiteReportStore{db: db, logger: logger}, nil
}

func (s *SQLiteReportStore) SaveReport(ctx context.Context, r *UsageReport) error {
	existing, err := s.GetReport(ctx, r.Period)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicateReport
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO usage_reports (period, reported_count, submitted_at) VALUES (?, ?, ?)`,
		r.Period, r.ReportedCount, r.SubmittedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return NewStorageError("sqlite", "save_report", err)
	}
	return nil
}

func (s *SQLiteReportStore) GetReport(ctx context.Context, period string) (*UsageReport, error) {
	var r UsageReport
	var submittedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT period, reported_count, submitted_at FROM usage_reports WHERE period = ?`,
		period,
	).Scan(&r.Period, &r.ReportedCount, &submittedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, NewStorageError("sqlite", "get_report", err)
	}

	r.SubmittedAt, err = time.Parse(time.RFC3339Nano, submittedAt)
	if err != nil {
		return nil, NewStorageError("sqlite", "get_report", err)
	}
	return &r, nil
}

func (s *SQLiteReportStore) SaveBreach(ctx context.Context, b *BreachEvent) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO breach_events (timestamp, period, actual_count, reported_count, discrepancy_pct, penalty_tag)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		b.Timestamp.UTC().Format(time.RFC3339Nano), b.Period,
		b.ActualCount, b.ReportedCount, b.DiscrepancyPct, b.PenaltyTag,
	)
	if err != nil {
		return NewStorageError("sqlite", "save_breach", err)
	}
	return nil
}

func (s *SQLiteReportStore) Breaches(ctx context.Context) ([]*BreachEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp, period, actual_count, reported_count, discrepancy_pct, penalty_tag
		 FROM breach_events ORDER BY id ASC`)
	if err != nil {
		return nil, NewStorageError("sqlite", "breaches", err)
	}
	defer rows.Close()

	breaches := []*BreachEvent{}
	for rows.Next() {
		var b BreachEvent
		var ts string
		if err := rows.Scan(&ts, &b.Period, &b.ActualCount, &b.ReportedCount, &b.DiscrepancyPct, &b.PenaltyTag); err != nil {
			return nil, NewStorageError("sqlite", "scan", err)
		}
		if b.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, NewStorageError("sqlite", "scan", err)
		}
		breaches = append(breaches, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "breaches", err)
	}
	return breaches, nil
}

func (s *SQLiteReportStore) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStorageError("sqlite", "close", err)
	}
	s.logger.Info("SQLite report store closed")
	return nil
}
