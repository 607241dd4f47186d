package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/DeafMist/quiet-radar/internal/models"
)

// SQLite keeps the ledger one row per day and every report as a JSON row.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
// ":memory:" gives a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// one connection per in-memory database, or each would see its own copy
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if path != ":memory:" {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &SQLite{db: db, now: time.Now}
	if err := s.createTables(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *SQLite) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS history_days (
		date TEXT PRIMARY KEY,
		counts TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reports (
		run_id TEXT PRIMARY KEY,
		generated_at INTEGER NOT NULL,
		body TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_generated ON reports(generated_at DESC);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

func (s *SQLite) LoadHistory(ctx context.Context) (models.History, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date, counts FROM history_days ORDER BY date`)
	if err != nil {
		return models.History{}, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	h := models.History{Days: []models.DaySnapshot{}}
	for rows.Next() {
		var (
			day    models.DaySnapshot
			counts string
		)
		if err := rows.Scan(&day.Date, &counts); err != nil {
			return models.History{}, fmt.Errorf("scan history: %w", err)
		}
		if err := json.Unmarshal([]byte(counts), &day.Counts); err != nil {
			return models.History{}, fmt.Errorf("decode counts of %s: %w", day.Date, err)
		}
		h.Days = append(h.Days, day)
	}
	return h, rows.Err()
}

// SaveHistory replaces the stored ledger with h.
func (s *SQLite) SaveHistory(ctx context.Context, h models.History) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM history_days`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	for _, day := range h.Days {
		counts, err := json.Marshal(day.Counts)
		if err != nil {
			return fmt.Errorf("encode counts of %s: %w", day.Date, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO history_days (date, counts) VALUES (?, ?)`, day.Date, string(counts)); err != nil {
			return fmt.Errorf("insert %s: %w", day.Date, err)
		}
	}
	return tx.Commit()
}

func (s *SQLite) SaveReport(ctx context.Context, r models.Report) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO reports (run_id, generated_at, body) VALUES (?, ?, ?)`,
		r.RunID, r.GeneratedAt.UnixNano(), string(body))
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (s *SQLite) LatestReport(ctx context.Context) (*models.Report, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM reports ORDER BY generated_at DESC, rowid DESC LIMIT 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query latest report: %w", err)
	}

	var r models.Report
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &r, nil
}

// DeleteOlderThan removes reports generated before now-maxAge, batchSize rows
// per statement.
func (s *SQLite) DeleteOlderThan(ctx context.Context, maxAge time.Duration, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = 1000
	}
	cutoff := s.now().Add(-maxAge).UnixNano()

	var total int64
	for {
		res, err := s.db.ExecContext(ctx, `
			DELETE FROM reports WHERE rowid IN (
				SELECT rowid FROM reports WHERE generated_at < ? LIMIT ?
			)`, cutoff, batchSize)
		if err != nil {
			return total, fmt.Errorf("delete reports: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("rows affected: %w", err)
		}
		total += n
		if n < int64(batchSize) {
			return total, nil
		}
	}
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
