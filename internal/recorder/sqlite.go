package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"PeriodStats/internal/model"
)

// SQLiteRecorder persists refresh history to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zerolog.Logger
}

// Ensure the SQLiteRecorder implements the Recorder interface.
var _ Recorder = (*SQLiteRecorder)(nil)

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zerolog.Logger) (*SQLiteRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read while a refresh writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			source      TEXT,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER,
			symbols     INTEGER,
			succeeded   INTEGER,
			failed      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS symbol_snapshots (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL,
			symbol    TEXT NOT NULL,
			price     REAL,
			months    INTEGER,
			weeks     INTEGER,
			biweeks   INTEGER,
			timestamp INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_symbol ON symbol_snapshots(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS period_records (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id             TEXT NOT NULL,
			symbol             TEXT NOT NULL,
			scheme             TEXT NOT NULL,
			period             TEXT NOT NULL,
			average_close      REAL,
			average_volume     INTEGER,
			close_growth_rate  REAL,
			volume_growth_rate REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_period_lookup ON period_records(run_id, symbol, scheme, period)`,

		`CREATE TABLE IF NOT EXISTS symbol_failures (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL,
			symbol    TEXT NOT NULL,
			reason    TEXT,
			timestamp INTEGER NOT NULL
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordSymbol stores the snapshot and every period record of a symbol in one transaction.
func (r *SQLiteRecorder) RecordSymbol(runID, symbol string, data *model.SymbolData) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO symbol_snapshots
		(run_id, symbol, price, months, weeks, biweeks, timestamp)
		VALUES (?,?,?,?,?,?,?)`,
		runID, symbol, data.Price,
		len(data.MonthlyData), len(data.WeeklyData), len(data.BiweeklyData),
		time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO period_records
		(run_id, symbol, scheme, period, average_close, average_volume, close_growth_rate, volume_growth_rate)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare period insert: %w", err)
	}
	defer stmt.Close()

	for _, scheme := range model.Schemes {
		for _, rec := range data.Series(scheme) {
			if _, err := stmt.Exec(runID, symbol, scheme.String(), rec.Date,
				rec.AverageClose, rec.AverageVolume,
				nullable(rec.CloseGrowthRate), nullable(rec.VolumeGrowthRate),
			); err != nil {
				return fmt.Errorf("insert %s period %s: %w", scheme, rec.Date, err)
			}
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) RecordFailure(f *SymbolFailure) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO symbol_failures
		(run_id, symbol, reason, timestamp)
		VALUES (?,?,?,?)`,
		f.RunID, f.Symbol, f.Reason, time.Now().Unix(),
	)
	return err
}

func (r *SQLiteRecorder) RecordRun(run *Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO runs
		(id, source, started_at, finished_at, symbols, succeeded, failed)
		VALUES (?,?,?,?,?,?,?)`,
		run.ID, run.Source, run.StartedAt.Unix(), run.FinishedAt.Unix(),
		run.Symbols, run.Succeeded, run.Failed,
	)
	return err
}

// PeriodRecords returns the period records stored for a symbol and scheme in a run, ordered by period.
func (r *SQLiteRecorder) PeriodRecords(runID, symbol string, scheme model.Scheme) ([]model.PeriodRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT period, average_close, average_volume, close_growth_rate, volume_growth_rate
		FROM period_records WHERE run_id = ? AND symbol = ? AND scheme = ? ORDER BY period`,
		runID, symbol, scheme.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PeriodRecord
	for rows.Next() {
		var (
			rec          model.PeriodRecord
			closeGrowth  sql.NullFloat64
			volumeGrowth sql.NullFloat64
		)
		if err := rows.Scan(&rec.Date, &rec.AverageClose, &rec.AverageVolume, &closeGrowth, &volumeGrowth); err != nil {
			return nil, err
		}
		if closeGrowth.Valid {
			rec.CloseGrowthRate = &closeGrowth.Float64
		}
		if volumeGrowth.Valid {
			rec.VolumeGrowthRate = &volumeGrowth.Float64
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}

// nullable maps an absent growth rate to SQL NULL.
func nullable(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
