package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"thinline/internal/domain"
)

// SQLStorage keeps the history of runs in sqlite or mysql
type SQLStorage struct {
	db     *sql.DB
	driver string
}

// migrations are applied in order; the index plus one is the schema version
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		run_id VARCHAR(36) NOT NULL PRIMARY KEY,
		created_at BIGINT NOT NULL,
		total_cases INTEGER NOT NULL,
		total_checks INTEGER NOT NULL,
		passed_checks INTEGER NOT NULL,
		failed_checks INTEGER NOT NULL,
		skipped_checks INTEGER NOT NULL,
		duration VARCHAR(64) NOT NULL,
		duration_seconds DOUBLE PRECISION NOT NULL,
		workers INTEGER NOT NULL,
		run_timestamp VARCHAR(64) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS failures (
		run_id VARCHAR(36) NOT NULL,
		ordinal INTEGER NOT NULL,
		case_id VARCHAR(255) NOT NULL,
		function_name VARCHAR(255) NOT NULL,
		file_path TEXT NOT NULL,
		line INTEGER NOT NULL,
		expectation TEXT NOT NULL,
		expected TEXT NOT NULL,
		actual TEXT NOT NULL,
		message TEXT NOT NULL,
		PRIMARY KEY (run_id, ordinal)
	)`,
}

// OpenSQL opens the history database and applies pending migrations.
// Supported drivers are "sqlite" and "mysql"
func OpenSQL(ctx context.Context, driver, dsn string) (*SQLStorage, error) {
	switch driver {
	case "sqlite", "mysql":
	default:
		return nil, fmt.Errorf("unsupported database driver %q (expected sqlite or mysql)", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if driver == "sqlite" {
		// a single connection keeps :memory: databases alive and serializes writes
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	s := &SQLStorage{db: db, driver: driver}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate brings the schema to the latest version
func (s *SQLStorage) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER NOT NULL PRIMARY KEY)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for i := current; i < len(migrations); i++ {
		if err := s.applyMigration(ctx, i+1, migrations[i]); err != nil {
			return err
		}
	}
	return nil
}

// applyMigration runs one migration and records its version in the same
// transaction. MySQL commits DDL implicitly, so there the pair is only as
// atomic as the statement itself
func (s *SQLStorage) applyMigration(ctx context.Context, version int, stmt string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", version, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("migration %d: %w", version, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
		return fmt.Errorf("record migration %d: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %d: %w", version, err)
	}
	return nil
}

// Version returns the applied schema version
func (s *SQLStorage) Version(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

// Record stores a run and its failures. A missing run ID is filled with a
// new UUID
func (s *SQLStorage) Record(ctx context.Context, output *domain.RunOutput) error {
	if output.Meta.RunID == "" {
		output.Meta.RunID = uuid.NewString()
	}
	m := output.Meta

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO runs (run_id, created_at, total_cases, total_checks, passed_checks,
		failed_checks, skipped_checks, duration, duration_seconds, workers, run_timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.RunID, time.Now().UnixNano(), m.TotalCases, m.TotalChecks, m.PassedChecks,
		m.FailedChecks, m.SkippedChecks, m.Duration, m.DurationSeconds, m.Workers, m.Timestamp)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", m.RunID, err)
	}

	for i, f := range output.Details {
		_, err = tx.ExecContext(ctx, `INSERT INTO failures (run_id, ordinal, case_id, function_name, file_path,
			line, expectation, expected, actual, message)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.RunID, i, f.CaseID, f.Function, f.FilePath, f.Line, f.Expectation, f.Expected, f.Actual, f.Message)
		if err != nil {
			return fmt.Errorf("insert failure %s: %w", f.CaseID, err)
		}
	}
	return tx.Commit()
}

// Runs returns the most recent runs first. A limit below one returns all
func (s *SQLStorage) Runs(ctx context.Context, limit int) ([]domain.RunMeta, error) {
	query := `SELECT run_id, total_cases, total_checks, passed_checks, failed_checks, skipped_checks,
		duration, duration_seconds, workers, run_timestamp FROM runs ORDER BY created_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunMeta
	for rows.Next() {
		var m domain.RunMeta
		if err := rows.Scan(&m.RunID, &m.TotalCases, &m.TotalChecks, &m.PassedChecks, &m.FailedChecks,
			&m.SkippedChecks, &m.Duration, &m.DurationSeconds, &m.Workers, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, m)
	}
	return runs, rows.Err()
}

// ErrRunNotFound is returned by Failures for an unknown run ID
var ErrRunNotFound = errors.New("run not found")

// Failures returns the failures recorded for a run, in their original order
func (s *SQLStorage) Failures(ctx context.Context, runID string) ([]domain.CaseFailure, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE run_id = ?`, runID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", runID, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT case_id, function_name, file_path, line, expectation, expected,
		actual, message FROM failures WHERE run_id = ? ORDER BY ordinal`, runID)
	if err != nil {
		return nil, fmt.Errorf("query failures: %w", err)
	}
	defer rows.Close()

	failures := []domain.CaseFailure{}
	for rows.Next() {
		var f domain.CaseFailure
		if err := rows.Scan(&f.CaseID, &f.Function, &f.FilePath, &f.Line, &f.Expectation, &f.Expected,
			&f.Actual, &f.Message); err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		failures = append(failures, f)
	}
	return failures, rows.Err()
}

// Close closes the database
func (s *SQLStorage) Close() error {
	return s.db.Close()
}
