package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jiwonseo/kma-dashboard/internal/forecast"
)

// Store persists forecast records in SQLite. Each bulletin row is keyed by
// (base_date, base_time, forecast_date, forecast_time, nx, ny, category);
// the primary key backs the upsert semantics.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at path and applies the schema.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// UpsertBulletin writes all records of one fetch inside a single transaction.
// Re-writing the same bulletin replaces values in place and never grows the
// row count.
func (s *Store) UpsertBulletin(ctx context.Context, records []forecast.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO short_term_forecasts (
			base_date, base_time, forecast_date, forecast_time,
			nx, ny, category, fcst_value, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(base_date, base_time, forecast_date, forecast_time, nx, ny, category)
		DO UPDATE SET
			fcst_value = excluded.fcst_value,
			recorded_at = excluded.recorded_at
	`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := range records {
		record := records[i]
		if record.RecordedAt.IsZero() {
			record.RecordedAt = now
		}
		_, err = stmt.ExecContext(
			ctx,
			record.BaseDate,
			record.BaseTime,
			record.FcstDate,
			record.FcstTime,
			record.Nx,
			record.Ny,
			record.Category,
			record.Value,
			record.RecordedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

// LatestBulletin selects the newest reference stamp for the grid and returns
// all of its rows ordered by forecast stamp ascending. The lexicographic
// ORDER BY is chronologically correct because stamps are fixed-width
// zero-padded strings.
func (s *Store) LatestBulletin(ctx context.Context, nx, ny int) ([]forecast.Record, error) {
	var baseDate, baseTime string
	err := s.db.QueryRowContext(ctx, `
		SELECT base_date, base_time FROM short_term_forecasts
		WHERE nx = ? AND ny = ?
		ORDER BY base_date DESC, base_time DESC
		LIMIT 1
	`, nx, ny).Scan(&baseDate, &baseTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, forecast.ErrNoBulletin
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT forecast_date, forecast_time, category, fcst_value, recorded_at
		FROM short_term_forecasts
		WHERE base_date = ? AND base_time = ? AND nx = ? AND ny = ?
		ORDER BY forecast_date ASC, forecast_time ASC
	`, baseDate, baseTime, nx, ny)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []forecast.Record
	for rows.Next() {
		record := forecast.Record{
			BaseDate: baseDate,
			BaseTime: baseTime,
			Nx:       nx,
			Ny:       ny,
		}
		var recordedAt string
		if err := rows.Scan(&record.FcstDate, &record.FcstTime, &record.Category, &record.Value, &recordedAt); err != nil {
			return nil, err
		}
		if ts, parseErr := time.Parse(time.RFC3339, recordedAt); parseErr == nil {
			record.RecordedAt = ts
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, forecast.ErrNoBulletin
	}

	return records, nil
}

// PruneBefore deletes every bulletin published before cutoffDate (YYYYMMDD).
func (s *Store) PruneBefore(ctx context.Context, cutoffDate string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM short_term_forecasts WHERE base_date < ?`, cutoffDate)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *Store) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS short_term_forecasts (
			base_date TEXT NOT NULL,
			base_time TEXT NOT NULL,
			forecast_date TEXT NOT NULL,
			forecast_time TEXT NOT NULL,
			nx INTEGER NOT NULL,
			ny INTEGER NOT NULL,
			category TEXT NOT NULL,
			fcst_value TEXT NOT NULL,
			recorded_at TEXT NOT NULL,
			PRIMARY KEY (base_date, base_time, forecast_date, forecast_time, nx, ny, category)
		);`,
	}

	for _, statement := range statements {
		if _, err := s.db.Exec(statement); err != nil {
			return err
		}
	}

	return nil
}
