package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/stuntrack/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLiteStore keeps records in a SQLite table created on first Append.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the SQLite database file.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite store path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on ping failure.
			_ = cerr
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const createRecordsTable = `CREATE TABLE IF NOT EXISTS records (
	id INTEGER PRIMARY KEY,
	created_at TEXT NOT NULL,
	nama TEXT NOT NULL,
	umur TEXT NOT NULL,
	gender TEXT NOT NULL,
	kelas TEXT NOT NULL,
	tinggi REAL NOT NULL,
	berat REAL NOT NULL,
	haz REAL NOT NULL,
	status TEXT NOT NULL
);`

// Append inserts one record, creating the table when absent.
func (s *SQLiteStore) Append(ctx context.Context, rec model.StoredRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, createRecordsTable); err != nil {
		return fmt.Errorf("failed to create records table: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO records (created_at, nama, umur, gender, kelas, tinggi, berat, haz, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano),
		rec.Name,
		rec.AgeText,
		rec.Sex,
		rec.Class,
		rec.HeightCm,
		rec.WeightKg,
		rec.HAZ,
		string(rec.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

// ReadAll returns every record in insertion order, or ErrNoData when the
// table has never been created.
func (s *SQLiteStore) ReadAll(ctx context.Context) ([]model.StoredRecord, error) {
	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'records'`,
	).Scan(&count); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNoData
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT nama, umur, gender, kelas, tinggi, berat, haz, status
		 FROM records
		 ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	records := []model.StoredRecord{}
	for rows.Next() {
		var rec model.StoredRecord
		var status string
		if err := rows.Scan(&rec.Name, &rec.AgeText, &rec.Sex, &rec.Class, &rec.HeightCm, &rec.WeightKg, &rec.HAZ, &status); err != nil {
			return nil, err
		}
		rec.Status = model.Status(status)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
