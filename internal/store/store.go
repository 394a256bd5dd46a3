// Package store persists screening records.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/verte-zerg/stuntrack/internal/model"
)

// ErrNoData is returned by ReadAll before the first successful Append.
var ErrNoData = errors.New("no data recorded yet")

// Header is the column layout of the stored table.
var Header = []string{"Nama", "Umur", "Gender", "Kelas", "Tinggi", "Berat", "HAZ", "Status"}

// RecordStore is an append-only table of screening records.
type RecordStore interface {
	Append(ctx context.Context, rec model.StoredRecord) error
	ReadAll(ctx context.Context) ([]model.StoredRecord, error)
	Close() error
}

const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open returns a store for the named backend.
func Open(backend, path string) (RecordStore, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendCSV:
		return OpenCSV(path)
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q (use csv, sqlite or memory)", backend)
	}
}
