package store

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/verte-zerg/stuntrack/internal/model"
)

// CSVStore keeps records in a flat CSV file with a header row.
type CSVStore struct {
	mu   sync.Mutex
	path string
}

// OpenCSV prepares a CSV store. The file is created on first Append.
func OpenCSV(path string) (*CSVStore, error) {
	if path == "" {
		return nil, fmt.Errorf("csv store path is empty")
	}
	return &CSVStore{path: path}, nil
}

// Path returns the backing file path.
func (s *CSVStore) Path() string {
	return s.path
}

// Append writes one row, creating the file with a header when absent.
// Each row goes out in a single write so concurrent appenders cannot interleave.
func (s *CSVStore) Append(ctx context.Context, rec model.StoredRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	file, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close; the write result is what matters.
			_ = cerr
		}
	}()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", s.path, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if info.Size() == 0 {
		if err := w.Write(Header); err != nil {
			return fmt.Errorf("failed to encode header: %w", err)
		}
	}
	if err := w.Write(encodeRow(rec)); err != nil {
		return fmt.Errorf("failed to encode row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to encode row: %w", err)
	}
	if _, err := file.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to append to %s: %w", s.path, err)
	}
	return nil
}

// ReadAll returns every row in file order, or ErrNoData when the file is missing.
func (s *CSVStore) ReadAll(ctx context.Context) ([]model.StoredRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only access.
			_ = cerr
		}
	}()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(Header)
	records := []model.StoredRecord{}
	line := 0
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
		}
		line++
		if line == 1 {
			continue
		}
		rec, err := decodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", s.path, line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Close is a no-op; the file is opened per operation.
func (s *CSVStore) Close() error {
	return nil
}

func encodeRow(rec model.StoredRecord) []string {
	return []string{
		rec.Name,
		rec.AgeText,
		rec.Sex,
		rec.Class,
		formatFloat(rec.HeightCm),
		formatFloat(rec.WeightKg),
		formatFloat(rec.HAZ),
		string(rec.Status),
	}
}

func decodeRow(row []string) (model.StoredRecord, error) {
	height, err := strconv.ParseFloat(row[4], 64)
	if err != nil {
		return model.StoredRecord{}, fmt.Errorf("invalid Tinggi %q: %w", row[4], err)
	}
	weight, err := strconv.ParseFloat(row[5], 64)
	if err != nil {
		return model.StoredRecord{}, fmt.Errorf("invalid Berat %q: %w", row[5], err)
	}
	haz, err := strconv.ParseFloat(row[6], 64)
	if err != nil {
		return model.StoredRecord{}, fmt.Errorf("invalid HAZ %q: %w", row[6], err)
	}
	return model.StoredRecord{
		Name:     row[0],
		AgeText:  row[1],
		Sex:      row[2],
		Class:    row[3],
		HeightCm: height,
		WeightKg: weight,
		HAZ:      haz,
		Status:   model.Status(row[7]),
	}, nil
}

func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if strings.ContainsAny(s, ".eEnN") {
		return s
	}
	return s + ".0"
}
