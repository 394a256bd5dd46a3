package store

import (
	"context"
	"sync"

	"github.com/verte-zerg/stuntrack/internal/model"
)

// MemoryStore is an in-process RecordStore.
type MemoryStore struct {
	mu      sync.Mutex
	records []model.StoredRecord
	present bool
}

// NewMemory returns an empty store in the absent state.
func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

// Append adds a record.
func (s *MemoryStore) Append(ctx context.Context, rec model.StoredRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	s.present = true
	return nil
}

// ReadAll returns a copy of all records.
func (s *MemoryStore) ReadAll(ctx context.Context) ([]model.StoredRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.present {
		return nil, ErrNoData
	}
	out := make([]model.StoredRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Close implements RecordStore.
func (s *MemoryStore) Close() error {
	return nil
}
