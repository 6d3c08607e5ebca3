package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jonathan/cv-uploader/internal/types"
)

// MemoryStore keeps documents in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]types.StoredRecord
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]types.StoredRecord)}
}

// CreateRecord appends the record to the collection.
func (m *MemoryStore) CreateRecord(ctx context.Context, collection string, record types.SubmissionRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rec := types.StoredRecord{
		ID:         uuid.NewString(),
		Collection: collection,
		Record:     types.SubmissionRecord{Draft: record.Draft.Clone(), CreatedAt: record.CreatedAt},
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[collection] = append(m.records[collection], rec)
	return rec.ID, nil
}

// GetRecord returns the record with id, or nil.
func (m *MemoryStore) GetRecord(ctx context.Context, collection, id string) (*types.StoredRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, rec := range m.records[collection] {
		if rec.ID == id {
			rec.Record.Draft = rec.Record.Draft.Clone()
			return &rec, nil
		}
	}
	return nil, nil
}

// ListRecords returns up to limit records, newest first.
func (m *MemoryStore) ListRecords(ctx context.Context, collection string, limit int) ([]types.StoredRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	m.mu.RLock()
	out := append([]types.StoredRecord(nil), m.records[collection]...)
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Record.CreatedAt.After(out[j].Record.CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }
