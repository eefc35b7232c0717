package receipt

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when an identifier was never stored
var ErrNotFound = errors.New("receipt not found")

// Store defines the interface for score record storage.
// Records are written once and never changed or removed.
type Store interface {
	// PutIfAbsent stores rec unless a record with the same ID exists. It
	// returns the record now held for that ID and whether rec was inserted.
	PutIfAbsent(rec ScoreRecord) (ScoreRecord, bool, error)

	// Get retrieves a record by ID, or ErrNotFound
	Get(id string) (ScoreRecord, error)

	// Len returns the number of stored records
	Len() (int, error)

	// Close releases any resources held by the store
	Close() error
}

// MemoryStore implements Store with a map guarded by a read/write mutex
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]ScoreRecord
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]ScoreRecord),
	}
}

// PutIfAbsent inserts rec if its ID is not yet present
func (m *MemoryStore) PutIfAbsent(rec ScoreRecord) (ScoreRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.records[rec.ID]; ok {
		return existing, false, nil
	}
	m.records[rec.ID] = rec
	return rec, true, nil
}

// Get retrieves a record by ID
func (m *MemoryStore) Get(id string) (ScoreRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return ScoreRecord{}, ErrNotFound
	}
	return rec, nil
}

// Len returns the number of stored records
func (m *MemoryStore) Len() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

// Close is a no-op for MemoryStore
func (m *MemoryStore) Close() error {
	return nil
}
