package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.etcd.io/bbolt"
)

const scoresBucketName = "scores"

// BoltStore implements the Store interface using BoltDB.
// Each store owns a private file that is removed again on Close, so it
// always starts empty and never touches existing files.
type BoltStore struct {
	db   *bbolt.DB
	path string
}

// NewBoltStore creates a new BoltStore backed by a fresh file in dir. An
// empty dir means the system temporary directory.
func NewBoltStore(dir string) (*BoltStore, error) {
	f, err := os.CreateTemp(dir, "receipt-points-*.db")
	if err != nil {
		return nil, fmt.Errorf("creating database file: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("creating database file: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(scoresBucketName))
		return err
	})
	if err != nil {
		db.Close()
		os.Remove(path)
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltStore{db: db, path: path}, nil
}

// Path returns the file backing the store
func (b *BoltStore) Path() string {
	return b.path
}

// PutIfAbsent inserts rec if its ID is not yet present. The lookup and the
// write share one read-write transaction, and bolt allows only one of those
// at a time.
func (b *BoltStore) PutIfAbsent(rec ScoreRecord) (ScoreRecord, bool, error) {
	stored := rec
	inserted := false
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(scoresBucketName))
		if data := bucket.Get([]byte(rec.ID)); data != nil {
			if err := json.Unmarshal(data, &stored); err != nil {
				return fmt.Errorf("unmarshaling score record: %w", err)
			}
			return nil
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling score record: %w", err)
		}
		inserted = true
		return bucket.Put([]byte(rec.ID), data)
	})
	if err != nil {
		return ScoreRecord{}, false, err
	}
	return stored, inserted, nil
}

// Get retrieves a record by ID
func (b *BoltStore) Get(id string) (ScoreRecord, error) {
	var rec ScoreRecord
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(scoresBucketName))
		data := bucket.Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return ScoreRecord{}, err
	}
	return rec, nil
}

// Len returns the number of stored records
func (b *BoltStore) Len() (int, error) {
	var n int
	err := b.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket([]byte(scoresBucketName)).Stats().KeyN
		return nil
	})
	return n, err
}

// Close closes the database connection and removes its file
func (b *BoltStore) Close() error {
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("closing boltdb: %w", err)
	}
	if err := os.Remove(b.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing database file: %w", err)
	}
	return nil
}
