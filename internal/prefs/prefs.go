package prefs

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Named slots used by the application.
const (
	KeyConnectedUser = "ConnectedUser"
	KeyCartItems     = "CartItems"
)

const bucketName = "preferences"

// Store is the local key-value preferences file, the durable home of the
// serialized connected-user record and the cart snapshot.
type Store struct {
	db *bolt.DB
}

// Open creates or opens the preferences file at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open preferences store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, berr := tx.CreateBucketIfNotExists([]byte(bucketName))
		return berr
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init preferences bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying file.
func (s *Store) Close() error { return s.db.Close() }

// Put stores value under key, replacing any previous value.
func (s *Store) Put(key string, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(key), value)
	})
}

// Get returns the value for key. ok is false when the key is absent.
func (s *Store) Get(key string) (value []byte, ok bool, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketName)).Get([]byte(key))
		if v == nil {
			return nil
		}
		value = make([]byte, len(v))
		copy(value, v)
		ok = true
		return nil
	})
	return value, ok, err
}

// Delete removes key; removing an absent key is not an error.
func (s *Store) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(key))
	})
}
