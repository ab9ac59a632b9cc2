// Package boltdb хранит сессию, несинхронизированные дороги и метку
// последней синхронизации в одном файле bbolt.
package boltdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
	bolterrors "go.etcd.io/bbolt/errors"

	"github.com/iudanet/roadsync/internal/client/storage"
)

var (
	bucketAuth     = []byte("auth")     // токен текущей сессии
	bucketPending  = []byte("pending")  // дороги, сохраненные офлайн
	bucketMetadata = []byte("metadata") // метка последней выгрузки
)

// lockTimeout ограничивает ожидание файловой блокировки bbolt.
const lockTimeout = time.Second

// Storage is the client's local bbolt store.
type Storage struct {
	db *bbolt.DB
}

// New opens (or creates) the database at dbPath and makes sure every bucket exists.
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: lockTimeout})
	if err != nil {
		if errors.Is(err, bolterrors.ErrTimeout) {
			return nil, fmt.Errorf("%s: %w", dbPath, storage.ErrStorageLocked)
		}
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}

	if err := s.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

// Close releases the file lock. Повторный Close ничего не делает.
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketAuth, bucketPending, bucketMetadata} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

func bucketOf(tx *bbolt.Tx, name []byte) (*bbolt.Bucket, error) {
	bucket := tx.Bucket(name)
	if bucket == nil {
		return nil, fmt.Errorf("%s %w", name, storage.ErrBucketNotFound)
	}
	return bucket, nil
}
