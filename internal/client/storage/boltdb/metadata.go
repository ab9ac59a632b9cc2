package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/roadsync/internal/client/storage"
)

var keyLastSyncTimestamp = []byte("last_sync_timestamp")

// SaveLastSyncTimestamp records when pending roads were last uploaded (unix seconds).
func (s *Storage) SaveLastSyncTimestamp(ctx context.Context, timestamp int64) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := bucketOf(tx, bucketMetadata)
		if err != nil {
			return err
		}

		if err := bucket.Put(keyLastSyncTimestamp, itob(timestamp)); err != nil {
			return fmt.Errorf("failed to save last sync timestamp: %w", err)
		}
		return nil
	})
}

// GetLastSyncTimestamp returns 0 until the first successful upload.
func (s *Storage) GetLastSyncTimestamp(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var timestamp int64

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := bucketOf(tx, bucketMetadata)
		if err != nil {
			return err
		}

		if v := bucket.Get(keyLastSyncTimestamp); len(v) == 8 {
			timestamp = btoi(v)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get last sync timestamp: %w", err)
	}

	return timestamp, nil
}

func itob(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

func btoi(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b))
}
