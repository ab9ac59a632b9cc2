package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/roadsync/internal/client/storage"
	"github.com/iudanet/roadsync/internal/models"
)

// Весь набор локальных записей хранится одним JSON-массивом, чтобы сохранить порядок
var pendingKey = []byte("roads")

// SavePendingRoads replaces the stored set of local roads
func (s *Storage) SavePendingRoads(ctx context.Context, roads []models.Road) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	if roads == nil {
		roads = []models.Road{}
	}

	data, err := json.Marshal(roads)
	if err != nil {
		return fmt.Errorf("failed to marshal pending roads: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := bucketOf(tx, bucketPending)
		if err != nil {
			return err
		}

		if len(roads) == 0 {
			return bucket.Delete(pendingKey)
		}

		if err := bucket.Put(pendingKey, data); err != nil {
			return fmt.Errorf("failed to save pending roads: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// GetPendingRoads returns stored local roads in saved order
func (s *Storage) GetPendingRoads(ctx context.Context) ([]models.Road, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	roads := []models.Road{}

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := bucketOf(tx, bucketPending)
		if err != nil {
			return err
		}

		data := bucket.Get(pendingKey)
		if data == nil {
			return nil
		}

		if err := json.Unmarshal(data, &roads); err != nil {
			return fmt.Errorf("failed to unmarshal pending roads: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to get pending roads: %w", err)
	}

	return roads, nil
}
