package boltdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/roadsync/internal/client/storage"
	"github.com/iudanet/roadsync/internal/models"
)

func TestNew_CreatesAllBuckets(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "roadsync.db")

	store, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	err = store.db.View(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketAuth, bucketPending, bucketMetadata} {
			if _, err := bucketOf(tx, name); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestNew_RestoresMissingBuckets(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "roadsync.db")

	// файл от старой версии клиента: только auth
	db, err := bbolt.Open(dbPath, 0600, nil)
	require.NoError(t, err)
	require.NoError(t, db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucket(bucketAuth)
		return err
	}))
	require.NoError(t, db.Close())

	store, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	ctx := context.Background()
	require.NoError(t, store.SavePendingRoads(ctx, []models.Road{testRoad(-1, "Offline")}))
	require.NoError(t, store.SaveLastSyncTimestamp(ctx, 100))
}

func TestNew_InvalidPath(t *testing.T) {
	store, err := New(context.Background(), filepath.Join(t.TempDir(), "missing", "roadsync.db"))
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNew_LockedByAnotherProcess(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "roadsync.db")

	first, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, first.Close()) })

	start := time.Now()
	second, err := New(context.Background(), dbPath)
	require.ErrorIs(t, err, storage.ErrStorageLocked)
	assert.Nil(t, second)
	assert.Less(t, time.Since(start), 5*lockTimeout)
}

func TestClose_Twice(t *testing.T) {
	store, err := New(context.Background(), filepath.Join(t.TempDir(), "roadsync.db"))
	require.NoError(t, err)

	require.NoError(t, store.Close())
	assert.Nil(t, store.db)
	assert.NoError(t, store.Close())
}

func TestClose_ReleasesLock(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "roadsync.db")

	store, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	require.NoError(t, reopened.Close())
}

func TestStorage_OperationsAfterClose(t *testing.T) {
	store, err := New(context.Background(), filepath.Join(t.TempDir(), "roadsync.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	ctx := context.Background()
	tests := []struct {
		name string
		call func() error
	}{
		{"SaveAuth", func() error {
			return store.SaveAuth(ctx, &storage.AuthData{Email: "alice@example.com", Token: "t"})
		}},
		{"GetAuth", func() error {
			_, err := store.GetAuth(ctx)
			return err
		}},
		{"DeleteAuth", func() error { return store.DeleteAuth(ctx) }},
		{"IsAuthenticated", func() error {
			_, err := store.IsAuthenticated(ctx)
			return err
		}},
		{"SavePendingRoads", func() error {
			return store.SavePendingRoads(ctx, []models.Road{testRoad(-1, "Offline")})
		}},
		{"GetPendingRoads", func() error {
			_, err := store.GetPendingRoads(ctx)
			return err
		}},
		{"SaveLastSyncTimestamp", func() error { return store.SaveLastSyncTimestamp(ctx, 1) }},
		{"GetLastSyncTimestamp", func() error {
			_, err := store.GetLastSyncTimestamp(ctx)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), storage.ErrStorageClosed)
		})
	}
}
