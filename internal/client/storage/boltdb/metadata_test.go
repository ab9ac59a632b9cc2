package boltdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/roadsync/internal/client/storage"
)

func TestStorage_LastSyncTimestamp(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "roadsync.db")

	store, err := New(ctx, dbPath)
	require.NoError(t, err)

	ts, err := store.GetLastSyncTimestamp(ctx)
	require.NoError(t, err)
	assert.Zero(t, ts, "до первой выгрузки метки нет")

	require.NoError(t, store.SaveLastSyncTimestamp(ctx, 1700000000))
	require.NoError(t, store.SaveLastSyncTimestamp(ctx, 1700000060))

	ts, err = store.GetLastSyncTimestamp(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000060), ts)

	// метка переживает перезапуск клиента
	require.NoError(t, store.Close())
	store, err = New(ctx, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	ts, err = store.GetLastSyncTimestamp(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000060), ts)
}

func TestStorage_LastSyncTimestamp_IgnoresTruncatedValue(t *testing.T) {
	ctx := context.Background()
	store := createTestPendingStorage(t)

	require.NoError(t, store.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMetadata).Put(keyLastSyncTimestamp, []byte{1, 2, 3})
	}))

	ts, err := store.GetLastSyncTimestamp(ctx)
	require.NoError(t, err)
	assert.Zero(t, ts)
}

func TestStorage_LastSyncTimestamp_BucketMissing(t *testing.T) {
	ctx := context.Background()
	store := createTestPendingStorage(t)

	require.NoError(t, store.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket(bucketMetadata)
	}))

	err := store.SaveLastSyncTimestamp(ctx, 42)
	require.ErrorIs(t, err, storage.ErrBucketNotFound)
	assert.Contains(t, err.Error(), "metadata bucket not found")

	_, err = store.GetLastSyncTimestamp(ctx)
	require.ErrorIs(t, err, storage.ErrBucketNotFound)
	assert.Contains(t, err.Error(), "metadata bucket not found")
}
