package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/roadsync/internal/models"
)

func TestNew_AppliesMigrations(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	for _, table := range []string{"users", "roads"} {
		var name string
		err := s.db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s", table)
	}

	var foreignKeys int
	require.NoError(t, s.db.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&foreignKeys))
	assert.Equal(t, 1, foreignKeys)
}

func TestNew_ReopenKeepsRoads(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "roads.db")

	s, err := New(ctx, dbPath)
	require.NoError(t, err)
	userID := createTestUser(t, ctx, s, "reopen@example.com")
	created, err := s.CreateRoad(ctx, userID, models.Road{Name: "Main St", Lanes: 2})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Повторное открытие не применяет миграции заново
	s, err = New(ctx, dbPath)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	got, err := s.GetRoad(ctx, userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Main St", got.Name)
}

func TestStorage_PingContext(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, ":memory:")
	require.NoError(t, err)

	assert.NoError(t, s.PingContext(ctx))

	require.NoError(t, s.Close())
	assert.Error(t, s.PingContext(ctx))
}

func TestNew_InvalidPath(t *testing.T) {
	_, err := New(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "roads.db"))
	assert.Error(t, err)
}
