package storage

import (
	"context"

	"github.com/iudanet/roadsync/internal/models"
)

//go:generate moq -out pendingstorage_mock.go . PendingStorage

// PendingStorage keeps roads that were saved only on this device.
// The whole set is replaced on every write, order is preserved.
type PendingStorage interface {
	// SavePendingRoads replaces the stored set; an empty slice clears it
	SavePendingRoads(ctx context.Context, roads []models.Road) error

	// GetPendingRoads returns the stored set or an empty slice
	GetPendingRoads(ctx context.Context) ([]models.Road, error)
}
