package storage

import (
	"context"

	"github.com/iudanet/roadsync/internal/models"
)

//go:generate moq -out road_mock.go . RoadStorage

// RoadQuery параметры выборки страницы дорог
type RoadQuery struct {
	UserID          string
	Name            string // подстрока названия, регистр учитывается
	Page            int    // с единицы
	PageSize        int
	OnlyOperational bool
}

// RoadPage страница дорог
type RoadPage struct {
	Roads []models.Road
	Page  int
	More  bool
}

// RoadStorage defines interface for road records persistence.
// Все операции ограничены записями одного пользователя.
type RoadStorage interface {
	// ListRoads returns one page of user's roads ordered by id
	ListRoads(ctx context.Context, q RoadQuery) (*RoadPage, error)

	// GetRoad retrieves road by ID
	// Returns ErrRoadNotFound if road doesn't exist
	GetRoad(ctx context.Context, userID string, id int64) (*models.Road, error)

	// CreateRoad stores a new road with version 1 and returns it with assigned ID
	CreateRoad(ctx context.Context, userID string, road models.Road) (*models.Road, error)

	// CreateRoads stores a batch of new roads atomically and returns them in input order
	CreateRoads(ctx context.Context, userID string, roads []models.Road) ([]models.Road, error)

	// UpdateRoad overwrites road fields and increments its version
	// Returns ErrRoadNotFound if road doesn't exist
	UpdateRoad(ctx context.Context, userID string, road models.Road) (*models.Road, error)
}
