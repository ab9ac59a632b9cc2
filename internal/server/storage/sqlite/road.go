package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/roadsync/internal/models"
	"github.com/iudanet/roadsync/internal/server/storage"
)

var _ storage.RoadStorage = (*Storage)(nil)

const selectRoad = `
	SELECT id, name, lanes, is_operational, last_maintained, lat, long, photo, version
	FROM roads
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoad(row rowScanner) (*models.Road, error) {
	var (
		road           models.Road
		lastMaintained sql.NullTime
		lat, long      sql.NullFloat64
	)

	if err := row.Scan(
		&road.ID,
		&road.Name,
		&road.Lanes,
		&road.IsOperational,
		&lastMaintained,
		&lat,
		&long,
		&road.Base64Photo,
		&road.Version,
	); err != nil {
		return nil, err
	}

	if lastMaintained.Valid {
		road.LastMaintained = &lastMaintained.Time
	}
	if lat.Valid {
		road.Lat = &lat.Float64
	}
	if long.Valid {
		road.Long = &long.Float64
	}
	return &road, nil
}

// ListRoads returns one page of user's roads ordered by id.
// Запрашивается на одну запись больше, чтобы определить наличие следующей страницы.
func (s *Storage) ListRoads(ctx context.Context, q storage.RoadQuery) (*storage.RoadPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		return nil, fmt.Errorf("invalid page size %d", q.PageSize)
	}

	query := selectRoad + `
		WHERE user_id = ?
		  AND (? = '' OR instr(name, ?) > 0)
		  AND (? = 0 OR is_operational = 1)
		ORDER BY id
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.QueryContext(ctx, query,
		q.UserID,
		q.Name, q.Name,
		q.OnlyOperational,
		q.PageSize+1, (q.Page-1)*q.PageSize,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query roads: %w", err)
	}
	defer rows.Close()

	page := &storage.RoadPage{Page: q.Page, Roads: []models.Road{}}
	for rows.Next() {
		road, err := scanRoad(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan road: %w", err)
		}
		page.Roads = append(page.Roads, *road)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate roads: %w", err)
	}

	if len(page.Roads) > q.PageSize {
		page.Roads = page.Roads[:q.PageSize]
		page.More = true
	}
	return page, nil
}

// GetRoad retrieves road by ID
func (s *Storage) GetRoad(ctx context.Context, userID string, id int64) (*models.Road, error) {
	road, err := scanRoad(s.db.QueryRowContext(ctx, selectRoad+"WHERE user_id = ? AND id = ?", userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrRoadNotFound
		}
		return nil, fmt.Errorf("failed to get road: %w", err)
	}
	return road, nil
}

const insertRoad = `
	INSERT INTO roads (user_id, name, lanes, is_operational, last_maintained, lat, long, photo, version, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?)
`

// execer общий метод *sql.DB и *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CreateRoad stores a new road with version 1
func (s *Storage) CreateRoad(ctx context.Context, userID string, road models.Road) (*models.Road, error) {
	return createRoad(ctx, s.db, userID, road, time.Now().UTC())
}

// CreateRoads stores a batch of new roads in one transaction.
// Либо создаются все записи, либо ни одной.
func (s *Storage) CreateRoads(ctx context.Context, userID string, roads []models.Road) ([]models.Road, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	created := make([]models.Road, 0, len(roads))
	for i, road := range roads {
		saved, err := createRoad(ctx, tx, userID, road, now)
		if err != nil {
			return nil, fmt.Errorf("road #%d: %w", i, err)
		}
		created = append(created, *saved)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit roads: %w", err)
	}
	return created, nil
}

func createRoad(ctx context.Context, db execer, userID string, road models.Road, now time.Time) (*models.Road, error) {
	result, err := db.ExecContext(ctx, insertRoad,
		userID,
		road.Name,
		road.Lanes,
		road.IsOperational,
		road.LastMaintained,
		road.Lat,
		road.Long,
		road.Base64Photo,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert road: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get road id: %w", err)
	}

	created := road.Clone()
	created.ID = id
	created.Version = 1
	created.CreatedOnFrontend = false
	return &created, nil
}

// UpdateRoad overwrites road fields and increments its version
func (s *Storage) UpdateRoad(ctx context.Context, userID string, road models.Road) (*models.Road, error) {
	query := `
		UPDATE roads
		SET name = ?, lanes = ?, is_operational = ?, last_maintained = ?,
		    lat = ?, long = ?, photo = ?, version = version + 1, updated_at = ?
		WHERE user_id = ? AND id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		road.Name,
		road.Lanes,
		road.IsOperational,
		road.LastMaintained,
		road.Lat,
		road.Long,
		road.Base64Photo,
		time.Now().UTC(),
		userID,
		road.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update road: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return nil, storage.ErrRoadNotFound
	}

	return s.GetRoad(ctx, userID, road.ID)
}
