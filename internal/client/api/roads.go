package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/iudanet/roadsync/pkg/api"
)

// ListRoads запрашивает страницу дорог с фильтрами
func (c *Client) ListRoads(ctx context.Context, page int, name string, onlyOperational bool) (*api.ListRoadsResponse, error) {
	query := url.Values{}
	query.Set(api.QueryPage, strconv.Itoa(page))
	query.Set(api.QueryNameFilter, name)
	query.Set(api.QueryOnlyOperational, strconv.FormatBool(onlyOperational))

	var resp api.ListRoadsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/roads?"+query.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("list roads request failed: %w", err)
	}
	return &resp, nil
}

// CreateRoad создает дорогу
func (c *Client) CreateRoad(ctx context.Context, road api.Road) (*api.Road, error) {
	var resp api.Road
	if err := c.doRequest(ctx, http.MethodPost, "/road", road, &resp); err != nil {
		return nil, fmt.Errorf("create road request failed: %w", err)
	}
	return &resp, nil
}

// UpdateRoad обновляет дорогу по id
func (c *Client) UpdateRoad(ctx context.Context, road api.Road) (*api.Road, error) {
	if road.ID <= 0 {
		return nil, fmt.Errorf("update road: invalid id %d", road.ID)
	}

	var resp api.Road
	path := fmt.Sprintf("/road/%d", road.ID)
	if err := c.doRequest(ctx, http.MethodPut, path, road, &resp); err != nil {
		return nil, fmt.Errorf("update road request failed: %w", err)
	}
	return &resp, nil
}

// SyncRoads выгружает локальные дороги одним запросом.
// Тело запроса и ответа - массив дорог; в ответе те же записи с id сервера.
func (c *Client) SyncRoads(ctx context.Context, roads []api.Road) ([]api.Road, error) {
	if roads == nil {
		roads = []api.Road{}
	}

	var resp []api.Road
	if err := c.doRequest(ctx, http.MethodPost, "/roads/sync", roads, &resp); err != nil {
		return nil, fmt.Errorf("sync roads request failed: %w", err)
	}
	return resp, nil
}
