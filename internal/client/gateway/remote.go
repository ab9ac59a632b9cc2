// Package gateway связывает хранилище дорог с HTTP API и live-каналом сервера.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	apiclient "github.com/iudanet/roadsync/internal/client/api"
	"github.com/iudanet/roadsync/internal/client/live"
	"github.com/iudanet/roadsync/internal/client/roads"
	"github.com/iudanet/roadsync/internal/models"
	"github.com/iudanet/roadsync/pkg/api"
)

var errEmptyResponse = errors.New("empty response from server")

// Remote реализует roads.Gateway поверх api.Client
type Remote struct {
	client *apiclient.Client
	logger *slog.Logger
}

var _ roads.Gateway = (*Remote)(nil)

// NewRemote создает шлюз. Токен для HTTP-запросов берется из client.
func NewRemote(client *apiclient.Client, logger *slog.Logger) *Remote {
	if logger == nil {
		logger = slog.Default()
	}
	return &Remote{client: client, logger: logger}
}

// ListRoads загружает одну страницу
func (r *Remote) ListRoads(ctx context.Context, q roads.ListQuery) (*roads.Page, error) {
	resp, err := r.client.ListRoads(ctx, q.Page, q.Name, q.OnlyOperational)
	if err != nil {
		return nil, err
	}

	page := resp.Page
	if page == 0 {
		page = q.Page
	}
	return &roads.Page{
		Roads: api.ToModels(resp.Roads),
		Page:  page,
		More:  resp.More,
	}, nil
}

// CreateRoad создает запись на сервере
func (r *Remote) CreateRoad(ctx context.Context, road models.Road) (*models.Road, error) {
	created, err := r.client.CreateRoad(ctx, api.RoadFromModel(road))
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, errEmptyResponse
	}
	m := created.ToModel()
	return &m, nil
}

// UpdateRoad обновляет запись на сервере
func (r *Remote) UpdateRoad(ctx context.Context, road models.Road) (*models.Road, error) {
	updated, err := r.client.UpdateRoad(ctx, api.RoadFromModel(road))
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, errEmptyResponse
	}
	m := updated.ToModel()
	return &m, nil
}

// BulkUpload выгружает локальные записи одним запросом
func (r *Remote) BulkUpload(ctx context.Context, pending []models.Road) ([]models.Road, error) {
	synced, err := r.client.SyncRoads(ctx, api.RoadsFromModels(pending))
	if err != nil {
		return nil, err
	}
	return api.ToModels(synced), nil
}

// OpenLiveChannel открывает websocket и переводит входящие сообщения в доменные
func (r *Remote) OpenLiveChannel(ctx context.Context, credential string, onMessage func(roads.LiveMessage)) (roads.LiveChannel, error) {
	ch, err := live.Dial(ctx, r.logger, r.client.BaseURL(), credential, func(msg api.LiveMessage) {
		event := roads.LiveEvent(msg.Event)
		if event != roads.LiveCreated && event != roads.LiveUpdated {
			r.logger.Debug("Ignoring unknown live event", "event", msg.Event)
			return
		}
		onMessage(roads.LiveMessage{Event: event, Road: msg.Payload.Road.ToModel()})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open live channel: %w", err)
	}
	return ch, nil
}
