package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/iudanet/roadsync/internal/models"
	"github.com/iudanet/roadsync/internal/server/storage"
	"github.com/iudanet/roadsync/internal/validation"
	"github.com/iudanet/roadsync/pkg/api"
)

// DefaultPageSize количество дорог на странице по умолчанию
const DefaultPageSize = 10

// Publisher рассылает уведомления live-канала подключениям пользователя
type Publisher interface {
	Publish(userID string, msg api.LiveMessage)
}

// RoadsHandler обрабатывает запросы к дорогам пользователя
type RoadsHandler struct {
	logger    *slog.Logger
	storage   storage.RoadStorage
	publisher Publisher
	pageSize  int
}

// NewRoadsHandler создает handler дорог. publisher может быть nil.
func NewRoadsHandler(logger *slog.Logger, roadStorage storage.RoadStorage, publisher Publisher, pageSize int) *RoadsHandler {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &RoadsHandler{
		logger:    logger,
		storage:   roadStorage,
		publisher: publisher,
		pageSize:  pageSize,
	}
}

// ListRoads обрабатывает GET /roads?page=&sName=&onlyOperational=
func (h *RoadsHandler) ListRoads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	q, err := h.parseQuery(r)
	if err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	q.UserID = userID

	page, err := h.storage.ListRoads(ctx, q)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list roads", slog.String("user_id", userID), slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, api.ListRoadsResponse{
		Roads: api.RoadsFromModels(page.Roads),
		Page:  page.Page,
		More:  page.More,
	}, http.StatusOK)
}

// CreateRoad обрабатывает POST /road
func (h *RoadsHandler) CreateRoad(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var body api.Road
	if err := decodeJSON(w, r, &body); err != nil {
		h.logger.WarnContext(ctx, "failed to decode road", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	road := body.ToModel()
	if err := validation.ValidateRoad(road); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.storage.CreateRoad(ctx, userID, road)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create road", slog.String("user_id", userID), slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "road created",
		slog.String("user_id", userID),
		slog.Int64("road_id", created.ID))
	h.publish(userID, api.LiveEventCreated, *created)

	sendJSON(h.logger, w, api.RoadFromModel(*created), http.StatusCreated)
}

// UpdateRoad обрабатывает PUT /road/{id}
func (h *RoadsHandler) UpdateRoad(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id < 1 {
		sendError(h.logger, w, "invalid road id", http.StatusBadRequest)
		return
	}

	var body api.Road
	if err := decodeJSON(w, r, &body); err != nil {
		h.logger.WarnContext(ctx, "failed to decode road", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.ID != 0 && int64(body.ID) != id {
		sendError(h.logger, w, "road id in body does not match path", http.StatusBadRequest)
		return
	}

	road := body.ToModel()
	road.ID = id
	if err := validation.ValidateRoad(road); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.storage.UpdateRoad(ctx, userID, road)
	if err != nil {
		if errors.Is(err, storage.ErrRoadNotFound) {
			sendError(h.logger, w, "road not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update road",
			slog.String("user_id", userID),
			slog.Int64("road_id", id),
			slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "road updated",
		slog.String("user_id", userID),
		slog.Int64("road_id", updated.ID),
		slog.Int64("version", updated.Version))
	h.publish(userID, api.LiveEventUpdated, *updated)

	sendJSON(h.logger, w, api.RoadFromModel(*updated), http.StatusOK)
}

// SyncRoads обрабатывает POST /roads/sync.
// Тело - массив дорог; каждая запись создается заново, временные id клиента игнорируются.
// Пакет создается в одной транзакции, в ответе те же записи с id сервера в исходном порядке.
func (h *RoadsHandler) SyncRoads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req []api.Road
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode sync request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Сначала проверяем все записи, чтобы не создать часть пакета
	roads := api.ToModels(req)
	for i := range roads {
		if err := validation.ValidateRoad(roads[i]); err != nil {
			sendError(h.logger, w, fmt.Sprintf("road #%d: %v", i, err), http.StatusBadRequest)
			return
		}
		roads[i].ID = 0
		roads[i].CreatedOnFrontend = false
	}

	created := []models.Road{}
	if len(roads) > 0 {
		var err error
		created, err = h.storage.CreateRoads(ctx, userID, roads)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to create synced roads",
				slog.String("user_id", userID),
				slog.Int("count", len(roads)),
				slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
			return
		}
	}

	for _, road := range created {
		h.publish(userID, api.LiveEventCreated, road)
	}

	h.logger.InfoContext(ctx, "roads synchronized",
		slog.String("user_id", userID),
		slog.Int("uploaded", len(created)))

	sendJSON(h.logger, w, api.RoadsFromModels(created), http.StatusOK)
}

func (h *RoadsHandler) parseQuery(r *http.Request) (storage.RoadQuery, error) {
	values := r.URL.Query()
	q := storage.RoadQuery{
		Page:     1,
		PageSize: h.pageSize,
		Name:     values.Get(api.QueryNameFilter),
	}

	if raw := values.Get(api.QueryPage); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return q, fmt.Errorf("invalid %s parameter %q", api.QueryPage, raw)
		}
		q.Page = page
	}

	if raw := values.Get(api.QueryOnlyOperational); raw != "" {
		only, err := strconv.ParseBool(raw)
		if err != nil {
			return q, fmt.Errorf("invalid %s parameter %q", api.QueryOnlyOperational, raw)
		}
		q.OnlyOperational = only
	}

	return q, nil
}

func (h *RoadsHandler) publish(userID, event string, road models.Road) {
	if h.publisher == nil {
		return
	}
	h.publisher.Publish(userID, api.LiveMessage{
		Event:   event,
		Payload: api.LivePayload{Road: api.RoadFromModel(road)},
	})
}
