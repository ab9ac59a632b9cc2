package roads

import (
	"context"

	"github.com/iudanet/roadsync/internal/models"
)

//go:generate moq -out gateway_mock.go . Gateway

// Gateway удаленный сервис дорог
type Gateway interface {
	// ListRoads возвращает одну страницу с учетом фильтров
	ListRoads(ctx context.Context, q ListQuery) (*Page, error)

	// CreateRoad создает запись, сервер назначает ID и версию
	CreateRoad(ctx context.Context, road models.Road) (*models.Road, error)

	// UpdateRoad обновляет существующую запись
	UpdateRoad(ctx context.Context, road models.Road) (*models.Road, error)

	// BulkUpload выгружает локальные записи и возвращает актуальный набор
	BulkUpload(ctx context.Context, roads []models.Road) ([]models.Road, error)

	// OpenLiveChannel открывает канал уведомлений. onMessage вызывается
	// из горутины канала для каждого входящего сообщения.
	OpenLiveChannel(ctx context.Context, credential string, onMessage func(LiveMessage)) (LiveChannel, error)
}

// ListQuery параметры запроса страницы
type ListQuery struct {
	Name            string
	Page            int
	OnlyOperational bool
}

// Page страница списка
type Page struct {
	Roads []models.Road
	Page  int
	More  bool
}

// LiveChannel открытый канал уведомлений
type LiveChannel interface {
	Close() error
}

// LiveEvent тип уведомления
type LiveEvent string

const (
	LiveCreated LiveEvent = "created"
	LiveUpdated LiveEvent = "updated"
)

// LiveMessage уведомление об изменении записи другим клиентом
type LiveMessage struct {
	Event LiveEvent
	Road  models.Road
}

// CredentialSource текущий токен доступа; пустая строка означает отсутствие аутентификации
type CredentialSource interface {
	Credential() string
	SubscribeCredential(fn func(credential string)) (unsubscribe func())
}

// ConnectivitySource состояние сети
type ConnectivitySource interface {
	Connected() bool
	SubscribeConnectivity(fn func(connected bool)) (unsubscribe func())
}
