package api

// MessageTypeAuthenticate тип первого кадра, который клиент отправляет в live-канал
const MessageTypeAuthenticate = "authenticate"

// События live-канала
const (
	LiveEventCreated = "created"
	LiveEventUpdated = "updated"
)

// AuthenticateMessage первый исходящий кадр live-канала
type AuthenticateMessage struct {
	Type    string `json:"type"`
	Payload string `json:"payload"` // access token
}

// LivePayload полезная нагрузка уведомления
type LivePayload struct {
	Road Road `json:"road"`
}

// LiveMessage входящее уведомление об изменении дороги
type LiveMessage struct {
	Event   string      `json:"event"`
	Payload LivePayload `json:"payload"`
}
