// Package live рассылает уведомления об изменении дорог по websocket.
package live

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"

	"github.com/iudanet/roadsync/internal/server/jwt"
	"github.com/iudanet/roadsync/pkg/api"
)

const (
	// DefaultAuthTimeout сколько ждать кадр authenticate после подключения
	DefaultAuthTimeout = 10 * time.Second

	writeTimeout = 5 * time.Second

	// sendQueueSize сколько уведомлений может ждать записи в одно соединение
	sendQueueSize = 32
)

// TokenValidator проверяет access-токен из кадра authenticate
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// conn одно live-соединение. Запись выполняет только writeLoop,
// Publish лишь кладет уведомление в очередь out.
type conn struct {
	ws       *websocket.Conn
	out      chan api.LiveMessage
	done     chan struct{}
	id       string
	userID   string
	mu       sync.Mutex // запись в ws
	stopOnce sync.Once
}

func newConn(ws *websocket.Conn) *conn {
	return &conn{
		ws:   ws,
		id:   ulid.Make().String(),
		out:  make(chan api.LiveMessage, sendQueueSize),
		done: make(chan struct{}),
	}
}

// enqueue ставит уведомление в очередь без ожидания.
// false означает, что очередь переполнена.
func (c *conn) enqueue(msg api.LiveMessage) bool {
	select {
	case <-c.done:
		return true
	default:
	}

	select {
	case c.out <- msg:
		return true
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *conn) send(msg api.LiveMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ws.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.ws.WriteJSON(msg)
}

func (c *conn) stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

func (c *conn) closeWith(code int, text string) {
	c.mu.Lock()
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, text),
		time.Now().Add(writeTimeout))
	c.mu.Unlock()
	_ = c.ws.Close()
}

// Hub держит открытые live-соединения, сгруппированные по пользователям
type Hub struct {
	tokens      TokenValidator
	logger      *slog.Logger
	users       map[string]map[string]*conn
	upgrader    websocket.Upgrader
	authTimeout time.Duration
	mu          sync.RWMutex
	closed      bool
}

// NewHub создает hub
func NewHub(tokens TokenValidator, logger *slog.Logger) *Hub {
	return &Hub{
		tokens:      tokens,
		logger:      logger,
		users:       make(map[string]map[string]*conn),
		authTimeout: DefaultAuthTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// CLI клиенты не присылают Origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP обрабатывает GET /ws.
// Первый кадр клиента должен быть {type:"authenticate", payload:<token>}.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", slog.Any("error", err))
		return
	}

	c := newConn(ws)

	userID, err := h.authenticate(ws)
	if err != nil {
		h.logger.WarnContext(r.Context(), "live channel authentication failed",
			slog.String("conn_id", c.id),
			slog.Any("error", err))
		c.closeWith(websocket.ClosePolicyViolation, "authentication required")
		return
	}
	c.userID = userID

	if !h.add(c) {
		c.closeWith(websocket.CloseGoingAway, "server shutting down")
		return
	}

	h.logger.InfoContext(r.Context(), "live channel opened",
		slog.String("conn_id", c.id),
		slog.String("user_id", userID))

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) authenticate(ws *websocket.Conn) (string, error) {
	if err := ws.SetReadDeadline(time.Now().Add(h.authTimeout)); err != nil {
		return "", err
	}

	var msg api.AuthenticateMessage
	if err := ws.ReadJSON(&msg); err != nil {
		return "", fmt.Errorf("failed to read authenticate frame: %w", err)
	}
	if msg.Type != api.MessageTypeAuthenticate {
		return "", fmt.Errorf("unexpected frame type %q", msg.Type)
	}

	claims, err := h.tokens.ValidateAccessToken(msg.Payload)
	if err != nil {
		return "", err
	}

	// После аутентификации соединение живет без дедлайна чтения
	if err := ws.SetReadDeadline(time.Time{}); err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// readLoop отбрасывает входящие кадры и ждет закрытия соединения
func (h *Hub) readLoop(c *conn) {
	defer h.remove(c)

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				h.logger.Debug("live channel read failed", "conn_id", c.id, "error", err)
			}
			return
		}
	}
}

// writeLoop пишет уведомления из очереди, пока соединение открыто
func (h *Hub) writeLoop(c *conn) {
	for {
		select {
		case msg := <-c.out:
			if err := c.send(msg); err != nil {
				h.logger.Warn("failed to deliver live message",
					"conn_id", c.id,
					"user_id", c.userID,
					"error", err)
				// readLoop удалит соединение из hub
				_ = c.ws.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (h *Hub) add(c *conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	conns, ok := h.users[c.userID]
	if !ok {
		conns = make(map[string]*conn)
		h.users[c.userID] = conns
	}
	conns[c.id] = c
	return true
}

func (h *Hub) remove(c *conn) {
	h.mu.Lock()
	conns, ok := h.users[c.userID]
	if ok {
		delete(conns, c.id)
		if len(conns) == 0 {
			delete(h.users, c.userID)
		}
	}
	h.mu.Unlock()

	c.stop()
	_ = c.ws.Close()
	h.logger.Info("live channel closed", "conn_id", c.id, "user_id", c.userID)
}

// Publish ставит уведомление в очередь каждого соединения пользователя и
// не ждет записи. Соединение с переполненной очередью закрывается.
func (h *Hub) Publish(userID string, msg api.LiveMessage) {
	h.mu.RLock()
	targets := make([]*conn, 0, len(h.users[userID]))
	for _, c := range h.users[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if !c.enqueue(msg) {
			h.logger.Warn("live client is too slow, dropping connection",
				"conn_id", c.id,
				"user_id", userID,
				"queued", sendQueueSize)
			// readLoop удалит соединение из hub
			_ = c.ws.Close()
		}
	}
}

// Connections возвращает число открытых соединений пользователя
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// Close закрывает все соединения и перестает принимать новые
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	var all []*conn
	for _, conns := range h.users {
		for _, c := range conns {
			all = append(all, c)
		}
	}
	h.mu.Unlock()

	for _, c := range all {
		c.closeWith(websocket.CloseGoingAway, "server shutting down")
	}
}
