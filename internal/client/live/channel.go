// Package live реализует клиентскую сторону канала уведомлений об изменениях дорог.
package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iudanet/roadsync/pkg/api"
)

// DefaultDialer используется для всех live-каналов
var DefaultDialer = &websocket.Dialer{
	Proxy:            websocket.DefaultDialer.Proxy,
	HandshakeTimeout: websocket.DefaultDialer.HandshakeTimeout,
}

// Path путь live-канала относительно адреса сервера
const Path = "/ws"

const closeTimeout = time.Second

// Channel открытое websocket-соединение с сервером
type Channel struct {
	conn      *websocket.Conn
	logger    *slog.Logger
	done      chan struct{}
	closeErr  error
	writeMu   sync.Mutex
	closeOnce sync.Once
}

// WebSocketURL строит адрес live-канала по адресу HTTP API
func WebSocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}

	u.Path = strings.TrimRight(u.Path, "/") + Path
	u.RawQuery = ""
	return u.String(), nil
}

// Dial открывает канал, отправляет токен первым сообщением и запускает чтение.
// onMessage вызывается из горутины чтения. Канал закрывается при отмене ctx.
func Dial(ctx context.Context, logger *slog.Logger, serverURL, token string, onMessage func(api.LiveMessage)) (*Channel, error) {
	wsURL, err := WebSocketURL(serverURL)
	if err != nil {
		return nil, err
	}

	conn, res, err := DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial live channel: %w", err)
	}
	if res != nil && res.Body != nil {
		_ = res.Body.Close()
	}

	if logger == nil {
		logger = slog.Default()
	}

	ch := &Channel{
		conn:   conn,
		logger: logger.With("component", "live"),
		done:   make(chan struct{}),
	}

	auth := api.AuthenticateMessage{Type: api.MessageTypeAuthenticate, Payload: token}
	if err := ch.writeJSON(auth); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to authenticate live channel: %w", err)
	}

	go ch.readLoop(onMessage)
	go func() {
		select {
		case <-ctx.Done():
			_ = ch.Close()
		case <-ch.done:
		}
	}()

	return ch, nil
}

// Done закрывается, когда канал закрыт локально или сервером
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// Close закрывает соединение. Повторные вызовы ничего не делают.
func (c *Channel) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		// WriteControl безопасен при конкурентном чтении
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeTimeout))
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

func (c *Channel) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *Channel) readLoop(onMessage func(api.LiveMessage)) {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				// Автоматического переподключения нет: канал откроется заново
				// при следующей смене токена или состояния сети
				c.logger.Warn("Live channel closed by server", "error", err)
				_ = c.Close()
			}
			return
		}

		var msg api.LiveMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Warn("Malformed live message", "error", err)
			continue
		}

		select {
		case <-c.done:
			return
		default:
		}
		onMessage(msg)
	}
}
