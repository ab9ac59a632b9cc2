// Package auth управляет сессией пользователя на клиенте.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/roadsync/internal/client/storage"
	"github.com/iudanet/roadsync/internal/validation"
	"github.com/iudanet/roadsync/pkg/api"
)

//go:generate moq -out client_mock.go . Client

// Client серверные операции, нужные сессии
type Client interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error)
	SetToken(token string)
}

// ErrNotAuthenticated возвращается, если сессии нет
var ErrNotAuthenticated = errors.New("not authenticated")

// Session хранит текущий токен и оповещает подписчиков о его смене.
// Пустой токен означает отсутствие аутентификации.
type Session struct {
	client    Client
	storage   storage.AuthStorage
	logger    *slog.Logger
	now       func() time.Time
	data      *storage.AuthData
	observers map[int]func(string)
	mu        sync.Mutex
	nextID    int
}

// NewSession создает сессию без токена. Сохраненный токен загружается через Restore.
func NewSession(client Client, authStorage storage.AuthStorage, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		client:    client,
		storage:   authStorage,
		logger:    logger.With("component", "session"),
		now:       time.Now,
		observers: make(map[int]func(string)),
	}
}

// Register регистрирует нового пользователя. Сессия не меняется.
func (s *Session) Register(ctx context.Context, email, password string) (*api.RegisterResponse, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	resp, err := s.client.Register(ctx, api.RegisterRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	s.logger.Info("User registered", "email", email, "user_id", resp.UserID)
	return resp, nil
}

// Login получает токен, сохраняет его локально и делает текущим
func (s *Session) Login(ctx context.Context, email, password string) (*storage.AuthData, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	resp, err := s.client.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if resp.Token == "" {
		return nil, errors.New("login failed: empty token in response")
	}

	data := &storage.AuthData{
		Email:     email,
		UserID:    resp.UserID,
		Token:     resp.Token,
		ExpiresAt: s.now().Add(time.Duration(resp.ExpiresIn) * time.Second).Unix(),
	}
	if err := s.storage.SaveAuth(ctx, data); err != nil {
		return nil, fmt.Errorf("failed to save auth data: %w", err)
	}

	s.set(data)
	s.logger.Info("Logged in", "email", email)

	result := *data
	return &result, nil
}

// Restore загружает сохраненный токен. Возвращает false, если токена нет
// или срок его действия истек.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	data, err := s.storage.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load auth data: %w", err)
	}

	if s.now().Unix() >= data.ExpiresAt {
		s.logger.Info("Stored token expired", "email", data.Email)
		if err := s.storage.DeleteAuth(ctx); err != nil {
			s.logger.Warn("Failed to delete expired auth data", "error", err)
		}
		return false, nil
	}

	s.set(data)
	return true, nil
}

// Logout удаляет сохраненный токен и сбрасывает сессию
func (s *Session) Logout(ctx context.Context) error {
	if err := s.storage.DeleteAuth(ctx); err != nil && !errors.Is(err, storage.ErrAuthNotFound) {
		return fmt.Errorf("failed to delete auth data: %w", err)
	}

	s.set(nil)
	s.logger.Info("Logged out")
	return nil
}

// Credential возвращает текущий токен или пустую строку
func (s *Session) Credential() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return ""
	}
	return s.data.Token
}

// Current возвращает копию данных сессии
func (s *Session) Current() (*storage.AuthData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, ErrNotAuthenticated
	}
	data := *s.data
	return &data, nil
}

// SubscribeCredential регистрирует обработчик смены токена
func (s *Session) SubscribeCredential(fn func(credential string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.observers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

func (s *Session) set(data *storage.AuthData) {
	s.mu.Lock()
	prev := ""
	if s.data != nil {
		prev = s.data.Token
	}
	s.data = data

	token := ""
	if data != nil {
		token = data.Token
	}
	s.client.SetToken(token)

	var observers []func(string)
	if prev != token {
		for _, fn := range s.observers {
			observers = append(observers, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(token)
	}
}
