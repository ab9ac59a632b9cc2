// Package cli реализует команды клиента roadsync.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/iudanet/roadsync/internal/client/api"
	"github.com/iudanet/roadsync/internal/client/auth"
	"github.com/iudanet/roadsync/internal/client/gateway"
	"github.com/iudanet/roadsync/internal/client/iocli"
	"github.com/iudanet/roadsync/internal/client/netstatus"
	"github.com/iudanet/roadsync/internal/client/roads"
	"github.com/iudanet/roadsync/internal/client/storage/boltdb"
)

// PasswordEnv переменная окружения с паролем пользователя
const PasswordEnv = "ROADSYNC_PASSWORD"

// Options глобальные флаги клиента
type Options struct {
	ServerURL     string
	DBPath        string
	PasswordFile  string
	Timeout       time.Duration
	PollInterval time.Duration
	Verbose       bool
}

// DefaultOptions значения флагов по умолчанию
func DefaultOptions() Options {
	return Options{
		ServerURL:     "http://localhost:8080",
		DBPath:        "roadsync-client.db",
		Timeout:       api.DefaultTimeout,
		PollInterval: netstatus.DefaultPollInterval,
	}
}

// Cli связывает команды с сервисами клиента
type Cli struct {
	io        iocli.IO
	logger    *slog.Logger
	storage   *boltdb.Storage
	apiClient *api.Client
	session   *auth.Session
	monitor   *netstatus.Monitor
	poller    *netstatus.Poller
	opts      Options
}

// New создает CLI. Сервисы создаются в open перед выполнением команды.
func New(io iocli.IO, opts Options) *Cli {
	return &Cli{
		io:   io,
		opts: opts,
	}
}

// open открывает локальную базу и восстанавливает сессию
func (c *Cli) open(ctx context.Context) error {
	if c.storage != nil {
		return nil
	}

	level := slog.LevelInfo
	if c.opts.Verbose {
		level = slog.LevelDebug
	}
	c.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	boltStorage, err := boltdb.New(ctx, c.opts.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	c.storage = boltStorage

	c.apiClient = api.NewClient(c.opts.ServerURL, api.WithTimeout(c.opts.Timeout))
	c.session = auth.NewSession(c.apiClient, c.storage, c.logger)
	c.monitor = netstatus.NewMonitor(false)
	c.poller = netstatus.NewPoller(netstatus.HealthCheckFunc(func(ctx context.Context) error {
		_, err := c.apiClient.Health(ctx)
		return err
	}), c.monitor, c.opts.PollInterval, c.logger)

	if _, err := c.session.Restore(ctx); err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	return nil
}

// Close закрывает локальную базу
func (c *Cli) Close() error {
	if c.storage == nil {
		return nil
	}
	err := c.storage.Close()
	c.storage = nil
	return err
}

// requireSession возвращает ошибку, если пользователь не вошел
func (c *Cli) requireSession() error {
	if c.session.Credential() == "" {
		return errors.New("not authenticated. Please run 'roadsync login' first")
	}
	return nil
}

// startStore проверяет сеть и запускает хранилище дорог
func (c *Cli) startStore(ctx context.Context) (*roads.Store, error) {
	c.poller.Poll(ctx)

	store, err := roads.NewStore(roads.Config{
		Gateway:      gateway.NewRemote(c.apiClient, c.logger),
		Credentials:  c.session,
		Connectivity: c.monitor,
		Pending:      c.storage,
		Metadata:     c.storage,
		Logger:       c.logger,
	})
	if err != nil {
		return nil, err
	}

	if err := store.Start(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to start road store: %w", err)
	}
	return store, nil
}

// awaitIdle ждет завершения текущей загрузки или выгрузки
func (c *Cli) awaitIdle(ctx context.Context, store *roads.Store) (roads.State, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout+time.Second)
	defer cancel()

	st, err := store.Await(ctx, func(st roads.State) bool { return !st.Fetching })
	if err != nil {
		return st, fmt.Errorf("waiting for server: %w", err)
	}
	return st, nil
}

// getPassword читает пароль из источников по приоритету:
// 1. Переменная окружения ROADSYNC_PASSWORD
// 2. Файл --password-file
// 3. Интерактивный ввод
func (c *Cli) getPassword(prompt string) (string, error) {
	if envPassword := os.Getenv(PasswordEnv); envPassword != "" {
		return envPassword, nil
	}

	if c.opts.PasswordFile != "" {
		content, err := os.ReadFile(c.opts.PasswordFile)
		if err != nil {
			return "", fmt.Errorf("failed to read password file: %w", err)
		}
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", errors.New("password file is empty")
		}
		return password, nil
	}

	password, err := c.io.ReadPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	return password, nil
}
