// Package app собирает HTTP сервер roadsync из хранилища, handlers и middleware.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/iudanet/roadsync/internal/server/handlers"
	"github.com/iudanet/roadsync/internal/server/jwt"
	"github.com/iudanet/roadsync/internal/server/live"
	"github.com/iudanet/roadsync/internal/server/middleware"
	"github.com/iudanet/roadsync/internal/server/storage/sqlite"
)

// Config настройки сервера
type Config struct {
	Addr            string
	DBPath          string
	JWTSecret       string
	Version         string
	TokenTTL        time.Duration
	AuthRateWindow  time.Duration
	ShutdownTimeout time.Duration
	PageSize        int
	AuthRate        int // запросов к /register и /login с одного IP за AuthRateWindow
}

// DefaultConfig возвращает настройки по умолчанию
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		DBPath:          "roadsync.db",
		Version:         "dev",
		TokenTTL:        24 * time.Hour,
		AuthRate:        10,
		AuthRateWindow:  time.Minute,
		ShutdownTimeout: 10 * time.Second,
		PageSize:        handlers.DefaultPageSize,
	}
}

// Server HTTP сервер со всеми зависимостями
type Server struct {
	logger     *slog.Logger
	storage    *sqlite.Storage
	hub        *live.Hub
	limiter    *middleware.RateLimiter
	httpServer *http.Server
	cfg        Config
}

// New открывает хранилище и собирает маршруты
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Server, error) {
	tokens, err := jwt.NewService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to configure tokens: %w", err)
	}

	store, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		storage: store,
		hub:     live.NewHub(tokens, logger),
		limiter: middleware.NewRateLimiter(cfg.AuthRate, cfg.AuthRateWindow, logger),
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(tokens),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       2 * time.Minute,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	return s, nil
}

func (s *Server) routes(tokens *jwt.Service) http.Handler {
	authHandler := handlers.NewAuthHandler(s.logger, s.storage, tokens)
	roadsHandler := handlers.NewRoadsHandler(s.logger, s.storage, s.hub, s.cfg.PageSize)
	healthHandler := handlers.NewHealthHandler(s.logger, s.storage, s.cfg.Version)

	r := mux.NewRouter()
	r.Use(
		middleware.RequestIDMiddleware,
		middleware.LoggingMiddleware(s.logger, "/health"),
		middleware.RecoveryMiddleware(s.logger),
	)

	r.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	r.Handle("/ws", s.hub).Methods(http.MethodGet)

	public := r.NewRoute().Subrouter()
	public.Use(s.limiter.Middleware)
	public.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	public.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)

	protected := r.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware(s.logger, tokens))
	protected.HandleFunc("/roads", roadsHandler.ListRoads).Methods(http.MethodGet)
	protected.HandleFunc("/road", roadsHandler.CreateRoad).Methods(http.MethodPost)
	protected.HandleFunc("/road/{id:[0-9]+}", roadsHandler.UpdateRoad).Methods(http.MethodPut)
	protected.HandleFunc("/roads/sync", roadsHandler.SyncRoads).Methods(http.MethodPost)

	return r
}

// Handler возвращает корневой handler сервера
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run слушает адрес до отмены ctx, затем корректно останавливает сервер
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", "addr", s.cfg.Addr, "version", s.cfg.Version)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()

	// websocket соединения после hijack не отслеживаются Shutdown
	s.hub.Close()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// Close освобождает ресурсы сервера
func (s *Server) Close() error {
	s.limiter.Stop()
	s.hub.Close()
	return s.storage.Close()
}
