// Пакет server — HTTP-сервер Museum Admin с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на API Gateway.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/museum-data/museum-admin/internal/api/handlers"
	"github.com/museum-data/museum-admin/internal/api/middleware"
	"github.com/museum-data/museum-admin/internal/config"
	"github.com/museum-data/museum-admin/internal/i18n"
)

// Handlers — обработчики и middleware, из которых собирается роутер.
type Handlers struct {
	API       *handlers.APIHandler
	Health    *handlers.HealthHandler
	Validator *middleware.RequestValidator
	Messages  *i18n.Bundle
	// JWTAuth — JWT middleware (nil, если аутентификация отключена).
	JWTAuth *middleware.JWTAuth
}

// Server — HTTP-сервер Museum Admin.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
func New(cfg *config.Config, logger *slog.Logger, h Handlers) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      NewRouter(h, logger),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// NewRouter собирает chi-роутер.
// Health, metrics и контракт API доступны без JWT: их опрашивает
// Kubernetes напрямую, без API Gateway.
func NewRouter(h Handlers, logger *slog.Logger) http.Handler {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(chimw.RequestID)
	router.Use(chimw.Recoverer)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))
	router.Use(h.Messages.Middleware())

	router.Get("/health/live", h.Health.HealthLive)
	router.Get("/health/ready", h.Health.HealthReady)
	router.Get("/metrics", h.Health.GetMetrics)
	router.Get("/api/openapi.yaml", h.Health.GetOpenAPISpec)

	// Middleware группы выполняются после маршрутизации, поэтому
	// валидатор контракта видит шаблон маршрута chi.
	router.Group(func(r chi.Router) {
		if h.JWTAuth != nil {
			r.Use(h.JWTAuth.Middleware())
			r.Use(middleware.RequireMethodRole())
		}
		if h.Validator != nil {
			r.Use(h.Validator.Middleware())
		}
		h.API.Mount(r)
	})

	return router
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
