// Точка входа Museum Admin — сервис управления музейным справочником.
// Загружает конфигурацию, применяет миграции, подключается к PostgreSQL,
// создаёт сервисный слой и API handlers, запускает topologymetrics
// и HTTP-сервер с JWT middleware и graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/museum-data/museum-admin/internal/api/handlers"
	"github.com/museum-data/museum-admin/internal/api/middleware"
	"github.com/museum-data/museum-admin/internal/api/openapi"
	"github.com/museum-data/museum-admin/internal/config"
	"github.com/museum-data/museum-admin/internal/database"
	"github.com/museum-data/museum-admin/internal/domain/clock"
	"github.com/museum-data/museum-admin/internal/i18n"
	"github.com/museum-data/museum-admin/internal/repository"
	"github.com/museum-data/museum-admin/internal/server"
	"github.com/museum-data/museum-admin/internal/service"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Museum Admin запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Применение миграций БД
	if cfg.MigrateOnStart {
		logger.Info("Применение миграций БД...")
		if err := database.Migrate(cfg, logger); err != nil {
			logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode).
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Каталоги сообщений и OpenAPI-контракт
	bundle, err := i18n.Load(logger)
	if err != nil {
		logger.Error("Ошибка загрузки каталогов сообщений", slog.String("error", err.Error()))
		os.Exit(1)
	}
	doc, err := openapi.Load(ctx)
	if err != nil {
		logger.Error("Ошибка загрузки OpenAPI-контракта", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 6. Repositories
	store := repository.NewStore(pool)
	txRunner := repository.NewTxRunner(pool)

	// 7. Services
	clk := clock.System{}
	cache := service.NewReferenceCache(cfg.CacheSize, cfg.CacheTTL)
	apiHandler := handlers.NewAPIHandler(handlers.Services{
		Countries:    service.NewCountryService(store.Countries, cache, clk, logger),
		Cities:       service.NewCityService(store.Cities, cache, clk, logger),
		Addresses:    service.NewAddressService(store.Addresses, clk, logger),
		Museums:      service.NewMuseumService(store.Museums, txRunner, clk, logger),
		Guides:       service.NewGuideService(store.Guides, txRunner, clk, logger),
		Exhibitions:  service.NewExhibitionService(store.Exhibitions, txRunner, clk, logger),
		Exhibits:     service.NewExhibitService(store.Exhibits, clk, logger),
		MuseumGuides: service.NewMuseumGuideService(store.MuseumGuides, clk, logger),
	}, bundle, logger)

	// 8. JWT middleware (опционально, если задан MA_JWT_JWKS_URL)
	var (
		jwtAuth     *middleware.JWTAuth
		jwksChecker handlers.ReadinessChecker
	)
	if cfg.AuthEnabled() {
		jwtAuth, err = middleware.NewJWTAuth(
			ctx,
			cfg.JWTJWKSURL,
			cfg.JWTIssuer,
			cfg.RoleAdminGroups,
			cfg.RoleReadonlyGroups,
			cfg.JWKSRefreshInterval,
			cfg.JWTLeeway,
			logger,
		)
		if err != nil {
			logger.Error("Ошибка создания JWT middleware", slog.String("error", err.Error()))
			os.Exit(1)
		}
		jwksChecker = middleware.NewJWKSReadinessChecker(cfg.JWTJWKSURL, 5*time.Second)
		logger.Info("JWT middleware инициализирован",
			slog.String("jwks_url", cfg.JWTJWKSURL),
			slog.String("issuer", cfg.JWTIssuer),
		)
	} else {
		logger.Warn("MA_JWT_JWKS_URL не задан, API доступен без аутентификации")
	}

	// 9. topologymetrics — мониторинг зависимостей (PostgreSQL + JWKS)
	var deps handlers.DependencyReporter
	dephealthSvc, dephealthErr := service.NewDephealthService(service.DephealthConfig{
		ServiceID:     "museum-admin",
		Group:         cfg.DephealthGroup,
		DB:            pgDB,
		PGConnURL:     cfg.DatabaseURL(),
		JWKSURL:       cfg.JWTJWKSURL,
		CheckInterval: cfg.DephealthCheckInterval,
	}, logger)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
		dephealthSvc = nil
	} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
		logger.Warn("Ошибка запуска topologymetrics",
			slog.String("error", startErr.Error()),
		)
		dephealthSvc = nil
	} else {
		deps = dephealthSvc
		logger.Info("topologymetrics запущен",
			slog.String("group", cfg.DephealthGroup),
			slog.String("check_interval", cfg.DephealthCheckInterval.String()),
		)
	}

	// 10. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, server.Handlers{
		API:       apiHandler,
		Health:    handlers.NewHealthHandler(database.NewReadinessChecker(pool), jwksChecker, deps),
		Validator: middleware.NewRequestValidator(doc, logger),
		Messages:  bundle,
		JWTAuth:   jwtAuth,
	})
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 11. Остановка фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("Museum Admin остановлен")
}
