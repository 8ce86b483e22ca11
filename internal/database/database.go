// Пакет database — подключение к PostgreSQL через pgxpool,
// применение миграций схемы museum_data (golang-migrate) и проверка готовности.
package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/museum-data/museum-admin/internal/config"
)

// Schema — схема PostgreSQL с таблицами справочника.
const Schema = "museum_data"

// Tables — таблицы справочника в порядке зависимостей.
var Tables = []string{
	"country",
	"city",
	"address",
	"museum",
	"guide",
	"exhibition",
	"exhibit",
	"museum_guide",
}

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Connect создаёт пул подключений к PostgreSQL.
// Выполняет ping для проверки доступности.
func Connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания пула подключений: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка подключения к PostgreSQL: %w", err)
	}

	logger.Info("Подключение к PostgreSQL установлено",
		slog.String("host", cfg.DBHost),
		slog.Int("port", cfg.DBPort),
		slog.String("database", cfg.DBName),
	)

	return pool, nil
}

// Migrate применяет SQL-миграции из embedded FS.
// Миграции только прямые: каждая версия следует за предыдущей.
func Migrate(cfg *config.Config, logger *slog.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("ошибка создания источника миграций: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, cfg.MigrateURL())
	if err != nil {
		return fmt.Errorf("ошибка инициализации миграций: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("ошибка применения миграций: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("ошибка чтения версии схемы: %w", err)
	}
	if dirty {
		return fmt.Errorf("схема %s в состоянии dirty (версия %d), требуется ручное вмешательство", Schema, version)
	}
	logger.Info("Миграции применены",
		slog.String("schema", Schema),
		slog.Uint64("version", uint64(version)),
	)

	return nil
}

// ReadinessChecker — готовность PostgreSQL для /health/ready:
// база отвечает и все таблицы справочника на месте.
type ReadinessChecker struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewReadinessChecker создаёт проверку готовности PostgreSQL.
func NewReadinessChecker(pool *pgxpool.Pool) *ReadinessChecker {
	return &ReadinessChecker{pool: pool, timeout: 3 * time.Second}
}

// CheckReady возвращает "fail", если база недоступна, и "degraded",
// если схема museum_data применена не полностью.
func (c *ReadinessChecker) CheckReady() (status string, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	missing, err := MissingTables(ctx, c.pool)
	if err != nil {
		return "fail", fmt.Sprintf("PostgreSQL недоступен: %v", err)
	}
	if len(missing) > 0 {
		return "degraded", "нет таблиц: " + strings.Join(missing, ", ")
	}
	return "ok", "подключение активно"
}

// MissingTables возвращает таблицы из Tables, которых нет в схеме Schema.
func MissingTables(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	rows, err := pool.Query(ctx,
		`SELECT table_name FROM information_schema.tables WHERE table_schema = $1`, Schema)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения списка таблиц: %w", err)
	}
	present, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения списка таблиц: %w", err)
	}

	var missing []string
	for _, t := range Tables {
		if !slices.Contains(present, t) {
			missing = append(missing, t)
		}
	}
	return missing, nil
}
