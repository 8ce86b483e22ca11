// Пакет config — загрузка и валидация конфигурации Museum Admin
// из переменных окружения.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации Museum Admin.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- PostgreSQL ---

	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Имя пользователя PostgreSQL
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string
	// Применять миграции при старте
	MigrateOnStart bool

	// --- JWT (опционально: пустой JWKS URL отключает аутентификацию) ---

	// URL JWKS endpoint
	JWTJWKSURL string
	// Ожидаемый issuer JWT (пусто — не проверяется)
	JWTIssuer string
	// Допустимое отклонение часов при проверке exp/nbf
	JWTLeeway time.Duration
	// Интервал обновления ключей JWKS
	JWKSRefreshInterval time.Duration

	// --- Маппинг групп → ролей ---

	// Группы IdP, дающие роль admin
	RoleAdminGroups []string
	// Группы IdP, дающие роль readonly
	RoleReadonlyGroups []string

	// --- Кэш справочников (страны, города) ---

	// Максимальное количество записей в кэше
	CacheSize int
	// Время жизни записи кэша
	CacheTTL time.Duration

	// --- topologymetrics ---

	// Группа в метриках зависимостей
	DephealthGroup string
	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load читает конфигурацию из переменных окружения MA_*. Ошибки всех
// переменных возвращаются вместе.
func Load() (*Config, error) {
	var e env

	cfg := &Config{
		Port:      e.intIn("MA_PORT", 8000, 1, 65535),
		LogLevel:  e.logLevel("MA_LOG_LEVEL", "info"),
		LogFormat: e.oneOf("MA_LOG_FORMAT", "json", "json", "text"),

		DBHost:         e.required("MA_DB_HOST"),
		DBPort:         e.intIn("MA_DB_PORT", 5432, 1, 65535),
		DBName:         e.required("MA_DB_NAME"),
		DBUser:         e.required("MA_DB_USER"),
		DBPassword:     e.required("MA_DB_PASSWORD"),
		DBSSLMode:      e.oneOf("MA_DB_SSL_MODE", "disable", "disable", "require", "verify-ca", "verify-full"),
		MigrateOnStart: e.boolean("MA_MIGRATE_ON_START", true),

		JWTJWKSURL:          e.httpURL("MA_JWT_JWKS_URL"),
		JWTIssuer:           e.str("MA_JWT_ISSUER", ""),
		JWTLeeway:           e.duration("MA_JWT_LEEWAY", 30*time.Second),
		JWKSRefreshInterval: e.duration("MA_JWKS_REFRESH_INTERVAL", 15*time.Minute),

		RoleAdminGroups:    parseCSV(e.str("MA_ROLE_ADMIN_GROUPS", "museum-admins")),
		RoleReadonlyGroups: parseCSV(e.str("MA_ROLE_READONLY_GROUPS", "museum-viewers")),

		CacheSize: e.intIn("MA_CACHE_SIZE", 1024, 1, math.MaxInt32),
		CacheTTL:  e.duration("MA_CACHE_TTL", 5*time.Minute),

		DephealthGroup:         e.str("MA_DEPHEALTH_GROUP", "museum"),
		DephealthCheckInterval: e.duration("MA_DEPHEALTH_CHECK_INTERVAL", 15*time.Second),

		ShutdownTimeout: e.duration("MA_SHUTDOWN_TIMEOUT", 5*time.Second),
	}

	if err := errors.Join(e.errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AuthEnabled сообщает, включена ли JWT-аутентификация.
func (c *Config) AuthEnabled() bool {
	return c.JWTJWKSURL != ""
}

// DatabaseDSN возвращает строку подключения к PostgreSQL для pgxpool.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL PostgreSQL без пароля (для лейблов метрик).
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%d/%s", c.DBHost, c.DBPort, c.DBName)
}

// MigrateURL возвращает URL для golang-migrate (драйвер pgx5).
func (c *Config) MigrateURL() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.DBSSLMode,
	}
	return u.String()
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// env читает переменные и копит ошибки; при ошибке возвращается нулевое значение.
type env struct {
	errs []error
}

func (e *env) fail(key, format string, args ...any) {
	e.errs = append(e.errs, fmt.Errorf("%s: "+format, append([]any{key}, args...)...))
}

func (e *env) str(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func (e *env) required(key string) string {
	val := os.Getenv(key)
	if val == "" {
		e.fail(key, "обязательная переменная окружения не задана")
	}
	return val
}

func (e *env) oneOf(key, def string, allowed ...string) string {
	val := e.str(key, def)
	if !slices.Contains(allowed, val) {
		e.fail(key, "недопустимое значение %q, допустимые: %s", val, strings.Join(allowed, ", "))
		return ""
	}
	return val
}

func (e *env) intIn(key string, def, lo, hi int) int {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	switch {
	case err != nil:
		e.fail(key, "некорректное целое число: %q", val)
		return 0
	case n < lo || n > hi:
		e.fail(key, "значение %d вне диапазона %d-%d", n, lo, hi)
		return 0
	}
	return n
}

// boolean принимает значения strconv.ParseBool (true/false/1/0/...).
func (e *env) boolean(key string, def bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		e.fail(key, "некорректное логическое значение: %q", val)
	}
	return b
}

func (e *env) duration(key string, def time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		e.fail(key, "некорректная длительность: %q (формат Go: 30s, 1h, 15m)", val)
	}
	return d
}

// httpURL — необязательный URL; если задан, у него должен быть хост.
func (e *env) httpURL(key string) string {
	val := e.str(key, "")
	if val == "" {
		return ""
	}
	if u, err := url.Parse(val); err != nil || u.Host == "" {
		e.fail(key, "некорректный URL %q", val)
		return ""
	}
	return val
}

func (e *env) logLevel(key, def string) slog.Level {
	var level slog.Level
	val := e.str(key, def)
	if val == "warning" {
		val = "warn"
	}
	if err := level.UnmarshalText([]byte(val)); err != nil || strings.ContainsAny(val, "+-") {
		e.fail(key, "недопустимый уровень %q, допустимые: debug, info, warn, error", val)
	}
	return level
}

// parseCSV режет строку по запятым, обрезает пробелы и отбрасывает пустые элементы.
func parseCSV(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
