// Пакет repository — слой доступа к данным PostgreSQL (схема museum_data).
// Все запросы — чистый SQL через pgx, без ORM.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ошибки слоя репозиториев.
var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("запись не найдена")
	// ErrConflict — конфликт уникальности (дублирующийся ресурс).
	ErrConflict = errors.New("конфликт — запись уже существует")
	// ErrInvalidReference — ссылка на несуществующую родительскую запись.
	ErrInvalidReference = errors.New("ссылка на несуществующую запись")
	// ErrCheckViolation — нарушено CHECK-ограничение таблицы.
	ErrCheckViolation = errors.New("нарушено ограничение значения")
)

// ConstraintError — нарушение ограничения PostgreSQL с привязкой к полю.
// errors.Is(err, ErrConflict | ErrInvalidReference | ErrCheckViolation)
// работает через Unwrap.
type ConstraintError struct {
	// Kind — одна из ошибок ErrConflict, ErrInvalidReference, ErrCheckViolation
	Kind error
	// Constraint — имя ограничения в БД
	Constraint string
	// Field — поле сущности, к которому относится ограничение (может быть пустым)
	Field string
	// Description — описание нарушенного инварианта
	Description string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Description)
}

func (e *ConstraintError) Unwrap() error {
	return e.Kind
}

type constraintInfo struct {
	field       string
	description string
}

// knownConstraints — имена ограничений из миграций.
var knownConstraints = map[string]constraintInfo{
	"city_name_country_key":         {"name", "город с таким названием уже есть в этой стране"},
	"address_full_key":              {"street", "такой адрес уже существует"},
	"museum_title_address_key":      {"title", "музей с таким названием уже есть по этому адресу"},
	"exhibition_theme_key":          {"theme", "выставка с такой темой уже существует"},
	"exhibit_title_key":             {"title", "экспонат с таким названием уже существует"},
	"museum_guide_museum_guide_key": {"guide_id", "экскурсовод уже привязан к этому музею"},

	"city_country_fk":        {"country_id", "страна не найдена"},
	"address_city_fk":        {"city_id", "город не найден"},
	"museum_address_fk":      {"address_id", "адрес не найден"},
	"exhibition_museum_fk":   {"museum_id", "музей не найден"},
	"exhibit_exposition_fk":  {"exposition_id", "выставка не найдена"},
	"museum_guide_museum_fk": {"museum_id", "музей не найден"},
	"museum_guide_guide_fk":  {"guide_id", "экскурсовод не найден"},

	"museum_rating_check":    {"rating", "рейтинг меньше нуля"},
	"exhibition_floor_check": {"floor", "этаж меньше нуля"},
}

// constraintError классифицирует ошибку PostgreSQL.
// Возвращает nil, если это не нарушение ограничения.
func constraintError(err error) *ConstraintError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}

	var kind error
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		kind = ErrConflict
	case pgerrcode.ForeignKeyViolation:
		kind = ErrInvalidReference
	case pgerrcode.CheckViolation:
		kind = ErrCheckViolation
	default:
		return nil
	}

	info, ok := knownConstraints[pgErr.ConstraintName]
	if !ok {
		info = constraintInfo{description: pgErr.ConstraintName}
		if strings.HasSuffix(pgErr.ConstraintName, "_pkey") {
			info = constraintInfo{field: "id", description: "запись с таким ID уже существует"}
		}
	}

	return &ConstraintError{
		Kind:        kind,
		Constraint:  pgErr.ConstraintName,
		Field:       info.field,
		Description: info.description,
	}
}

// writeError оборачивает ошибку записи: нарушения ограничений
// превращаются в *ConstraintError, остальное — в ошибку с контекстом op.
func writeError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if ce := constraintError(err); ce != nil {
		return ce
	}
	return fmt.Errorf("ошибка %s: %w", op, err)
}

// DBTX — интерфейс для выполнения SQL-запросов.
// Реализуется как *pgxpool.Pool, так и pgx.Tx, что позволяет
// использовать репозитории как внутри, так и вне транзакций.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CRUD — общий набор операций репозитория сущности E с фильтром F.
// Ему удовлетворяет каждый репозиторий пакета.
type CRUD[E any, F any] interface {
	Create(ctx context.Context, e *E) error
	GetByID(ctx context.Context, id uuid.UUID) (*E, error)
	List(ctx context.Context, f F, limit, offset int) ([]*E, error)
	Count(ctx context.Context, f F) (int, error)
	Update(ctx context.Context, e *E) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Store — набор репозиториев поверх одного DBTX.
type Store struct {
	Countries    CountryRepository
	Cities       CityRepository
	Addresses    AddressRepository
	Museums      MuseumRepository
	Guides       GuideRepository
	Exhibitions  ExhibitionRepository
	Exhibits     ExhibitRepository
	MuseumGuides MuseumGuideRepository
}

// NewStore создаёт набор репозиториев для db (пул или транзакция).
func NewStore(db DBTX) *Store {
	return &Store{
		Countries:    NewCountryRepository(db),
		Cities:       NewCityRepository(db),
		Addresses:    NewAddressRepository(db),
		Museums:      NewMuseumRepository(db),
		Guides:       NewGuideRepository(db),
		Exhibitions:  NewExhibitionRepository(db),
		Exhibits:     NewExhibitRepository(db),
		MuseumGuides: NewMuseumGuideRepository(db),
	}
}

// TxRunner позволяет выполнять операции в транзакции.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner создаёт TxRunner для управления транзакциями.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunInTx выполняет fn внутри транзакции.
// При ошибке fn — транзакция откатывается.
// При успехе — коммитится.
func (r *TxRunner) RunInTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // откат после коммита — no-op

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// RunInStore выполняет fn с репозиториями, привязанными к одной транзакции.
func (r *TxRunner) RunInStore(ctx context.Context, fn func(s *Store) error) error {
	return r.RunInTx(ctx, func(tx pgx.Tx) error {
		return fn(NewStore(tx))
	})
}

// --- Построение WHERE ---

// where собирает условия и аргументы запроса.
// Условие содержит %[1]d — номер своего аргумента.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

// search добавляет ILIKE-поиск подстроки q по нескольким колонкам.
func (w *where) search(q string, columns ...string) {
	q = strings.TrimSpace(q)
	if q == "" {
		return
	}
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = col + " ILIKE $%[1]d"
	}
	w.add("("+strings.Join(parts, " OR ")+")", "%"+escapeLike(q)+"%")
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conds, " AND ")
}

// page возвращает LIMIT/OFFSET с номерами следующих аргументов
// и дополняет список аргументов.
func (w *where) page(limit, offset int) (string, []any) {
	n := len(w.args)
	args := append(append([]any{}, w.args...), limit, offset)
	return fmt.Sprintf("LIMIT $%d OFFSET $%d", n+1, n+2), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
