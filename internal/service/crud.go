// crud.go — общие операции создания, чтения, изменения и удаления
// для всех сущностей справочника.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/museum-data/museum-admin/internal/domain/clock"
	"github.com/museum-data/museum-admin/internal/domain/model"
	"github.com/museum-data/museum-admin/internal/repository"
)

// entityRules описывает сущность для crud.
type entityRules[E any] struct {
	// name — имя сущности в логах и метриках
	name string
	// identity возвращает первичный ключ сущности
	identity func(e *E) *model.Identity
	// timestamps возвращает отметки времени; nil — у сущности их нет
	timestamps func(e *E) *model.Timestamps
	// validate — набор правил сущности
	validate func(e *E, now time.Time) error
}

// crud — CRUD поверх репозитория с валидацией и отметками времени.
type crud[E any, F any] struct {
	repo   repository.CRUD[E, F]
	rules  entityRules[E]
	clock  clock.Clock
	logger *slog.Logger
}

func newCRUD[E any, F any](
	repo repository.CRUD[E, F],
	rules entityRules[E],
	clk clock.Clock,
	logger *slog.Logger,
) *crud[E, F] {
	return &crud[E, F]{
		repo:   repo,
		rules:  rules,
		clock:  clk,
		logger: logger.With(slog.String("component", rules.name+"_service")),
	}
}

// prepareNew назначает новый ID и заполняет пустые отметки времени.
// ID, пришедший от клиента, не сохраняется.
func (c *crud[E, F]) prepareNew(e *E, now time.Time) {
	c.rules.identity(e).ID = uuid.New()
	if c.rules.timestamps != nil {
		c.rules.timestamps(e).Touch(now)
	}
}

// prepareUpdate переносит отметки времени текущей записи в изменённую.
func (c *crud[E, F]) prepareUpdate(e, current *E, now time.Time) {
	if c.rules.timestamps == nil {
		return
	}
	stampUpdate(c.rules.timestamps(e), c.rules.timestamps(current), now)
}

// stampUpdate сохраняет created из текущей записи, если он не передан,
// и выставляет modified = now, если modified не передан.
func stampUpdate(ts, current *model.Timestamps, now time.Time) {
	if ts.Created == nil {
		ts.Created = current.Created
	}
	if ts.Modified == nil {
		m := now
		ts.Modified = &m
	}
}

// Create проверяет и сохраняет новую запись.
// ID всегда генерируется, пустые created/modified получают текущее время.
func (c *crud[E, F]) Create(ctx context.Context, e *E) (*E, error) {
	now := c.clock.Now()
	c.prepareNew(e, now)

	if err := c.rules.validate(e, now); err != nil {
		return nil, invalid(c.rules.name, err)
	}

	if err := c.repo.Create(ctx, e); err != nil {
		return nil, mapRepoError("создание "+c.rules.name, err)
	}

	c.logger.Info("Запись создана", slog.String("id", c.rules.identity(e).ID.String()))
	return e, nil
}

// Get возвращает запись по ID.
func (c *crud[E, F]) Get(ctx context.Context, id uuid.UUID) (*E, error) {
	e, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError("получение "+c.rules.name, err)
	}
	return e, nil
}

// List возвращает страницу записей и общее количество по фильтру.
func (c *crud[E, F]) List(ctx context.Context, f F, limit, offset int) ([]*E, int, error) {
	items, err := c.repo.List(ctx, f, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("получение списка %s: %w", c.rules.name, err)
	}

	total, err := c.repo.Count(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("подсчёт %s: %w", c.rules.name, err)
	}

	return items, total, nil
}

// Update проверяет и сохраняет изменённую запись.
// Правила валидации применяются так же, как при создании.
func (c *crud[E, F]) Update(ctx context.Context, e *E) (*E, error) {
	id := c.rules.identity(e).ID
	current, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError("получение "+c.rules.name, err)
	}

	now := c.clock.Now()
	c.prepareUpdate(e, current, now)

	if err := c.rules.validate(e, now); err != nil {
		return nil, invalid(c.rules.name, err)
	}

	if err := c.repo.Update(ctx, e); err != nil {
		return nil, mapRepoError("обновление "+c.rules.name, err)
	}

	c.logger.Info("Запись обновлена", slog.String("id", id.String()))
	return e, nil
}

// Delete удаляет запись. Зависимые записи удаляются каскадно в БД.
func (c *crud[E, F]) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.repo.Delete(ctx, id); err != nil {
		return mapRepoError("удаление "+c.rules.name, err)
	}
	c.logger.Info("Запись удалена", slog.String("id", id.String()))
	return nil
}
