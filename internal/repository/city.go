package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/museum-data/museum-admin/internal/domain/model"
)

// CityFilter — фильтр списка городов.
type CityFilter struct {
	// Query — поиск по названию города или страны
	Query string
	// CountryID — только города указанной страны
	CountryID *uuid.UUID
}

// CityRepository — интерфейс CRUD для таблицы museum_data.city.
type CityRepository interface {
	Create(ctx context.Context, c *model.City) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.City, error)
	List(ctx context.Context, f CityFilter, limit, offset int) ([]*model.City, error)
	Count(ctx context.Context, f CityFilter) (int, error)
	Update(ctx context.Context, c *model.City) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type cityRepo struct {
	db DBTX
}

// NewCityRepository создаёт репозиторий городов.
func NewCityRepository(db DBTX) CityRepository {
	return &cityRepo{db: db}
}

const cityFrom = `
	FROM museum_data.city ci
	JOIN museum_data.country co ON co.id = ci.country_id`

func (f CityFilter) where() *where {
	w := &where{}
	w.search(f.Query, "ci.name", "co.name")
	if f.CountryID != nil {
		w.add("ci.country_id = $%[1]d", *f.CountryID)
	}
	return w
}

func (r *cityRepo) Create(ctx context.Context, c *model.City) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO museum_data.city (id, country_id, name) VALUES ($1, $2, $3)`,
		c.ID, c.CountryID, c.Name,
	)
	return writeError("создания города", err)
}

func (r *cityRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.City, error) {
	c := &model.City{}
	err := r.db.QueryRow(ctx,
		`SELECT id, country_id, name FROM museum_data.city WHERE id = $1`, id,
	).Scan(&c.ID, &c.CountryID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения города: %w", err)
	}
	return c, nil
}

func (r *cityRepo) List(ctx context.Context, f CityFilter, limit, offset int) ([]*model.City, error) {
	w := f.where()
	page, args := w.page(limit, offset)
	query := fmt.Sprintf(`
		SELECT ci.id, ci.country_id, ci.name
		%s
		%s
		ORDER BY ci.name, co.name, ci.id
		%s`, cityFrom, w.sql(), page)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка городов: %w", err)
	}
	defer rows.Close()

	var result []*model.City
	for rows.Next() {
		c := &model.City{}
		if err := rows.Scan(&c.ID, &c.CountryID, &c.Name); err != nil {
			return nil, fmt.Errorf("ошибка сканирования города: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *cityRepo) Count(ctx context.Context, f CityFilter) (int, error) {
	w := f.where()
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) `+cityFrom+` `+w.sql(), w.args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта городов: %w", err)
	}
	return count, nil
}

func (r *cityRepo) Update(ctx context.Context, c *model.City) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE museum_data.city SET country_id = $2, name = $3 WHERE id = $1`,
		c.ID, c.CountryID, c.Name,
	)
	if err != nil {
		return writeError("обновления города", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *cityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM museum_data.city WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления города: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
