package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/museum-data/museum-admin/internal/domain/model"
)

// CountryFilter — фильтр списка стран.
type CountryFilter struct {
	// Query — поиск по названию
	Query string
}

// CountryRepository — интерфейс CRUD для таблицы museum_data.country.
type CountryRepository interface {
	Create(ctx context.Context, c *model.Country) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Country, error)
	List(ctx context.Context, f CountryFilter, limit, offset int) ([]*model.Country, error)
	Count(ctx context.Context, f CountryFilter) (int, error)
	Update(ctx context.Context, c *model.Country) error
	// Delete удаляет страну; города, адреса и музеи удаляются каскадно.
	Delete(ctx context.Context, id uuid.UUID) error
}

type countryRepo struct {
	db DBTX
}

// NewCountryRepository создаёт репозиторий стран.
func NewCountryRepository(db DBTX) CountryRepository {
	return &countryRepo{db: db}
}

func (f CountryFilter) where() *where {
	w := &where{}
	w.search(f.Query, "name")
	return w
}

func (r *countryRepo) Create(ctx context.Context, c *model.Country) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO museum_data.country (id, name) VALUES ($1, $2)`,
		c.ID, c.Name,
	)
	return writeError("создания страны", err)
}

func (r *countryRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Country, error) {
	c := &model.Country{}
	err := r.db.QueryRow(ctx,
		`SELECT id, name FROM museum_data.country WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения страны: %w", err)
	}
	return c, nil
}

func (r *countryRepo) List(ctx context.Context, f CountryFilter, limit, offset int) ([]*model.Country, error) {
	w := f.where()
	page, args := w.page(limit, offset)
	query := fmt.Sprintf(`
		SELECT id, name FROM museum_data.country
		%s
		ORDER BY name, id
		%s`, w.sql(), page)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка стран: %w", err)
	}
	defer rows.Close()

	var result []*model.Country
	for rows.Next() {
		c := &model.Country{}
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("ошибка сканирования страны: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *countryRepo) Count(ctx context.Context, f CountryFilter) (int, error) {
	w := f.where()
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM museum_data.country `+w.sql(), w.args...,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта стран: %w", err)
	}
	return count, nil
}

func (r *countryRepo) Update(ctx context.Context, c *model.Country) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE museum_data.country SET name = $2 WHERE id = $1`,
		c.ID, c.Name,
	)
	if err != nil {
		return writeError("обновления страны", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *countryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM museum_data.country WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления страны: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
