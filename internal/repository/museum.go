package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/museum-data/museum-admin/internal/domain/model"
)

// MuseumFilter — фильтр списка музеев.
type MuseumFilter struct {
	// Query — поиск по названию
	Query string
	// AddressID — только музеи по указанному адресу
	AddressID *uuid.UUID
	// GuideID — только музеи, к которым привязан экскурсовод
	GuideID *uuid.UUID
}

// MuseumRepository — интерфейс CRUD для таблицы museum_data.museum.
type MuseumRepository interface {
	// Create создаёт музей. Пустые created/modified заполняются now() в БД.
	Create(ctx context.Context, m *model.Museum) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Museum, error)
	List(ctx context.Context, f MuseumFilter, limit, offset int) ([]*model.Museum, error)
	Count(ctx context.Context, f MuseumFilter) (int, error)
	Update(ctx context.Context, m *model.Museum) error
	// Delete удаляет музей вместе с выставками, экспонатами и связями
	// с экскурсоводами. Адрес сохраняется.
	Delete(ctx context.Context, id uuid.UUID) error
}

type museumRepo struct {
	db DBTX
}

// NewMuseumRepository создаёт репозиторий музеев.
func NewMuseumRepository(db DBTX) MuseumRepository {
	return &museumRepo{db: db}
}

const museumColumns = `m.id, m.title, m.address_id, m.rating, m.created, m.modified`

func (f MuseumFilter) where() *where {
	w := &where{}
	w.search(f.Query, "m.title")
	if f.AddressID != nil {
		w.add("m.address_id = $%[1]d", *f.AddressID)
	}
	if f.GuideID != nil {
		w.add(`EXISTS (SELECT 1 FROM museum_data.museum_guide mg
			WHERE mg.museum_id = m.id AND mg.guide_id = $%[1]d)`, *f.GuideID)
	}
	return w
}

func scanMuseum(row pgx.Row, m *model.Museum) error {
	return row.Scan(&m.ID, &m.Title, &m.AddressID, &m.Rating, &m.Created, &m.Modified)
}

func (r *museumRepo) Create(ctx context.Context, m *model.Museum) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO museum_data.museum (id, title, address_id, rating, created, modified)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()), COALESCE($6, now()))
		RETURNING created, modified`,
		m.ID, m.Title, m.AddressID, m.Rating, m.Created, m.Modified,
	).Scan(&m.Created, &m.Modified)
	return writeError("создания музея", err)
}

func (r *museumRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Museum, error) {
	m := &model.Museum{}
	err := scanMuseum(r.db.QueryRow(ctx,
		`SELECT `+museumColumns+` FROM museum_data.museum m WHERE m.id = $1`, id), m)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения музея: %w", err)
	}
	return m, nil
}

func (r *museumRepo) List(ctx context.Context, f MuseumFilter, limit, offset int) ([]*model.Museum, error) {
	w := f.where()
	page, args := w.page(limit, offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM museum_data.museum m
		%s
		ORDER BY m.title, m.id
		%s`, museumColumns, w.sql(), page)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка музеев: %w", err)
	}
	defer rows.Close()

	var result []*model.Museum
	for rows.Next() {
		m := &model.Museum{}
		if err := scanMuseum(rows, m); err != nil {
			return nil, fmt.Errorf("ошибка сканирования музея: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *museumRepo) Count(ctx context.Context, f MuseumFilter) (int, error) {
	w := f.where()
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM museum_data.museum m `+w.sql(), w.args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта музеев: %w", err)
	}
	return count, nil
}

func (r *museumRepo) Update(ctx context.Context, m *model.Museum) error {
	err := r.db.QueryRow(ctx, `
		UPDATE museum_data.museum
		SET title = $2, address_id = $3, rating = $4, created = $5, modified = COALESCE($6, now())
		WHERE id = $1
		RETURNING modified`,
		m.ID, m.Title, m.AddressID, m.Rating, m.Created, m.Modified,
	).Scan(&m.Modified)
	return writeError("обновления музея", err)
}

func (r *museumRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM museum_data.museum WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления музея: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
