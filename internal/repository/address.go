package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/museum-data/museum-admin/internal/domain/model"
)

// AddressFilter — фильтр списка адресов.
type AddressFilter struct {
	// Query — поиск по улице, номеру дома или названию города
	Query string
	// CityID — только адреса указанного города
	CityID *uuid.UUID
}

// AddressRepository — интерфейс CRUD для таблицы museum_data.address.
type AddressRepository interface {
	Create(ctx context.Context, a *model.Address) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Address, error)
	List(ctx context.Context, f AddressFilter, limit, offset int) ([]*model.Address, error)
	Count(ctx context.Context, f AddressFilter) (int, error)
	Update(ctx context.Context, a *model.Address) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type addressRepo struct {
	db DBTX
}

// NewAddressRepository создаёт репозиторий адресов.
func NewAddressRepository(db DBTX) AddressRepository {
	return &addressRepo{db: db}
}

const (
	addressColumns = `a.id, a.city_id, a.street, a.house_number, a.entrance_number, a.floor, a.flat_number`
	addressFrom    = `
	FROM museum_data.address a
	JOIN museum_data.city ci ON ci.id = a.city_id`
)

func (f AddressFilter) where() *where {
	w := &where{}
	w.search(f.Query, "a.street", "a.house_number", "ci.name")
	if f.CityID != nil {
		w.add("a.city_id = $%[1]d", *f.CityID)
	}
	return w
}

func scanAddress(row pgx.Row, a *model.Address) error {
	return row.Scan(&a.ID, &a.CityID, &a.Street, &a.HouseNumber,
		&a.EntranceNumber, &a.Floor, &a.FlatNumber)
}

func (r *addressRepo) Create(ctx context.Context, a *model.Address) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO museum_data.address (id, city_id, street, house_number,
			entrance_number, floor, flat_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.CityID, a.Street, a.HouseNumber, a.EntranceNumber, a.Floor, a.FlatNumber,
	)
	return writeError("создания адреса", err)
}

func (r *addressRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Address, error) {
	a := &model.Address{}
	err := scanAddress(r.db.QueryRow(ctx,
		`SELECT `+addressColumns+` FROM museum_data.address a WHERE a.id = $1`, id), a)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения адреса: %w", err)
	}
	return a, nil
}

func (r *addressRepo) List(ctx context.Context, f AddressFilter, limit, offset int) ([]*model.Address, error) {
	w := f.where()
	page, args := w.page(limit, offset)
	query := fmt.Sprintf(`
		SELECT %s
		%s
		%s
		ORDER BY ci.name, a.street, a.house_number, a.id
		%s`, addressColumns, addressFrom, w.sql(), page)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка адресов: %w", err)
	}
	defer rows.Close()

	var result []*model.Address
	for rows.Next() {
		a := &model.Address{}
		if err := scanAddress(rows, a); err != nil {
			return nil, fmt.Errorf("ошибка сканирования адреса: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *addressRepo) Count(ctx context.Context, f AddressFilter) (int, error) {
	w := f.where()
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) `+addressFrom+` `+w.sql(), w.args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта адресов: %w", err)
	}
	return count, nil
}

func (r *addressRepo) Update(ctx context.Context, a *model.Address) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE museum_data.address
		SET city_id = $2, street = $3, house_number = $4,
			entrance_number = $5, floor = $6, flat_number = $7
		WHERE id = $1`,
		a.ID, a.CityID, a.Street, a.HouseNumber, a.EntranceNumber, a.Floor, a.FlatNumber,
	)
	if err != nil {
		return writeError("обновления адреса", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *addressRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM museum_data.address WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления адреса: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
