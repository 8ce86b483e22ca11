package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/museum-data/museum-admin/internal/domain/model"
)

// ExhibitFilter — фильтр списка экспонатов.
type ExhibitFilter struct {
	// Query — поиск по названию экспоната или названию музея
	Query string
	// ExpositionID — только экспонаты указанной выставки
	ExpositionID *uuid.UUID
}

// ExhibitRepository — интерфейс CRUD для таблицы museum_data.exhibit.
type ExhibitRepository interface {
	Create(ctx context.Context, e *model.Exhibit) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Exhibit, error)
	List(ctx context.Context, f ExhibitFilter, limit, offset int) ([]*model.Exhibit, error)
	Count(ctx context.Context, f ExhibitFilter) (int, error)
	Update(ctx context.Context, e *model.Exhibit) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteByExpositionExcept удаляет экспонаты выставки, кроме перечисленных в keep.
	DeleteByExpositionExcept(ctx context.Context, expositionID uuid.UUID, keep []uuid.UUID) (int64, error)
}

type exhibitRepo struct {
	db DBTX
}

// NewExhibitRepository создаёт репозиторий экспонатов.
func NewExhibitRepository(db DBTX) ExhibitRepository {
	return &exhibitRepo{db: db}
}

const (
	exhibitColumns = `x.id, x.exposition_id, x.title, x.info, x.era, x.created, x.modified`
	exhibitFrom    = `
	FROM museum_data.exhibit x
	JOIN museum_data.exhibition e ON e.id = x.exposition_id
	JOIN museum_data.museum m ON m.id = e.museum_id`
)

func (f ExhibitFilter) where() *where {
	w := &where{}
	w.search(f.Query, "x.title", "m.title")
	if f.ExpositionID != nil {
		w.add("x.exposition_id = $%[1]d", *f.ExpositionID)
	}
	return w
}

func scanExhibit(row pgx.Row, e *model.Exhibit) error {
	return row.Scan(&e.ID, &e.ExpositionID, &e.Title, &e.Info, &e.Era, &e.Created, &e.Modified)
}

func (r *exhibitRepo) Create(ctx context.Context, e *model.Exhibit) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO museum_data.exhibit (id, exposition_id, title, info, era, created, modified)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, now()), COALESCE($7, now()))
		RETURNING created, modified`,
		e.ID, e.ExpositionID, e.Title, e.Info, e.Era, e.Created, e.Modified,
	).Scan(&e.Created, &e.Modified)
	return writeError("создания экспоната", err)
}

func (r *exhibitRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Exhibit, error) {
	e := &model.Exhibit{}
	err := scanExhibit(r.db.QueryRow(ctx,
		`SELECT `+exhibitColumns+` FROM museum_data.exhibit x WHERE x.id = $1`, id), e)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения экспоната: %w", err)
	}
	return e, nil
}

func (r *exhibitRepo) List(ctx context.Context, f ExhibitFilter, limit, offset int) ([]*model.Exhibit, error) {
	w := f.where()
	page, args := w.page(limit, offset)
	query := fmt.Sprintf(`
		SELECT %s
		%s
		%s
		ORDER BY x.title, x.id
		%s`, exhibitColumns, exhibitFrom, w.sql(), page)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка экспонатов: %w", err)
	}
	defer rows.Close()

	var result []*model.Exhibit
	for rows.Next() {
		e := &model.Exhibit{}
		if err := scanExhibit(rows, e); err != nil {
			return nil, fmt.Errorf("ошибка сканирования экспоната: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *exhibitRepo) Count(ctx context.Context, f ExhibitFilter) (int, error) {
	w := f.where()
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) `+exhibitFrom+` `+w.sql(), w.args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта экспонатов: %w", err)
	}
	return count, nil
}

func (r *exhibitRepo) Update(ctx context.Context, e *model.Exhibit) error {
	err := r.db.QueryRow(ctx, `
		UPDATE museum_data.exhibit
		SET exposition_id = $2, title = $3, info = $4, era = $5,
			created = $6, modified = COALESCE($7, now())
		WHERE id = $1
		RETURNING modified`,
		e.ID, e.ExpositionID, e.Title, e.Info, e.Era, e.Created, e.Modified,
	).Scan(&e.Modified)
	return writeError("обновления экспоната", err)
}

func (r *exhibitRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM museum_data.exhibit WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления экспоната: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *exhibitRepo) DeleteByExpositionExcept(ctx context.Context, expositionID uuid.UUID, keep []uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM museum_data.exhibit
		WHERE exposition_id = $1 AND NOT (id = ANY($2::uuid[]))`,
		expositionID, uuidStrings(keep),
	)
	if err != nil {
		return 0, fmt.Errorf("ошибка удаления экспонатов выставки: %w", err)
	}
	return tag.RowsAffected(), nil
}
