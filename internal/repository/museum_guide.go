package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/museum-data/museum-admin/internal/domain/model"
)

// MuseumGuideFilter — фильтр списка связей музей — экскурсовод.
type MuseumGuideFilter struct {
	MuseumID *uuid.UUID
	GuideID  *uuid.UUID
}

// MuseumGuideRepository — интерфейс CRUD для таблицы museum_data.museum_guide.
type MuseumGuideRepository interface {
	Create(ctx context.Context, mg *model.MuseumGuide) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.MuseumGuide, error)
	List(ctx context.Context, f MuseumGuideFilter, limit, offset int) ([]*model.MuseumGuide, error)
	Count(ctx context.Context, f MuseumGuideFilter) (int, error)
	Update(ctx context.Context, mg *model.MuseumGuide) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteByMuseumExcept удаляет связи музея, кроме перечисленных в keep.
	DeleteByMuseumExcept(ctx context.Context, museumID uuid.UUID, keep []uuid.UUID) (int64, error)
	// DeleteByGuideExcept удаляет связи экскурсовода, кроме перечисленных в keep.
	DeleteByGuideExcept(ctx context.Context, guideID uuid.UUID, keep []uuid.UUID) (int64, error)
}

type museumGuideRepo struct {
	db DBTX
}

// NewMuseumGuideRepository создаёт репозиторий связей музей — экскурсовод.
func NewMuseumGuideRepository(db DBTX) MuseumGuideRepository {
	return &museumGuideRepo{db: db}
}

func (f MuseumGuideFilter) where() *where {
	w := &where{}
	if f.MuseumID != nil {
		w.add("museum_id = $%[1]d", *f.MuseumID)
	}
	if f.GuideID != nil {
		w.add("guide_id = $%[1]d", *f.GuideID)
	}
	return w
}

func (r *museumGuideRepo) Create(ctx context.Context, mg *model.MuseumGuide) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO museum_data.museum_guide (id, museum_id, guide_id) VALUES ($1, $2, $3)`,
		mg.ID, mg.MuseumID, mg.GuideID,
	)
	return writeError("создания связи музей — экскурсовод", err)
}

func (r *museumGuideRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.MuseumGuide, error) {
	mg := &model.MuseumGuide{}
	err := r.db.QueryRow(ctx,
		`SELECT id, museum_id, guide_id FROM museum_data.museum_guide WHERE id = $1`, id,
	).Scan(&mg.ID, &mg.MuseumID, &mg.GuideID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения связи музей — экскурсовод: %w", err)
	}
	return mg, nil
}

func (r *museumGuideRepo) List(ctx context.Context, f MuseumGuideFilter, limit, offset int) ([]*model.MuseumGuide, error) {
	w := f.where()
	page, args := w.page(limit, offset)
	query := fmt.Sprintf(`
		SELECT id, museum_id, guide_id
		FROM museum_data.museum_guide
		%s
		ORDER BY museum_id, guide_id
		%s`, w.sql(), page)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка связей: %w", err)
	}
	defer rows.Close()

	var result []*model.MuseumGuide
	for rows.Next() {
		mg := &model.MuseumGuide{}
		if err := rows.Scan(&mg.ID, &mg.MuseumID, &mg.GuideID); err != nil {
			return nil, fmt.Errorf("ошибка сканирования связи: %w", err)
		}
		result = append(result, mg)
	}
	return result, rows.Err()
}

func (r *museumGuideRepo) Count(ctx context.Context, f MuseumGuideFilter) (int, error) {
	w := f.where()
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM museum_data.museum_guide `+w.sql(), w.args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта связей: %w", err)
	}
	return count, nil
}

func (r *museumGuideRepo) Update(ctx context.Context, mg *model.MuseumGuide) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE museum_data.museum_guide SET museum_id = $2, guide_id = $3 WHERE id = $1`,
		mg.ID, mg.MuseumID, mg.GuideID,
	)
	if err != nil {
		return writeError("обновления связи музей — экскурсовод", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *museumGuideRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM museum_data.museum_guide WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления связи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *museumGuideRepo) DeleteByMuseumExcept(ctx context.Context, museumID uuid.UUID, keep []uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM museum_data.museum_guide
		WHERE museum_id = $1 AND NOT (id = ANY($2::uuid[]))`,
		museumID, uuidStrings(keep),
	)
	if err != nil {
		return 0, fmt.Errorf("ошибка удаления связей музея: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *museumGuideRepo) DeleteByGuideExcept(ctx context.Context, guideID uuid.UUID, keep []uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM museum_data.museum_guide
		WHERE guide_id = $1 AND NOT (id = ANY($2::uuid[]))`,
		guideID, uuidStrings(keep),
	)
	if err != nil {
		return 0, fmt.Errorf("ошибка удаления связей экскурсовода: %w", err)
	}
	return tag.RowsAffected(), nil
}
