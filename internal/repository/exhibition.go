package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/museum-data/museum-admin/internal/domain/model"
)

// ExhibitionFilter — фильтр списка выставок.
type ExhibitionFilter struct {
	// Query — поиск по теме
	Query string
	// MuseumID — только выставки указанного музея
	MuseumID *uuid.UUID
}

// ExhibitionRepository — интерфейс CRUD для таблицы museum_data.exhibition.
type ExhibitionRepository interface {
	Create(ctx context.Context, e *model.Exhibition) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Exhibition, error)
	List(ctx context.Context, f ExhibitionFilter, limit, offset int) ([]*model.Exhibition, error)
	Count(ctx context.Context, f ExhibitionFilter) (int, error)
	Update(ctx context.Context, e *model.Exhibition) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteByMuseumExcept удаляет выставки музея, кроме перечисленных в keep.
	// Возвращает количество удалённых записей.
	DeleteByMuseumExcept(ctx context.Context, museumID uuid.UUID, keep []uuid.UUID) (int64, error)
}

type exhibitionRepo struct {
	db DBTX
}

// NewExhibitionRepository создаёт репозиторий выставок.
func NewExhibitionRepository(db DBTX) ExhibitionRepository {
	return &exhibitionRepo{db: db}
}

const exhibitionColumns = `e.id, e.museum_id, e.theme, e.floor, e.info, e.created, e.modified`

func (f ExhibitionFilter) where() *where {
	w := &where{}
	w.search(f.Query, "e.theme")
	if f.MuseumID != nil {
		w.add("e.museum_id = $%[1]d", *f.MuseumID)
	}
	return w
}

func scanExhibition(row pgx.Row, e *model.Exhibition) error {
	return row.Scan(&e.ID, &e.MuseumID, &e.Theme, &e.Floor, &e.Info, &e.Created, &e.Modified)
}

func (r *exhibitionRepo) Create(ctx context.Context, e *model.Exhibition) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO museum_data.exhibition (id, museum_id, theme, floor, info, created, modified)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, now()), COALESCE($7, now()))
		RETURNING created, modified`,
		e.ID, e.MuseumID, e.Theme, e.Floor, e.Info, e.Created, e.Modified,
	).Scan(&e.Created, &e.Modified)
	return writeError("создания выставки", err)
}

func (r *exhibitionRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Exhibition, error) {
	e := &model.Exhibition{}
	err := scanExhibition(r.db.QueryRow(ctx,
		`SELECT `+exhibitionColumns+` FROM museum_data.exhibition e WHERE e.id = $1`, id), e)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения выставки: %w", err)
	}
	return e, nil
}

func (r *exhibitionRepo) List(ctx context.Context, f ExhibitionFilter, limit, offset int) ([]*model.Exhibition, error) {
	w := f.where()
	page, args := w.page(limit, offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM museum_data.exhibition e
		%s
		ORDER BY e.theme, e.id
		%s`, exhibitionColumns, w.sql(), page)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка выставок: %w", err)
	}
	defer rows.Close()

	var result []*model.Exhibition
	for rows.Next() {
		e := &model.Exhibition{}
		if err := scanExhibition(rows, e); err != nil {
			return nil, fmt.Errorf("ошибка сканирования выставки: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *exhibitionRepo) Count(ctx context.Context, f ExhibitionFilter) (int, error) {
	w := f.where()
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM museum_data.exhibition e `+w.sql(), w.args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта выставок: %w", err)
	}
	return count, nil
}

func (r *exhibitionRepo) Update(ctx context.Context, e *model.Exhibition) error {
	err := r.db.QueryRow(ctx, `
		UPDATE museum_data.exhibition
		SET museum_id = $2, theme = $3, floor = $4, info = $5,
			created = $6, modified = COALESCE($7, now())
		WHERE id = $1
		RETURNING modified`,
		e.ID, e.MuseumID, e.Theme, e.Floor, e.Info, e.Created, e.Modified,
	).Scan(&e.Modified)
	return writeError("обновления выставки", err)
}

func (r *exhibitionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM museum_data.exhibition WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления выставки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *exhibitionRepo) DeleteByMuseumExcept(ctx context.Context, museumID uuid.UUID, keep []uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM museum_data.exhibition
		WHERE museum_id = $1 AND NOT (id = ANY($2::uuid[]))`,
		museumID, uuidStrings(keep),
	)
	if err != nil {
		return 0, fmt.Errorf("ошибка удаления выставок музея: %w", err)
	}
	return tag.RowsAffected(), nil
}

// uuidStrings — текстовое представление для параметров uuid[].
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
