package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/museum-data/museum-admin/internal/domain/model"
)

// GuideFilter — фильтр списка экскурсоводов.
type GuideFilter struct {
	// Query — поиск по имени или фамилии
	Query string
	// MuseumID — только экскурсоводы указанного музея
	MuseumID *uuid.UUID
}

// GuideRepository — интерфейс CRUD для таблицы museum_data.guide.
type GuideRepository interface {
	Create(ctx context.Context, g *model.Guide) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Guide, error)
	List(ctx context.Context, f GuideFilter, limit, offset int) ([]*model.Guide, error)
	Count(ctx context.Context, f GuideFilter) (int, error)
	Update(ctx context.Context, g *model.Guide) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type guideRepo struct {
	db DBTX
}

// NewGuideRepository создаёт репозиторий экскурсоводов.
func NewGuideRepository(db DBTX) GuideRepository {
	return &guideRepo{db: db}
}

const guideColumns = `g.id, g.firstname, g.lastname, g.birthday, g.created, g.modified`

func (f GuideFilter) where() *where {
	w := &where{}
	w.search(f.Query, "g.firstname", "g.lastname")
	if f.MuseumID != nil {
		w.add(`EXISTS (SELECT 1 FROM museum_data.museum_guide mg
			WHERE mg.guide_id = g.id AND mg.museum_id = $%[1]d)`, *f.MuseumID)
	}
	return w
}

func scanGuide(row pgx.Row, g *model.Guide) error {
	return row.Scan(&g.ID, &g.Firstname, &g.Lastname, &g.Birthday, &g.Created, &g.Modified)
}

func (r *guideRepo) Create(ctx context.Context, g *model.Guide) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO museum_data.guide (id, firstname, lastname, birthday, created, modified)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()), COALESCE($6, now()))
		RETURNING created, modified`,
		g.ID, g.Firstname, g.Lastname, g.Birthday, g.Created, g.Modified,
	).Scan(&g.Created, &g.Modified)
	return writeError("создания экскурсовода", err)
}

func (r *guideRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Guide, error) {
	g := &model.Guide{}
	err := scanGuide(r.db.QueryRow(ctx,
		`SELECT `+guideColumns+` FROM museum_data.guide g WHERE g.id = $1`, id), g)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения экскурсовода: %w", err)
	}
	return g, nil
}

func (r *guideRepo) List(ctx context.Context, f GuideFilter, limit, offset int) ([]*model.Guide, error) {
	w := f.where()
	page, args := w.page(limit, offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM museum_data.guide g
		%s
		ORDER BY g.lastname, g.firstname, g.id
		%s`, guideColumns, w.sql(), page)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка экскурсоводов: %w", err)
	}
	defer rows.Close()

	var result []*model.Guide
	for rows.Next() {
		g := &model.Guide{}
		if err := scanGuide(rows, g); err != nil {
			return nil, fmt.Errorf("ошибка сканирования экскурсовода: %w", err)
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

func (r *guideRepo) Count(ctx context.Context, f GuideFilter) (int, error) {
	w := f.where()
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM museum_data.guide g `+w.sql(), w.args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта экскурсоводов: %w", err)
	}
	return count, nil
}

func (r *guideRepo) Update(ctx context.Context, g *model.Guide) error {
	err := r.db.QueryRow(ctx, `
		UPDATE museum_data.guide
		SET firstname = $2, lastname = $3, birthday = $4, created = $5, modified = COALESCE($6, now())
		WHERE id = $1
		RETURNING modified`,
		g.ID, g.Firstname, g.Lastname, g.Birthday, g.Created, g.Modified,
	).Scan(&g.Modified)
	return writeError("обновления экскурсовода", err)
}

func (r *guideRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM museum_data.guide WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления экскурсовода: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
