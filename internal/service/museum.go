// museum.go — сервис музеев: CRUD и редактирование музея вместе
// с выставками и экскурсоводами одной формой.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/museum-data/museum-admin/internal/domain/clock"
	"github.com/museum-data/museum-admin/internal/domain/model"
	"github.com/museum-data/museum-admin/internal/domain/validate"
	"github.com/museum-data/museum-admin/internal/repository"
)

// MaxInlineItems — максимальное количество выставок и экскурсоводов
// в одной форме музея.
const MaxInlineItems = 1000

// StoreRunner выполняет fn с репозиториями внутри одной транзакции.
// Реализуется repository.TxRunner.
type StoreRunner interface {
	RunInStore(ctx context.Context, fn func(s *repository.Store) error) error
}

// MuseumService — сервис музеев.
type MuseumService struct {
	*crud[model.Museum, repository.MuseumFilter]
	tx StoreRunner
}

// NewMuseumService создаёт сервис музеев.
func NewMuseumService(repo repository.MuseumRepository, tx StoreRunner, clk clock.Clock, logger *slog.Logger) *MuseumService {
	rules := entityRules[model.Museum]{
		name:       "museum",
		identity:   func(m *model.Museum) *model.Identity { return &m.Identity },
		timestamps: func(m *model.Museum) *model.Timestamps { return &m.Timestamps },
		validate:   validate.Museum,
	}
	return &MuseumService{
		crud: newCRUD[model.Museum, repository.MuseumFilter](repo, rules, clk, logger),
		tx:   tx,
	}
}

// GetDetail возвращает музей с выставками и связями с экскурсоводами.
func (s *MuseumService) GetDetail(ctx context.Context, id uuid.UUID) (*model.MuseumDetail, error) {
	var detail *model.MuseumDetail
	err := s.tx.RunInStore(ctx, func(st *repository.Store) error {
		var err error
		detail, err = loadDetail(ctx, st, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func loadDetail(ctx context.Context, st *repository.Store, id uuid.UUID) (*model.MuseumDetail, error) {
	museum, err := st.Museums.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError("получение музея", err)
	}

	exhibitions, err := st.Exhibitions.List(ctx, repository.ExhibitionFilter{MuseumID: &id}, MaxInlineItems, 0)
	if err != nil {
		return nil, fmt.Errorf("получение выставок музея: %w", err)
	}
	guides, err := st.MuseumGuides.List(ctx, repository.MuseumGuideFilter{MuseumID: &id}, MaxInlineItems, 0)
	if err != nil {
		return nil, fmt.Errorf("получение экскурсоводов музея: %w", err)
	}

	detail := &model.MuseumDetail{
		Museum:      *museum,
		Exhibitions: make([]model.Exhibition, 0, len(exhibitions)),
		Guides:      make([]model.MuseumGuide, 0, len(guides)),
	}
	for _, e := range exhibitions {
		detail.Exhibitions = append(detail.Exhibitions, *e)
	}
	for _, g := range guides {
		detail.Guides = append(detail.Guides, *g)
	}
	return detail, nil
}

// SaveDetail сохраняет музей, его выставки и связи с экскурсоводами
// в одной транзакции. Все записи проверяются до первой записи в БД.
//
// Список выставок и связей в detail — полный: элементы без ID создаются,
// элементы с ID обновляются, отсутствующие в списке удаляются.
func (s *MuseumService) SaveDetail(ctx context.Context, detail *model.MuseumDetail) (*model.MuseumDetail, error) {
	if len(detail.Exhibitions) > MaxInlineItems || len(detail.Guides) > MaxInlineItems {
		return nil, invalid("museum_detail", validate.Errors{{
			Field:   "exhibitions",
			Code:    validate.CodeMaxItems,
			Message: "Ensure this list has at most %d items (it has %d).",
			Params:  []any{MaxInlineItems, max(len(detail.Exhibitions), len(detail.Guides))},
		}})
	}

	id := detail.Museum.ID
	var saved *model.MuseumDetail

	err := s.tx.RunInStore(ctx, func(st *repository.Store) error {
		current, err := loadDetail(ctx, st, id)
		if err != nil {
			return err
		}

		keepExhibitions, keepGuides, err := s.prepareDetail(detail, current)
		if err != nil {
			return err
		}

		if err := st.Museums.Update(ctx, &detail.Museum); err != nil {
			return mapRepoError("обновление музея", err)
		}
		if _, err := st.Exhibitions.DeleteByMuseumExcept(ctx, id, keepExhibitions); err != nil {
			return err
		}
		if _, err := st.MuseumGuides.DeleteByMuseumExcept(ctx, id, keepGuides); err != nil {
			return err
		}

		existing := make(map[uuid.UUID]bool, len(keepExhibitions)+len(keepGuides))
		for _, eid := range keepExhibitions {
			existing[eid] = true
		}
		for _, gid := range keepGuides {
			existing[gid] = true
		}

		for i := range detail.Exhibitions {
			e := &detail.Exhibitions[i]
			if existing[e.ID] {
				err = st.Exhibitions.Update(ctx, e)
			} else {
				err = st.Exhibitions.Create(ctx, e)
			}
			if err != nil {
				return mapRepoError("сохранение выставки", err)
			}
		}
		for i := range detail.Guides {
			g := &detail.Guides[i]
			if existing[g.ID] {
				err = st.MuseumGuides.Update(ctx, g)
			} else {
				err = st.MuseumGuides.Create(ctx, g)
			}
			if err != nil {
				return mapRepoError("сохранение связи с экскурсоводом", err)
			}
		}

		saved, err = loadDetail(ctx, st, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Музей сохранён вместе с выставками и экскурсоводами",
		slog.String("id", id.String()),
		slog.Int("exhibitions", len(saved.Exhibitions)),
		slog.Int("guides", len(saved.Guides)),
	)
	return saved, nil
}

// prepareDetail назначает ID и отметки времени элементам формы и проверяет
// все записи. Возвращает ID существующих выставок и связей, оставшихся в форме.
func (s *MuseumService) prepareDetail(detail, current *model.MuseumDetail) (keepExhibitions, keepGuides []uuid.UUID, err error) {
	now := s.clock.Now()
	id := current.Museum.ID

	currentExhibitions := make(map[uuid.UUID]*model.Exhibition, len(current.Exhibitions))
	for i := range current.Exhibitions {
		currentExhibitions[current.Exhibitions[i].ID] = &current.Exhibitions[i]
	}
	currentGuides := make(map[uuid.UUID]bool, len(current.Guides))
	for _, g := range current.Guides {
		currentGuides[g.ID] = true
	}

	var errs validate.Errors

	s.prepareUpdate(&detail.Museum, &current.Museum, now)
	errs.Add(validate.Museum(&detail.Museum, now))

	for i := range detail.Exhibitions {
		e := &detail.Exhibitions[i]
		prefix := fmt.Sprintf("exhibitions[%d]", i)
		e.MuseumID = id

		switch cur, ok := currentExhibitions[e.ID]; {
		case ok:
			stampUpdate(&e.Timestamps, &cur.Timestamps, now)
			keepExhibitions = append(keepExhibitions, e.ID)
		case e.HasID():
			errs = append(errs, unknownItem(prefix, e.ID))
			continue
		default:
			e.ID = uuid.New()
			e.Touch(now)
		}

		if itemErrs, ok := validate.AsErrors(validate.Exhibition(e, now)); ok {
			errs = append(errs, itemErrs.WithPrefix(prefix)...)
		}
	}

	for i := range detail.Guides {
		g := &detail.Guides[i]
		prefix := fmt.Sprintf("guides[%d]", i)
		g.MuseumID = id

		switch {
		case currentGuides[g.ID]:
			keepGuides = append(keepGuides, g.ID)
		case g.HasID():
			errs = append(errs, unknownItem(prefix, g.ID))
			continue
		default:
			g.ID = uuid.New()
		}

		if itemErrs, ok := validate.AsErrors(validate.MuseumGuide(g)); ok {
			errs = append(errs, itemErrs.WithPrefix(prefix)...)
		}
	}

	if len(errs) > 0 {
		return nil, nil, invalid("museum_detail", errs)
	}
	return keepExhibitions, keepGuides, nil
}

// unknownItem — элемент формы ссылается на запись, не принадлежащую музею.
func unknownItem(prefix string, id uuid.UUID) *validate.FieldError {
	return &validate.FieldError{
		Field:   prefix + ".id",
		Value:   id,
		Code:    validate.CodeInvalidReference,
		Message: "Referenced record does not exist.",
	}
}
