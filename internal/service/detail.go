// detail.go — формы выставки с экспонатами и экскурсовода со связями
// с музеями. Устроены так же, как форма музея.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/museum-data/museum-admin/internal/domain/model"
	"github.com/museum-data/museum-admin/internal/domain/validate"
	"github.com/museum-data/museum-admin/internal/repository"
)

// tooManyItems — в форме больше MaxInlineItems элементов.
func tooManyItems(field string, n int) *validate.FieldError {
	return &validate.FieldError{
		Field:   field,
		Code:    validate.CodeMaxItems,
		Message: "Ensure this list has at most %d items (it has %d).",
		Params:  []any{MaxInlineItems, n},
	}
}

// GetDetail возвращает выставку с экспонатами.
func (s *ExhibitionService) GetDetail(ctx context.Context, id uuid.UUID) (*model.ExhibitionDetail, error) {
	var detail *model.ExhibitionDetail
	err := s.tx.RunInStore(ctx, func(st *repository.Store) error {
		var err error
		detail, err = loadExhibitionDetail(ctx, st, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func loadExhibitionDetail(ctx context.Context, st *repository.Store, id uuid.UUID) (*model.ExhibitionDetail, error) {
	exhibition, err := st.Exhibitions.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError("получение выставки", err)
	}
	exhibits, err := st.Exhibits.List(ctx, repository.ExhibitFilter{ExpositionID: &id}, MaxInlineItems, 0)
	if err != nil {
		return nil, fmt.Errorf("получение экспонатов выставки: %w", err)
	}

	detail := &model.ExhibitionDetail{
		Exhibition: *exhibition,
		Exhibits:   make([]model.Exhibit, 0, len(exhibits)),
	}
	for _, x := range exhibits {
		detail.Exhibits = append(detail.Exhibits, *x)
	}
	return detail, nil
}

// SaveDetail сохраняет выставку и её экспонаты в одной транзакции.
// Список экспонатов — полный: новые создаются, существующие обновляются,
// отсутствующие удаляются. Все записи проверяются до первой записи в БД.
func (s *ExhibitionService) SaveDetail(ctx context.Context, detail *model.ExhibitionDetail) (*model.ExhibitionDetail, error) {
	if len(detail.Exhibits) > MaxInlineItems {
		return nil, invalid("exhibition_detail", validate.Errors{tooManyItems("exhibits", len(detail.Exhibits))})
	}

	id := detail.Exhibition.ID
	var saved *model.ExhibitionDetail

	err := s.tx.RunInStore(ctx, func(st *repository.Store) error {
		current, err := loadExhibitionDetail(ctx, st, id)
		if err != nil {
			return err
		}

		keep, err := s.prepareDetail(detail, current)
		if err != nil {
			return err
		}

		if err := st.Exhibitions.Update(ctx, &detail.Exhibition); err != nil {
			return mapRepoError("обновление выставки", err)
		}
		if _, err := st.Exhibits.DeleteByExpositionExcept(ctx, id, keep); err != nil {
			return err
		}

		existing := make(map[uuid.UUID]bool, len(keep))
		for _, xid := range keep {
			existing[xid] = true
		}
		for i := range detail.Exhibits {
			x := &detail.Exhibits[i]
			if existing[x.ID] {
				err = st.Exhibits.Update(ctx, x)
			} else {
				err = st.Exhibits.Create(ctx, x)
			}
			if err != nil {
				return mapRepoError("сохранение экспоната", err)
			}
		}

		saved, err = loadExhibitionDetail(ctx, st, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Выставка сохранена вместе с экспонатами",
		slog.String("id", id.String()),
		slog.Int("exhibits", len(saved.Exhibits)),
	)
	return saved, nil
}

func (s *ExhibitionService) prepareDetail(detail, current *model.ExhibitionDetail) (keep []uuid.UUID, err error) {
	now := s.clock.Now()
	id := current.Exhibition.ID

	currentExhibits := make(map[uuid.UUID]*model.Exhibit, len(current.Exhibits))
	for i := range current.Exhibits {
		currentExhibits[current.Exhibits[i].ID] = &current.Exhibits[i]
	}

	var errs validate.Errors

	s.prepareUpdate(&detail.Exhibition, &current.Exhibition, now)
	errs.Add(validate.Exhibition(&detail.Exhibition, now))

	for i := range detail.Exhibits {
		x := &detail.Exhibits[i]
		prefix := fmt.Sprintf("exhibits[%d]", i)
		x.ExpositionID = id

		switch cur, ok := currentExhibits[x.ID]; {
		case ok:
			stampUpdate(&x.Timestamps, &cur.Timestamps, now)
			keep = append(keep, x.ID)
		case x.HasID():
			errs = append(errs, unknownItem(prefix, x.ID))
			continue
		default:
			x.ID = uuid.New()
			x.Touch(now)
		}

		if itemErrs, ok := validate.AsErrors(validate.Exhibit(x, now)); ok {
			errs = append(errs, itemErrs.WithPrefix(prefix)...)
		}
	}

	if len(errs) > 0 {
		return nil, invalid("exhibition_detail", errs)
	}
	return keep, nil
}

// GetDetail возвращает экскурсовода со связями с музеями.
func (s *GuideService) GetDetail(ctx context.Context, id uuid.UUID) (*model.GuideDetail, error) {
	var detail *model.GuideDetail
	err := s.tx.RunInStore(ctx, func(st *repository.Store) error {
		var err error
		detail, err = loadGuideDetail(ctx, st, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func loadGuideDetail(ctx context.Context, st *repository.Store, id uuid.UUID) (*model.GuideDetail, error) {
	guide, err := st.Guides.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError("получение экскурсовода", err)
	}
	links, err := st.MuseumGuides.List(ctx, repository.MuseumGuideFilter{GuideID: &id}, MaxInlineItems, 0)
	if err != nil {
		return nil, fmt.Errorf("получение музеев экскурсовода: %w", err)
	}

	detail := &model.GuideDetail{
		Guide:   *guide,
		Museums: make([]model.MuseumGuide, 0, len(links)),
	}
	for _, mg := range links {
		detail.Museums = append(detail.Museums, *mg)
	}
	return detail, nil
}

// SaveDetail сохраняет экскурсовода и его связи с музеями в одной транзакции.
// Список связей — полный, как в форме музея.
func (s *GuideService) SaveDetail(ctx context.Context, detail *model.GuideDetail) (*model.GuideDetail, error) {
	if len(detail.Museums) > MaxInlineItems {
		return nil, invalid("guide_detail", validate.Errors{tooManyItems("museums", len(detail.Museums))})
	}

	id := detail.Guide.ID
	var saved *model.GuideDetail

	err := s.tx.RunInStore(ctx, func(st *repository.Store) error {
		current, err := loadGuideDetail(ctx, st, id)
		if err != nil {
			return err
		}

		keep, err := s.prepareDetail(detail, current)
		if err != nil {
			return err
		}

		if err := st.Guides.Update(ctx, &detail.Guide); err != nil {
			return mapRepoError("обновление экскурсовода", err)
		}
		if _, err := st.MuseumGuides.DeleteByGuideExcept(ctx, id, keep); err != nil {
			return err
		}

		existing := make(map[uuid.UUID]bool, len(keep))
		for _, lid := range keep {
			existing[lid] = true
		}
		for i := range detail.Museums {
			mg := &detail.Museums[i]
			if existing[mg.ID] {
				err = st.MuseumGuides.Update(ctx, mg)
			} else {
				err = st.MuseumGuides.Create(ctx, mg)
			}
			if err != nil {
				return mapRepoError("сохранение связи с музеем", err)
			}
		}

		saved, err = loadGuideDetail(ctx, st, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Экскурсовод сохранён вместе со связями с музеями",
		slog.String("id", id.String()),
		slog.Int("museums", len(saved.Museums)),
	)
	return saved, nil
}

func (s *GuideService) prepareDetail(detail, current *model.GuideDetail) (keep []uuid.UUID, err error) {
	now := s.clock.Now()
	id := current.Guide.ID

	currentLinks := make(map[uuid.UUID]bool, len(current.Museums))
	for _, mg := range current.Museums {
		currentLinks[mg.ID] = true
	}

	var errs validate.Errors

	s.prepareUpdate(&detail.Guide, &current.Guide, now)
	errs.Add(validate.Guide(&detail.Guide, now))

	for i := range detail.Museums {
		mg := &detail.Museums[i]
		prefix := fmt.Sprintf("museums[%d]", i)
		mg.GuideID = id

		switch {
		case currentLinks[mg.ID]:
			keep = append(keep, mg.ID)
		case mg.HasID():
			errs = append(errs, unknownItem(prefix, mg.ID))
			continue
		default:
			mg.ID = uuid.New()
		}

		if itemErrs, ok := validate.AsErrors(validate.MuseumGuide(mg)); ok {
			errs = append(errs, itemErrs.WithPrefix(prefix)...)
		}
	}

	if len(errs) > 0 {
		return nil, invalid("guide_detail", errs)
	}
	return keep, nil
}
