package service

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/museum-data/museum-admin/internal/domain/model"
	"github.com/museum-data/museum-admin/internal/domain/validate"
)

// detailFixture — музей с двумя выставками и одним экскурсоводом.
type detailFixture struct {
	museumID    uuid.UUID
	exhibitionA uuid.UUID
	exhibitionB uuid.UUID
	link        uuid.UUID
	guideID     uuid.UUID
	created     time.Time
}

func newDetailFixture(f *fakes) detailFixture {
	fx := detailFixture{
		museumID:    uuid.New(),
		exhibitionA: uuid.New(),
		exhibitionB: uuid.New(),
		link:        uuid.New(),
		guideID:     uuid.New(),
		created:     testNow.Add(-72 * time.Hour),
	}
	ts := model.Timestamps{Created: &fx.created, Modified: &fx.created}

	f.museums.put(model.Museum{
		Identity:   model.Identity{ID: fx.museumID},
		Timestamps: ts,
		Title:      "Русский музей",
		AddressID:  uuid.New(),
		Rating:     4.7,
	})
	f.exhibitions.put(model.Exhibition{
		Identity:   model.Identity{ID: fx.exhibitionA},
		Timestamps: ts,
		MuseumID:   fx.museumID,
		Theme:      "Передвижники",
		Floor:      1,
		Info:       "Живопись второй половины XIX века",
	})
	f.exhibitions.put(model.Exhibition{
		Identity:   model.Identity{ID: fx.exhibitionB},
		Timestamps: ts,
		MuseumID:   fx.museumID,
		Theme:      "Авангард",
		Floor:      2,
		Info:       "Малевич и современники",
	})
	f.museumGuides.put(model.MuseumGuide{
		Identity: model.Identity{ID: fx.link},
		MuseumID: fx.museumID,
		GuideID:  fx.guideID,
	})
	return fx
}

func TestMuseumService_GetDetail(t *testing.T) {
	f := newFakes()
	fx := newDetailFixture(f)
	// Выставка другого музея не попадает в форму
	f.exhibitions.put(model.Exhibition{
		Identity: model.Identity{ID: uuid.New()},
		MuseumID: uuid.New(),
		Theme:    "Чужая",
		Info:     "-",
	})
	svc := newTestMuseumService(f)

	detail, err := svc.GetDetail(context.Background(), fx.museumID)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if detail.Museum.Title != "Русский музей" {
		t.Errorf("Title = %q", detail.Museum.Title)
	}
	if len(detail.Exhibitions) != 2 {
		t.Errorf("выставок = %d, ожидалось 2", len(detail.Exhibitions))
	}
	if len(detail.Guides) != 1 || detail.Guides[0].GuideID != fx.guideID {
		t.Errorf("экскурсоводы = %+v", detail.Guides)
	}

	if _, err := svc.GetDetail(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("ожидалась ErrNotFound, получено: %v", err)
	}
}

func TestMuseumService_SaveDetail(t *testing.T) {
	f := newFakes()
	fx := newDetailFixture(f)
	svc := newTestMuseumService(f)
	ctx := context.Background()

	current, err := svc.GetDetail(ctx, fx.museumID)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}

	newGuide := uuid.New()
	detail := &model.MuseumDetail{
		Museum: model.Museum{
			Identity:  current.Museum.Identity,
			Title:     "Государственный Русский музей",
			AddressID: current.Museum.AddressID,
			Rating:    4.8,
		},
		Exhibitions: []model.Exhibition{
			// A изменяется, B удаляется, C создаётся
			{Identity: model.Identity{ID: fx.exhibitionA}, Theme: "Передвижники. Новая экспозиция", Floor: 1, Info: "Обновлено"},
			{Theme: "Икона", Floor: 0, Info: "Древнерусское искусство"},
		},
		Guides: []model.MuseumGuide{
			{GuideID: newGuide},
		},
	}

	saved, err := svc.SaveDetail(ctx, detail)
	if err != nil {
		t.Fatalf("SaveDetail: %v", err)
	}

	if saved.Museum.Title != "Государственный Русский музей" {
		t.Errorf("Title = %q", saved.Museum.Title)
	}
	if !saved.Museum.Created.Equal(fx.created) {
		t.Errorf("Created музея = %v, ожидалось %v", saved.Museum.Created, fx.created)
	}
	if !saved.Museum.Modified.Equal(testNow) {
		t.Errorf("Modified музея = %v, ожидалось %v", saved.Museum.Modified, testNow)
	}

	if f.exhibitions.has(fx.exhibitionB) {
		t.Error("выставка B должна быть удалена")
	}
	if len(saved.Exhibitions) != 2 {
		t.Fatalf("выставок = %d, ожидалось 2", len(saved.Exhibitions))
	}
	for _, e := range saved.Exhibitions {
		if e.MuseumID != fx.museumID {
			t.Errorf("выставка %s привязана к музею %s", e.ID, e.MuseumID)
		}
		switch e.ID {
		case fx.exhibitionA:
			if e.Theme != "Передвижники. Новая экспозиция" {
				t.Errorf("тема A = %q", e.Theme)
			}
			if !e.Created.Equal(fx.created) || !e.Modified.Equal(testNow) {
				t.Errorf("отметки A = %v / %v", e.Created, e.Modified)
			}
		default:
			if e.Theme != "Икона" {
				t.Errorf("неожиданная выставка %q", e.Theme)
			}
			if !e.Created.Equal(testNow) {
				t.Errorf("Created новой выставки = %v, ожидалось %v", e.Created, testNow)
			}
		}
	}

	if f.museumGuides.has(fx.link) {
		t.Error("прежняя связь с экскурсоводом должна быть удалена")
	}
	if len(saved.Guides) != 1 || saved.Guides[0].GuideID != newGuide || saved.Guides[0].MuseumID != fx.museumID {
		t.Errorf("экскурсоводы = %+v", saved.Guides)
	}
}

func TestMuseumService_SaveDetail_ValidatesBeforeWrite(t *testing.T) {
	tests := []struct {
		name   string
		modify func(d *model.MuseumDetail, fx detailFixture)
		fields []string
	}{
		{
			name: "отрицательный этаж новой выставки",
			modify: func(d *model.MuseumDetail, _ detailFixture) {
				d.Exhibitions = append(d.Exhibitions, model.Exhibition{Theme: "Новая", Floor: -1, Info: "-"})
			},
			fields: []string{"exhibitions[2].floor"},
		},
		{
			name: "пустое название музея и пустая тема",
			modify: func(d *model.MuseumDetail, _ detailFixture) {
				d.Museum.Title = ""
				d.Exhibitions[0].Theme = ""
			},
			fields: []string{"title", "exhibitions[0].theme"},
		},
		{
			name: "выставка другого музея",
			modify: func(d *model.MuseumDetail, _ detailFixture) {
				d.Exhibitions[1].ID = uuid.New()
			},
			fields: []string{"exhibitions[1].id"},
		},
		{
			name: "связь без экскурсовода",
			modify: func(d *model.MuseumDetail, _ detailFixture) {
				d.Guides = append(d.Guides, model.MuseumGuide{})
			},
			fields: []string{"guides[1].guide_id"},
		},
		{
			name: "created в будущем у выставки",
			modify: func(d *model.MuseumDetail, _ detailFixture) {
				future := testNow.Add(time.Hour)
				d.Exhibitions[0].Created = &future
			},
			fields: []string{"exhibitions[0].created"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakes()
			fx := newDetailFixture(f)
			svc := newTestMuseumService(f)

			detail, err := svc.GetDetail(context.Background(), fx.museumID)
			if err != nil {
				t.Fatalf("GetDetail: %v", err)
			}
			slices.SortFunc(detail.Exhibitions, func(a, b model.Exhibition) int {
				return slices.Compare(a.ID[:], b.ID[:])
			})
			tt.modify(detail, fx)

			_, err = svc.SaveDetail(context.Background(), detail)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("ожидалась ErrValidation, получено: %v", err)
			}
			errs, _ := validate.AsErrors(err)
			if !slices.Equal(errs.Fields(), tt.fields) {
				t.Errorf("поля = %v, ожидалось %v", errs.Fields(), tt.fields)
			}

			if f.museums.updates != 0 || f.exhibitions.updates != 0 || f.exhibitions.creates != 0 || f.museumGuides.creates != 0 {
				t.Error("при ошибке валидации не должно быть записей")
			}
			if !f.exhibitions.has(fx.exhibitionA) || !f.exhibitions.has(fx.exhibitionB) || !f.museumGuides.has(fx.link) {
				t.Error("при ошибке валидации не должно быть удалений")
			}
		})
	}
}

func TestMuseumService_SaveDetail_TooManyItems(t *testing.T) {
	f := newFakes()
	fx := newDetailFixture(f)
	svc := newTestMuseumService(f)

	detail := &model.MuseumDetail{
		Museum: model.Museum{Identity: model.Identity{ID: fx.museumID}, Title: "Музей", AddressID: uuid.New()},
		Guides: make([]model.MuseumGuide, MaxInlineItems+1),
	}

	_, err := svc.SaveDetail(context.Background(), detail)
	errs, ok := validate.AsErrors(err)
	if !ok || len(errs) != 1 || errs[0].Code != validate.CodeMaxItems {
		t.Errorf("ожидалась ошибка max_items, получено: %v", err)
	}
}

func TestMuseumService_SaveDetail_NotFound(t *testing.T) {
	f := newFakes()
	svc := newTestMuseumService(f)

	_, err := svc.SaveDetail(context.Background(), &model.MuseumDetail{
		Museum: model.Museum{Identity: model.Identity{ID: uuid.New()}, Title: "Музей", AddressID: uuid.New()},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ожидалась ErrNotFound, получено: %v", err)
	}
}
