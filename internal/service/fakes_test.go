package service

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/museum-data/museum-admin/internal/domain/model"
	"github.com/museum-data/museum-admin/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRepo — репозиторий в памяти. Хранит копии записей.
type fakeRepo[E any, F any] struct {
	mu    sync.Mutex
	items map[uuid.UUID]E
	id    func(e *E) uuid.UUID
	match func(e *E, f F) bool

	// createErr / updateErr возвращаются вместо записи, если заданы
	createErr error
	updateErr error

	gets, creates, updates, deletes int
}

func newFakeRepo[E any, F any](id func(e *E) uuid.UUID, match func(e *E, f F) bool) *fakeRepo[E, F] {
	if match == nil {
		match = func(*E, F) bool { return true }
	}
	return &fakeRepo[E, F]{items: make(map[uuid.UUID]E), id: id, match: match}
}

func (r *fakeRepo[E, F]) put(e E) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[r.id(&e)] = e
}

func (r *fakeRepo[E, F]) has(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[id]
	return ok
}

func (r *fakeRepo[E, F]) Create(_ context.Context, e *E) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.creates++
	r.items[r.id(e)] = *e
	return nil
}

func (r *fakeRepo[E, F]) GetByID(_ context.Context, id uuid.UUID) (*E, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	e, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r *fakeRepo[E, F]) List(_ context.Context, f F, limit, offset int) ([]*E, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*E
	for _, e := range r.items {
		if r.match(&e, f) {
			result = append(result, &e)
		}
	}
	slices.SortFunc(result, func(a, b *E) int {
		ia, ib := r.id(a), r.id(b)
		return slices.Compare(ia[:], ib[:])
	})
	if offset >= len(result) {
		return nil, nil
	}
	return result[offset:min(offset+limit, len(result))], nil
}

func (r *fakeRepo[E, F]) Count(ctx context.Context, f F) (int, error) {
	items, err := r.List(ctx, f, len(r.items)+1, 0)
	return len(items), err
}

func (r *fakeRepo[E, F]) Update(_ context.Context, e *E) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.items[r.id(e)]; !ok {
		return repository.ErrNotFound
	}
	r.updates++
	r.items[r.id(e)] = *e
	return nil
}

func (r *fakeRepo[E, F]) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	r.deletes++
	delete(r.items, id)
	return nil
}

// deleteWhere удаляет записи, для которых drop возвращает true.
func (r *fakeRepo[E, F]) deleteWhere(drop func(e *E) bool) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, e := range r.items {
		if drop(&e) {
			delete(r.items, id)
			n++
		}
	}
	return n
}

type fakeExhibitionRepo struct {
	*fakeRepo[model.Exhibition, repository.ExhibitionFilter]
}

func (r fakeExhibitionRepo) DeleteByMuseumExcept(_ context.Context, museumID uuid.UUID, keep []uuid.UUID) (int64, error) {
	return r.deleteWhere(func(e *model.Exhibition) bool {
		return e.MuseumID == museumID && !slices.Contains(keep, e.ID)
	}), nil
}

type fakeMuseumGuideRepo struct {
	*fakeRepo[model.MuseumGuide, repository.MuseumGuideFilter]
}

func (r fakeMuseumGuideRepo) DeleteByMuseumExcept(_ context.Context, museumID uuid.UUID, keep []uuid.UUID) (int64, error) {
	return r.deleteWhere(func(mg *model.MuseumGuide) bool {
		return mg.MuseumID == museumID && !slices.Contains(keep, mg.ID)
	}), nil
}

func (r fakeMuseumGuideRepo) DeleteByGuideExcept(_ context.Context, guideID uuid.UUID, keep []uuid.UUID) (int64, error) {
	return r.deleteWhere(func(mg *model.MuseumGuide) bool {
		return mg.GuideID == guideID && !slices.Contains(keep, mg.ID)
	}), nil
}

type fakeExhibitRepo struct {
	*fakeRepo[model.Exhibit, repository.ExhibitFilter]
}

func (r fakeExhibitRepo) DeleteByExpositionExcept(_ context.Context, expositionID uuid.UUID, keep []uuid.UUID) (int64, error) {
	return r.deleteWhere(func(x *model.Exhibit) bool {
		return x.ExpositionID == expositionID && !slices.Contains(keep, x.ID)
	}), nil
}

// fakes — набор репозиториев в памяти.
type fakes struct {
	countries    *fakeRepo[model.Country, repository.CountryFilter]
	museums      *fakeRepo[model.Museum, repository.MuseumFilter]
	guides       *fakeRepo[model.Guide, repository.GuideFilter]
	exhibitions  fakeExhibitionRepo
	exhibits     fakeExhibitRepo
	museumGuides fakeMuseumGuideRepo
	store        *repository.Store
}

func newFakes() *fakes {
	f := &fakes{
		countries: newFakeRepo[model.Country, repository.CountryFilter](
			func(c *model.Country) uuid.UUID { return c.ID }, nil),
		museums: newFakeRepo[model.Museum, repository.MuseumFilter](
			func(m *model.Museum) uuid.UUID { return m.ID }, nil),
		guides: newFakeRepo[model.Guide, repository.GuideFilter](
			func(g *model.Guide) uuid.UUID { return g.ID }, nil),
		exhibitions: fakeExhibitionRepo{newFakeRepo(
			func(e *model.Exhibition) uuid.UUID { return e.ID },
			func(e *model.Exhibition, f repository.ExhibitionFilter) bool {
				return f.MuseumID == nil || e.MuseumID == *f.MuseumID
			})},
		exhibits: fakeExhibitRepo{newFakeRepo(
			func(x *model.Exhibit) uuid.UUID { return x.ID },
			func(x *model.Exhibit, f repository.ExhibitFilter) bool {
				return f.ExpositionID == nil || x.ExpositionID == *f.ExpositionID
			})},
		museumGuides: fakeMuseumGuideRepo{newFakeRepo(
			func(mg *model.MuseumGuide) uuid.UUID { return mg.ID },
			func(mg *model.MuseumGuide, f repository.MuseumGuideFilter) bool {
				return (f.MuseumID == nil || mg.MuseumID == *f.MuseumID) &&
					(f.GuideID == nil || mg.GuideID == *f.GuideID)
			})},
	}
	f.store = &repository.Store{
		Countries:    f.countries,
		Museums:      f.museums,
		Guides:       f.guides,
		Exhibitions:  f.exhibitions,
		Exhibits:     f.exhibits,
		MuseumGuides: f.museumGuides,
	}
	return f
}

// RunInStore выполняет fn без транзакции: откат не поддерживается.
func (f *fakes) RunInStore(_ context.Context, fn func(s *repository.Store) error) error {
	return fn(f.store)
}
