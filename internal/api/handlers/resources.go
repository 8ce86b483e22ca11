// resources.go — типовые CRUD-эндпоинты справочников.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/museum-data/museum-admin/internal/domain/model"
	"github.com/museum-data/museum-admin/internal/repository"
)

// resource — набор эндпоинтов одной сущности.
// E — модель, F — фильтр списка, D — JSON-представление.
type resource[E any, F any, D any] struct {
	svc      CRUDService[E, F]
	errs     *errorWriter
	toDTO    func(*E) D
	fromDTO  func(*D) E
	identity func(*E) *model.Identity
	// filter читает фильтр списка из query.
	filter func(r *http.Request) (F, error)
}

// mountResource регистрирует list/create на base и get/update/delete на base/{id}.
func mountResource[E any, F any, D any](r chi.Router, base string, res *resource[E, F, D]) {
	r.Get(base, res.list)
	r.Post(base, res.create)
	r.Get(base+"/{id}", res.get)
	r.Put(base+"/{id}", res.update)
	r.Delete(base+"/{id}", res.delete)
}

func (res *resource[E, F, D]) list(w http.ResponseWriter, r *http.Request) {
	f, err := res.filter(r)
	if err != nil {
		res.errs.badRequest(w, r, err)
		return
	}
	limit, offset, err := pagination(r)
	if err != nil {
		res.errs.badRequest(w, r, err)
		return
	}

	items, total, err := res.svc.List(r.Context(), f, limit, offset)
	if err != nil {
		res.errs.write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse[D]{
		Items:  mapItems(items, res.toDTO),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

func (res *resource[E, F, D]) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		res.errs.badRequest(w, r, err)
		return
	}

	e, err := res.svc.Get(r.Context(), id)
	if err != nil {
		res.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res.toDTO(e))
}

func (res *resource[E, F, D]) create(w http.ResponseWriter, r *http.Request) {
	var dto D
	if err := decodeJSON(r, &dto); err != nil {
		res.errs.badRequest(w, r, err)
		return
	}

	// ID новой записи назначает сервер.
	e := res.fromDTO(&dto)
	*res.identity(&e) = model.Identity{}
	created, err := res.svc.Create(r.Context(), &e)
	if err != nil {
		res.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res.toDTO(created))
}

// update заменяет запись целиком. Идентификатор берётся из пути.
func (res *resource[E, F, D]) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		res.errs.badRequest(w, r, err)
		return
	}
	var dto D
	if err := decodeJSON(r, &dto); err != nil {
		res.errs.badRequest(w, r, err)
		return
	}

	e := res.fromDTO(&dto)
	res.identity(&e).ID = id
	updated, err := res.svc.Update(r.Context(), &e)
	if err != nil {
		res.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res.toDTO(updated))
}

func (res *resource[E, F, D]) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		res.errs.badRequest(w, r, err)
		return
	}

	if err := res.svc.Delete(r.Context(), id); err != nil {
		res.errs.write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Справочники ---

func (h *APIHandler) countries() *resource[model.Country, repository.CountryFilter, CountryDTO] {
	return &resource[model.Country, repository.CountryFilter, CountryDTO]{
		svc:      h.svc.Countries,
		errs:     h.errs,
		toDTO:    countryToDTO,
		fromDTO:  countryFromDTO,
		identity: func(c *model.Country) *model.Identity { return &c.Identity },
		filter: func(r *http.Request) (repository.CountryFilter, error) {
			return repository.CountryFilter{Query: r.URL.Query().Get("q")}, nil
		},
	}
}

func (h *APIHandler) cities() *resource[model.City, repository.CityFilter, CityDTO] {
	return &resource[model.City, repository.CityFilter, CityDTO]{
		svc:      h.svc.Cities,
		errs:     h.errs,
		toDTO:    cityToDTO,
		fromDTO:  cityFromDTO,
		identity: func(c *model.City) *model.Identity { return &c.Identity },
		filter: func(r *http.Request) (repository.CityFilter, error) {
			countryID, err := queryUUID(r, "country_id")
			return repository.CityFilter{Query: r.URL.Query().Get("q"), CountryID: countryID}, err
		},
	}
}

func (h *APIHandler) addresses() *resource[model.Address, repository.AddressFilter, AddressDTO] {
	return &resource[model.Address, repository.AddressFilter, AddressDTO]{
		svc:      h.svc.Addresses,
		errs:     h.errs,
		toDTO:    addressToDTO,
		fromDTO:  addressFromDTO,
		identity: func(a *model.Address) *model.Identity { return &a.Identity },
		filter: func(r *http.Request) (repository.AddressFilter, error) {
			cityID, err := queryUUID(r, "city_id")
			return repository.AddressFilter{Query: r.URL.Query().Get("q"), CityID: cityID}, err
		},
	}
}

func (h *APIHandler) museums() *resource[model.Museum, repository.MuseumFilter, MuseumDTO] {
	return &resource[model.Museum, repository.MuseumFilter, MuseumDTO]{
		svc:      h.svc.Museums,
		errs:     h.errs,
		toDTO:    museumToDTO,
		fromDTO:  museumFromDTO,
		identity: func(m *model.Museum) *model.Identity { return &m.Identity },
		filter: func(r *http.Request) (repository.MuseumFilter, error) {
			f := repository.MuseumFilter{Query: r.URL.Query().Get("q")}
			var err error
			if f.AddressID, err = queryUUID(r, "address_id"); err != nil {
				return f, err
			}
			f.GuideID, err = queryUUID(r, "guide_id")
			return f, err
		},
	}
}

func (h *APIHandler) guides() *resource[model.Guide, repository.GuideFilter, GuideDTO] {
	return &resource[model.Guide, repository.GuideFilter, GuideDTO]{
		svc:      h.svc.Guides,
		errs:     h.errs,
		toDTO:    guideToDTO,
		fromDTO:  guideFromDTO,
		identity: func(g *model.Guide) *model.Identity { return &g.Identity },
		filter: func(r *http.Request) (repository.GuideFilter, error) {
			museumID, err := queryUUID(r, "museum_id")
			return repository.GuideFilter{Query: r.URL.Query().Get("q"), MuseumID: museumID}, err
		},
	}
}

func (h *APIHandler) exhibitions() *resource[model.Exhibition, repository.ExhibitionFilter, ExhibitionDTO] {
	return &resource[model.Exhibition, repository.ExhibitionFilter, ExhibitionDTO]{
		svc:      h.svc.Exhibitions,
		errs:     h.errs,
		toDTO:    exhibitionToDTO,
		fromDTO:  exhibitionFromDTO,
		identity: func(e *model.Exhibition) *model.Identity { return &e.Identity },
		filter: func(r *http.Request) (repository.ExhibitionFilter, error) {
			museumID, err := queryUUID(r, "museum_id")
			return repository.ExhibitionFilter{Query: r.URL.Query().Get("q"), MuseumID: museumID}, err
		},
	}
}

func (h *APIHandler) exhibits() *resource[model.Exhibit, repository.ExhibitFilter, ExhibitDTO] {
	return &resource[model.Exhibit, repository.ExhibitFilter, ExhibitDTO]{
		svc:      h.svc.Exhibits,
		errs:     h.errs,
		toDTO:    exhibitToDTO,
		fromDTO:  exhibitFromDTO,
		identity: func(e *model.Exhibit) *model.Identity { return &e.Identity },
		filter: func(r *http.Request) (repository.ExhibitFilter, error) {
			expositionID, err := queryUUID(r, "exposition_id")
			return repository.ExhibitFilter{Query: r.URL.Query().Get("q"), ExpositionID: expositionID}, err
		},
	}
}

func (h *APIHandler) museumGuides() *resource[model.MuseumGuide, repository.MuseumGuideFilter, MuseumGuideDTO] {
	return &resource[model.MuseumGuide, repository.MuseumGuideFilter, MuseumGuideDTO]{
		svc:      h.svc.MuseumGuides,
		errs:     h.errs,
		toDTO:    museumGuideToDTO,
		fromDTO:  museumGuideFromDTO,
		identity: func(mg *model.MuseumGuide) *model.Identity { return &mg.Identity },
		filter: func(r *http.Request) (repository.MuseumGuideFilter, error) {
			var (
				f   repository.MuseumGuideFilter
				err error
			)
			if f.MuseumID, err = queryUUID(r, "museum_id"); err != nil {
				return f, err
			}
			f.GuideID, err = queryUUID(r, "guide_id")
			return f, err
		},
	}
}

// listBy отдаёт страницу списка, отфильтрованного по {id} родительской записи.
// parentExists проверяет существование родителя, чтобы вернуть 404.
func listBy[E any, F any, D any](
	res *resource[E, F, D],
	parentExists func(r *http.Request, id uuid.UUID) error,
	filterFor func(id uuid.UUID) F,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			res.errs.badRequest(w, r, err)
			return
		}
		if err := parentExists(r, id); err != nil {
			res.errs.write(w, r, err)
			return
		}
		limit, offset, err := pagination(r)
		if err != nil {
			res.errs.badRequest(w, r, err)
			return
		}

		items, total, err := res.svc.List(r.Context(), filterFor(id), limit, offset)
		if err != nil {
			res.errs.write(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, listResponse[D]{
			Items:  mapItems(items, res.toDTO),
			Total:  total,
			Limit:  limit,
			Offset: offset,
		})
	}
}
