// museum.go — формы музея, выставки и экскурсовода, вложенные списки.
package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/museum-data/museum-admin/internal/repository"
)

// GetMuseumDetail — GET /api/v1/museums/{id}/detail.
// Возвращает музей вместе с выставками и связями с экскурсоводами.
func (h *APIHandler) GetMuseumDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.errs.badRequest(w, r, err)
		return
	}

	detail, err := h.svc.Museums.GetDetail(r.Context(), id)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, museumDetailToDTO(detail))
}

// SaveMuseumDetail — PUT /api/v1/museums/{id}/detail.
// Списки выставок и экскурсоводов в теле заменяют текущие целиком.
func (h *APIHandler) SaveMuseumDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.errs.badRequest(w, r, err)
		return
	}
	var dto MuseumDetailDTO
	if err := decodeJSON(r, &dto); err != nil {
		h.errs.badRequest(w, r, err)
		return
	}

	detail := museumDetailFromDTO(&dto)
	detail.Museum.ID = id

	saved, err := h.svc.Museums.SaveDetail(r.Context(), &detail)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, museumDetailToDTO(saved))
}

// GetExhibitionDetail — GET /api/v1/exhibitions/{id}/detail.
func (h *APIHandler) GetExhibitionDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.errs.badRequest(w, r, err)
		return
	}

	detail, err := h.svc.Exhibitions.GetDetail(r.Context(), id)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exhibitionDetailToDTO(detail))
}

// SaveExhibitionDetail — PUT /api/v1/exhibitions/{id}/detail.
// Список экспонатов в теле заменяет текущий целиком.
func (h *APIHandler) SaveExhibitionDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.errs.badRequest(w, r, err)
		return
	}
	var dto ExhibitionDetailDTO
	if err := decodeJSON(r, &dto); err != nil {
		h.errs.badRequest(w, r, err)
		return
	}

	detail := exhibitionDetailFromDTO(&dto)
	detail.Exhibition.ID = id

	saved, err := h.svc.Exhibitions.SaveDetail(r.Context(), &detail)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exhibitionDetailToDTO(saved))
}

// GetGuideDetail — GET /api/v1/guides/{id}/detail.
func (h *APIHandler) GetGuideDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.errs.badRequest(w, r, err)
		return
	}

	detail, err := h.svc.Guides.GetDetail(r.Context(), id)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, guideDetailToDTO(detail))
}

// SaveGuideDetail — PUT /api/v1/guides/{id}/detail.
// Список связей с музеями в теле заменяет текущий целиком.
func (h *APIHandler) SaveGuideDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.errs.badRequest(w, r, err)
		return
	}
	var dto GuideDetailDTO
	if err := decodeJSON(r, &dto); err != nil {
		h.errs.badRequest(w, r, err)
		return
	}

	detail := guideDetailFromDTO(&dto)
	detail.Guide.ID = id

	saved, err := h.svc.Guides.SaveDetail(r.Context(), &detail)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, guideDetailToDTO(saved))
}

// ListGuideMuseums — GET /api/v1/guides/{id}/museums.
func (h *APIHandler) ListGuideMuseums(w http.ResponseWriter, r *http.Request) {
	listBy(h.museums(),
		func(r *http.Request, id uuid.UUID) error {
			_, err := h.svc.Guides.Get(r.Context(), id)
			return err
		},
		func(id uuid.UUID) repository.MuseumFilter {
			return repository.MuseumFilter{GuideID: &id}
		},
	)(w, r)
}

// ListExhibitionExhibits — GET /api/v1/exhibitions/{id}/exhibits.
func (h *APIHandler) ListExhibitionExhibits(w http.ResponseWriter, r *http.Request) {
	listBy(h.exhibits(),
		func(r *http.Request, id uuid.UUID) error {
			_, err := h.svc.Exhibitions.Get(r.Context(), id)
			return err
		},
		func(id uuid.UUID) repository.ExhibitFilter {
			return repository.ExhibitFilter{ExpositionID: &id}
		},
	)(w, r)
}
