// handler.go — основной обработчик Museum Admin API.
// Регистрирует маршруты /api/v1 и делегирует запросы в сервисный слой.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apierrors "github.com/museum-data/museum-admin/internal/api/errors"
	"github.com/museum-data/museum-admin/internal/domain/model"
	"github.com/museum-data/museum-admin/internal/domain/validate"
	"github.com/museum-data/museum-admin/internal/i18n"
	"github.com/museum-data/museum-admin/internal/repository"
	"github.com/museum-data/museum-admin/internal/service"
)

// CRUDService — операции сервиса над одной сущностью.
type CRUDService[E any, F any] interface {
	Create(ctx context.Context, e *E) (*E, error)
	Get(ctx context.Context, id uuid.UUID) (*E, error)
	List(ctx context.Context, f F, limit, offset int) ([]*E, int, error)
	Update(ctx context.Context, e *E) (*E, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MuseumService — сервис музеев вместе с формой выставок и экскурсоводов.
type MuseumService interface {
	CRUDService[model.Museum, repository.MuseumFilter]
	GetDetail(ctx context.Context, id uuid.UUID) (*model.MuseumDetail, error)
	SaveDetail(ctx context.Context, detail *model.MuseumDetail) (*model.MuseumDetail, error)
}

// GuideService — сервис экскурсоводов вместе с формой связей с музеями.
type GuideService interface {
	CRUDService[model.Guide, repository.GuideFilter]
	GetDetail(ctx context.Context, id uuid.UUID) (*model.GuideDetail, error)
	SaveDetail(ctx context.Context, detail *model.GuideDetail) (*model.GuideDetail, error)
}

// ExhibitionService — сервис выставок вместе с формой экспонатов.
type ExhibitionService interface {
	CRUDService[model.Exhibition, repository.ExhibitionFilter]
	GetDetail(ctx context.Context, id uuid.UUID) (*model.ExhibitionDetail, error)
	SaveDetail(ctx context.Context, detail *model.ExhibitionDetail) (*model.ExhibitionDetail, error)
}

// Services — сервисы, которые обслуживает API.
type Services struct {
	Countries    CRUDService[model.Country, repository.CountryFilter]
	Cities       CRUDService[model.City, repository.CityFilter]
	Addresses    CRUDService[model.Address, repository.AddressFilter]
	Museums      MuseumService
	Guides       GuideService
	Exhibitions  ExhibitionService
	Exhibits     CRUDService[model.Exhibit, repository.ExhibitFilter]
	MuseumGuides CRUDService[model.MuseumGuide, repository.MuseumGuideFilter]
}

// APIHandler — обработчик API Museum Admin.
type APIHandler struct {
	svc  Services
	errs *errorWriter
}

// NewAPIHandler создаёт обработчик API.
// bundle используется для перевода сообщений об ошибках.
func NewAPIHandler(svc Services, bundle *i18n.Bundle, logger *slog.Logger) *APIHandler {
	logger = logger.With(slog.String("component", "api_handler"))
	return &APIHandler{
		svc:  svc,
		errs: &errorWriter{bundle: bundle, logger: logger},
	}
}

// Mount регистрирует маршруты /api/v1 на r.
// Пути регистрируются целиком, без вложенных роутеров: middleware,
// подключённые к r через Group, видят полный шаблон маршрута.
func (h *APIHandler) Mount(r chi.Router) {
	mountResource(r, "/api/v1/countries", h.countries())
	mountResource(r, "/api/v1/cities", h.cities())
	mountResource(r, "/api/v1/addresses", h.addresses())
	mountResource(r, "/api/v1/museums", h.museums())
	mountResource(r, "/api/v1/guides", h.guides())
	mountResource(r, "/api/v1/exhibitions", h.exhibitions())
	mountResource(r, "/api/v1/exhibits", h.exhibits())
	mountResource(r, "/api/v1/museum-guides", h.museumGuides())

	r.Get("/api/v1/museums/{id}/detail", h.GetMuseumDetail)
	r.Put("/api/v1/museums/{id}/detail", h.SaveMuseumDetail)
	r.Get("/api/v1/guides/{id}/detail", h.GetGuideDetail)
	r.Put("/api/v1/guides/{id}/detail", h.SaveGuideDetail)
	r.Get("/api/v1/exhibitions/{id}/detail", h.GetExhibitionDetail)
	r.Put("/api/v1/exhibitions/{id}/detail", h.SaveExhibitionDetail)
	r.Get("/api/v1/guides/{id}/museums", h.ListGuideMuseums)
	r.Get("/api/v1/exhibitions/{id}/exhibits", h.ListExhibitionExhibits)
}

// --- Ошибки ---

// errorWriter переводит ошибки сервисного слоя в HTTP-ответы.
type errorWriter struct {
	bundle *i18n.Bundle
	logger *slog.Logger
}

func (ew *errorWriter) write(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	switch {
	case errors.Is(err, service.ErrValidation):
		errs, _ := validate.AsErrors(err)
		fields := make([]apierrors.FieldError, 0, len(errs))
		for _, fe := range errs {
			fields = append(fields, apierrors.FieldError{
				Field:   fe.Field,
				Code:    string(fe.Code),
				Message: ew.bundle.FieldMessage(ctx, fe),
				Value:   fe.Value,
			})
		}
		apierrors.ValidationError(w, ew.bundle.T(ctx, "error.validation"), fields...)

	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, ew.bundle.T(ctx, "error.not_found"))

	case errors.Is(err, service.ErrConflict):
		var fields []apierrors.FieldError
		var ce *repository.ConstraintError
		if errors.As(err, &ce) {
			fields = append(fields, apierrors.FieldError{Field: ce.Field, Code: "unique", Message: ce.Description})
		}
		apierrors.Conflict(w, ew.bundle.T(ctx, "error.conflict"), fields...)

	default:
		ew.logger.Error("Ошибка обработки запроса",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, ew.bundle.T(ctx, "error.internal"))
	}
}

func (ew *errorWriter) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	ew.logger.Debug("Некорректный запрос", slog.String("error", err.Error()))
	apierrors.BadRequest(w, ew.bundle.T(r.Context(), "error.bad_request"))
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// listResponse — страница списка.
type listResponse[D any] struct {
	Items  []D `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// paginationDefaults нормализует параметры пагинации.
func paginationDefaults(limit *int, offset *int) (int, int) {
	l := 100
	o := 0

	if limit != nil {
		l = *limit
		if l < 1 {
			l = 1
		}
		if l > 1000 {
			l = 1000
		}
	}

	if offset != nil {
		o = *offset
		if o < 0 {
			o = 0
		}
	}

	return l, o
}

// pagination читает limit и offset из query.
func pagination(r *http.Request) (limit, offset int, err error) {
	l, err := queryInt(r, "limit")
	if err != nil {
		return 0, 0, err
	}
	o, err := queryInt(r, "offset")
	if err != nil {
		return 0, 0, err
	}
	limit, offset = paginationDefaults(l, o)
	return limit, offset, nil
}

func queryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// queryUUID читает необязательный UUID из query.
func queryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// pathID читает {id} из пути.
func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// mapItems конвертирует срез сущностей в срез DTO.
func mapItems[E any, D any](items []*E, toDTO func(*E) D) []D {
	result := make([]D, 0, len(items))
	for _, e := range items {
		result = append(result, toDTO(e))
	}
	return result
}
