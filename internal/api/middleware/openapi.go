// openapi.go — валидация входящих запросов по OpenAPI-контракту (kin-openapi).
// Проверяет типы и форматы параметров пути, query и тела запроса.
// Правила предметной области (обязательность, длины, форматы адреса)
// проверяются сервисным слоем.
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/go-chi/chi/v5"

	apierrors "github.com/museum-data/museum-admin/internal/api/errors"
)

// RequestValidator — middleware проверки запросов по контракту.
type RequestValidator struct {
	doc     *openapi3.T
	options *openapi3filter.Options
	logger  *slog.Logger
}

// NewRequestValidator создаёт middleware проверки запросов.
// Аутентификация проверяется JWT middleware, здесь она пропускается.
func NewRequestValidator(doc *openapi3.T, logger *slog.Logger) *RequestValidator {
	return &RequestValidator{
		doc: doc,
		options: &openapi3filter.Options{
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		},
		logger: logger.With(slog.String("component", "openapi_validator")),
	}
}

// Middleware возвращает HTTP middleware.
// Маршрут определяется по шаблону chi, поэтому middleware подключается
// после маршрутизации: через chi.Router.With или Group.
func (v *RequestValidator) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams := v.findRoute(r)
			if route == nil {
				next.ServeHTTP(w, r)
				return
			}

			err := openapi3filter.ValidateRequest(r.Context(), &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    v.options,
			})
			if err != nil {
				v.logger.Debug("Запрос не соответствует контракту",
					slog.String("path", route.Path),
					slog.String("error", err.Error()),
				)
				apierrors.ValidationError(w, "Запрос не соответствует контракту API", requestFieldError(err))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// findRoute сопоставляет запрос с операцией контракта по шаблону chi.
func (v *RequestValidator) findRoute(r *http.Request) (*routers.Route, map[string]string) {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return nil, nil
	}

	pattern := rctx.RoutePattern()
	pathItem := v.doc.Paths.Find(pattern)
	if pathItem == nil {
		return nil, nil
	}
	op := pathItem.GetOperation(r.Method)
	if op == nil {
		return nil, nil
	}

	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		params[key] = rctx.URLParams.Values[i]
	}

	return &routers.Route{
		Spec:      v.doc,
		Path:      pattern,
		PathItem:  pathItem,
		Method:    r.Method,
		Operation: op,
	}, params
}

// requestFieldError переводит ошибку kin-openapi в ошибку поля.
// Для тела запроса поле — JSON-путь до нарушения (exhibitions.0.floor).
func requestFieldError(err error) apierrors.FieldError {
	fe := apierrors.FieldError{Code: "schema", Message: err.Error()}

	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		fe.Message = reqErr.Reason
		if reqErr.Parameter != nil {
			fe.Field = reqErr.Parameter.Name
		} else if reqErr.RequestBody != nil {
			fe.Field = "body"
		}
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		if ptr := schemaErr.JSONPointer(); len(ptr) > 0 {
			fe.Field = strings.Join(ptr, ".")
		}
		fe.Message = schemaErr.Reason
		fe.Value = schemaErr.Value
	}

	if fe.Message == "" {
		fe.Message = err.Error()
	}
	return fe
}
