// Пакет errors — ответы с ошибками Museum Admin API в едином формате:
// {"error": {"code": "...", "message": "...", "fields": [...]}}.
package errors

import (
	"encoding/json"
	"net/http"
)

// Коды ошибок из OpenAPI-контракта.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeBadRequest      = "BAD_REQUEST"
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeConflict        = "CONFLICT"
	CodeInternalError   = "INTERNAL_ERROR"
)

// FieldError — нарушение, привязанное к полю запроса.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
	// Value — отклонённое значение, если оно известно.
	Value any `json:"value,omitempty"`
}

// Problem — тело ошибки. Status в JSON не попадает.
type Problem struct {
	Status  int          `json:"-"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// Write отправляет p как {"error": p}.
func (p Problem) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(struct {
		Error Problem `json:"error"`
	}{p})
}

// WriteError отправляет ошибку с произвольным статусом и кодом.
func WriteError(w http.ResponseWriter, status int, code, message string, fields ...FieldError) {
	Problem{Status: status, Code: code, Message: message, Fields: fields}.Write(w)
}

// ValidationError — 400, нарушены правила полей.
func ValidationError(w http.ResponseWriter, message string, fields ...FieldError) {
	WriteError(w, http.StatusBadRequest, CodeValidationError, message, fields...)
}

// BadRequest — 400, запрос не разобран.
func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, CodeBadRequest, message)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, CodeNotFound, message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, CodeUnauthorized, message)
}

func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, CodeForbidden, message)
}

// Conflict — 409, нарушена уникальность.
func Conflict(w http.ResponseWriter, message string, fields ...FieldError) {
	WriteError(w, http.StatusConflict, CodeConflict, message, fields...)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, CodeInternalError, message)
}
