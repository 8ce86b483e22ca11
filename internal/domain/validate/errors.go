// Пакет validate — правила валидации полей музейного справочника.
//
// Каждое правило — чистая функция значения (и, где нужно, текущего
// времени). При нарушении возвращается *FieldError с именем поля,
// значением и сообщением. Наборы правил для сущностей собирают все
// нарушения в Errors.
package validate

import (
	"errors"
	"fmt"
	"strings"
)

// Code — машиночитаемый код нарушения. Используется как ключ перевода.
type Code string

// Коды нарушений.
const (
	CodeRequired         Code = "required"
	CodeMaxLength        Code = "max_length"
	CodeStreetName       Code = "street_name"
	CodeHouseNumber      Code = "house_number"
	CodeBirthday         Code = "birthday"
	CodeNegative         Code = "negative"
	CodeFutureTime       Code = "future_time"
	CodeInvalidReference Code = "invalid_reference"
	CodeMaxItems         Code = "max_items"
)

// FieldError — нарушение правила для одного поля.
type FieldError struct {
	// Field — имя поля (как в таблице: house_number, birthday ...)
	Field string
	// Value — отклонённое значение
	Value any
	// Code — код нарушения
	Code Code
	// Message — сообщение на английском; переводы — в пакете i18n по Code
	Message string
	// Params — параметры сообщения (например, лимит длины)
	Params []any
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// Errors — набор нарушений для одной сущности.
type Errors []*FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// Err возвращает nil для пустого набора, иначе сам набор.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Fields возвращает имена полей с нарушениями.
func (e Errors) Fields() []string {
	fields := make([]string, len(e))
	for i, fe := range e {
		fields[i] = fe.Field
	}
	return fields
}

// Add добавляет нарушение, если err != nil.
// Принимает *FieldError или Errors; остальные ошибки игнорируются.
func (e *Errors) Add(err error) {
	if err == nil {
		return
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		*e = append(*e, fe)
		return
	}
	var many Errors
	if errors.As(err, &many) {
		*e = append(*e, many...)
	}
}

// WithPrefix возвращает копию набора с префиксом в именах полей
// (exhibitions[0].theme) — для вложенных форм.
func (e Errors) WithPrefix(prefix string) Errors {
	out := make(Errors, len(e))
	for i, fe := range e {
		cp := *fe
		cp.Field = prefix + "." + fe.Field
		out[i] = &cp
	}
	return out
}

// AsErrors извлекает набор нарушений из цепочки ошибок.
func AsErrors(err error) (Errors, bool) {
	var many Errors
	if errors.As(err, &many) {
		return many, true
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return Errors{fe}, true
	}
	return nil, false
}
