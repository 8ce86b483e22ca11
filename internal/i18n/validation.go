// validation.go — перевод ошибок валидации полей.
package i18n

import (
	"context"

	"github.com/museum-data/museum-admin/internal/domain/validate"
)

// FieldMessage возвращает текст нарушения на языке из контекста.
// Ключ каталога — "validation." + код нарушения; параметры подставляются
// в том порядке, в котором их задало правило. Без перевода используется
// английский текст самого правила.
func (b *Bundle) FieldMessage(ctx context.Context, fe *validate.FieldError) string {
	template, ok := b.Lookup(LangFromContext(ctx), "validation."+string(fe.Code))
	if !ok {
		template = fe.Message
	}
	if len(fe.Params) == 0 {
		return template
	}
	return sprintf(template, fe.Params...)
}

// T возвращает перевод ключа на языке из контекста.
func (b *Bundle) T(ctx context.Context, key string) string {
	return b.Translate(LangFromContext(ctx), key)
}
