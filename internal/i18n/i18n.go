// Пакет i18n — перевод сообщений API (ошибки валидации, ошибки запросов).
// Каталоги — плоские JSON-файлы {"ключ": "перевод"}, по одному на язык.
// Язык запроса: cookie "lang" → Accept-Language → DefaultLang.
package i18n

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"golang.org/x/text/language"
)

// DefaultLang — язык по умолчанию и язык fallback.
const DefaultLang = "en"

type contextKey struct{}

// Bundle — каталоги сообщений, собранные при старте. После создания
// не изменяется, поэтому безопасен для конкурентного чтения.
type Bundle struct {
	catalogs map[string]map[string]string
	// langs[i] соответствует i-му тегу matcher; DefaultLang всегда первый.
	langs   []string
	matcher language.Matcher
}

// NewBundle разбирает каталоги lang → JSON. Каталог DefaultLang обязателен.
func NewBundle(sources map[string][]byte) (*Bundle, error) {
	if _, ok := sources[DefaultLang]; !ok {
		return nil, fmt.Errorf("i18n: нет каталога языка по умолчанию %q", DefaultLang)
	}

	b := &Bundle{catalogs: make(map[string]map[string]string, len(sources))}

	langs := make([]string, 0, len(sources))
	for lang := range sources {
		if lang != DefaultLang {
			langs = append(langs, lang)
		}
	}
	slices.Sort(langs)
	b.langs = append([]string{DefaultLang}, langs...)

	tags := make([]language.Tag, 0, len(b.langs))
	for _, lang := range b.langs {
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("i18n: неизвестный язык %q: %w", lang, err)
		}
		tags = append(tags, tag)

		var messages map[string]string
		if err := json.Unmarshal(sources[lang], &messages); err != nil {
			return nil, fmt.Errorf("i18n: ошибка парсинга каталога %s: %w", lang, err)
		}
		b.catalogs[lang] = messages
	}
	b.matcher = language.NewMatcher(tags)

	return b, nil
}

// Languages возвращает коды загруженных языков, DefaultLang первым.
func (b *Bundle) Languages() []string {
	return slices.Clone(b.langs)
}

// Supports сообщает, есть ли каталог для lang.
func (b *Bundle) Supports(lang string) bool {
	_, ok := b.catalogs[lang]
	return ok
}

// Match выбирает язык по заголовку Accept-Language.
// Без совпадения возвращается DefaultLang.
func (b *Bundle) Match(acceptLanguage string) string {
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return DefaultLang
	}
	_, idx, conf := b.matcher.Match(prefs...)
	if conf == language.No {
		return DefaultLang
	}
	return b.langs[idx]
}

// Lookup ищет перевод в каталоге lang, затем в каталоге DefaultLang.
func (b *Bundle) Lookup(lang, key string) (string, bool) {
	if msg, ok := b.catalogs[lang][key]; ok {
		return msg, true
	}
	msg, ok := b.catalogs[DefaultLang][key]
	return msg, ok
}

// Translate возвращает перевод по ключу. Неизвестный ключ возвращается как есть.
func (b *Bundle) Translate(lang, key string) string {
	if msg, ok := b.Lookup(lang, key); ok {
		return msg
	}
	return key
}

// sprintf — fmt.Sprintf через переменную: формат-строки приходят
// из JSON-каталогов, go vet их не проверит.
var sprintf = fmt.Sprintf

// WithLang помещает язык в контекст.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, contextKey{}, lang)
}

// LangFromContext извлекает язык из контекста. По умолчанию DefaultLang.
func LangFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(contextKey{}).(string); ok && lang != "" {
		return lang
	}
	return DefaultLang
}
