package i18n

import (
	"net/http"
)

// LangCookieName — cookie с явно выбранным языком.
const LangCookieName = "lang"

// Middleware определяет язык запроса, кладёт его в контекст
// и отвечает заголовком Content-Language.
func (b *Bundle) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := b.detect(r)
			w.Header().Set("Content-Language", lang)
			next.ServeHTTP(w, r.WithContext(WithLang(r.Context(), lang)))
		})
	}
}

func (b *Bundle) detect(r *http.Request) string {
	if cookie, err := r.Cookie(LangCookieName); err == nil && b.Supports(cookie.Value) {
		return cookie.Value
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		return b.Match(accept)
	}
	return DefaultLang
}
