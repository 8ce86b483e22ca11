// auth.go — JWT-аутентификация и проверка роли Museum Admin API.
// Подпись проверяется по JWKS Identity Provider, роль вычисляется из групп
// или realm_access.roles.
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	apierrors "github.com/museum-data/museum-admin/internal/api/errors"
	"github.com/museum-data/museum-admin/internal/domain/rbac"
)

type claimsKey struct{}

// AuthClaims — пользователь запроса.
type AuthClaims struct {
	Subject           string
	PreferredUsername string
	Groups            []string
	// Roles — realm_access.roles как есть.
	Roles []string
	Role  rbac.Role
}

// idpClaims — payload токена Identity Provider.
type idpClaims struct {
	jwt.RegisteredClaims
	PreferredUsername string   `json:"preferred_username"`
	Groups            []string `json:"groups,omitempty"`
	RealmAccess       struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
}

// JWTAuth проверяет Bearer-токены (RS256) по ключам JWKS.
type JWTAuth struct {
	keys           keyfunc.Keyfunc
	parser         *jwt.Parser
	adminGroups    []string
	readonlyGroups []string
	logger         *slog.Logger
}

// NewJWTAuth создаёт JWTAuth над JWKS по URL. Ключи обновляются в фоне
// каждые refresh; недоступный при старте JWKS ошибкой не считается.
func NewJWTAuth(
	ctx context.Context,
	jwksURL string,
	issuer string,
	adminGroups, readonlyGroups []string,
	refresh time.Duration,
	leeway time.Duration,
	logger *slog.Logger,
) (*JWTAuth, error) {
	storage, err := jwkset.NewStorageFromHTTP(jwksURL, jwkset.HTTPClientStorageOptions{
		Ctx:                       ctx,
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           refresh,
		RefreshErrorHandler: func(_ context.Context, err error) {
			logger.Error("Ошибка обновления JWKS", slog.String("url", jwksURL), slog.String("error", err.Error()))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("JWKS storage: %w", err)
	}

	kf, err := keyfunc.New(keyfunc.Options{Ctx: ctx, Storage: storage})
	if err != nil {
		return nil, fmt.Errorf("keyfunc: %w", err)
	}

	a := NewJWTAuthWithKeyfunc(kf, issuer, adminGroups, readonlyGroups, logger)
	a.parser = newParser(issuer, leeway)
	return a, nil
}

// NewJWTAuthWithKeyfunc создаёт JWTAuth с готовой keyfunc и нулевым leeway.
func NewJWTAuthWithKeyfunc(
	kf keyfunc.Keyfunc,
	issuer string,
	adminGroups, readonlyGroups []string,
	logger *slog.Logger,
) *JWTAuth {
	return &JWTAuth{
		keys:           kf,
		parser:         newParser(issuer, 0),
		adminGroups:    adminGroups,
		readonlyGroups: readonlyGroups,
		logger:         logger.With(slog.String("component", "jwt_auth")),
	}
}

func newParser(issuer string, leeway time.Duration) *jwt.Parser {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(leeway),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return jwt.NewParser(opts...)
}

// bearerToken достаёт токен из Authorization. При ошибке token пуст,
// а problem описывает причину.
func bearerToken(r *http.Request) (token, problem string) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", "Отсутствует заголовок Authorization"
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", "Неверный формат Authorization: ожидается Bearer <token>"
	}
	if token == "" {
		return "", "Пустой Bearer token"
	}
	return token, ""
}

// Middleware пропускает запрос с валидным токеном и кладёт AuthClaims в контекст.
func (j *JWTAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, problem := bearerToken(r)
			if problem != "" {
				apierrors.Unauthorized(w, problem)
				return
			}

			raw := &idpClaims{}
			if _, err := j.parser.ParseWithClaims(token, raw, j.keys.KeyfuncCtx(r.Context())); err != nil {
				j.logger.Debug("Токен отклонён",
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
				)
				apierrors.Unauthorized(w, "Невалидный или просроченный токен")
				return
			}
			if raw.Subject == "" {
				apierrors.Unauthorized(w, "Отсутствует sub в токене")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, j.claims(raw))))
		})
	}
}

// claims вычисляет роль: группы важнее realm_access.roles.
func (j *JWTAuth) claims(raw *idpClaims) *AuthClaims {
	c := &AuthClaims{
		Subject:           raw.Subject,
		PreferredUsername: raw.PreferredUsername,
		Groups:            raw.Groups,
		Roles:             raw.RealmAccess.Roles,
		Role:              rbac.FromGroups(raw.Groups, j.adminGroups, j.readonlyGroups),
	}
	if c.Role == "" {
		c.Role = rbac.FromNames(c.Roles)
	}
	return c
}

// RequireMethodRole ставится после JWTAuth.Middleware: GET/HEAD/OPTIONS
// требуют readonly, остальные методы admin.
func RequireMethodRole() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				apierrors.Unauthorized(w, "Отсутствуют claims в контексте")
				return
			}
			if required := rbac.ForMethod(r.Method); !claims.Role.Covers(required) {
				apierrors.Forbidden(w, "Недостаточно прав: требуется роль "+string(required))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext возвращает AuthClaims запроса или nil.
func ClaimsFromContext(ctx context.Context) *AuthClaims {
	claims, _ := ctx.Value(claimsKey{}).(*AuthClaims)
	return claims
}

// JWKSReadinessChecker проверяет, что JWKS endpoint отдаёт ключи.
type JWKSReadinessChecker struct {
	url    string
	client *http.Client
}

func NewJWKSReadinessChecker(jwksURL string, timeout time.Duration) *JWKSReadinessChecker {
	return &JWKSReadinessChecker{url: jwksURL, client: &http.Client{Timeout: timeout}}
}

// CheckReady: fail, если endpoint недоступен; degraded, если ключей нет.
func (k *JWKSReadinessChecker) CheckReady() (status, message string) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, k.url, http.NoBody)
	if err != nil {
		return "fail", err.Error()
	}
	resp, err := k.client.Do(req) //nolint:gosec // URL из конфигурации
	if err != nil {
		return "fail", fmt.Sprintf("JWKS недоступен: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "fail", fmt.Sprintf("JWKS вернул статус %d", resp.StatusCode)
	}

	var set struct {
		Keys []json.RawMessage `json:"keys"`
	}
	switch err := json.NewDecoder(resp.Body).Decode(&set); {
	case err != nil:
		return "degraded", fmt.Sprintf("JWKS: невалидный JSON: %v", err)
	case len(set.Keys) == 0:
		return "degraded", "JWKS: нет ключей"
	}
	return "ok", fmt.Sprintf("JWKS доступен, ключей: %d", len(set.Keys))
}
