package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
)

// RoleAdmin роль администратора мастерской
const RoleAdmin = "admin"

const (
	msgMissingToken = "требуется авторизация"
	msgInvalidToken = "недействительный токен"
	msgForbidden    = "доступ запрещен"
)

var errMalformedHeader = errors.New("authorization header must be 'Bearer <token>'")

type contextKey string

const principalKey contextKey = "principal"

// Principal аутентифицированный аккаунт
type Principal struct {
	AccountID string
	Role      string
}

// Claims JWT claims: sub - ID аккаунта, role - роль
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator проверяет HS256 bearer токены
type Authenticator struct {
	secret []byte
	leeway time.Duration
	logger Logger
}

// NewAuthenticator создает новый экземпляр authenticator
func NewAuthenticator(secret string, leeway time.Duration, logger Logger) *Authenticator {
	return &Authenticator{
		secret: []byte(secret),
		leeway: leeway,
		logger: logger,
	}
}

// IssueToken подписывает токен для аккаунта (используется CLI и тестами)
func (a *Authenticator) IssueToken(accountID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// OptionalAuth добавляет Principal в контекст, если передан валидный токен.
// Запрос без заголовка Authorization проходит как гостевой, невалидный токен - 401.
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}
		principal, err := a.authenticate(r)
		if err != nil {
			a.logger.Warn("Auth: %s %s - invalid token: %v", r.Method, r.URL.Path, err)
			handlers.RespondUnauthorized(w, msgInvalidToken)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// RequireAuth пропускает только запросы с валидным токеном
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			handlers.RespondUnauthorized(w, msgMissingToken)
			return
		}
		principal, err := a.authenticate(r)
		if err != nil {
			a.logger.Warn("Auth: %s %s - invalid token: %v", r.Method, r.URL.Path, err)
			handlers.RespondUnauthorized(w, msgInvalidToken)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// RequireAdmin пропускает только администраторов. Ставится после RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) authenticate(r *http.Request) (Principal, error) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return Principal{}, errMalformedHeader
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(parts[1], &claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(a.leeway),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Principal{}, err
	}
	if claims.Subject == "" {
		return Principal{}, errors.New("token has no subject")
	}

	return Principal{AccountID: claims.Subject, Role: claims.Role}, nil
}

// WithPrincipal кладет Principal в контекст
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipal извлекает Principal из контекста
func GetPrincipal(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// GetAccountID извлекает ID аккаунта из контекста
func GetAccountID(ctx context.Context) (string, bool) {
	p, ok := GetPrincipal(ctx)
	if !ok || p.AccountID == "" {
		return "", false
	}
	return p.AccountID, true
}

// IsAdmin возвращает true, если запрос сделан администратором
func IsAdmin(ctx context.Context) bool {
	p, ok := GetPrincipal(ctx)
	return ok && p.Role == RoleAdmin
}
