// Package middlewarectx содержит HTTP middleware: проверку JWT,
// ограничение частоты запросов и сквозной перехватчик аудита.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/NartechSolution/fatsAiBackend/internal/http/response"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/apperr"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/jwt"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserID — ключ идентификатора пользователя в контексте.
	UserID Key = "userId"
	// Email — ключ электронной почты пользователя в контексте.
	Email Key = "email"
)

// principal накапливает реквизиты аутентифицированного пользователя для
// внешнего перехватчика аудита: значения, положенные в производный
// контекст, не видны выше по цепочке middleware, поэтому перехватчик
// кладёт в контекст изменяемый держатель, а JWT middleware заполняет его.
type principal struct {
	userID string
	email  string
}

type principalCtxKey struct{}

// TokenValidator описывает интерфейс сервиса для проверки JWT токена.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*jwt.CustomClaims, error)
}

// JWTMiddleware возвращает middleware, проверяющий JWT в заголовке
// Authorization. Если токен валиден, идентификатор и почта пользователя
// добавляются в контекст запроса, иначе возвращается 401.
func JWTMiddleware(validator TokenValidator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Fail(apperr.Unauthorized("Missing or invalid authorization header")))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := validator.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Fail(apperr.Unauthorized("Invalid or expired token")))
				return
			}
			if p, ok := r.Context().Value(principalCtxKey{}).(*principal); ok {
				p.userID = claims.UserID
				p.email = claims.Email
			}
			ctx := context.WithValue(r.Context(), UserID, claims.UserID)
			ctx = context.WithValue(ctx, Email, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
