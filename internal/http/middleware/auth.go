package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pribylovaa/go-forum/internal/http/apierrors"
	"github.com/pribylovaa/go-forum/internal/models"
	"github.com/pribylovaa/go-forum/internal/service"
	logctx "github.com/pribylovaa/go-forum/pkg/log"
)

// TokenValidator проверяет access-токен.
type TokenValidator interface {
	ValidateAccess(ctx context.Context, accessToken string) (models.Principal, error)
}

// Authenticate извлекает Bearer-токен из Authorization и кладёт пользователя
// в контекст (PrincipalFrom). Запрос без заголовка проходит анонимно;
// неверный или просроченный токен даёт 401, чтобы клиент обновил пару.
func Authenticate(v TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				next.ServeHTTP(w, r)
				return
			}

			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) || strings.TrimSpace(auth[len(prefix):]) == "" {
				apierrors.WriteError(w, r, service.ErrInvalidToken)
				return
			}

			p, err := v.ValidateAccess(r.Context(), strings.TrimSpace(auth[len(prefix):]))
			if err != nil {
				apierrors.WriteError(w, r, err)
				return
			}

			ctx := WithPrincipal(r.Context(), p)
			ctx = logctx.Into(ctx, logctx.From(ctx).With(slog.String("user_id", p.UserID.String())))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithPrincipal кладёт пользователя запроса в контекст.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom возвращает пользователя запроса; ok=false для анонима.
func PrincipalFrom(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(principalKey).(models.Principal)
	return p, ok
}
