package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrRequestTimeout - причина отмены контекста по таймауту запроса.
var ErrRequestTimeout = errors.New("request timeout")

// Timeout ограничивает обработку запроса длительностью d.
// Если у контекста уже есть дедлайн, он не переопределяется; d <= 0 отключает мидлвар.
func Timeout(d time.Duration) Middleware {
	if d <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if _, ok := ctx.Deadline(); !ok {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeoutCause(ctx, d, ErrRequestTimeout)
				defer cancel()
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}
