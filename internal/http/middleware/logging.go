package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	logctx "github.com/pribylovaa/go-forum/pkg/log"
)

// Logging кладёт в контекст логгер запроса и по завершении пишет запись "http".
// Уровень зависит от статуса: 5xx - Error, 4xx - Warn.
func Logging(l *slog.Logger) Middleware {
	if l == nil {
		l = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lg := l
			if id := RequestIDFrom(r.Context()); id != "" {
				lg = lg.With(slog.String("request_id", id))
			}
			ctx := logctx.Into(r.Context(), lg)

			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r.WithContext(ctx))

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.Status()),
				slog.Int("bytes", sw.count),
				slog.Duration("dur", time.Since(start)),
			}
			if rctx := chi.RouteContext(ctx); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					attrs = append(attrs, slog.String("route", p))
				}
			}

			lg.LogAttrs(ctx, levelFor(sw.Status()), "http", attrs...)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
