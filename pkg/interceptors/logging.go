package interceptors

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-forum/pkg/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

const requestIDKey = "x-request-id"

// UnaryLoggingInterceptor кладёт в контекст request-scoped логгер
// (request_id из metadata x-request-id или новый UUID) и пишет одну запись "grpc"
// на вызов: метод, peer, код статуса и длительность.
func UnaryLoggingInterceptor(l *slog.Logger) grpc.UnaryServerInterceptor {
	if l == nil {
		l = slog.Default()
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		rid := requestID(ctx)
		reqLogger := l.With(slog.String("request_id", rid))
		ctx = log.Into(ctx, reqLogger)

		start := time.Now()
		resp, err := handler(ctx, req)
		dur := time.Since(start)

		peerAddr := "-"
		if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
			peerAddr = p.Addr.String()
		}

		reqLogger.LogAttrs(ctx, slog.LevelInfo, "grpc",
			slog.String("method", info.FullMethod),
			slog.String("peer", peerAddr),
			slog.String("code", status.Code(err).String()),
			slog.Duration("dur", dur),
		)

		return resp, err
	}
}

func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(requestIDKey); len(v) > 0 && v[0] != "" {
			return v[0]
		}
	}
	return uuid.NewString()
}
