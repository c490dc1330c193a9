package grpc

import (
	"log/slog"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/pribylovaa/go-forum/pkg/interceptors"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServerOptions - параметры служебного gRPC-сервера.
type ServerOptions struct {
	Logger  *slog.Logger
	Timeout time.Duration
	// Reflection включает grpc reflection (local/dev).
	Reflection bool
}

// NewServer собирает grpc.Server с интерсепторами и зарегистрированным health.
func NewServer(h *Health, opts ServerOptions) *grpc.Server {
	grpc_prometheus.EnableHandlingTimeHistogram()

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			interceptors.Recover(opts.Logger),
			interceptors.UnaryLoggingInterceptor(opts.Logger),
			interceptors.WithTimeout(opts.Timeout),
			grpc_prometheus.UnaryServerInterceptor,
		),
		grpc.ChainStreamInterceptor(
			grpc_prometheus.StreamServerInterceptor,
		),
	)

	healthpb.RegisterHealthServer(srv, h.Server())

	if opts.Reflection {
		reflection.Register(srv)
	}

	grpc_prometheus.Register(srv)

	return srv
}
