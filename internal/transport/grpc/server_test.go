package grpc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

// flaky - зависимость с переключаемой доступностью.
type flaky struct{ down atomic.Bool }

func (f *flaky) Ping(context.Context) error {
	if f.down.Load() {
		return errors.New("connection refused")
	}
	return nil
}

// startGRPC поднимает bufconn-сервер и возвращает health-клиент.
func startGRPC(t *testing.T, h *Health) healthpb.HealthClient {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	srv := NewServer(h, ServerOptions{
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Timeout:    time.Second,
		Reflection: true,
	})

	go func() { _ = srv.Serve(lis) }()

	dialer := func(context.Context, string) (net.Conn, error) { return lis.Dial() }
	cc, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = cc.Close()
		srv.Stop()
	})

	return healthpb.NewHealthClient(cc)
}

func serving(t *testing.T, c healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()

	resp, err := c.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestHealth_PerDependencyStatus(t *testing.T) {
	pg, mongo := &flaky{}, &flaky{}
	h := NewHealth(map[string]Pinger{"postgres": pg, "mongo": mongo}, time.Minute)
	client := startGRPC(t, h)

	// До первой проверки сервис не готов.
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, serving(t, client, ""))
	require.False(t, h.Ready())

	require.Empty(t, h.Check(context.Background()))
	require.True(t, h.Ready())
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, serving(t, client, ""))
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, serving(t, client, "forum.postgres"))

	mongo.down.Store(true)
	require.Equal(t, []string{"mongo"}, h.Check(context.Background()))
	require.False(t, h.Ready())
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, serving(t, client, ""))
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, serving(t, client, "forum.mongo"))
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, serving(t, client, "forum.postgres"))
}

func TestHealth_UnknownService(t *testing.T) {
	h := NewHealth(map[string]Pinger{"redis": PingFunc(func(context.Context) error { return nil })}, time.Minute)
	client := startGRPC(t, h)

	_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "forum.kafka"})
	require.Equal(t, codes.NotFound, status.Code(err))
}

func TestHealth_RunStopsAndShutsDown(t *testing.T) {
	h := NewHealth(map[string]Pinger{"s3": &flaky{}}, 10*time.Millisecond)
	client := startGRPC(t, h)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	require.Eventually(t, h.Ready, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}

	require.False(t, h.Ready())
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, serving(t, client, "forum.s3"))

	// После Shutdown проверки статус не возвращают.
	h.Check(context.Background())
	require.False(t, h.Ready())
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, serving(t, client, ""))
}
