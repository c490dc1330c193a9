// grpc - служебный gRPC-порт форума: grpc.health.v1 с отдельным статусом
// для каждой зависимости, метрики go-grpc-prometheus и reflection в local/dev.
package grpc

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pribylovaa/go-forum/pkg/log"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServicePrefix - префикс имён сервисов в health-ответах ("forum.postgres").
const ServicePrefix = "forum."

// Pinger - зависимость, доступность которой проверяется пингом.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc адаптирует функцию к Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Health периодически пингует зависимости и публикует статусы в health.Server:
// "forum.<name>" для каждой зависимости и "" (общий) - SERVING, только если живы все.
type Health struct {
	srv     *health.Server
	deps    map[string]Pinger
	names   []string
	period  time.Duration
	timeout time.Duration
	ready   atomic.Bool
	closed  atomic.Bool
}

// NewHealth создаёт проверку; до первого Check все статусы NOT_SERVING.
func NewHealth(deps map[string]Pinger, period time.Duration) *Health {
	if period <= 0 {
		period = 15 * time.Second
	}

	h := &Health{
		srv:     health.NewServer(),
		deps:    deps,
		period:  period,
		timeout: period / 2,
	}

	for name := range deps {
		h.names = append(h.names, name)
	}
	sort.Strings(h.names)

	h.srv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	for _, name := range h.names {
		h.srv.SetServingStatus(ServicePrefix+name, healthpb.HealthCheckResponse_NOT_SERVING)
	}

	return h
}

// Server - health.Server для регистрации в grpc.Server.
func (h *Health) Server() *health.Server { return h.srv }

// Ready - результат последней проверки (для /healthz).
func (h *Health) Ready() bool { return h.ready.Load() }

// Check пингует все зависимости параллельно и обновляет статусы.
// Возвращает имена недоступных зависимостей.
func (h *Health) Check(ctx context.Context) []string {
	lg := log.From(ctx).With("op", "transport/grpc/Health.Check")

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	var (
		mu     sync.Mutex
		failed []string
		g      errgroup.Group
	)

	for _, name := range h.names {
		g.Go(func() error {
			st := healthpb.HealthCheckResponse_SERVING
			if err := h.deps[name].Ping(ctx); err != nil {
				st = healthpb.HealthCheckResponse_NOT_SERVING
				lg.Warn("dependency_unhealthy", slog.String("dependency", name), slog.String("err", err.Error()))

				mu.Lock()
				failed = append(failed, name)
				mu.Unlock()
			}
			h.srv.SetServingStatus(ServicePrefix+name, st)
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(failed)

	overall := healthpb.HealthCheckResponse_SERVING
	if len(failed) > 0 {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.srv.SetServingStatus("", overall)
	h.ready.Store(len(failed) == 0 && !h.closed.Load())

	return failed
}

// Run выполняет Check сразу и затем каждые period до отмены ctx.
// По выходу все статусы переводятся в NOT_SERVING.
func (h *Health) Run(ctx context.Context) {
	ticker := time.NewTicker(h.period)
	defer ticker.Stop()

	for {
		h.Check(ctx)

		select {
		case <-ctx.Done():
			h.Shutdown()
			return
		case <-ticker.C:
		}
	}
}

// Shutdown переводит все статусы в NOT_SERVING; последующие Check их не меняют.
func (h *Health) Shutdown() {
	h.closed.Store(true)
	h.ready.Store(false)
	h.srv.Shutdown()
}
