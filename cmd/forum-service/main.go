package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"

	"github.com/pribylovaa/go-forum/internal/cache"
	"github.com/pribylovaa/go-forum/internal/config"
	"github.com/pribylovaa/go-forum/internal/events"
	forumhttp "github.com/pribylovaa/go-forum/internal/http"
	"github.com/pribylovaa/go-forum/internal/http/middleware"
	"github.com/pribylovaa/go-forum/internal/moderation"
	"github.com/pribylovaa/go-forum/internal/pages"
	"github.com/pribylovaa/go-forum/internal/service"
	"github.com/pribylovaa/go-forum/internal/session"
	"github.com/pribylovaa/go-forum/internal/storage/minio"
	"github.com/pribylovaa/go-forum/internal/storage/mongo"
	"github.com/pribylovaa/go-forum/internal/storage/postgres"
	admingrpc "github.com/pribylovaa/go-forum/internal/transport/grpc"
	logctx "github.com/pribylovaa/go-forum/pkg/log"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting forum-service", "env", cfg.Env)

	if err := run(cfg, log); err != nil {
		log.Error("service_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	log.Info("service_stopped")
}

func run(cfg *config.Config, log *slog.Logger) error {
	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	rootCtx = logctx.Into(rootCtx, log)

	if dir := cfg.Postgres.MigrationsDir; dir != "" {
		migCtx, migCancel := context.WithTimeout(rootCtx, 30*time.Second)
		n, err := postgres.Migrate(migCtx, cfg.Postgres.URL, dir)
		migCancel()
		if err != nil {
			log.Error("migrations_failed", slog.String("err", err.Error()))
			return err
		}
		log.Info("migrations_applied", slog.Int("count", n))
	}

	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	pg, err := postgres.New(dbCtx, cfg.Postgres.URL)
	dbCancel()
	if err != nil {
		log.Error("postgres_connect_failed", slog.String("err", err.Error()))
		return err
	}
	defer pg.Close()
	log.Info("postgres_connected")

	mgCtx, mgCancel := context.WithTimeout(rootCtx, 10*time.Second)
	mg, err := mongo.New(mgCtx, cfg.Mongo.URL)
	mgCancel()
	if err != nil {
		log.Error("mongo_connect_failed", slog.String("err", err.Error()))
		return err
	}
	defer func() { _ = mg.Close(context.Background()) }()
	log.Info("mongo_connected")

	deps := service.Deps{Storage: pg, Comments: mg}
	checks := map[string]admingrpc.Pinger{"postgres": pg, "mongo": mg}

	if cfg.Redis.URL != "" {
		rCtx, rCancel := context.WithTimeout(rootCtx, 5*time.Second)
		rc, err := cache.New(rCtx, cfg.Redis.URL, cfg.Redis.Prefix)
		rCancel()
		if err != nil {
			log.Error("redis_connect_failed", slog.String("err", err.Error()))
			return err
		}
		defer func() { _ = rc.Close() }()

		deps.RefreshCache = rc.Refresh()
		deps.VoteCache = rc.Votes(cfg.Redis.VoteCountTTL)
		checks["redis"] = rc
		log.Info("redis_connected")
	} else {
		log.Warn("redis_disabled")
	}

	if cfg.S3.Endpoint != "" {
		s3Ctx, s3Cancel := context.WithTimeout(rootCtx, 10*time.Second)
		av, err := minio.New(s3Ctx, cfg.S3, cfg.Avatar)
		s3Cancel()
		if err != nil {
			log.Error("minio_connect_failed", slog.String("err", err.Error()))
			return err
		}

		deps.Avatars = av
		checks["s3"] = av
		log.Info("minio_connected")
	} else {
		log.Warn("avatars_disabled")
	}

	var kafka *events.Kafka
	if len(cfg.Kafka.Brokers) > 0 {
		kafka = events.NewKafka(cfg.Kafka, log)
		defer func() {
			if err := kafka.Close(); err != nil {
				log.Warn("kafka_close_failed", slog.String("err", err.Error()))
			}
		}()

		deps.Publisher = kafka
		log.Info("kafka_publisher_ready", slog.String("topic", cfg.Kafka.Topic))
	} else {
		log.Warn("events_disabled")
	}

	filter, err := moderation.New(cfg.Moderation.BannedWords)
	if err != nil {
		log.Error("moderation_init_failed", slog.String("err", err.Error()))
		return err
	}
	deps.Moderation = filter

	pgs, err := pages.Load()
	if err != nil {
		log.Error("pages_load_failed", slog.String("err", err.Error()))
		return err
	}
	deps.Pages = pgs

	svc := service.New(deps, cfg)
	defer svc.Sessions().Close()
	log.Info("service_initialized")

	go svc.RunJanitor(rootCtx)

	if kafka != nil {
		go func() {
			if err := events.ForwardSessions(rootCtx, svc.Sessions(), kafka); err != nil {
				log.Warn("session_forwarding_stopped", slog.String("err", err.Error()))
			}
		}()
	}

	hc := admingrpc.NewHealth(checks, cfg.GRPC.HealthPeriod)
	hc.Check(rootCtx)
	go hc.Run(rootCtx)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Cleanup)
	defer limiter.Stop()

	apiHandler := forumhttp.NewRouter(svc, forumhttp.Options{
		Logger:      log,
		Timeout:     cfg.Timeouts.Service,
		BasePath:    cfg.HTTP.BasePath,
		CORS:        cfg.CORS,
		RateLimiter: limiter,
		Heartbeat:   cfg.Sessions.Heartbeat,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if hc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})

	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", apiHandler)

	// Запросы не наследуют rootCtx: сигнал не должен обрывать их до drain в Shutdown.
	srvCtx := logctx.Into(context.Background(), log)

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return srvCtx },
	}

	httpLn, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		return err
	}

	grpcSrv := admingrpc.NewServer(hc, admingrpc.ServerOptions{
		Logger:     log,
		Timeout:    cfg.Timeouts.Service,
		Reflection: cfg.Env == envLocal || cfg.Env == envDev,
	})

	grpcAddr := cfg.GRPC.Addr()
	grpcLn, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		_ = httpLn.Close()
		log.Error("grpc_listen_failed", slog.String("addr", grpcAddr), slog.String("err", err.Error()))
		return err
	}

	serveErrCh := make(chan error, 2)

	go func() {
		log.Info("http_listen_start", slog.String("addr", httpAddr))
		if err := httpSrv.Serve(httpLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
	}()

	go func() {
		log.Info("grpc_listen_start", slog.String("addr", grpcAddr))
		if err := grpcSrv.Serve(grpcLn); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			serveErrCh <- err
		}
	}()

	log.Info("forum_ready")

	var serveErr error
	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case serveErr = <-serveErrCh:
		log.Error("serve_failed", slog.String("err", serveErr.Error()))
	}

	hc.Shutdown()
	shutdown(log, httpSrv, grpcSrv, svc.Sessions(), cfg.Timeouts.Shutdown)

	return serveErr
}

// shutdown останавливает HTTP и gRPC в пределах timeout.
func shutdown(log *slog.Logger, httpSrv *http.Server, grpcSrv *grpc.Server, sessions *session.Broker, timeout time.Duration) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := stopHTTP(ctx, httpSrv, sessions); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	done := make(chan struct{})
	go func() {
		grpcSrv.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		log.Info("grpc_stopped")
	case <-ctx.Done():
		log.Warn("grpc_force_stop")
		grpcSrv.Stop()
	}
}

// stopHTTP закрывает брокер сессий (SSE-стримы завершаются сами) и ждёт остальные запросы.
// Не уложились в ctx - соединения закрываются принудительно.
func stopHTTP(ctx context.Context, srv *http.Server, sessions *session.Broker) error {
	sessions.Close()

	if err := srv.Shutdown(ctx); err != nil {
		_ = srv.Close()
		return err
	}

	return nil
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
