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
	"sync/atomic"
	"syscall"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dukestreet/JRAW/internal/cache"
	"github.com/dukestreet/JRAW/internal/config"
	"github.com/dukestreet/JRAW/internal/metrics"
	"github.com/dukestreet/JRAW/internal/redditapi"
	"github.com/dukestreet/JRAW/internal/service"
	"github.com/dukestreet/JRAW/internal/storage/minio"
	"github.com/dukestreet/JRAW/internal/storage/mongo"
	archivergrpc "github.com/dukestreet/JRAW/internal/transport/grpc"
	"github.com/dukestreet/JRAW/pkg/interceptors"
	"github.com/dukestreet/JRAW/pkg/log"

	"google.golang.org/grpc"
	health "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const connectTimeout = 10 * time.Second

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	lg := log.Setup(cfg.Env, os.Stdout)
	slog.SetDefault(lg)
	lg.Info("starting archiver", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	if err := run(rootCtx, cfg, lg); err != nil {
		lg.Error("archiver_failed", slog.String("err", err.Error()))
		rootCancel()
		os.Exit(1)
	}

	lg.Info("service_stopped")
}

// deps — внешние ресурсы процесса; закрываются в обратном порядке.
type deps struct {
	threads   *mongo.Mongo
	snapshots *minio.SnapshotStorage
	cache     cache.ResponseCache
}

func (d *deps) close(lg *slog.Logger) {
	if d.cache != nil {
		if err := d.cache.Close(); err != nil {
			lg.Warn("redis_close_failed", slog.String("err", err.Error()))
		}
	}

	if d.threads != nil {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		if err := d.threads.Close(ctx); err != nil {
			lg.Warn("mongo_close_failed", slog.String("err", err.Error()))
		}
	}
}

func connect(ctx context.Context, cfg *config.Config, lg *slog.Logger) (*deps, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	d := &deps{}

	threads, err := mongo.New(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	d.threads = threads
	lg.Info("mongo_connected")

	snapshots, err := minio.New(ctx, cfg.S3)
	if err != nil {
		d.close(lg)
		return nil, err
	}
	d.snapshots = snapshots
	lg.Info("minio_connected", slog.String("bucket", cfg.S3.Bucket))

	if cfg.Cache.Enabled() {
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL, cfg.Cache.Prefix)
		if err != nil {
			d.close(lg)
			return nil, err
		}
		d.cache = rc
		lg.Info("redis_connected", slog.Duration("ttl", cfg.Cache.TTL))
	}

	return d, nil
}

func run(ctx context.Context, cfg *config.Config, lg *slog.Logger) error {
	d, err := connect(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer d.close(lg)

	m := metrics.New(prometheus.DefaultRegisterer)

	apiOpts := []redditapi.Option{redditapi.WithMetrics(m)}
	if d.cache != nil {
		apiOpts = append(apiOpts, redditapi.WithCache(d.cache, cfg.Cache.TTL))
	}

	api, err := redditapi.New(cfg.API, apiOpts...)
	if err != nil {
		return err
	}

	svc := service.New(api, d.threads, d.snapshots,
		service.WithMetrics(m),
		service.WithCommentLimit(cfg.Archive.CommentLimit),
	)
	lg.Info("service_initialized")

	var ready atomic.Bool
	httpSrv := newHTTPServer(cfg.HTTP.Addr(), &ready)

	go func() {
		lg.Info("http_listen_start", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}()

	grpc_prometheus.EnableHandlingTimeHistogram()

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			interceptors.Recover(lg),
			interceptors.UnaryLoggingInterceptor(lg),
			interceptors.WithTimeout(cfg.Timeouts.Service, map[string]time.Duration{
				archivergrpc.ArchiveThreadMethod: cfg.Timeouts.Archive,
				archivergrpc.RestoreThreadMethod: cfg.Timeouts.Archive,
			}),
			grpc_prometheus.UnaryServerInterceptor,
		),
		grpc.ChainStreamInterceptor(
			grpc_prometheus.StreamServerInterceptor,
		),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	archivergrpc.RegisterArchiverServiceServer(grpcServer, archivergrpc.NewArchiverServer(svc))

	if cfg.Env == log.EnvLocal || cfg.Env == log.EnvDev {
		reflection.Register(grpcServer)
	}

	addr := cfg.GRPC.Addr()
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		_ = httpSrv.Shutdown(context.Background())
		return err
	}
	lg.Info("grpc_listen_start", slog.String("addr", addr))

	grpc_prometheus.Register(grpcServer)

	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	ready.Store(true)

	serveErrCh := make(chan error, 1)
	go func() {
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		lg.Info("shutdown_requested")
	case serveErr = <-serveErrCh:
		if serveErr != nil {
			lg.Error("grpc_serve_failed", slog.String("err", serveErr.Error()))
		}
	}

	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	ready.Store(false)

	stopGRPC(grpcServer, lg)
	_ = httpSrv.Shutdown(context.Background())

	return serveErr
}

// newHTTPServer — liveness, readiness и метрики.
func newHTTPServer(addr string, ready *atomic.Bool) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if !ready.Load() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// stopGRPC дожидается текущих вызовов, но не дольше connectTimeout.
func stopGRPC(s *grpc.Server, lg *slog.Logger) {
	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()

	timer := time.NewTimer(connectTimeout)
	defer timer.Stop()

	select {
	case <-done:
		lg.Info("grpc_stopped")
	case <-timer.C:
		lg.Warn("grpc_force_stop")
		s.Stop()
	}
}
