package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"pidstore/internal/platform/config"
	"pidstore/internal/platform/health"
	"pidstore/internal/platform/logger"
	"pidstore/internal/platform/metrics"
	"pidstore/internal/seeder"
	httptransport "pidstore/internal/transport/http"
	"pidstore/pkg/platform/middleware/metadata"
	"pidstore/pkg/platform/middleware/request"
)

const (
	shutdownTimeout   = 10 * time.Second
	statsInterval     = 15 * time.Second
	readHeaderTimeout = 5 * time.Second
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	log.Info("initializing pidstore",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"database_driver", cfg.Database.Driver,
		"cache_enabled", cfg.Redis.URL != "",
		"events_enabled", cfg.Kafka.Brokers != "",
	)

	m := metrics.New(health.Version)
	healthHandler := health.New(cfg.Environment)

	deps, err := buildPersonModule(ctx, cfg, log, m, healthHandler)
	if err != nil {
		return err
	}
	defer deps.Close(log)

	if cfg.SeedDemo {
		if cfg.IsProduction() {
			log.Warn("seed_demo ignored in production")
		} else if _, err := seeder.New(deps.Service, log).SeedAll(ctx); err != nil {
			return err
		}
	}

	proxies, err := metadata.ParseTrustedProxies(cfg.HTTP.TrustedProxies)
	if err != nil {
		return fmt.Errorf("parse trusted proxies: %w", err)
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:         log,
		Gatherer:       m.Registry,
		HTTPMetrics:    request.NewMetrics(m.Registry),
		RequestTimeout: cfg.HTTP.RequestTimeout,
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
		TrustedProxies: proxies,
	}, healthHandler, deps.Handler)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	if deps.Redis != nil {
		g.Go(func() error {
			return deps.Redis.RunPoolStats(gctx, statsInterval)
		})
	}

	if deps.Pool != nil {
		g.Go(func() error {
			ticker := time.NewTicker(statsInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					m.ObserveDBStats(deps.Pool.Stats())
				}
			}
		})
	}

	return g.Wait()
}
