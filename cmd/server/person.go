package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pidstore/internal/person/cache"
	"pidstore/internal/person/events"
	personhandler "pidstore/internal/person/handler"
	personmetrics "pidstore/internal/person/metrics"
	"pidstore/internal/person/service"
	"pidstore/internal/person/store"
	"pidstore/internal/platform/config"
	"pidstore/internal/platform/database"
	"pidstore/internal/platform/health"
	"pidstore/internal/platform/kafka"
	"pidstore/internal/platform/kafka/producer"
	"pidstore/internal/platform/metrics"
	"pidstore/internal/platform/redis"
	"pidstore/internal/platform/tracer"
	"pidstore/pkg/platform/circuit"
	"pidstore/pkg/platform/tx"
)

const producerCloseTimeout = 5 * time.Second

// personModule holds the person service wiring and the connections it owns.
type personModule struct {
	Service  *service.Service
	Handler  *personhandler.Handler
	Pool     *database.Pool
	Redis    *redis.Client
	Producer *producer.Producer
}

func buildPersonModule(ctx context.Context, cfg *config.Config, log *slog.Logger, m *metrics.Metrics, hh *health.Handler) (*personModule, error) {
	mod := &personModule{}
	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(personmetrics.New(m.Registry)),
		service.WithTracer(tracer.NewOTel()),
	}

	personStore, err := mod.openStore(ctx, cfg.Database, hh, &opts)
	if err != nil {
		mod.Close(log)
		return nil, err
	}

	if err := mod.openCache(ctx, cfg.Redis, log, m, hh, &opts); err != nil {
		mod.Close(log)
		return nil, err
	}

	if err := mod.openEvents(cfg.Kafka, log, hh, &opts); err != nil {
		mod.Close(log)
		return nil, err
	}

	mod.Service = service.New(personStore, opts...)
	mod.Handler = personhandler.New(mod.Service, log)
	return mod, nil
}

func (mod *personModule) openStore(ctx context.Context, cfg config.DatabaseConfig, hh *health.Handler, opts *[]service.Option) (service.Store, error) {
	pool, err := database.New(ctx, database.Config{
		Driver:          cfg.Driver,
		URL:             cfg.URL,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if pool == nil {
		return store.NewInMemory(), nil
	}
	mod.Pool = pool

	if err := database.EnsureSchema(ctx, pool.DB(), pool.Driver()); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	dialect, err := store.DialectFor(pool.Driver())
	if err != nil {
		return nil, err
	}

	hh.RegisterCheck("database", pool.Health)
	*opts = append(*opts, service.WithTx(tx.NewSQLRunner(pool.DB(), tx.WithTimeout(cfg.TxTimeout))))
	return store.NewSQL(pool.DB(), dialect), nil
}

func (mod *personModule) openCache(ctx context.Context, cfg config.RedisConfig, log *slog.Logger, m *metrics.Metrics, hh *health.Handler, opts *[]service.Option) error {
	client, err := redis.New(ctx, cfg, redis.NewPoolMetrics(m.Registry))
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if client == nil {
		return nil
	}
	mod.Redis = client

	hh.RegisterCheck("redis", client.Health)
	resilient := cache.NewResilient(cache.NewRedis(client, cfg.CacheTTL), circuit.New("person_cache"), log)
	*opts = append(*opts, service.WithCache(resilient))
	return nil
}

func (mod *personModule) openEvents(cfg config.KafkaConfig, log *slog.Logger, hh *health.Handler, opts *[]service.Option) error {
	if cfg.Brokers == "" {
		return nil
	}
	p, err := producer.New(kafka.ProducerConfig{
		Brokers:         cfg.Brokers,
		Acks:            cfg.Acks,
		Retries:         cfg.Retries,
		DeliveryTimeout: cfg.DeliveryTimeout,
	}, log)
	if err != nil {
		return fmt.Errorf("create kafka producer: %w", err)
	}
	mod.Producer = p

	hh.RegisterCheck("kafka", p.Health)
	*opts = append(*opts,
		service.WithEventPublisher(events.NewPublisher(p, cfg.Topic)),
		service.WithPublishTimeout(cfg.PublishTimeout),
	)
	return nil
}

// Close releases connections in reverse order of creation.
func (mod *personModule) Close(log *slog.Logger) {
	if mod.Producer != nil {
		if err := mod.Producer.Close(producerCloseTimeout); err != nil {
			log.Warn("close kafka producer", "error", err)
		}
	}
	if mod.Redis != nil {
		if err := mod.Redis.Close(); err != nil {
			log.Warn("close redis", "error", err)
		}
	}
	if mod.Pool != nil {
		if err := mod.Pool.Close(); err != nil {
			log.Warn("close database", "error", err)
		}
	}
}
