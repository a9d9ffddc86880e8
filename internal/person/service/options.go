package service

import (
	"log/slog"
	"time"

	personmetrics "pidstore/internal/person/metrics"
	"pidstore/internal/platform/tracer"
)

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *personmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithTx replaces the in-memory transaction runner, e.g. with a
// tx.SQLRunner for SQL-backed stores.
func WithTx(tx StoreTx) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

// WithCache enables read-through caching on fetch.
func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

const defaultPublishTimeout = 2 * time.Second

// WithPublishTimeout bounds how long a created save waits for its event to be
// acknowledged. Non-positive values keep the default.
func WithPublishTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.publishTimeout = d
		}
	}
}

// WithEventPublisher announces newly created records.
func WithEventPublisher(p EventPublisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}
