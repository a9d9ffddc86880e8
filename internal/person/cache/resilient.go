package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pidstore/internal/person/models"
	"pidstore/internal/sentinel"
	"pidstore/pkg/domain"
	"pidstore/pkg/platform/circuit"
)

// Backend is the cache contract the resilient wrapper protects.
type Backend interface {
	Get(ctx context.Context, id domain.ExternalID) (*models.Person, error)
	Set(ctx context.Context, person *models.Person) error
}

// Resilient stops calling a failing backend. Consecutive
// sentinel.ErrUnavailable failures open the breaker; calls then fail fast with
// ErrUnavailable apart from the breaker's timed probes. A miss counts as a
// healthy answer.
type Resilient struct {
	backend Backend
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewResilient(backend Backend, breaker *circuit.Breaker, logger *slog.Logger) *Resilient {
	if breaker == nil {
		breaker = circuit.New("person_cache")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resilient{backend: backend, breaker: breaker, logger: logger}
}

func (r *Resilient) Get(ctx context.Context, id domain.ExternalID) (*models.Person, error) {
	if !r.breaker.Allow() {
		return nil, r.openErr()
	}
	person, err := r.backend.Get(ctx, id)
	r.record(ctx, err)
	return person, err
}

func (r *Resilient) Set(ctx context.Context, person *models.Person) error {
	if !r.breaker.Allow() {
		return r.openErr()
	}
	err := r.backend.Set(ctx, person)
	r.record(ctx, err)
	return err
}

func (r *Resilient) openErr() error {
	return fmt.Errorf("circuit %s open: %w", r.breaker.Name(), sentinel.ErrUnavailable)
}

func (r *Resilient) record(ctx context.Context, err error) {
	if errors.Is(err, sentinel.ErrUnavailable) {
		if r.breaker.RecordFailure() {
			r.logger.ErrorContext(ctx, "circuit breaker opened",
				"circuit", r.breaker.Name(),
				"error", err,
			)
		}
		return
	}
	if r.breaker.RecordSuccess() {
		r.logger.InfoContext(ctx, "circuit breaker closed", "circuit", r.breaker.Name())
	}
}
