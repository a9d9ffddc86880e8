package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	personmetrics "pidstore/internal/person/metrics"
	"pidstore/internal/person/models"
	"pidstore/internal/platform/tracer"
	"pidstore/internal/sentinel"
	"pidstore/pkg/domain"
	dErrors "pidstore/pkg/domain-errors"
	pidsync "pidstore/pkg/platform/sync"
	"pidstore/pkg/requestcontext"
)

// Store is the persistence contract. Create must reject a duplicate key with
// sentinel.ErrAlreadyUsed; FindByID reports a missing key with
// sentinel.ErrNotFound.
type Store interface {
	Create(ctx context.Context, person *models.Person) error
	FindByID(ctx context.Context, id domain.ExternalID) (*models.Person, error)
}

// Cache holds fetched records. Get reports a miss with sentinel.ErrNotFound.
type Cache interface {
	Get(ctx context.Context, id domain.ExternalID) (*models.Person, error)
	Set(ctx context.Context, person *models.Person) error
}

type EventPublisher interface {
	PersonCreated(ctx context.Context, id domain.ExternalID) error
}

// Service implements save-if-absent and fetch-by-id for person records.
type Service struct {
	store     Store
	tx        StoreTx
	cache     Cache
	publisher EventPublisher
	logger    *slog.Logger
	metrics   *personmetrics.Metrics
	tracer    tracer.Tracer
	locks     *pidsync.ShardedMutex

	publishTimeout time.Duration
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:          store,
		locks:          pidsync.NewShardedMutex(),
		publishTimeout: defaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = newInMemoryStoreTx()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.tracer == nil {
		s.tracer = tracer.NewNoop()
	}
	return s
}

// Save persists the person unless a record with the same external id exists.
// Both outcomes are successes; the existing record is never modified.
func (s *Service) Save(ctx context.Context, person *models.Person) (*models.SaveResult, error) {
	if person == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "person is required")
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanPersonSave,
		tracer.String(tracer.AttrExternalID, person.ExternalID.String()))
	start := time.Now()

	result := &models.SaveResult{ExternalID: person.ExternalID}
	err := s.locks.WithLock(person.ExternalID.String(), func() error {
		return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			outcome, err := s.createIfAbsent(txCtx, person)
			result.Outcome = outcome
			return err
		})
	})
	if s.metrics != nil {
		s.metrics.ObserveSave(start)
	}
	if err != nil {
		span.End(err)
		s.incSave(personmetrics.OutcomeError)
		s.logger.ErrorContext(ctx, "failed to save person",
			s.attrs(ctx, "external_id", person.ExternalID.String(), "error", err)...)
		return nil, wrapStoreErr(err, "failed to save person")
	}
	span.SetAttributes(tracer.String(tracer.AttrOutcome, string(result.Outcome)))

	if !result.Created() {
		span.End(nil)
		s.incSave(personmetrics.OutcomeAlreadyExists)
		s.logger.WarnContext(ctx, result.Message(),
			s.attrs(ctx, "external_id", person.ExternalID.String())...)
		return result, nil
	}

	s.incSave(personmetrics.OutcomeCreated)
	s.logger.InfoContext(ctx, result.Message(),
		s.attrs(ctx, "external_id", person.ExternalID.String())...)
	s.publishCreated(ctx, span, person.ExternalID)
	span.End(nil)
	return result, nil
}

// createIfAbsent runs inside the transaction. The FindByID pre-check avoids a
// doomed insert; the store's key constraint still decides concurrent races.
func (s *Service) createIfAbsent(ctx context.Context, person *models.Person) (models.SaveOutcome, error) {
	_, err := s.store.FindByID(ctx, person.ExternalID)
	switch {
	case err == nil:
		return models.OutcomeAlreadyExists, nil
	case !errors.Is(err, sentinel.ErrNotFound):
		return "", err
	}

	if err := s.store.Create(ctx, person); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return models.OutcomeAlreadyExists, nil
		}
		return "", err
	}
	return models.OutcomeCreated, nil
}

// publishCreated runs after commit. Delivery failures are logged and counted
// but never fail the save. The publish gets its own deadline, detached from
// the request's cancellation, so unreachable brokers delay a response by at
// most publishTimeout.
func (s *Service) publishCreated(ctx context.Context, span tracer.Span, id domain.ExternalID) {
	if s.publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()
	if err := s.publisher.PersonCreated(pubCtx, id); err != nil {
		if s.metrics != nil {
			s.metrics.IncEventFailure()
		}
		s.logger.WarnContext(ctx, "failed to publish person created event",
			s.attrs(ctx, "external_id", id.String(), "error", err)...)
		return
	}
	span.AddEvent(tracer.EventEventPublished)
}

// Get returns the stored record for id, consulting the cache first when one
// is configured.
func (s *Service) Get(ctx context.Context, id domain.ExternalID) (*models.Person, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanPersonGet,
		tracer.String(tracer.AttrExternalID, id.String()))

	if person, ok := s.fromCache(ctx, id); ok {
		span.SetAttributes(tracer.Bool(tracer.AttrCacheHit, true))
		span.End(nil)
		s.incFetch(personmetrics.OutcomeFound)
		s.logger.InfoContext(ctx, "person found", s.attrs(ctx, "external_id", id.String(), "cache", true)...)
		return person, nil
	}

	var person *models.Person
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		person, findErr = s.store.FindByID(txCtx, id)
		return findErr
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			span.End(nil)
			s.incFetch(personmetrics.OutcomeNotFound)
			msg := models.NotFoundMessage(id)
			s.logger.WarnContext(ctx, msg, s.attrs(ctx, "external_id", id.String())...)
			return nil, dErrors.New(dErrors.CodeNotFound, msg)
		}
		span.End(err)
		s.incFetch(personmetrics.OutcomeError)
		s.logger.ErrorContext(ctx, "failed to fetch person",
			s.attrs(ctx, "external_id", id.String(), "error", err)...)
		return nil, wrapStoreErr(err, "failed to fetch person")
	}

	s.toCache(ctx, person)
	span.End(nil)
	s.incFetch(personmetrics.OutcomeFound)
	s.logger.InfoContext(ctx, "person found", s.attrs(ctx, "external_id", id.String())...)
	return person, nil
}

func (s *Service) fromCache(ctx context.Context, id domain.ExternalID) (*models.Person, bool) {
	if s.cache == nil {
		return nil, false
	}
	person, err := s.cache.Get(ctx, id)
	switch {
	case err == nil:
		s.incCacheLookup("hit")
		return person, true
	case errors.Is(err, sentinel.ErrNotFound):
		s.incCacheLookup("miss")
	default:
		s.incCacheLookup("error")
		s.logger.WarnContext(ctx, "person cache read failed",
			s.attrs(ctx, "external_id", id.String(), "error", err)...)
	}
	return nil, false
}

func (s *Service) toCache(ctx context.Context, person *models.Person) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, person); err != nil {
		s.logger.WarnContext(ctx, "person cache write failed",
			s.attrs(ctx, "external_id", person.ExternalID.String(), "error", err)...)
	}
}

// wrapStoreErr translates infrastructure failures into domain errors. Codes
// already present on err (e.g. a transaction timeout) are preserved.
func wrapStoreErr(err error, action string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "request timed out")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, action)
}

func (s *Service) attrs(ctx context.Context, attributes ...any) []any {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	return attributes
}

func (s *Service) incSave(outcome string) {
	if s.metrics != nil {
		s.metrics.IncSave(outcome)
	}
}

func (s *Service) incFetch(outcome string) {
	if s.metrics != nil {
		s.metrics.IncFetch(outcome)
	}
}

func (s *Service) incCacheLookup(result string) {
	if s.metrics != nil {
		s.metrics.IncCacheLookup(result)
	}
}
