// Package tracer is a small tracing facade used by the person service.
//
// Callers depend on the Tracer interface only. NoopTracer serves tests and
// deployments without a collector; OTelTracer forwards to OpenTelemetry's
// global provider.
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span. A non-nil err marks the span as failed.
	// End must be called exactly once.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanPersonSave = "person.save"
	SpanPersonGet  = "person.get"
)

// Attribute keys. Person payload fields other than the identifier never go
// into spans.
const (
	AttrExternalID = "person.external_id"
	AttrOutcome    = "person.save.outcome"
	AttrCacheHit   = "cache.hit"
)

// Event names.
const (
	EventEventPublished = "event.published"
)
