// Package events announces newly created person records on Kafka. Payloads
// carry the identifier and creation time only; no personal data leaves the
// store this way.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"pidstore/internal/platform/kafka/producer"
	"pidstore/pkg/domain"
	"pidstore/pkg/platform/middleware/requesttime"
)

const (
	EventPersonCreated = "person.created"
	headerEventType    = "event_type"
)

// Producer is the subset of the platform Kafka producer the publisher needs.
type Producer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// PersonCreatedEvent is the JSON payload published per created record.
type PersonCreatedEvent struct {
	Type       string `json:"type"`
	ExternalID string `json:"external_id"`
	OccurredAt string `json:"occurred_at"`
}

type Publisher struct {
	producer Producer
	topic    string
}

func NewPublisher(p Producer, topic string) *Publisher {
	return &Publisher{producer: p, topic: topic}
}

// PersonCreated publishes the event keyed by external id so all events for
// one record land on the same partition.
func (p *Publisher) PersonCreated(ctx context.Context, id domain.ExternalID) error {
	payload, err := json.Marshal(PersonCreatedEvent{
		Type:       EventPersonCreated,
		ExternalID: id.String(),
		OccurredAt: domain.FormatTimestamp(requesttime.Now(ctx)),
	})
	if err != nil {
		return fmt.Errorf("encode %s event: %w", EventPersonCreated, err)
	}

	err = p.producer.Produce(ctx, &producer.Message{
		Topic:   p.topic,
		Key:     []byte(id.String()),
		Value:   payload,
		Headers: map[string]string{headerEventType: EventPersonCreated},
	})
	if err != nil {
		return fmt.Errorf("publish %s event: %w", EventPersonCreated, err)
	}
	return nil
}
