package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pidstore/internal/platform/kafka/producer"
	"pidstore/pkg/platform/middleware/requesttime"
	"pidstore/pkg/testutil"
)

type recordingProducer struct {
	messages []*producer.Message
	err      error
}

func (r *recordingProducer) Produce(_ context.Context, msg *producer.Message) error {
	if r.err != nil {
		return r.err
	}
	r.messages = append(r.messages, msg)
	return nil
}

func TestPersonCreated(t *testing.T) {
	rec := &recordingProducer{}
	pub := NewPublisher(rec, "person.events")
	ctx := requesttime.WithTime(context.Background(), time.Date(2024, 5, 1, 14, 0, 0, 0, time.FixedZone("CEST", 2*3600)))

	require.NoError(t, pub.PersonCreated(ctx, testutil.TestIDs.Person1))
	require.Len(t, rec.messages, 1)

	msg := rec.messages[0]
	assert.Equal(t, "person.events", msg.Topic)
	assert.Equal(t, testutil.TestIDs.Person1.String(), string(msg.Key))
	assert.Equal(t, EventPersonCreated, msg.Headers["event_type"])
	assert.JSONEq(t, `{
		"type": "person.created",
		"external_id": "123e4567-e89b-12d3-a456-426614174000",
		"occurred_at": "2024-05-01T12:00:00Z"
	}`, string(msg.Value))
}

func TestPersonCreated_ProducerError(t *testing.T) {
	pub := NewPublisher(&recordingProducer{err: assert.AnError}, "person.events")

	err := pub.PersonCreated(context.Background(), testutil.TestIDs.Person1)
	assert.ErrorIs(t, err, assert.AnError)
}
