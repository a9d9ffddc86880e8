//go:build integration

package events_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"pidstore/internal/person/events"
	"pidstore/internal/person/service"
	"pidstore/internal/person/store"
	"pidstore/internal/platform/kafka"
	"pidstore/internal/platform/kafka/producer"
	"pidstore/pkg/testutil"
	"pidstore/pkg/testutil/containers"
)

// TestSaveAnnouncesCreateOnce saves the same person twice and expects exactly
// one person.created record for it.
func TestSaveAnnouncesCreateOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	kc := containers.GetManager().GetKafka(t)
	topic := "person-events-it"
	require.NoError(t, kc.CreateTopic(ctx, topic))

	cfg := kafka.DefaultProducerConfig()
	cfg.Brokers = strings.Join(kc.Brokers, ",")
	prod, err := producer.New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = prod.Close(5 * time.Second) })

	svc := service.New(store.NewInMemory(), service.WithEventPublisher(events.NewPublisher(prod, topic)))
	person := testutil.NewPerson().WithID(testutil.TestIDs.Person2).Build()

	first, err := svc.Save(ctx, person)
	require.NoError(t, err)
	require.True(t, first.Created())
	second, err := svc.Save(ctx, person)
	require.NoError(t, err)
	require.False(t, second.Created())

	id := person.ExternalID.String()
	rec, err := kc.ReadOne(ctx, topic, 15*time.Second, func(r *kgo.Record) bool {
		return string(r.Key) == id
	})
	require.NoError(t, err)
	require.NotNil(t, rec, "no person.created record within the timeout")

	var evt events.PersonCreatedEvent
	require.NoError(t, json.Unmarshal(rec.Value, &evt))
	assert.Equal(t, events.EventPersonCreated, evt.Type)
	assert.Equal(t, id, evt.ExternalID)
	assert.NotContains(t, string(rec.Value), person.Email, "payload carries no personal data")

	dup, err := kc.ReadOne(ctx, topic, 3*time.Second, func(r *kgo.Record) bool {
		return string(r.Key) == id && r.Offset != rec.Offset
	})
	require.NoError(t, err)
	assert.Nil(t, dup, "the repeated save publishes nothing")
}
