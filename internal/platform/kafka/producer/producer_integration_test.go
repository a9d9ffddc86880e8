//go:build integration

package producer_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"pidstore/internal/platform/kafka"
	"pidstore/internal/platform/kafka/producer"
	"pidstore/pkg/testutil/containers"
)

type ProducerIntegrationSuite struct {
	suite.Suite
	kafka    *containers.KafkaContainer
	producer *producer.Producer
}

func TestProducerIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ProducerIntegrationSuite))
}

func (s *ProducerIntegrationSuite) SetupSuite() {
	s.kafka = containers.GetManager().GetKafka(s.T())

	cfg := kafka.DefaultProducerConfig()
	cfg.Brokers = strings.Join(s.kafka.Brokers, ",")
	cfg.DeliveryTimeout = 10 * time.Second
	prod, err := producer.New(cfg, nil)
	s.Require().NoError(err)
	s.producer = prod
}

func (s *ProducerIntegrationSuite) TearDownSuite() {
	if s.producer != nil {
		_ = s.producer.Close(5 * time.Second)
	}
}

// TestProduceDeliversMessage verifies Produce returns only after the broker
// has the record.
func (s *ProducerIntegrationSuite) TestProduceDeliversMessage() {
	ctx := context.Background()
	topic := "test-produce-sync"
	s.Require().NoError(s.kafka.CreateTopic(ctx, topic))

	err := s.producer.Produce(ctx, &producer.Message{
		Topic:   topic,
		Key:     []byte("test-key"),
		Value:   []byte("test-value"),
		Headers: map[string]string{"event_type": "test"},
	})
	s.Require().NoError(err)

	record, err := s.kafka.ReadOne(ctx, topic, 10*time.Second, func(r *kgo.Record) bool {
		return string(r.Key) == "test-key"
	})
	s.Require().NoError(err)
	s.Require().NotNil(record)
	s.Equal("test-value", string(record.Value))
}

func (s *ProducerIntegrationSuite) TestHealth() {
	s.NoError(s.producer.Health(context.Background()))
}
