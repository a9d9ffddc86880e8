package producer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pidstore/internal/platform/kafka"
)

func TestNew_RequiresBrokers(t *testing.T) {
	_, err := New(kafka.ProducerConfig{Brokers: " , "}, nil)
	assert.Error(t, err)
}

func TestClosedProducerRejectsMessages(t *testing.T) {
	cfg := kafka.DefaultProducerConfig()
	cfg.Brokers = "127.0.0.1:1"
	p, err := New(cfg, nil)
	require.NoError(t, err)

	require.NoError(t, p.Close(100*time.Millisecond))
	require.NoError(t, p.Close(100*time.Millisecond), "close is idempotent")

	err = p.Produce(context.Background(), &Message{Topic: "t", Value: []byte("v")})
	assert.ErrorContains(t, err, "closed")
	assert.Error(t, p.Health(context.Background()))
}
