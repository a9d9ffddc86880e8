package redis

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pidstore/internal/platform/config"
)

func TestNew_DisabledWithoutURL(t *testing.T) {
	client, err := New(context.Background(), config.RedisConfig{}, nil)
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{URL: "http://not-redis"}, nil)
	assert.ErrorContains(t, err, "parse redis URL")
}

func TestAddDelta(t *testing.T) {
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "delta_test_total"})

	addDelta(c, 5, 0)
	addDelta(c, 8, 5)
	addDelta(c, 3, 8) // pool counters reset, nothing to add
	assert.Equal(t, 8.0, testutil.ToFloat64(c))
}

func TestRecordPoolStats_UpdatesGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPoolMetrics(reg)
	// No server is needed to read pool statistics.
	client := Wrap(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), metrics)
	t.Cleanup(func() { _ = client.Close() })

	client.RecordPoolStats()
	client.RecordPoolStats()

	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.totalConns))
	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}

func TestRunPoolStats_StopsOnCancel(t *testing.T) {
	client := Wrap(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), nil)
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- client.RunPoolStats(ctx, time.Millisecond) }()

	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("RunPoolStats did not return after cancel")
	}
}
