package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	for driver, want := range map[string]string{
		"postgres": "postgres",
		"pgx":      "postgres",
		"sqlite":   "sqlite",
		"mysql":    "mysql",
	} {
		d, err := DialectFor(driver)
		require.NoError(t, err, driver)
		assert.Equal(t, want, d.Name)
	}

	_, err := DialectFor("oracle")
	assert.Error(t, err)
}

func TestDecodeTime(t *testing.T) {
	want := time.Date(1990, 1, 1, 12, 30, 0, 0, time.UTC)

	t.Run("time value is normalized to utc", func(t *testing.T) {
		got, err := decodeTime(want.In(time.FixedZone("CET", 3600)))
		require.NoError(t, err)
		assert.True(t, want.Equal(got))
		assert.Equal(t, time.UTC, got.Location())
	})

	t.Run("rfc3339 text", func(t *testing.T) {
		got, err := decodeTime("1990-01-01T12:30:00Z")
		require.NoError(t, err)
		assert.True(t, want.Equal(got))
	})

	t.Run("mysql datetime bytes", func(t *testing.T) {
		got, err := decodeTime([]byte("1990-01-01 12:30:00.000000"))
		require.NoError(t, err)
		assert.True(t, want.Equal(got))
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := decodeTime(42)
		assert.Error(t, err)
	})

	t.Run("garbage text", func(t *testing.T) {
		_, err := decodeTime("yesterday")
		assert.Error(t, err)
	})
}

func TestSQLiteEncodeTimeRoundTrips(t *testing.T) {
	in := time.Date(2000, 2, 29, 23, 59, 59, 123456789, time.FixedZone("", -5*3600))
	encoded, ok := SQLite.encodeTime(in).(string)
	require.True(t, ok)

	got, err := decodeTime(encoded)
	require.NoError(t, err)
	assert.True(t, in.Equal(got))
}
