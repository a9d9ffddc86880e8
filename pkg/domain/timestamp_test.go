package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "pidstore/pkg/domain-errors"
)

func TestParseTimestamp(t *testing.T) {
	valid := []struct {
		in   string
		want time.Time
	}{
		{"2020-01-01", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"1990-05-15T10:30", time.Date(1990, 5, 15, 10, 30, 0, 0, time.UTC)},
		{"2020-01-01T12:12:34", time.Date(2020, 1, 1, 12, 12, 34, 0, time.UTC)},
		{"2020-01-01T12:12:34+00:00", time.Date(2020, 1, 1, 12, 12, 34, 0, time.UTC)},
		{"2020-01-01T12:12:34Z", time.Date(2020, 1, 1, 12, 12, 34, 0, time.UTC)},
		{"2020-01-01T14:12:34+02:00", time.Date(2020, 1, 1, 12, 12, 34, 0, time.UTC)},
		{"2020-01-01T14:12:34+0200", time.Date(2020, 1, 1, 12, 12, 34, 0, time.UTC)},
		{"2020-01-01T12:12:34.250Z", time.Date(2020, 1, 1, 12, 12, 34, 250_000_000, time.UTC)},
		{"2020-01-01 12:12:34", time.Date(2020, 1, 1, 12, 12, 34, 0, time.UTC)},
	}
	for _, tc := range valid {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseTimestamp(tc.in)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	for _, in := range []string{"", "yesterday", "2020-13-01", "01/02/2020", "2020-01-01T25:00"} {
		t.Run("rejects "+in, func(t *testing.T) {
			_, err := ParseTimestamp(in)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTimestamp))
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2020, 1, 1, 14, 12, 34, 0, time.FixedZone("", 2*3600))
	assert.Equal(t, "2020-01-01T12:12:34Z", FormatTimestamp(ts))
}
