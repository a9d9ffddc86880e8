package domain

import (
	"strings"
	"time"

	dErrors "pidstore/pkg/domain-errors"
)

// timestampLayouts lists the ISO 8601 shapes accepted for dates of birth.
// Fractional seconds need no layout of their own: time.Parse accepts them
// after a seconds field.
var timestampLayouts = buildTimestampLayouts()

func buildTimestampLayouts() []string {
	layouts := []string{time.DateOnly}
	for _, sep := range []string{"T", " "} {
		for _, clock := range []string{"15:04:05", "15:04"} {
			for _, zone := range []string{"Z07:00", "Z0700", "Z07", ""} {
				layouts = append(layouts, time.DateOnly+sep+clock+zone)
			}
		}
	}
	return layouts
}

// ParseTimestamp parses a date, date-time, or offset date-time. Inputs without
// an offset are taken as UTC. The result is always expressed in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s != "" {
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), nil
			}
		}
	}
	return time.Time{}, dErrors.Newf(dErrors.CodeInvalidTimestamp, "Invalid ISO 8601 timestamp: %q", s)
}

// FormatTimestamp renders a stored timestamp for responses.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
