package entities

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the stored form of every timestamp column. It is fixed-width
// UTC, so string comparison orders rows chronologically.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Layouts accepted from producers. Values without a zone are taken as UTC.
var acceptedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// FormatTimestamp renders t in the stored form.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts RFC 3339 and naive ISO 8601 timestamps.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}
