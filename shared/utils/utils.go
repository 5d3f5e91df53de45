package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateTimeLayout is the wire format for every date-time field of the EWM APIs.
const DateTimeLayout = "2006-01-02 15:04:05"

// ParseDateTime parses a wire date-time in the server's local zone.
func ParseDateTime(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateTimeLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date-time %q, expected format %q", value, DateTimeLayout)
	}
	return t, nil
}

// FormatDateTime renders t using DateTimeLayout.
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// FormatDateTimePtr renders t, or returns nil when t is nil.
func FormatDateTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatDateTime(*t)
	return &s
}

// Now returns the current local time truncated to whole seconds, matching the
// precision of the wire format.
func Now() time.Time {
	return time.Now().Truncate(time.Second)
}

// LocalWallClock reinterprets the wall clock of t in the local zone.
// TIMESTAMP WITHOUT TIME ZONE columns are scanned as UTC by lib/pq.
func LocalWallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.Local)
}

// ParseInt64List parses "1,2,3" style lists. Empty items are skipped.
func ParseInt64List(values []string) ([]int64, error) {
	var ids []int64
	for _, raw := range SplitList(values) {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", raw)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// SplitList flattens repeated and comma separated query values.
func SplitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
