package utils

import (
	"strconv"
	"time"
)

// Timestamps exchanged with the graph store are second-precision UTC,
// rendered without a timezone suffix.
const TimeLayout = "2006-01-02T15:04:05"

// Epoch is the zero value the store uses for "never" timestamps.
var Epoch = time.Unix(0, 0).UTC()

// Now returns the current UTC time truncated to whole seconds.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}

// ParseTimestamp parses a second-based decimal UNIX timestamp string.
func ParseTimestamp(s string) (time.Time, error) {
	ts, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(ts, 0).UTC(), nil
}

func TimestampToTime(ts int64) time.Time {
	return time.Unix(ts, 0).UTC()
}
