package util

import (
	"strconv"
	"time"
)

// candleLayout is the datetime format TwelveData uses for intraday series.
const candleLayout = "2006-01-02 15:04:05"

// ParseTime tries the candle layout, RFC3339, RFC3339Nano, and unix seconds.
// Returns (t, true) if any worked. Candle timestamps carry no zone and are UTC.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation(candleLayout, s, time.UTC); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// FormatExpiry renders an expiry timestamp as ISO-8601 UTC.
func FormatExpiry(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FormatCandleTime renders a candle timestamp in the provider's layout.
func FormatCandleTime(t time.Time) string {
	return t.UTC().Format(candleLayout)
}
