package repository

import "time"

// Timeframe is a candle interval in the data provider's notation.
type Timeframe string

const (
	TF1min  Timeframe = "1min"
	TF5min  Timeframe = "5min"
	TF15min Timeframe = "15min"
	TF30min Timeframe = "30min"
	TF45min Timeframe = "45min"
	TF60min Timeframe = "60min"
)

// IsValidTimeframe returns true if tf is a supported timeframe.
func IsValidTimeframe(tf Timeframe) bool {
	switch tf {
	case TF1min, TF5min, TF15min, TF30min, TF45min, TF60min:
		return true
	default:
		return false
	}
}

// DefaultTimeframe returns the default timeframe.
func DefaultTimeframe() Timeframe { return TF15min }

// NormalizeTimeframe converts raw string to a valid timeframe (or default).
func NormalizeTimeframe(s string) Timeframe {
	if s == "" {
		return DefaultTimeframe()
	}
	tf := Timeframe(s)
	if IsValidTimeframe(tf) {
		return tf
	}
	return DefaultTimeframe()
}

// RiskReward returns the target multiplier applied to the entry-to-stop
// distance. The 5-minute chart runs a tighter target.
func RiskReward(tf Timeframe) float64 {
	if tf == TF5min {
		return 1.2
	}
	return 1.5
}

// ExpiryDuration returns how long a signal on tf stays actionable.
func ExpiryDuration(tf Timeframe) time.Duration {
	switch tf {
	case TF5min:
		return 5 * time.Minute
	case TF15min:
		return 15 * time.Minute
	default:
		return 60 * time.Minute
	}
}
