package repository

import (
	"context"
	"time"

	"PairSight/internal/domain/models"
)

// CandleSource supplies a newest-first candle series for a symbol/interval.
type CandleSource interface {
	FetchSeries(ctx context.Context, symbol string, interval Timeframe, count int) ([]models.Candle, error)
	// Configured reports whether the source has credentials to call out.
	Configured() bool
}

// Notifier delivers a formatted alert message, best-effort.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// SignalPublisher emits evaluated signals to an event stream.
type SignalPublisher interface {
	Publish(ctx context.Context, pair string, result models.SignalResult) error
	Close() error
}

// Metrics records operational measurements.
type Metrics interface {
	RecordEvaluation(status, pair string)
	RecordError(kind string)
	RecordAlert(result string)
	RecordLastRSI(pair string, rsi float64)
	RecordLatency(op string, seconds float64)
}

// Clock supplies the current time. Injected so gate evaluation and expiry
// derivation are deterministic under test.
type Clock func() time.Time
