package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"PairSight/internal/domain/models"
	drepo "PairSight/internal/domain/repository"
	"PairSight/pkg/cache"
	"PairSight/pkg/logger"
)

type countingSource struct {
	calls   int
	candles []models.Candle
	err     error
}

func (s *countingSource) FetchSeries(_ context.Context, _ string, _ drepo.Timeframe, _ int) ([]models.Candle, error) {
	s.calls++
	return s.candles, s.err
}

func (s *countingSource) Configured() bool { return true }

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestSeriesCacheHit(t *testing.T) {
	src := &countingSource{candles: []models.Candle{
		{Datetime: time.Date(2024, 10, 10, 14, 0, 0, 0, time.UTC), Open: 1, High: 2, Low: 0.5, Close: 1.5},
	}}
	store := cache.NewMemoryCache()
	defer store.Close()

	sc := NewSeriesCache(src, store, time.Minute, testLogger(t))

	for i := 0; i < 3; i++ {
		got, err := sc.FetchSeries(context.Background(), "EURUSD", drepo.TF15min, 100)
		if err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
		if len(got) != 1 || got[0].Close != 1.5 {
			t.Fatalf("fetch %d: unexpected series %+v", i, got)
		}
	}
	if src.calls != 1 {
		t.Fatalf("source called %d times, want 1", src.calls)
	}
}

func TestSeriesCacheKeyIncludesTimeframe(t *testing.T) {
	src := &countingSource{candles: []models.Candle{{Close: 1}}}
	store := cache.NewMemoryCache()
	defer store.Close()

	sc := NewSeriesCache(src, store, time.Minute, testLogger(t))

	if _, err := sc.FetchSeries(context.Background(), "EURUSD", drepo.TF15min, 100); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if _, err := sc.FetchSeries(context.Background(), "EURUSD", drepo.TF5min, 100); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if src.calls != 2 {
		t.Fatalf("distinct timeframes must not share entries, calls = %d", src.calls)
	}
}

func TestSeriesCacheSourceErrorNotCached(t *testing.T) {
	src := &countingSource{err: errors.New("upstream down")}
	store := cache.NewMemoryCache()
	defer store.Close()

	sc := NewSeriesCache(src, store, time.Minute, testLogger(t))

	for i := 0; i < 2; i++ {
		if _, err := sc.FetchSeries(context.Background(), "EURUSD", drepo.TF15min, 100); err == nil {
			t.Fatalf("fetch %d: want error", i)
		}
	}
	if src.calls != 2 {
		t.Fatalf("errors must not be cached, calls = %d", src.calls)
	}
}
