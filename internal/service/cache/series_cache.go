package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"PairSight/internal/domain/models"
	drepo "PairSight/internal/domain/repository"
	"PairSight/pkg/cache"
	"PairSight/pkg/logger"
)

// SeriesCache wraps a CandleSource with a short-TTL read-through cache so
// repeated evaluations of the same pair/timeframe inside one candle interval
// do not burn provider quota.
type SeriesCache struct {
	source drepo.CandleSource
	store  cache.Service
	ttl    time.Duration
	log    *logger.Logger
}

// NewSeriesCache decorates source with store. TTL should stay well below the
// shortest candle interval or evaluations may see stale closes.
func NewSeriesCache(source drepo.CandleSource, store cache.Service, ttl time.Duration, log *logger.Logger) drepo.CandleSource {
	return &SeriesCache{source: source, store: store, ttl: ttl, log: log}
}

func (s *SeriesCache) Configured() bool { return s.source.Configured() }

func seriesKey(symbol string, interval drepo.Timeframe, count int) string {
	return fmt.Sprintf("series:%s:%s:%d", symbol, interval, count)
}

// FetchSeries returns the cached series when fresh, otherwise fetches and
// stores. Cache failures fall through to the source; they never fail the
// evaluation.
func (s *SeriesCache) FetchSeries(ctx context.Context, symbol string, interval drepo.Timeframe, count int) ([]models.Candle, error) {
	key := seriesKey(symbol, interval, count)

	var cached []models.Candle
	err := s.store.Get(ctx, key, &cached)
	if err == nil && len(cached) > 0 {
		return cached, nil
	}
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("series cache read failed", logger.String("key", key), logger.Error(err))
	}

	candles, err := s.source.FetchSeries(ctx, symbol, interval, count)
	if err != nil {
		return nil, err
	}

	if err := s.store.Set(ctx, key, candles, s.ttl); err != nil {
		s.log.Warn("series cache write failed", logger.String("key", key), logger.Error(err))
	}
	return candles, nil
}
