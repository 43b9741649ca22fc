package usecase

import (
	"context"
	"time"

	"PairSight/internal/domain/models"
	drepo "PairSight/internal/domain/repository"
	"PairSight/internal/service/ratelimit"
	"PairSight/internal/services/gates"
	"PairSight/internal/services/indicators"
	"PairSight/internal/services/strategy"
	"PairSight/pkg/logger"
	"PairSight/pkg/util"
)

const providerKey = "twelvedata"

// EvaluatorConfig carries the tunables for one engine instance.
type EvaluatorConfig struct {
	EMAFast      int
	EMASlow      int
	RSIPeriod    int
	OutputSize   int
	GatesEnabled bool
	FetchTimeout time.Duration
	MaxRPS       float64
	Burst        float64
}

// Evaluator runs one full signal evaluation: gates, data fetch, indicators,
// classification, and risk derivation. It never returns an error; every
// failure mode is expressed as a SignalResult so the wire contract holds.
type Evaluator struct {
	source     drepo.CandleSource
	classifier *strategy.Classifier
	gates      *gates.Evaluator
	limiter    *ratelimit.Limiter
	metrics    drepo.Metrics
	log        *logger.Logger
	clock      drepo.Clock
	cfg        EvaluatorConfig
}

// NewEvaluator wires an evaluator from its dependencies.
func NewEvaluator(
	source drepo.CandleSource,
	classifier *strategy.Classifier,
	gateEval *gates.Evaluator,
	limiter *ratelimit.Limiter,
	metrics drepo.Metrics,
	log *logger.Logger,
	clock drepo.Clock,
	cfg EvaluatorConfig,
) *Evaluator {
	return &Evaluator{
		source:     source,
		classifier: classifier,
		gates:      gateEval,
		limiter:    limiter,
		metrics:    metrics,
		log:        log,
		clock:      clock,
		cfg:        cfg,
	}
}

// Evaluate produces a SignalResult for one pair/timeframe. Identical market
// inputs always yield an identical result; the only nondeterminism is the
// injected clock.
func (e *Evaluator) Evaluate(ctx context.Context, pair string, tf drepo.Timeframe) (result models.SignalResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("evaluation panicked", logger.String("pair", pair), logger.Any("panic", r))
			e.metrics.RecordError("panic")
			result = models.ErrorResult("internal error during evaluation")
		}
		e.metrics.RecordEvaluation(string(result.Status), pair)
		e.metrics.RecordLatency("evaluate", time.Since(start).Seconds())
	}()

	now := e.clock()

	if e.cfg.GatesEnabled {
		if ok, reason := e.gates.Check(now); !ok {
			return models.SignalResult{
				Status: models.StatusNoTrade,
				Bias:   models.BiasNone,
				Reason: reason,
			}
		}
	}

	if !e.source.Configured() {
		e.metrics.RecordError("missing_api_key")
		return models.ErrorResult("API key missing")
	}

	if !e.limiter.Allow(providerKey, e.cfg.Burst, e.cfg.MaxRPS) {
		e.metrics.RecordError("rate_limited")
		return models.ErrorResult("rate limit exceeded")
	}

	fetchCtx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	defer cancel()

	raw, err := e.source.FetchSeries(fetchCtx, pair, tf, e.cfg.OutputSize)
	if err != nil {
		e.log.Error("series fetch failed", logger.String("pair", pair), logger.Error(err))
		e.metrics.RecordError("fetch")
		return models.ErrorResult(err.Error())
	}

	if len(raw) == 0 {
		e.metrics.RecordError("fetch")
		return models.ErrorResult("no candle data returned")
	}

	// Provider order is newest first; indicator recursion wants oldest first.
	series := models.ReverseCandles(raw)
	closes := models.Closes(series)
	last := series[len(series)-1]

	emaFast, err := indicators.EMA(closes, e.cfg.EMAFast)
	if err != nil {
		e.metrics.RecordError("indicator")
		return models.ErrorResult(err.Error())
	}
	emaSlow, err := indicators.EMA(closes, e.cfg.EMASlow)
	if err != nil {
		e.metrics.RecordError("indicator")
		return models.ErrorResult(err.Error())
	}
	rsi, err := indicators.RSI(closes, e.cfg.RSIPeriod)
	if err != nil {
		e.metrics.RecordError("indicator")
		return models.ErrorResult(err.Error())
	}

	snap := models.IndicatorSnapshot{
		EMAFast: emaFast[len(emaFast)-1],
		EMASlow: emaSlow[len(emaSlow)-1],
		RSI:     rsi,
	}
	e.metrics.RecordLastRSI(pair, snap.RSI)

	cls := e.classifier.Classify(snap, last)

	result = models.SignalResult{
		Status:     cls.Status,
		Bias:       cls.Bias,
		EMA20:      snap.EMAFast,
		EMA50:      snap.EMASlow,
		RSI:        snap.RSI,
		CandleTime: util.FormatCandleTime(last.Datetime),
		Reason:     cls.Reason,
	}

	if cls.Status == models.StatusValid {
		plan := strategy.DeriveRisk(cls.Bias, last, tf, now)
		if plan.Rejected {
			result.Status = models.StatusNoTrade
			result.Bias = models.BiasNone
			result.Reason = plan.Reason
		} else {
			result.Entry = plan.Params.Entry
			result.SL = plan.Params.StopLoss
			result.TP = plan.Params.TakeProfit
			result.ExpiryTime = plan.Params.ExpiryTime
		}
	}

	return result
}
