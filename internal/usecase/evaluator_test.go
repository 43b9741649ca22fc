package usecase

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"PairSight/internal/domain/models"
	drepo "PairSight/internal/domain/repository"
	"PairSight/internal/service/ratelimit"
	"PairSight/internal/services/gates"
	"PairSight/internal/services/strategy"
	"PairSight/pkg/logger"
)

type fakeSource struct {
	calls      int
	configured bool
	candles    []models.Candle
	err        error
	panics     bool
}

func (s *fakeSource) FetchSeries(_ context.Context, _ string, _ drepo.Timeframe, _ int) ([]models.Candle, error) {
	s.calls++
	if s.panics {
		panic("boom")
	}
	return s.candles, s.err
}

func (s *fakeSource) Configured() bool { return s.configured }

type fakeMetrics struct {
	evaluations map[string]int
	errors      map[string]int
	alerts      map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		evaluations: map[string]int{},
		errors:      map[string]int{},
		alerts:      map[string]int{},
	}
}

func (m *fakeMetrics) RecordEvaluation(status, _ string) { m.evaluations[status]++ }
func (m *fakeMetrics) RecordError(kind string)           { m.errors[kind]++ }
func (m *fakeMetrics) RecordAlert(result string)         { m.alerts[result]++ }
func (m *fakeMetrics) RecordLastRSI(string, float64)     {}
func (m *fakeMetrics) RecordLatency(string, float64)     {}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

var evalNow = time.Date(2024, 10, 10, 10, 0, 0, 0, time.UTC)

func defaultGates(t *testing.T) *gates.Evaluator {
	t.Helper()
	news, err := gates.ParseClockWindow("13:00", "14:00")
	if err != nil {
		t.Fatalf("news window: %v", err)
	}
	return gates.New(
		[]gates.HourWindow{{FromHour: 7, ToHour: 16}, {FromHour: 12, ToHour: 21}},
		[]gates.ClockWindow{news},
	)
}

func newEvaluator(t *testing.T, src drepo.CandleSource, m drepo.Metrics, clock drepo.Clock) *Evaluator {
	t.Helper()
	return NewEvaluator(
		src,
		strategy.NewClassifier(1e-5),
		defaultGates(t),
		ratelimit.New(),
		m,
		testLogger(t),
		clock,
		EvaluatorConfig{
			EMAFast:      20,
			EMASlow:      50,
			RSIPeriod:    14,
			OutputSize:   100,
			GatesEnabled: true,
			FetchTimeout: 2 * time.Second,
			MaxRPS:       100,
			Burst:        100,
		},
	)
}

// buySetupSeries returns 100 candles, newest first, whose oldest 15 closes
// alternate so the lookback nets out neutral, followed by a steady climb that
// puts the fast EMA well above the slow one with a bullish final candle.
func buySetupSeries() []models.Candle {
	base := time.Date(2024, 10, 9, 9, 15, 0, 0, time.UTC)
	closes := make([]float64, 100)
	for i := 0; i < 15; i++ {
		closes[i] = 100
		if i%2 == 1 {
			closes[i] = 101
		}
	}
	for i := 15; i < 100; i++ {
		closes[i] = 100 + 0.5*float64(i-14)
	}

	oldestFirst := make([]models.Candle, 100)
	for i, c := range closes {
		oldestFirst[i] = models.Candle{
			Datetime: base.Add(time.Duration(i) * 15 * time.Minute),
			Open:     c - 0.5,
			High:     c + 0.1,
			Low:      c - 0.6,
			Close:    c,
		}
	}
	return models.ReverseCandles(oldestFirst)
}

func TestEvaluateValidBuy(t *testing.T) {
	src := &fakeSource{configured: true, candles: buySetupSeries()}
	m := newFakeMetrics()
	e := newEvaluator(t, src, m, func() time.Time { return evalNow })

	got := e.Evaluate(context.Background(), "EURUSD", drepo.TF15min)

	if got.Status != models.StatusValid || got.Bias != models.BiasBuy {
		t.Fatalf("got (%s, %s), want (VALID, BUY): %+v", got.Status, got.Bias, got)
	}
	if got.Entry == nil || *got.Entry != 142.5 {
		t.Fatalf("entry = %v, want 142.5", got.Entry)
	}
	if got.SL == nil || math.Abs(*got.SL-141.9) > 1e-9 {
		t.Fatalf("sl = %v, want 141.9", got.SL)
	}
	// tp = 142.5 + (142.5-141.9)*1.5 = 143.4
	if got.TP == nil || math.Abs(*got.TP-143.4) > 1e-9 {
		t.Fatalf("tp = %v, want 143.4", got.TP)
	}
	if got.ExpiryTime == nil || *got.ExpiryTime != "2024-10-10T10:15:00Z" {
		t.Fatalf("expiry = %v, want 2024-10-10T10:15:00Z", got.ExpiryTime)
	}
	if math.Abs(got.RSI-50) > 1e-9 {
		t.Fatalf("rsi = %v, want 50", got.RSI)
	}
	if got.EMA20 <= got.EMA50 {
		t.Fatalf("fast EMA should lead in an uptrend: %v vs %v", got.EMA20, got.EMA50)
	}
	if got.CandleTime == "" {
		t.Fatalf("candleTime should be populated")
	}
	if m.evaluations["VALID"] != 1 {
		t.Fatalf("evaluation metric not recorded: %+v", m.evaluations)
	}
}

func TestEvaluateMissingAPIKey(t *testing.T) {
	src := &fakeSource{configured: false}
	m := newFakeMetrics()
	e := newEvaluator(t, src, m, func() time.Time { return evalNow })

	got := e.Evaluate(context.Background(), "EURUSD", drepo.TF15min)

	if got.Status != models.StatusError || got.Reason != "API key missing" {
		t.Fatalf("got %+v, want ERROR/API key missing", got)
	}
	if src.calls != 0 {
		t.Fatalf("source must not be called without credentials, calls = %d", src.calls)
	}
	if m.errors["missing_api_key"] != 1 {
		t.Fatalf("error metric not recorded: %+v", m.errors)
	}
}

func TestEvaluateGateBlocked(t *testing.T) {
	src := &fakeSource{configured: true, candles: buySetupSeries()}

	cases := []struct {
		name   string
		clock  time.Time
		reason string
	}{
		{"session closed", time.Date(2024, 10, 10, 3, 0, 0, 0, time.UTC), "outside trading session"},
		{"news blackout", time.Date(2024, 10, 10, 13, 30, 0, 0, time.UTC), "news blackout window"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src.calls = 0
			e := newEvaluator(t, src, newFakeMetrics(), func() time.Time { return tc.clock })
			got := e.Evaluate(context.Background(), "EURUSD", drepo.TF15min)
			if got.Status != models.StatusNoTrade || got.Reason != tc.reason {
				t.Fatalf("got %+v, want NO TRADE/%s", got, tc.reason)
			}
			if src.calls != 0 {
				t.Fatalf("blocked evaluation must not fetch, calls = %d", src.calls)
			}
		})
	}
}

func TestEvaluateGatesDisabled(t *testing.T) {
	src := &fakeSource{configured: true, candles: buySetupSeries()}
	e := newEvaluator(t, src, newFakeMetrics(), func() time.Time {
		return time.Date(2024, 10, 10, 3, 0, 0, 0, time.UTC)
	})
	e.cfg.GatesEnabled = false

	got := e.Evaluate(context.Background(), "EURUSD", drepo.TF15min)
	if got.Status != models.StatusValid {
		t.Fatalf("disabled gates must not block: %+v", got)
	}
}

func TestEvaluateFetchError(t *testing.T) {
	src := &fakeSource{configured: true, err: errors.New("twelvedata: symbol not found")}
	m := newFakeMetrics()
	e := newEvaluator(t, src, m, func() time.Time { return evalNow })

	got := e.Evaluate(context.Background(), "BOGUS", drepo.TF15min)
	if got.Status != models.StatusError || !strings.Contains(got.Reason, "symbol not found") {
		t.Fatalf("got %+v", got)
	}
	if m.errors["fetch"] != 1 {
		t.Fatalf("fetch error metric not recorded: %+v", m.errors)
	}
}

func TestEvaluatePanicRecovery(t *testing.T) {
	src := &fakeSource{configured: true, panics: true}
	m := newFakeMetrics()
	e := newEvaluator(t, src, m, func() time.Time { return evalNow })

	got := e.Evaluate(context.Background(), "EURUSD", drepo.TF15min)
	if got.Status != models.StatusError || got.Reason != "internal error during evaluation" {
		t.Fatalf("panic must become an ERROR result: %+v", got)
	}
	if m.errors["panic"] != 1 {
		t.Fatalf("panic metric not recorded: %+v", m.errors)
	}
	if m.evaluations["ERROR"] != 1 {
		t.Fatalf("evaluation metric must still be recorded: %+v", m.evaluations)
	}
}

func TestEvaluateRejectsUnusableStop(t *testing.T) {
	series := buySetupSeries()
	// Newest candle first: lift its low to the close so a buy has no risk
	// distance to work with.
	series[0].Low = series[0].Close
	src := &fakeSource{configured: true, candles: series}
	e := newEvaluator(t, src, newFakeMetrics(), func() time.Time { return evalNow })

	got := e.Evaluate(context.Background(), "EURUSD", drepo.TF15min)
	if got.Status != models.StatusNoTrade || got.Bias != models.BiasNone {
		t.Fatalf("got (%s, %s), want (NO TRADE, NONE)", got.Status, got.Bias)
	}
	if got.Entry != nil || got.SL != nil || got.TP != nil || got.ExpiryTime != nil {
		t.Fatalf("rejected signal must carry no levels: %+v", got)
	}
	if got.Reason == "" {
		t.Fatalf("rejection must explain itself")
	}
}

func TestEvaluateWaitCarriesNoLevels(t *testing.T) {
	// Monotonic climb from the start: RSI saturates high, so the long setup
	// fails its band and the engine waits.
	base := time.Date(2024, 10, 9, 9, 15, 0, 0, time.UTC)
	oldestFirst := make([]models.Candle, 100)
	for i := 0; i < 100; i++ {
		c := 100 + 0.5*float64(i)
		oldestFirst[i] = models.Candle{
			Datetime: base.Add(time.Duration(i) * 15 * time.Minute),
			Open:     c - 0.5, High: c + 0.1, Low: c - 0.6, Close: c,
		}
	}
	src := &fakeSource{configured: true, candles: models.ReverseCandles(oldestFirst)}
	e := newEvaluator(t, src, newFakeMetrics(), func() time.Time { return evalNow })

	got := e.Evaluate(context.Background(), "EURUSD", drepo.TF15min)
	if got.Status != models.StatusWait || got.Bias != models.BiasNone {
		t.Fatalf("got (%s, %s), want (WAIT, NONE): %+v", got.Status, got.Bias, got)
	}
	if got.Entry != nil || got.SL != nil || got.TP != nil || got.ExpiryTime != nil {
		t.Fatalf("WAIT must carry no levels: %+v", got)
	}
}

func TestEvaluateRateLimited(t *testing.T) {
	src := &fakeSource{configured: true, candles: buySetupSeries()}
	m := newFakeMetrics()
	e := newEvaluator(t, src, m, func() time.Time { return evalNow })
	e.cfg.Burst = 1
	e.cfg.MaxRPS = 0

	if got := e.Evaluate(context.Background(), "EURUSD", drepo.TF15min); got.Status != models.StatusValid {
		t.Fatalf("first call should pass: %+v", got)
	}
	got := e.Evaluate(context.Background(), "EURUSD", drepo.TF15min)
	if got.Status != models.StatusError || got.Reason != "rate limit exceeded" {
		t.Fatalf("second call should be limited: %+v", got)
	}
	if m.errors["rate_limited"] != 1 {
		t.Fatalf("rate limit metric not recorded: %+v", m.errors)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	src := &fakeSource{configured: true, candles: buySetupSeries()}
	e := newEvaluator(t, src, newFakeMetrics(), func() time.Time { return evalNow })

	first := e.Evaluate(context.Background(), "EURUSD", drepo.TF15min)
	for i := 0; i < 5; i++ {
		got := e.Evaluate(context.Background(), "EURUSD", drepo.TF15min)
		if got.Status != first.Status || got.Bias != first.Bias || *got.Entry != *first.Entry ||
			*got.TP != *first.TP || got.RSI != first.RSI || *got.ExpiryTime != *first.ExpiryTime {
			t.Fatalf("run %d diverged: %+v vs %+v", i, got, first)
		}
	}
}
