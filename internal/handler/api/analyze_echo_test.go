package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"PairSight/internal/domain/models"
	drepo "PairSight/internal/domain/repository"
	"PairSight/internal/service/ratelimit"
	"PairSight/internal/services/gates"
	"PairSight/internal/services/strategy"
	"PairSight/internal/usecase"
	"PairSight/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubSource struct {
	candles []models.Candle
}

func (s *stubSource) FetchSeries(context.Context, string, drepo.Timeframe, int) ([]models.Candle, error) {
	return s.candles, nil
}

func (s *stubSource) Configured() bool { return true }

type stubNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *stubNotifier) Notify(_ context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

type stubMetrics struct{}

func (stubMetrics) RecordEvaluation(string, string) {}
func (stubMetrics) RecordError(string)              {}
func (stubMetrics) RecordAlert(string)              {}
func (stubMetrics) RecordLastRSI(string, float64)   {}
func (stubMetrics) RecordLatency(string, float64)   {}

// waitSeries yields a monotonic climb whose saturated RSI fails the long
// band, so every evaluation lands on WAIT.
func waitSeries() []models.Candle {
	base := time.Date(2024, 10, 9, 9, 15, 0, 0, time.UTC)
	out := make([]models.Candle, 100)
	for i := 0; i < 100; i++ {
		c := 100 + 0.5*float64(i)
		out[i] = models.Candle{
			Datetime: base.Add(time.Duration(i) * 15 * time.Minute),
			Open:     c - 0.5, High: c + 0.1, Low: c - 0.6, Close: c,
		}
	}
	return models.ReverseCandles(out)
}

func newTestHandler(t *testing.T) *AnalyzeEchoHandler {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	eval := usecase.NewEvaluator(
		&stubSource{candles: waitSeries()},
		strategy.NewClassifier(1e-5),
		gates.New(nil, nil),
		ratelimit.New(),
		stubMetrics{},
		log,
		time.Now,
		usecase.EvaluatorConfig{
			EMAFast: 20, EMASlow: 50, RSIPeriod: 14, OutputSize: 100,
			FetchTimeout: 2 * time.Second, MaxRPS: 100, Burst: 100,
		},
	)
	dispatcher := usecase.NewAlertDispatcher(&stubNotifier{}, nil, stubMetrics{}, log)
	return NewAnalyzeEchoHandler(log, eval, dispatcher)
}

func doAnalyze(t *testing.T, h *AnalyzeEchoHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeReturnsFlatPayload(t *testing.T) {
	rec := doAnalyze(t, newTestHandler(t), `{"pair":"eurusd","timeframe":"15min"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Flat contract: no envelope, nullable level fields always present.
	for _, key := range []string{"status", "bias", "entry", "sl", "tp", "expiryTime", "ema20", "ema50", "rsi"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("payload missing %q: %s", key, rec.Body.String())
		}
	}
	if _, ok := payload["data"]; ok {
		t.Fatalf("payload must not be enveloped: %s", rec.Body.String())
	}

	var status string
	_ = json.Unmarshal(payload["status"], &status)
	if status != "WAIT" {
		t.Fatalf("status = %q, want WAIT", status)
	}
	if string(payload["entry"]) != "null" {
		t.Fatalf("entry = %s, want null", payload["entry"])
	}
}

func TestAnalyzeDefaultsTimeframe(t *testing.T) {
	rec := doAnalyze(t, newTestHandler(t), `{"pair":"EURUSD"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestAnalyzeRejectsMissingPair(t *testing.T) {
	rec := doAnalyze(t, newTestHandler(t), `{"timeframe":"15min"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeRejectsBadTimeframe(t *testing.T) {
	rec := doAnalyze(t, newTestHandler(t), `{"pair":"EURUSD","timeframe":"2h"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)
	e := echo.New()
	h.RegisterRoutes(e)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
