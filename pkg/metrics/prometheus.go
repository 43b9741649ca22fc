package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	evaluations *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	alertsTotal *prometheus.CounterVec
	lastRSI     *prometheus.GaugeVec
	latency     *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		evaluations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pairsight_evaluations_total",
				Help: "Total number of signal evaluations by outcome",
			},
			[]string{"status", "pair"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pairsight_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		alertsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pairsight_alerts_total",
				Help: "Total number of alert dispatch attempts by result",
			},
			[]string{"result"},
		),
		lastRSI: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pairsight_last_rsi",
				Help: "Last computed RSI for a pair",
			},
			[]string{"pair"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pairsight_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordEvaluation records one completed evaluation.
func (r *Recorder) RecordEvaluation(status, pair string) {
	r.evaluations.WithLabelValues(status, pair).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordAlert records an alert dispatch attempt.
func (r *Recorder) RecordAlert(result string) {
	r.alertsTotal.WithLabelValues(result).Inc()
}

// RecordLastRSI records the last computed RSI for a pair.
func (r *Recorder) RecordLastRSI(pair string, rsi float64) {
	r.lastRSI.WithLabelValues(pair).Set(rsi)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
