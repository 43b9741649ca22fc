package usecase

import (
	"context"
	"fmt"
	"strconv"

	"PairSight/internal/domain/models"
	drepo "PairSight/internal/domain/repository"
	"PairSight/pkg/logger"
)

// AlertDispatcher fans an evaluated signal out to the notifier and the event
// stream. Delivery is best-effort on both legs; a failed alert never changes
// the evaluation result the caller already holds.
type AlertDispatcher struct {
	notifier  drepo.Notifier
	publisher drepo.SignalPublisher // nil when streaming is not configured
	metrics   drepo.Metrics
	log       *logger.Logger
}

// NewAlertDispatcher wires a dispatcher. publisher may be nil.
func NewAlertDispatcher(notifier drepo.Notifier, publisher drepo.SignalPublisher, metrics drepo.Metrics, log *logger.Logger) *AlertDispatcher {
	return &AlertDispatcher{notifier: notifier, publisher: publisher, metrics: metrics, log: log}
}

// Dispatch publishes every result to the stream and sends a chat alert for
// VALID signals only.
func (d *AlertDispatcher) Dispatch(ctx context.Context, pair string, tf drepo.Timeframe, result models.SignalResult) {
	if d.publisher != nil {
		if err := d.publisher.Publish(ctx, pair, result); err != nil {
			d.log.Error("signal publish failed", logger.String("pair", pair), logger.Error(err))
		}
	}

	if result.Status != models.StatusValid {
		return
	}

	msg := FormatAlert(pair, tf, result)
	if err := d.notifier.Notify(ctx, msg); err != nil {
		d.log.Error("alert delivery failed", logger.String("pair", pair), logger.Error(err))
		d.metrics.RecordAlert("error")
		return
	}
	d.metrics.RecordAlert("sent")
}

// FormatAlert renders the chat message for a VALID signal.
func FormatAlert(pair string, tf drepo.Timeframe, r models.SignalResult) string {
	return fmt.Sprintf(
		"%s %s %s\nentry: %s\nsl: %s\ntp: %s\nexpires: %s\nrsi: %.2f",
		pair, tf, r.Bias,
		fmtLevel(r.Entry), fmtLevel(r.SL), fmtLevel(r.TP),
		fmtExpiry(r.ExpiryTime), r.RSI,
	)
}

func fmtLevel(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func fmtExpiry(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
