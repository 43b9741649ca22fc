package stream

import (
	"context"
	"time"

	"PairSight/internal/domain/models"
	drepo "PairSight/internal/domain/repository"
	"PairSight/pkg/kafka"
)

// SignalPublisher emits evaluated signals to a Kafka topic, keyed by pair so
// downstream consumers see per-instrument ordering.
type SignalPublisher struct {
	producer *kafka.Producer
	topic    string
}

// NewSignalPublisher wraps a Kafka producer for signal events.
func NewSignalPublisher(producer *kafka.Producer, topic string) drepo.SignalPublisher {
	return &SignalPublisher{producer: producer, topic: topic}
}

type signalEvent struct {
	Pair      string              `json:"pair"`
	EmittedAt string              `json:"emittedAt"`
	Signal    models.SignalResult `json:"signal"`
}

// Publish sends one signal event. Delivery is best-effort; the caller decides
// whether a failure matters.
func (p *SignalPublisher) Publish(ctx context.Context, pair string, result models.SignalResult) error {
	event := signalEvent{
		Pair:      pair,
		EmittedAt: time.Now().UTC().Format(time.RFC3339),
		Signal:    result,
	}
	return p.producer.Publish(ctx, p.topic, []byte(pair), event)
}

// Close flushes and closes the underlying producer.
func (p *SignalPublisher) Close() error {
	return p.producer.Close()
}
