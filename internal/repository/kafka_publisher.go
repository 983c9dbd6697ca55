package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/domain/models"
	pkgkafka "github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/pkg/kafka"
	applogger "github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/pkg/logger"
)

// KafkaAnomalyPublisher emits every detected anomaly to a broker topic
// so alerting and downstream analytics see them without polling the
// artifact files. Keyed by anomaly type to keep per-type ordering.
type KafkaAnomalyPublisher struct {
	producer *pkgkafka.Producer
	topic    string
	location string
	l        *applogger.Logger
}

func NewKafkaAnomalyPublisher(producer *pkgkafka.Producer, topic, location string, l *applogger.Logger) *KafkaAnomalyPublisher {
	return &KafkaAnomalyPublisher{producer: producer, topic: topic, location: location, l: l}
}

type anomalyMessage struct {
	Location string              `json:"location"`
	Event    models.AnomalyEvent `json:"event"`
}

func (p *KafkaAnomalyPublisher) PublishAnomalies(ctx context.Context, events []models.AnomalyEvent) error {
	if len(events) == 0 {
		return nil
	}
	start := time.Now()

	msgs := make([]pkgkafka.Message, 0, len(events))
	for _, e := range events {
		msgs = append(msgs, pkgkafka.Message{
			Key:   []byte(string(e.Type)),
			Value: anomalyMessage{Location: p.location, Event: e},
		})
	}
	if err := p.producer.PublishBatch(ctx, p.topic, msgs); err != nil {
		if p.l != nil {
			p.l.Error("anomaly publish error",
				applogger.String("topic", p.topic),
				applogger.Int("events", len(events)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("publish anomalies: %w", err)
	}

	if p.l != nil {
		p.l.Info("anomalies published",
			applogger.String("topic", p.topic),
			applogger.Int("events", len(events)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (p *KafkaAnomalyPublisher) Close() error {
	return p.producer.Close()
}
