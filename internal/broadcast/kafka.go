package broadcast

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// EventPublisher mirrors realtime events onto a Kafka topic for external
// consumers. Publishing is fire and forget.
type EventPublisher struct {
	writer *kafka.Writer
}

// NewEventPublisher creates a publisher for the given brokers and topic.
func NewEventPublisher(brokers []string, topic string) *EventPublisher {
	w := kafka.NewWriter(kafka.WriterConfig{Brokers: brokers, Topic: topic, Balancer: &kafka.LeastBytes{}})
	return &EventPublisher{writer: w}
}

// Publish writes one event, keyed by entity id.
func (p *EventPublisher) Publish(ev Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	b, _ := json.Marshal(ev)
	return p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(ev.ID), Value: b})
}

// Close shuts the underlying writer down.
func (p *EventPublisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
