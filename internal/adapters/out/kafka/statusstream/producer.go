// Package statusstream publishes order status events to Kafka so external
// consumers can subscribe to fulfillment progress instead of polling the API.
package statusstream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/order"

	"github.com/segmentio/kafka-go"
)

const defaultWriteTimeout = 10 * time.Second

// statusMessage is the wire format of one published event.
// Status carries the public vocabulary (pending_at_store .. order_cancelled).
type statusMessage struct {
	EventID    string    `json:"event_id"`
	OrderID    string    `json:"order_id"`
	Status     string    `json:"status"`
	Note       string    `json:"note,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Producer writes status events to a Kafka topic. Messages are keyed by order
// id, so the hash balancer keeps each order's events on one partition and
// consumers see them in order.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer constructs a producer for the given brokers and topic.
func NewProducer(brokers []string, topic string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: at least one broker required")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka: topic required")
	}

	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      brokers,
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: defaultWriteTimeout,
		Async:        false,
	})

	return &Producer{writer: writer}, nil
}

// Publish writes one status event.
func (p *Producer) Publish(ctx context.Context, event *order.StatusEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(statusMessage{
		EventID:    event.ID().String(),
		OrderID:    event.OrderID().String(),
		Status:     event.Status().String(),
		Note:       event.Note(),
		OccurredAt: event.OccurredAt(),
	})
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID().String()),
		Value: payload,
		Time:  event.OccurredAt(),
	})
}

// Close flushes pending messages and releases the writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
