package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

// Publisher wraps a Kafka writer for publishing status events. A single
// writer serves every topic; messages carry the topic explicitly.
type Publisher struct {
	writer *kafka.Writer
	state  *ConnState
}

// NewPublisher creates a publisher for the given brokers. The writer is
// synchronous with RequireOne acks for at-least-once semantics.
func NewPublisher(brokers []string, state *ConnState) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("brokers cannot be empty")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{}, // Key-based partitioning
		WriteTimeout: writeTimeout,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	slog.Info("Kafka producer configured",
		"brokers", brokers,
		"write_timeout", writeTimeout,
		"required_acks", "RequireOne",
	)

	return &Publisher{writer: writer, state: state}, nil
}

// State returns the adapter's current connection state.
func (p *Publisher) State() State {
	return p.state.State()
}

// Publish serializes the payload to JSON and writes it to the topic,
// keyed for partition affinity. Returns an error if serialization or
// the write fails; callers on the dispatch path treat that as
// best-effort and never propagate it further.
func (p *Publisher) Publish(ctx context.Context, topic, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event for topic %s: %w", topic, err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to topic %s: %w", topic, err)
	}

	return nil
}

// Close closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
