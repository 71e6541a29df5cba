package bus

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	// MaxPollWait is the longest a reader blocks waiting for new data.
	MaxPollWait = 500 * time.Millisecond
	// CommitInterval of 0 means synchronous commits, required for
	// at-least-once delivery.
	CommitInterval = 0 * time.Second
	// writeTimeout is the maximum time to wait for a Kafka write.
	writeTimeout = 10 * time.Second
	// healthCheckTimeout bounds the broker dial in HealthCheck.
	healthCheckTimeout = 5 * time.Second
)

// ParseBrokers parses a comma-separated broker list and trims whitespace.
func ParseBrokers(brokers string) []string {
	if brokers == "" {
		return nil
	}
	brokerList := strings.Split(brokers, ",")
	for i := range brokerList {
		brokerList[i] = strings.TrimSpace(brokerList[i])
	}
	return brokerList
}

// newReaderConfig creates a standard reader configuration for
// at-least-once delivery, shared by all subscriptions.
func newReaderConfig(brokers []string, topic, groupID string) kafka.ReaderConfig {
	return kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,    // Return immediately when any data is available
		MaxBytes:       10e6, // 10MB
		MaxWait:        MaxPollWait,
		CommitInterval: CommitInterval,
		StartOffset:    kafka.FirstOffset, // Start from beginning if no committed offset
	}
}

// HealthCheck dials the first broker and records the outcome on the
// connection state. It returns the dial error, if any.
func HealthCheck(ctx context.Context, brokers []string, state *ConnState) error {
	if len(brokers) == 0 {
		state.Set(StateFailed)
		return fmt.Errorf("no brokers configured")
	}

	state.Set(StateConnecting)

	dialCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	conn, err := kafka.DialContext(dialCtx, "tcp", brokers[0])
	if err != nil {
		state.Set(StateFailed)
		return fmt.Errorf("failed to dial broker %s: %w", brokers[0], err)
	}
	conn.Close()

	state.Set(StateConnected)
	return nil
}

// WatchHealth re-runs HealthCheck on an interval until the context is
// cancelled, keeping the connection state current for publishers.
func WatchHealth(ctx context.Context, brokers []string, state *ConnState, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = HealthCheck(ctx, brokers, state)
		}
	}
}
