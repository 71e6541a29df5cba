// Package metrics provides metrics recording for the notifier. It uses
// the null object pattern to avoid nil checks throughout the codebase.
package metrics

import "time"

// Recorder defines the interface for recording dispatch metrics.
type Recorder interface {
	// RecordReceived increments the count of received bus messages.
	RecordReceived()

	// RecordProcessed records a fully processed event with its latency.
	RecordProcessed(latency time.Duration)

	// RecordError increments the processing error counter.
	RecordError()

	// RecordSent increments the count of fully delivered notifications.
	RecordSent()

	// RecordPartial increments the count of partially delivered notifications.
	RecordPartial()

	// RecordFailed increments the count of notifications that failed on
	// every attempted channel.
	RecordFailed()

	// RecordSuppressed increments the count of notifications suppressed
	// by preferences or quiet hours.
	RecordSuppressed()
}

// NoOp is a Recorder that discards all metrics. Use when metrics
// collection is not configured.
type NoOp struct{}

// NewNoOp creates a new no-op metrics recorder.
func NewNoOp() *NoOp {
	return &NoOp{}
}

func (n *NoOp) RecordReceived()                 {}
func (n *NoOp) RecordProcessed(_ time.Duration) {}
func (n *NoOp) RecordError()                    {}
func (n *NoOp) RecordSent()                     {}
func (n *NoOp) RecordPartial()                  {}
func (n *NoOp) RecordFailed()                   {}
func (n *NoOp) RecordSuppressed()               {}

var _ Recorder = (*NoOp)(nil)
