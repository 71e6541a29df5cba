// Package bus provides the Kafka event-bus adapter: a subscriber that
// feeds domain events to registered handlers, a publisher for status
// events, and an explicit connection state observed by both.
package bus

import "sync/atomic"

// State describes the adapter's connection to the bus. Publishers
// branch on this state instead of a raw boolean so a future
// degraded/retrying state can be added without touching call sites.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateFailed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ConnState tracks the adapter's connection state. It is set during
// initialization and health checks, and only read afterwards from the
// dispatch path, so a plain atomic is enough.
type ConnState struct {
	v atomic.Int32
}

// NewConnState creates a tracker in the Disconnected state.
func NewConnState() *ConnState {
	return &ConnState{}
}

// Set transitions to the given state.
func (c *ConnState) Set(s State) {
	c.v.Store(int32(s))
}

// State returns the current state.
func (c *ConnState) State() State {
	return State(c.v.Load())
}

// Connected reports whether publishes may proceed.
func (c *ConnState) Connected() bool {
	return c.State() == StateConnected
}
