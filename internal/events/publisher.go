package events

import (
	"context"
	"sync"
)

// Publisher delivers committed ledger events to downstream consumers.
// Publish errors are reported to the caller but never undo the committed
// transition they describe.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Memory buffers events in process. Used by tests and deployments without a
// broker.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

// NewMemory constructs an empty in-process publisher.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Publish(_ context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Events returns a copy of everything published so far, in order.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}
