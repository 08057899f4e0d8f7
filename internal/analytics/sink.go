// Package analytics streams workflow events to downstream consumers for
// funnel and SLA reporting.
package analytics

import (
	"context"
	"sync"

	"github.com/inkwell-letters/fulfillment/internal/events"
)

// Sink receives every workflow event published on the bus.
type Sink interface {
	Record(ctx context.Context, evt events.Event)
}

var _ Sink = (*MemorySink)(nil)

// MemorySink retains events in memory. Used by tests and as the default sink
// when no broker is configured.
type MemorySink struct {
	mu     sync.RWMutex
	events []events.Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Record(_ context.Context, evt events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
}

// Events returns a snapshot of everything recorded so far.
func (s *MemorySink) Events() []events.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]events.Event, len(s.events))
	copy(snapshot, s.events)
	return snapshot
}

// Count returns how many events with the given name were recorded.
func (s *MemorySink) Count(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, evt := range s.events {
		if evt.Name == name {
			n++
		}
	}
	return n
}
