package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// HandlerFunc consumes a single event. Returned errors are routed to the
// dead-letter hook, never back to the publisher.
type HandlerFunc func(ctx context.Context, evt Event) error

// DeadLetterFunc receives events whose handler failed or panicked.
type DeadLetterFunc func(evt Event, handler string, err error)

type subscription struct {
	name    string
	handler HandlerFunc
}

// Bus is an in-process publish/subscribe hub. It offers no delivery guarantee,
// no retry, and no persistence: side effects dispatched through it must be
// best-effort by contract. Construct one per process and inject it; there is
// no package-level instance.
type Bus struct {
	mu         sync.RWMutex
	subs       map[string][]subscription
	wg         sync.WaitGroup
	logger     *slog.Logger
	deadLetter DeadLetterFunc
}

// BusOption customizes bus construction.
type BusOption func(*Bus)

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(logger *slog.Logger) BusOption {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithDeadLetter installs a hook invoked for every failed handler invocation.
func WithDeadLetter(fn DeadLetterFunc) BusOption {
	return func(b *Bus) {
		if fn != nil {
			b.deadLetter = fn
		}
	}
}

// NewBus constructs an empty bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		subs:   map[string][]subscription{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	if b.deadLetter == nil {
		b.deadLetter = b.logDeadLetter
	}
	return b
}

// Subscribe registers a named handler for an event. Multiple handlers may
// subscribe to the same event; all of them run on publish, each isolated from
// the others.
func (b *Bus) Subscribe(event, name string, handler HandlerFunc) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[event] = append(b.subs[event], subscription{name: name, handler: handler})
}

// Publish dispatches the event to every currently registered handler, each on
// its own goroutine. It returns as soon as the handlers are scheduled; handler
// failure never propagates to the publisher.
func (b *Bus) Publish(ctx context.Context, evt Event) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs[evt.Name]))
	copy(subs, b.subs[evt.Name])
	b.mu.RUnlock()

	if len(subs) == 0 {
		b.logger.Debug("event dropped, no subscribers", slog.String("event", evt.Name), slog.String("event.id", evt.ID))
		return
	}
	detached := context.WithoutCancel(ctx)
	for _, sub := range subs {
		b.wg.Add(1)
		go b.dispatch(detached, evt, sub)
	}
}

// Wait blocks until all in-flight handlers have finished. Intended for
// graceful shutdown and tests.
func (b *Bus) Wait() {
	b.wg.Wait()
}

func (b *Bus) dispatch(ctx context.Context, evt Event, sub subscription) {
	defer b.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			b.deadLetter(evt, sub.name, fmt.Errorf("handler panic: %v", r))
		}
	}()
	if err := sub.handler(ctx, evt); err != nil {
		b.deadLetter(evt, sub.name, err)
	}
}

func (b *Bus) logDeadLetter(evt Event, handler string, err error) {
	b.logger.Error("event handler dead-lettered",
		slog.String("event", evt.Name),
		slog.String("event.id", evt.ID),
		slog.String("handler", handler),
		slog.String("error", err.Error()),
	)
}
