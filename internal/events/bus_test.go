package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublish_FansOutToAllSubscribers(t *testing.T) {
	bus := NewBus()
	var calls atomic.Int32
	bus.Subscribe(OrderPaid, "first", func(_ context.Context, _ Event) error {
		calls.Add(1)
		return nil
	})
	bus.Subscribe(OrderPaid, "second", func(_ context.Context, _ Event) error {
		calls.Add(1)
		return nil
	})

	bus.Publish(context.Background(), New(OrderPaid, OrderPayload{OrderID: "ord-1"}))
	bus.Wait()

	require.Equal(t, int32(2), calls.Load())
}

func TestPublish_FailingHandlerDoesNotStopSiblings(t *testing.T) {
	var mu sync.Mutex
	var dead []string
	bus := NewBus(WithDeadLetter(func(_ Event, handler string, _ error) {
		mu.Lock()
		defer mu.Unlock()
		dead = append(dead, handler)
	}))

	var survived atomic.Bool
	bus.Subscribe(QCApproved, "boom", func(_ context.Context, _ Event) error {
		return errors.New("notification channel down")
	})
	bus.Subscribe(QCApproved, "panics", func(_ context.Context, _ Event) error {
		panic("template missing")
	})
	bus.Subscribe(QCApproved, "survivor", func(_ context.Context, _ Event) error {
		survived.Store(true)
		return nil
	})

	bus.Publish(context.Background(), New(QCApproved, OrderPayload{OrderID: "ord-2"}))
	bus.Wait()

	require.True(t, survived.Load())
	mu.Lock()
	defer mu.Unlock()
	require.ElementsMatch(t, []string{"boom", "panics"}, dead)
}

func TestPublish_NoSubscribersIsDropped(t *testing.T) {
	bus := NewBus()
	require.NotPanics(t, func() {
		bus.Publish(context.Background(), New(LowStock, StockPayload{SKU: "kit-classic"}))
		bus.Wait()
	})
}

func TestPublish_SubscriberSetSnapshotAtPublish(t *testing.T) {
	bus := NewBus()
	var calls atomic.Int32
	bus.Subscribe(OrderShipped, "early", func(_ context.Context, _ Event) error {
		calls.Add(1)
		return nil
	})

	bus.Publish(context.Background(), New(OrderShipped, OrderPayload{OrderID: "ord-3"}))
	bus.Wait()

	// Late subscriber only sees later events.
	bus.Subscribe(OrderShipped, "late", func(_ context.Context, _ Event) error {
		calls.Add(1)
		return nil
	})
	bus.Publish(context.Background(), New(OrderShipped, OrderPayload{OrderID: "ord-4"}))
	bus.Wait()

	require.Equal(t, int32(3), calls.Load())
}
