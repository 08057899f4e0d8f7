package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkwell-letters/fulfillment/internal/domains/inventory/adapters/memory"
	"github.com/inkwell-letters/fulfillment/internal/domains/inventory/domain"
	"github.com/inkwell-letters/fulfillment/internal/events"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) count(name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, evt := range p.events {
		if evt.Name == name {
			n++
		}
	}
	return n
}

func newService(t *testing.T) (*Service, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	return NewService(memory.NewRepository(), pub), pub
}

func TestAdjustStock_ReserveBeyondAvailableRejected(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.CreateItem(ctx, "kit-classic", "Classic stationery kit", 10, 3)
	require.NoError(t, err)
	_, err = svc.AdjustStock(ctx, "kit-classic", 8, "earmark for orders", "", domain.OpReserve)
	require.NoError(t, err)

	_, err = svc.AdjustStock(ctx, "kit-classic", 3, "earmark", "ord-9", domain.OpReserve)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	item, err := svc.GetBySKU(ctx, "kit-classic")
	require.NoError(t, err)
	require.Equal(t, 8, item.Reserved)
}

func TestAdjustStock_RecordsMovementPerCall(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.CreateItem(ctx, "kit-vintage", "Vintage kit", 20, 5)
	require.NoError(t, err)

	_, err = svc.AdjustStock(ctx, "kit-vintage", 2, "order reservation", "ord-1", domain.OpReserve)
	require.NoError(t, err)
	_, err = svc.AdjustStock(ctx, "kit-vintage", 2, "order packed", "ord-1", domain.OpRelease)
	require.NoError(t, err)
	_, err = svc.AdjustStock(ctx, "kit-vintage", 2, "order packed", "ord-1", domain.OpRemove)
	require.NoError(t, err)

	movements, err := svc.Movements(ctx, "kit-vintage")
	require.NoError(t, err)
	require.Len(t, movements, 3)
	require.Equal(t, domain.OpReserve, movements[0].Op)
	require.Equal(t, "ord-1", movements[0].OrderID)
}

func TestAdjustStock_LowStockAdvisoryPublished(t *testing.T) {
	svc, pub := newService(t)
	ctx := context.Background()
	_, err := svc.CreateItem(ctx, "kit-classic", "Classic kit", 10, 3)
	require.NoError(t, err)

	_, err = svc.AdjustStock(ctx, "kit-classic", 6, "earmark", "", domain.OpReserve)
	require.NoError(t, err)
	require.Equal(t, 0, pub.count(events.LowStock))

	// available drops from 4 to 3 == threshold
	_, err = svc.AdjustStock(ctx, "kit-classic", 1, "earmark", "", domain.OpReserve)
	require.NoError(t, err)
	require.Equal(t, 1, pub.count(events.LowStock))

	// add does not alert
	_, err = svc.AdjustStock(ctx, "kit-classic", 1, "restock", "", domain.OpAdd)
	require.NoError(t, err)
	require.Equal(t, 1, pub.count(events.LowStock))
}

func TestAdjustStock_UnknownSKU(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.AdjustStock(context.Background(), "missing", 1, "x", "", domain.OpAdd)
	require.Error(t, err)
}
