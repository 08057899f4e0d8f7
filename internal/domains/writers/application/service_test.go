package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	ordersmemory "github.com/inkwell-letters/fulfillment/internal/domains/orders/adapters/memory"
	ordersapp "github.com/inkwell-letters/fulfillment/internal/domains/orders/application"
	ordersports "github.com/inkwell-letters/fulfillment/internal/domains/orders/ports"
	writersmemory "github.com/inkwell-letters/fulfillment/internal/domains/writers/adapters/memory"
)

type staticRates struct {
	cents int64
}

func (r staticRates) PerPageRateCents(context.Context, string) (int64, error) {
	return r.cents, nil
}

func newPortal(t *testing.T) (*Service, ordersports.Service) {
	t.Helper()
	engine := ordersapp.NewService(ordersmemory.NewRepository(), ordersmemory.NewIdempotencyStore(), nil)
	return NewService(engine, writersmemory.NewRepository(), staticRates{cents: 400}), engine
}

func TestAcceptTask_ConcurrentClaimsExactlyOneWinner(t *testing.T) {
	portal, engine := newPortal(t)
	ctx := context.Background()

	order, err := engine.CreateOrder(ctx, ordersports.CreateOrderInput{CustomerID: "cus-1", PriceCents: 5000, Pages: 2, KitSKU: "kit-classic"})
	require.NoError(t, err)
	_, err = engine.ConfirmPayment(ctx, order.ID, "gw-ord-1", "gw-pay-1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, writerID := range []string{"wrt-a", "wrt-b"} {
		wg.Add(1)
		go func(slot int, id string) {
			defer wg.Done()
			_, errs[slot] = portal.AcceptTask(ctx, order.ID, id)
		}(i, writerID)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		}
	}
	require.Equal(t, 1, wins, "exactly one concurrent claim must win")

	claimed, err := engine.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotEmpty(t, claimed.Fulfillment.AssignedWriter)
}

func TestDeclineTask_ReturnsOrderToPool(t *testing.T) {
	portal, engine := newPortal(t)
	ctx := context.Background()

	order, err := engine.CreateOrder(ctx, ordersports.CreateOrderInput{CustomerID: "cus-1", PriceCents: 5000, Pages: 2, KitSKU: "kit-classic"})
	require.NoError(t, err)
	_, err = engine.ConfirmPayment(ctx, order.ID, "gw-ord-1", "gw-pay-1")
	require.NoError(t, err)
	_, err = portal.AcceptTask(ctx, order.ID, "wrt-a")
	require.NoError(t, err)

	// only the assigned writer may hand the task back
	_, err = portal.DeclineTask(ctx, order.ID, "wrt-b")
	require.Error(t, err)

	_, err = portal.DeclineTask(ctx, order.ID, "wrt-a")
	require.NoError(t, err)

	open, err := portal.OpenTasks(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	require.Empty(t, open[0].Fulfillment.AssignedWriter)
}

func TestSubmitDraft_RejectsOtherWriters(t *testing.T) {
	portal, engine := newPortal(t)
	ctx := context.Background()

	order, err := engine.CreateOrder(ctx, ordersports.CreateOrderInput{CustomerID: "cus-1", PriceCents: 5000, Pages: 2, KitSKU: "kit-classic"})
	require.NoError(t, err)
	_, err = engine.ConfirmPayment(ctx, order.ID, "gw-ord-1", "gw-pay-1")
	require.NoError(t, err)
	_, err = portal.AcceptTask(ctx, order.ID, "wrt-a")
	require.NoError(t, err)
	_, err = portal.StartWriting(ctx, order.ID, "wrt-a")
	require.NoError(t, err)

	_, err = portal.SubmitDraft(ctx, order.ID, "wrt-b", "https://files.example/draft-1.pdf")
	require.ErrorIs(t, err, ErrNotAssignedWriter)

	_, err = portal.SubmitDraft(ctx, order.ID, "wrt-a", "https://files.example/draft-1.pdf")
	require.NoError(t, err)
}

func TestRecordEarnings_ComputesAndBooksOnce(t *testing.T) {
	portal, _ := newPortal(t)
	ctx := context.Background()

	payout, err := portal.RecordEarnings(ctx, "ord-1", "wrt-a", 3)
	require.NoError(t, err)
	require.Equal(t, int64(1200), payout.AmountCents)

	replay, err := portal.RecordEarnings(ctx, "ord-1", "wrt-a", 3)
	require.NoError(t, err)
	require.Equal(t, payout.ID, replay.ID)

	_, err = portal.RecordEarnings(ctx, "ord-2", "wrt-a", 2)
	require.NoError(t, err)

	earnings, err := portal.EarningsFor(ctx, "wrt-a")
	require.NoError(t, err)
	require.Len(t, earnings.Payouts, 2)
	require.Equal(t, int64(2000), earnings.TotalCents)
}
