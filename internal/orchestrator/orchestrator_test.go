package orchestrator

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkwell-letters/fulfillment/internal/analytics"
	accountsmemory "github.com/inkwell-letters/fulfillment/internal/domains/accounts/adapters/memory"
	accountsapp "github.com/inkwell-letters/fulfillment/internal/domains/accounts/application"
	accountsdomain "github.com/inkwell-letters/fulfillment/internal/domains/accounts/domain"
	accountsports "github.com/inkwell-letters/fulfillment/internal/domains/accounts/ports"
	inventorymemory "github.com/inkwell-letters/fulfillment/internal/domains/inventory/adapters/memory"
	inventoryapp "github.com/inkwell-letters/fulfillment/internal/domains/inventory/application"
	notificationsmemory "github.com/inkwell-letters/fulfillment/internal/domains/notifications/adapters/memory"
	"github.com/inkwell-letters/fulfillment/internal/domains/notifications/adapters/directory"
	notificationsapp "github.com/inkwell-letters/fulfillment/internal/domains/notifications/application"
	ordersmemory "github.com/inkwell-letters/fulfillment/internal/domains/orders/adapters/memory"
	ordersapp "github.com/inkwell-letters/fulfillment/internal/domains/orders/application"
	ordersports "github.com/inkwell-letters/fulfillment/internal/domains/orders/ports"
	writersmemory "github.com/inkwell-letters/fulfillment/internal/domains/writers/adapters/memory"
	writersapp "github.com/inkwell-letters/fulfillment/internal/domains/writers/application"
	"github.com/inkwell-letters/fulfillment/internal/events"
)

type accountRates struct {
	accounts accountsports.Service
}

func (r accountRates) PerPageRateCents(ctx context.Context, writerID string) (int64, error) {
	account, err := r.accounts.GetAccount(ctx, writerID)
	if err != nil {
		return 0, err
	}
	return account.PerPageRateCents, nil
}

type stack struct {
	bus           *events.Bus
	engine        ordersports.Service
	inventory     *inventoryapp.Service
	writers       *writersapp.Service
	notifications *notificationsapp.Dispatcher
	notifLog      *notificationsmemory.Repository
	sink          *analytics.MemorySink
	accounts      accountsports.Service

	mu          sync.Mutex
	deadLetters []string
}

func newStack(t *testing.T) *stack {
	t.Helper()
	s := &stack{
		sink:     analytics.NewMemorySink(),
		notifLog: notificationsmemory.NewRepository(),
	}
	s.bus = events.NewBus(events.WithDeadLetter(func(evt events.Event, handler string, err error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.deadLetters = append(s.deadLetters, handler+": "+err.Error())
	}))

	s.accounts = accountsapp.NewService(accountsmemory.NewRepository())
	s.engine = ordersapp.NewService(ordersmemory.NewRepository(), ordersmemory.NewIdempotencyStore(), s.bus)
	s.inventory = inventoryapp.NewService(inventorymemory.NewRepository(), s.bus)
	s.writers = writersapp.NewService(s.engine, writersmemory.NewRepository(), accountRates{accounts: s.accounts})
	s.notifications = notificationsapp.NewDispatcher(
		directory.NewAccountsDirectory(s.accounts), s.notifLog, nil, nil, nil, nil)

	Wire(s.bus, Deps{
		Inventory:     s.inventory,
		Writers:       s.writers,
		Notifications: s.notifications,
		Analytics:     s.sink,
	})
	return s
}

func (s *stack) deadLetterCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deadLetters)
}

func (s *stack) createAccount(t *testing.T, name string, role accountsdomain.Role, rate int64) string {
	t.Helper()
	account, err := s.accounts.CreateAccount(context.Background(), accountsports.CreateAccountInput{
		Name:             name,
		Email:            name + "@example.com",
		Role:             role,
		PerPageRateCents: rate,
	})
	require.NoError(t, err)
	return account.ID
}

func TestWire_FullFulfillmentFlow(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	customerID := s.createAccount(t, "ben", accountsdomain.RoleCustomer, 0)
	writerID := s.createAccount(t, "ada", accountsdomain.RoleWriter, 400)
	qcID := s.createAccount(t, "mira", accountsdomain.RoleQC, 0)

	_, err := s.inventory.CreateItem(ctx, "kit-classic", "Classic kit", 10, 3)
	require.NoError(t, err)

	order, err := s.engine.CreateOrder(ctx, ordersports.CreateOrderInput{
		CustomerID: customerID, PriceCents: 5000, Pages: 2, KitSKU: "kit-classic",
	})
	require.NoError(t, err)

	_, err = s.engine.ConfirmPayment(ctx, order.ID, "gw-ord-1", "gw-pay-1")
	require.NoError(t, err)
	s.bus.Wait()

	// payment reserves the kit and notifies the customer
	item, err := s.inventory.GetBySKU(ctx, "kit-classic")
	require.NoError(t, err)
	require.Equal(t, 1, item.Reserved)

	_, err = s.engine.ClaimWriter(ctx, order.ID, writerID)
	require.NoError(t, err)
	_, err = s.engine.StartWriting(ctx, order.ID, writerID)
	require.NoError(t, err)
	_, err = s.engine.UploadDraft(ctx, order.ID, "https://files.example/draft-1.pdf")
	require.NoError(t, err)
	_, err = s.engine.ApproveQC(ctx, order.ID, qcID)
	require.NoError(t, err)
	s.bus.Wait()

	// approval books the writer's payout at their per-page rate
	earnings, err := s.writers.EarningsFor(ctx, writerID)
	require.NoError(t, err)
	require.Equal(t, int64(800), earnings.TotalCents)

	_, err = s.engine.MarkPacked(ctx, order.ID)
	require.NoError(t, err)
	s.bus.Wait()

	// packing consumes the reserved kit
	item, err = s.inventory.GetBySKU(ctx, "kit-classic")
	require.NoError(t, err)
	require.Equal(t, 9, item.Stock)
	require.Equal(t, 0, item.Reserved)

	_, err = s.engine.MarkShipped(ctx, order.ID, "TRK-1")
	require.NoError(t, err)
	_, err = s.engine.MarkDelivered(ctx, order.ID)
	require.NoError(t, err)
	s.bus.Wait()

	require.Zero(t, s.deadLetterCount())

	customerNotes, err := s.notifications.History(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, customerNotes, 5) // paid, assigned, approved, shipped, delivered

	// assignment pings both sides: the customer hears a writer picked up
	// their order, the writer gets the task
	var assignmentNote bool
	for _, note := range customerNotes {
		if note.EventName == events.WriterAssigned {
			assignmentNote = true
			require.Contains(t, note.Body, order.ID)
		}
	}
	require.True(t, assignmentNote)

	writerNotes, err := s.notifications.History(ctx, writerID)
	require.NoError(t, err)
	require.Len(t, writerNotes, 1) // assignment

	require.Equal(t, 1, s.sink.Count(events.OrderPaid))
	require.Equal(t, 1, s.sink.Count(events.OrderDelivered))
	require.Len(t, s.sink.Events(), 8) // every workflow event recorded
}

func TestWire_CancelReleasesReservation(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	customerID := s.createAccount(t, "ben", accountsdomain.RoleCustomer, 0)
	_, err := s.inventory.CreateItem(ctx, "kit-classic", "Classic kit", 5, 2)
	require.NoError(t, err)

	order, err := s.engine.CreateOrder(ctx, ordersports.CreateOrderInput{
		CustomerID: customerID, PriceCents: 5000, Pages: 1, KitSKU: "kit-classic",
	})
	require.NoError(t, err)
	_, err = s.engine.ConfirmPayment(ctx, order.ID, "gw-ord-1", "gw-pay-1")
	require.NoError(t, err)
	s.bus.Wait()

	_, err = s.engine.Cancel(ctx, order.ID, "customer changed their mind")
	require.NoError(t, err)
	s.bus.Wait()

	item, err := s.inventory.GetBySKU(ctx, "kit-classic")
	require.NoError(t, err)
	require.Equal(t, 0, item.Reserved)
	require.Equal(t, 5, item.Stock)
	require.Zero(t, s.deadLetterCount())
}

func TestWire_HandlerFailureIsDeadLetteredNotFatal(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	customerID := s.createAccount(t, "ben", accountsdomain.RoleCustomer, 0)

	// no inventory item exists for this SKU, so the reservation handler fails
	order, err := s.engine.CreateOrder(ctx, ordersports.CreateOrderInput{
		CustomerID: customerID, PriceCents: 5000, Pages: 1, KitSKU: "kit-missing",
	})
	require.NoError(t, err)
	confirmed, err := s.engine.ConfirmPayment(ctx, order.ID, "gw-ord-1", "gw-pay-1")
	require.NoError(t, err)
	require.NotNil(t, confirmed)
	s.bus.Wait()

	require.Equal(t, 1, s.deadLetterCount())

	// the transition itself stands; other handlers still ran
	notes, err := s.notifications.History(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
}

func TestWire_LowStockAdvisoryReachesAnalytics(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	_, err := s.inventory.CreateItem(ctx, "kit-classic", "Classic kit", 4, 3)
	require.NoError(t, err)
	_, err = s.inventory.AdjustStock(ctx, "kit-classic", 2, "bulk reservation", "", "reserve")
	require.NoError(t, err)
	s.bus.Wait()

	require.Equal(t, 1, s.sink.Count(events.LowStock))
	require.Zero(t, s.deadLetterCount())
}
