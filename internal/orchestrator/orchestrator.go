// Package orchestrator subscribes the side-effect handlers to the workflow
// event bus: stock movements, notifications, payout booking and analytics.
// Every handler is best-effort; a failure dead-letters on the bus and never
// affects the transition that published the event.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inkwell-letters/fulfillment/internal/analytics"
	inventorydomain "github.com/inkwell-letters/fulfillment/internal/domains/inventory/domain"
	inventoryports "github.com/inkwell-letters/fulfillment/internal/domains/inventory/ports"
	notificationsports "github.com/inkwell-letters/fulfillment/internal/domains/notifications/ports"
	writersports "github.com/inkwell-letters/fulfillment/internal/domains/writers/ports"
	"github.com/inkwell-letters/fulfillment/internal/events"
)

// Deps are the services the orchestrator fans events out to. Any of them may
// be nil; the matching handlers are simply not registered.
type Deps struct {
	Inventory     inventoryports.Service
	Writers       writersports.Service
	Notifications notificationsports.Service
	Analytics     analytics.Sink
	Logger        *slog.Logger
}

// Wire registers every side-effect handler on the bus. Call once during
// process startup, before the first publish.
func Wire(bus *events.Bus, deps Deps) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	o := &orchestrator{deps: deps, logger: logger}

	if deps.Analytics != nil {
		for _, name := range []string{
			events.OrderPaid, events.WriterAssigned, events.WritingStarted,
			events.DraftUploaded, events.QCApproved, events.QCRejected,
			events.OrderPacked, events.OrderShipped, events.OrderDelivered,
			events.OrderCancelled, events.LowStock,
		} {
			bus.Subscribe(name, "analytics", o.recordAnalytics)
		}
	}

	if deps.Inventory != nil {
		bus.Subscribe(events.OrderPaid, "inventory.reserve", o.reserveKit)
		bus.Subscribe(events.OrderPacked, "inventory.commit", o.commitKit)
		bus.Subscribe(events.OrderCancelled, "inventory.release", o.releaseKit)
	}

	if deps.Notifications != nil {
		bus.Subscribe(events.OrderPaid, "notify.customer", o.notifyCustomer)
		bus.Subscribe(events.WriterAssigned, "notify.customer", o.notifyCustomer)
		bus.Subscribe(events.WriterAssigned, "notify.writer", o.notifyWriter)
		bus.Subscribe(events.QCApproved, "notify.customer", o.notifyCustomer)
		bus.Subscribe(events.QCRejected, "notify.writer", o.notifyWriter)
		bus.Subscribe(events.OrderShipped, "notify.customer", o.notifyCustomer)
		bus.Subscribe(events.OrderDelivered, "notify.customer", o.notifyCustomer)
		bus.Subscribe(events.OrderCancelled, "notify.customer", o.notifyCustomer)
	}

	if deps.Writers != nil {
		bus.Subscribe(events.QCApproved, "payout.book", o.bookPayout)
	}

	bus.Subscribe(events.LowStock, "ops.low_stock_alert", o.alertLowStock)
}

type orchestrator struct {
	deps   Deps
	logger *slog.Logger
}

func (o *orchestrator) recordAnalytics(ctx context.Context, evt events.Event) error {
	o.deps.Analytics.Record(ctx, evt)
	return nil
}

// reserveKit earmarks one stationery kit the moment the order is paid.
func (o *orchestrator) reserveKit(ctx context.Context, evt events.Event) error {
	payload, err := orderPayload(evt)
	if err != nil {
		return err
	}
	if payload.KitSKU == "" {
		return nil
	}
	_, err = o.deps.Inventory.AdjustStock(ctx, payload.KitSKU, 1, "order reservation", payload.OrderID, inventorydomain.OpReserve)
	return err
}

// commitKit converts the reservation into consumption when the letter is
// packed: the reserved unit is released and then removed from stock.
func (o *orchestrator) commitKit(ctx context.Context, evt events.Event) error {
	payload, err := orderPayload(evt)
	if err != nil {
		return err
	}
	if payload.KitSKU == "" {
		return nil
	}
	if _, err := o.deps.Inventory.AdjustStock(ctx, payload.KitSKU, 1, "order packed", payload.OrderID, inventorydomain.OpRelease); err != nil {
		return err
	}
	_, err = o.deps.Inventory.AdjustStock(ctx, payload.KitSKU, 1, "order packed", payload.OrderID, inventorydomain.OpRemove)
	return err
}

// releaseKit frees the reservation of a cancelled order. Orders cancelled
// before payment never reserved anything, so a missing reservation is fine.
func (o *orchestrator) releaseKit(ctx context.Context, evt events.Event) error {
	payload, err := orderPayload(evt)
	if err != nil {
		return err
	}
	if payload.KitSKU == "" {
		return nil
	}
	_, err = o.deps.Inventory.AdjustStock(ctx, payload.KitSKU, 1, "order cancelled", payload.OrderID, inventorydomain.OpRelease)
	if errors.Is(err, inventorydomain.ErrOverRelease) {
		return nil
	}
	return err
}

func (o *orchestrator) notifyCustomer(ctx context.Context, evt events.Event) error {
	payload, err := orderPayload(evt)
	if err != nil {
		return err
	}
	_, err = o.deps.Notifications.Notify(ctx, payload.CustomerID, evt)
	return err
}

func (o *orchestrator) notifyWriter(ctx context.Context, evt events.Event) error {
	payload, err := orderPayload(evt)
	if err != nil {
		return err
	}
	if payload.WriterID == "" {
		return nil
	}
	_, err = o.deps.Notifications.Notify(ctx, payload.WriterID, evt)
	return err
}

// bookPayout records the writer's earnings once QC approves the draft.
func (o *orchestrator) bookPayout(ctx context.Context, evt events.Event) error {
	payload, err := orderPayload(evt)
	if err != nil {
		return err
	}
	if payload.WriterID == "" {
		return fmt.Errorf("qc approval for order %s carries no writer", payload.OrderID)
	}
	_, err = o.deps.Writers.RecordEarnings(ctx, payload.OrderID, payload.WriterID, payload.Pages)
	return err
}

// alertLowStock surfaces the advisory; restocking stays a human decision.
func (o *orchestrator) alertLowStock(ctx context.Context, evt events.Event) error {
	payload, ok := evt.Payload.(events.StockPayload)
	if !ok {
		return fmt.Errorf("event %s payload is not a stock snapshot", evt.Name)
	}
	o.logger.WarnContext(ctx, "stock running low, consider restocking",
		slog.String("sku", payload.SKU),
		slog.Int("available", payload.Available),
		slog.Int("threshold", payload.Threshold),
	)
	return nil
}

func orderPayload(evt events.Event) (events.OrderPayload, error) {
	payload, ok := evt.Payload.(events.OrderPayload)
	if !ok {
		return events.OrderPayload{}, fmt.Errorf("event %s payload is not an order snapshot", evt.Name)
	}
	return payload, nil
}
