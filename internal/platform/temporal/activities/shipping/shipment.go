// Package shipping groups the Temporal activities of the shipment dispatch
// flow.
package shipping

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	ordersdomain "github.com/inkwell-letters/fulfillment/internal/domains/orders/domain"
	ordersports "github.com/inkwell-letters/fulfillment/internal/domains/orders/ports"
)

const (
	// MarkShippedActivityName records the shipment on the order workflow.
	MarkShippedActivityName = "shipping.activities.MarkShipped"
	// BookCourierPickupActivityName books the pickup with the courier partner.
	BookCourierPickupActivityName = "shipping.activities.BookCourierPickup"
)

// OrderIdentifier addresses one order across activity boundaries.
type OrderIdentifier struct {
	ID string
}

// Activities bundles the collaborators of the shipment dispatch flow.
type Activities struct {
	engine  ordersports.Service
	courier ordersports.CourierSync
}

// NewActivities wires the order engine and the courier integration into the
// activity bundle.
func NewActivities(engine ordersports.Service, courier ordersports.CourierSync) *Activities {
	return &Activities{engine: engine, courier: courier}
}

// MarkShipped transitions the order to shipped with its tracking id.
func (a *Activities) MarkShipped(ctx context.Context, input ordersports.DispatchShipmentInput) (*ordersdomain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.engine == nil {
		logger.Error("mark shipped activity not initialized", "orderId", input.OrderID)
		return nil, errors.New("mark shipped activity not initialized")
	}
	logger.Info("MarkShipped activity started", "orderId", input.OrderID)
	order, err := a.engine.MarkShipped(ctx, input.OrderID, input.TrackingID)
	if err != nil {
		logger.Error("MarkShipped activity failed", "orderId", input.OrderID, "error", err)
		return nil, err
	}
	logger.Info("MarkShipped activity completed", "orderId", order.ID)
	return order, nil
}

// BookCourierPickup loads the shipped order and books the pickup with the
// courier. A retried attempt that already booked skips via heartbeat state.
func (a *Activities) BookCourierPickup(ctx context.Context, input OrderIdentifier) error {
	logger := activity.GetLogger(ctx)
	if a == nil {
		logger.Error("courier pickup activity not initialized", "orderId", input.ID)
		return errors.New("courier pickup activity not initialized")
	}
	if a.courier == nil {
		logger.Info("courier integration not configured; skipping", "orderId", input.ID)
		return nil
	}
	if a.engine == nil {
		logger.Error("order engine not configured for courier pickup", "orderId", input.ID)
		return errors.New("order engine not configured for courier pickup")
	}

	var hb pickupHeartbeat
	if activity.HasHeartbeatDetails(ctx) {
		_ = activity.GetHeartbeatDetails(ctx, &hb)
	}
	if hb.Completed {
		logger.Info("BookCourierPickup already completed in prior attempt; skipping", "orderId", input.ID)
		return nil
	}

	logger.Info("BookCourierPickup activity started", "orderId", input.ID)
	order, err := a.engine.GetByID(ctx, input.ID)
	if err != nil {
		logger.Error("BookCourierPickup failed to load order", "orderId", input.ID, "error", err)
		return err
	}
	if err := a.courier.BookPickup(ctx, order); err != nil {
		logger.Error("BookCourierPickup failed", "orderId", input.ID, "error", err)
		return err
	}
	activity.RecordHeartbeat(ctx, pickupHeartbeat{Completed: true})
	logger.Info("BookCourierPickup activity completed", "orderId", input.ID)
	return nil
}

type pickupHeartbeat struct {
	Completed bool
}
