package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordersdomain "github.com/inkwell-letters/fulfillment/internal/domains/orders/domain"
	ordersports "github.com/inkwell-letters/fulfillment/internal/domains/orders/ports"
	shippingactivities "github.com/inkwell-letters/fulfillment/internal/platform/temporal/activities/shipping"
)

// RunShipmentDispatchSequence executes the ordered activities that hand an
// order to the courier: record the shipment, then book the pickup.
func RunShipmentDispatchSequence(ctx workflow.Context, input ordersports.DispatchShipmentInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("shipment dispatch sequence started", "orderId", input.OrderID)

	shipOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	pickupOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    5 * time.Second,
			MaximumAttempts:    3,
		},
	}

	var order ordersdomain.Order
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, shipOptions), shippingactivities.MarkShippedActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("shipment dispatch sequence failed", "orderId", input.OrderID, "error", err)
		return nil, err
	}
	logger.Info("shipment dispatch sequence recorded shipment", "orderId", order.ID, "trackingId", order.Fulfillment.TrackingID)

	// Pickup booking retries independently; the shipment record stands either way.
	pickup := shippingactivities.OrderIdentifier{ID: order.ID}
	if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, pickupOptions), shippingactivities.BookCourierPickupActivityName, pickup).Get(ctx, nil); err != nil {
		logger.Error("shipment dispatch sequence pickup failed", "orderId", order.ID, "error", err)
		return &order, err
	}
	logger.Info("shipment dispatch sequence booked pickup", "orderId", order.ID)
	return &order, nil
}
