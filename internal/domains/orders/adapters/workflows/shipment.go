// Package workflows adapts the shipment dispatch port to Temporal, with an
// inline fallback for development and tests.
package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/inkwell-letters/fulfillment/internal/domains/orders/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/orders/ports"
	shippingworkflows "github.com/inkwell-letters/fulfillment/internal/platform/temporal/workflows/shipping"
)

var (
	_ ports.ShipmentDispatcher = (*TemporalShipmentDispatcher)(nil)
	_ ports.ShipmentDispatcher = (*InlineShipmentDispatcher)(nil)
)

// TemporalShipmentDispatcher starts the shipment dispatch workflow on a
// Temporal cluster.
type TemporalShipmentDispatcher struct {
	client    client.Client
	taskQueue string
}

// NewTemporalShipmentDispatcher wires a Temporal client into the dispatcher.
func NewTemporalShipmentDispatcher(c client.Client) *TemporalShipmentDispatcher {
	return &TemporalShipmentDispatcher{client: c, taskQueue: shippingworkflows.ShipmentDispatchTaskQueue}
}

// DispatchShipment runs the durable shipment flow and waits for its result.
// The workflow id is derived from the order id, so a re-dispatch of an
// in-flight order attaches to the running workflow instead of double-booking
// the courier.
func (d *TemporalShipmentDispatcher) DispatchShipment(ctx context.Context, input ports.DispatchShipmentInput) (*domain.Order, error) {
	if d == nil || d.client == nil {
		return nil, errors.New("temporal shipment dispatcher not configured")
	}
	workflowID := fmt.Sprintf("shipment-dispatch-%s", input.OrderID)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: d.taskQueue,
	}
	run, err := d.client.ExecuteWorkflow(
		ctx,
		options,
		shippingworkflows.ShipmentDispatchWorkflow,
		shippingworkflows.ShipmentDispatchWorkflowInput{Command: input, TraceID: traceComponent(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			existingRun := d.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
			var order domain.Order
			if err := existingRun.Get(ctx, &order); err != nil {
				return nil, err
			}
			return &order, nil
		}
		return nil, err
	}
	var order domain.Order
	if err := run.Get(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// InlineShipmentDispatcher executes the shipment flow directly without
// Temporal. The courier booking is best-effort here; failures surface in the
// returned error but the shipment record stands.
type InlineShipmentDispatcher struct {
	engine  ports.Service
	courier ports.CourierSync
}

// NewInlineShipmentDispatcher wraps the engine for synchronous execution.
func NewInlineShipmentDispatcher(engine ports.Service, courier ports.CourierSync) *InlineShipmentDispatcher {
	return &InlineShipmentDispatcher{engine: engine, courier: courier}
}

// DispatchShipment marks the order shipped and books the pickup in-process.
func (d *InlineShipmentDispatcher) DispatchShipment(ctx context.Context, input ports.DispatchShipmentInput) (*domain.Order, error) {
	if d == nil || d.engine == nil {
		return nil, errors.New("inline shipment dispatcher not configured")
	}
	order, err := d.engine.MarkShipped(ctx, input.OrderID, input.TrackingID)
	if err != nil {
		return nil, err
	}
	if d.courier != nil {
		if err := d.courier.BookPickup(ctx, order); err != nil {
			return order, fmt.Errorf("shipment recorded, courier pickup failed: %w", err)
		}
	}
	return order, nil
}

func traceComponent(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span != nil {
		if spanCtx := span.SpanContext(); spanCtx.IsValid() && spanCtx.TraceID().IsValid() {
			return spanCtx.TraceID().String()
		}
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}
