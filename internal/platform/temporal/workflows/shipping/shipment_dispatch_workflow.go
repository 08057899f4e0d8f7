// Package shipping defines the durable shipment dispatch workflow.
package shipping

import (
	"go.temporal.io/sdk/workflow"

	ordersdomain "github.com/inkwell-letters/fulfillment/internal/domains/orders/domain"
	ordersports "github.com/inkwell-letters/fulfillment/internal/domains/orders/ports"
	"github.com/inkwell-letters/fulfillment/internal/platform/temporal/sequences"
)

const (
	// ShipmentDispatchWorkflowName is the public identifier for registering the workflow.
	ShipmentDispatchWorkflowName = "shipping.workflows.Dispatch"
	// ShipmentDispatchTaskQueue is the queue consumed by the fulfillment worker.
	ShipmentDispatchTaskQueue = "SHIPMENT_DISPATCH"
)

// ShipmentDispatchWorkflowInput captures the payload required to ship an order.
type ShipmentDispatchWorkflowInput struct {
	Command ordersports.DispatchShipmentInput
	TraceID string
}

// ShipmentDispatchWorkflow orchestrates shipping an approved or packed order.
func ShipmentDispatchWorkflow(ctx workflow.Context, input ShipmentDispatchWorkflowInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("ShipmentDispatchWorkflow started", withTraceID(input.TraceID, "orderId", input.Command.OrderID)...)
	order, err := sequences.RunShipmentDispatchSequence(ctx, input.Command)
	if err != nil {
		logger.Error("ShipmentDispatchWorkflow failed", withTraceID(input.TraceID, "orderId", input.Command.OrderID, "error", err)...)
		return order, err
	}
	logger.Info("ShipmentDispatchWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID)...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
