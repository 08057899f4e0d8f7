package ports

import (
	"context"

	"github.com/inkwell-letters/fulfillment/internal/domains/orders/domain"
)

// DispatchShipmentInput starts the shipment of an approved or packed order.
type DispatchShipmentInput struct {
	OrderID    string
	TrackingID string
}

// ShipmentDispatcher exposes the durable shipment flow required by the
// orders bounded context. Implementations may run inline or on a workflow
// cluster.
type ShipmentDispatcher interface {
	DispatchShipment(ctx context.Context, input DispatchShipmentInput) (*domain.Order, error)
}

// CourierSync defines outbound integration for booking a pickup with the
// shipping partner once an order is marked shipped.
type CourierSync interface {
	BookPickup(ctx context.Context, order *domain.Order) error
}
