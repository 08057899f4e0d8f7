package events

import (
	"time"

	"github.com/google/uuid"
)

// Workflow event names published by the fulfillment core. Subscribers register
// against these names; an event published with no subscribers is dropped.
const (
	OrderPaid      = "order.paid"
	WriterAssigned = "writer.assigned"
	WritingStarted = "writing.started"
	DraftUploaded  = "draft.uploaded"
	QCApproved     = "qc.approved"
	QCRejected     = "qc.rejected"
	OrderPacked    = "order.packed"
	OrderShipped   = "order.shipped"
	OrderDelivered = "order.delivered"
	OrderCancelled = "order.cancelled"
	LowStock       = "inventory.low_stock"
)

// Event is the envelope carried across the bus.
type Event struct {
	ID         string
	Name       string
	OccurredAt time.Time
	Payload    any
}

// OrderPayload describes the order snapshot attached to workflow events.
type OrderPayload struct {
	OrderID    string
	CustomerID string
	WriterID   string
	QCID       string
	State      string
	KitSKU     string
	PriceCents int64
	Pages      int
	TrackingID string
	Feedback   string
	Reason     string
}

// StockPayload describes inventory alerts.
type StockPayload struct {
	SKU       string
	Stock     int
	Reserved  int
	Available int
	Threshold int
}

// New builds an event envelope with a fresh identifier and timestamp.
func New(name string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Name:       name,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}
