package ports

import (
	"context"

	"github.com/inkwell-letters/fulfillment/internal/domains/orders/domain"
)

// CreateOrderInput carries the checkout parameters for a new order.
type CreateOrderInput struct {
	CustomerID string
	PriceCents int64
	Pages      int
	KitSKU     string
}

// Service defines the workflow engine's use cases (inbound/driving port).
// Every transition validates the order's current state atomically and
// publishes the corresponding workflow event on success.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	ListOpenTasks(ctx context.Context) ([]*domain.Order, error)

	ConfirmPayment(ctx context.Context, orderID, gatewayOrderID, gatewayPaymentID string) (*domain.Order, error)
	AssignWriter(ctx context.Context, orderID, writerID string) (*domain.Order, error)
	ClaimWriter(ctx context.Context, orderID, writerID string) (*domain.Order, error)
	ReleaseWriter(ctx context.Context, orderID, writerID string) (*domain.Order, error)
	StartWriting(ctx context.Context, orderID, writerID string) (*domain.Order, error)
	UploadDraft(ctx context.Context, orderID, submissionURL string) (*domain.Order, error)
	ApproveQC(ctx context.Context, orderID, qcID string) (*domain.Order, error)
	RejectQC(ctx context.Context, orderID, qcID, feedback string) (*domain.Order, error)
	MarkPacked(ctx context.Context, orderID string) (*domain.Order, error)
	MarkShipped(ctx context.Context, orderID, trackingID string) (*domain.Order, error)
	MarkDelivered(ctx context.Context, orderID string) (*domain.Order, error)
	Cancel(ctx context.Context, orderID, reason string) (*domain.Order, error)
}
