// Package mapper converts order aggregates to and from their HTTP shapes.
package mapper

import (
	"time"

	"github.com/inkwell-letters/fulfillment/internal/domains/orders/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/orders/ports"
)

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	PriceCents int64  `json:"price_cents" binding:"required"`
	Pages      int    `json:"pages" binding:"required"`
	KitSKU     string `json:"kit_sku"`
}

// ToCreateInput maps the request to the engine's input.
func ToCreateInput(req CreateOrderRequest) ports.CreateOrderInput {
	return ports.CreateOrderInput{
		CustomerID: req.CustomerID,
		PriceCents: req.PriceCents,
		Pages:      req.Pages,
		KitSKU:     req.KitSKU,
	}
}

// PaymentResponse exposes the payment snapshot.
type PaymentResponse struct {
	GatewayOrderID   string     `json:"gateway_order_id,omitempty"`
	GatewayPaymentID string     `json:"gateway_payment_id,omitempty"`
	Status           string     `json:"status,omitempty"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
}

// OrderResponse is the canonical order representation. Status is the legacy
// coarse view derived from the workflow state; clients migrating off it
// should read State.
type OrderResponse struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customer_id"`
	PriceCents      int64           `json:"price_cents"`
	Pages           int             `json:"pages"`
	KitSKU          string          `json:"kit_sku,omitempty"`
	State           string          `json:"state"`
	Status          string          `json:"status"`
	AssignedWriter  string          `json:"assigned_writer,omitempty"`
	AssignedQC      string          `json:"assigned_qc,omitempty"`
	SubmissionURL   string          `json:"submission_url,omitempty"`
	QCFeedback      string          `json:"qc_feedback,omitempty"`
	TrackingID      string          `json:"tracking_id,omitempty"`
	ShippedAt       *time.Time      `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	Payment         PaymentResponse `json:"payment"`
	CancelledReason string          `json:"cancelled_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// FromOrder maps the aggregate to its response shape.
func FromOrder(order *domain.Order) OrderResponse {
	return OrderResponse{
		ID:             order.ID,
		CustomerID:     order.CustomerID,
		PriceCents:     order.PriceCents,
		Pages:          order.Pages,
		KitSKU:         order.KitSKU,
		State:          string(order.State),
		Status:         order.LegacyStatus(),
		AssignedWriter: order.Fulfillment.AssignedWriter,
		AssignedQC:     order.Fulfillment.AssignedQC,
		SubmissionURL:  order.Fulfillment.SubmissionURL,
		QCFeedback:     order.Fulfillment.QCFeedback,
		TrackingID:     order.Fulfillment.TrackingID,
		ShippedAt:      order.Fulfillment.ShippedAt,
		DeliveredAt:    order.Fulfillment.DeliveredAt,
		Payment: PaymentResponse{
			GatewayOrderID:   order.Payment.GatewayOrderID,
			GatewayPaymentID: order.Payment.GatewayPaymentID,
			Status:           string(order.Payment.Status),
			PaidAt:           order.Payment.PaidAt,
		},
		CancelledReason: order.CancelledReason,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

// FromOrderList maps a slice of aggregates.
func FromOrderList(orders []*domain.Order) []OrderResponse {
	list := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		list = append(list, FromOrder(order))
	}
	return list
}
