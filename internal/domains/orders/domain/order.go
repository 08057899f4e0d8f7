package domain

import (
	"errors"
	"strings"
	"time"
)

// State enumerates the fulfillment lifecycle of an order. It is the single
// source of truth for where the order sits; LegacyStatus derives the old
// storefront status string for callers that still need it.
type State string

const (
	StatePendingPayment    State = "pending_payment"
	StatePaid              State = "paid"
	StateAssigned          State = "assigned"
	StateWritingInProgress State = "writing_in_progress"
	StateQCReview          State = "qc_review"
	StateApproved          State = "approved"
	StateChangesRequested  State = "changes_requested"
	StatePacked            State = "packed"
	StateShipped           State = "shipped"
	StateDelivered         State = "delivered"
	StateCancelled         State = "cancelled"
)

var (
	ErrInvalidState  = errors.New("order state is invalid")
	ErrEmptyCustomer = errors.New("customer id is required")
	ErrInvalidPrice  = errors.New("price must be greater than zero")
	ErrInvalidPages  = errors.New("page count must be greater than zero")
	ErrOrderTerminal = errors.New("order is in a terminal state")
)

// PaymentStatus tracks the gateway-side status, distinct from the workflow state.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Fulfillment holds the writer/QC/shipping sub-process attached to an order
// after payment. Zero values mean the stage has not been reached.
type Fulfillment struct {
	AssignedWriter string
	AssignedQC     string
	SubmissionURL  string
	QCFeedback     string
	TrackingID     string
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
}

// Payment mirrors the gateway identifiers for the order.
type Payment struct {
	GatewayOrderID   string
	GatewayPaymentID string
	Status           PaymentStatus
	PaidAt           *time.Time
}

// Order is the central fulfillment aggregate. Its State and Fulfillment
// fields are mutated exclusively through the workflow engine so the state
// machine invariants hold.
type Order struct {
	ID              string
	CustomerID      string
	PriceCents      int64
	Pages           int
	KitSKU          string
	State           State
	Fulfillment     Fulfillment
	Payment         Payment
	CancelledReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewOrder validates and constructs an order in pending_payment.
func NewOrder(id, customerID string, priceCents int64, pages int, kitSKU string) (*Order, error) {
	order := &Order{
		ID:         id,
		CustomerID: strings.TrimSpace(customerID),
		PriceCents: priceCents,
		Pages:      pages,
		KitSKU:     strings.TrimSpace(kitSKU),
		State:      StatePendingPayment,
		Payment:    Payment{Status: PaymentPending},
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.CustomerID == "" {
		return ErrEmptyCustomer
	}
	if o.PriceCents <= 0 {
		return ErrInvalidPrice
	}
	if o.Pages <= 0 {
		return ErrInvalidPages
	}
	if !IsValidState(o.State) {
		return ErrInvalidState
	}
	return nil
}

// Terminal reports whether the order can no longer transition.
func (o *Order) Terminal() bool {
	return o.State == StateDelivered || o.State == StateCancelled
}

// Cancellable reports whether the order may still be cancelled. Orders that
// have shipped must run through delivery; cancelled/delivered orders stay put.
func (o *Order) Cancellable() bool {
	switch o.State {
	case StateShipped, StateDelivered, StateCancelled:
		return false
	default:
		return true
	}
}

// IsValidState reports whether the value is a known workflow state.
func IsValidState(s State) bool {
	switch s {
	case StatePendingPayment, StatePaid, StateAssigned, StateWritingInProgress,
		StateQCReview, StateApproved, StateChangesRequested, StatePacked,
		StateShipped, StateDelivered, StateCancelled:
		return true
	default:
		return false
	}
}

// CancellableStates lists every state from which Cancel is legal.
func CancellableStates() []State {
	return []State{
		StatePendingPayment, StatePaid, StateAssigned, StateWritingInProgress,
		StateQCReview, StateApproved, StateChangesRequested, StatePacked,
	}
}

// LegacyStatus maps the canonical state onto the storefront's historical
// status vocabulary. Derived view only; never persisted separately.
func (o *Order) LegacyStatus() string {
	switch o.State {
	case StatePendingPayment:
		return "awaiting_payment"
	case StatePaid, StateAssigned, StateWritingInProgress, StateQCReview,
		StateApproved, StateChangesRequested, StatePacked:
		return "processing"
	case StateShipped:
		return "shipped"
	case StateDelivered:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return string(o.State)
	}
}
