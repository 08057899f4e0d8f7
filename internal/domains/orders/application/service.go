package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-letters/fulfillment/internal/domains/orders/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/orders/ports"
	"github.com/inkwell-letters/fulfillment/internal/events"
)

// Publisher is the outbound port for workflow events. Satisfied by
// *events.Bus; side effects hang off the bus, never off this service.
type Publisher interface {
	Publish(ctx context.Context, evt events.Event)
}

// Service is the order workflow engine. Every transition is one atomic
// conditional repository operation; a successful transition publishes exactly
// one workflow event. Payment confirmation is synchronous and idempotent —
// it must not depend on the fire-and-forget event path.
type Service struct {
	repo ports.Repository
	idem ports.IdempotencyStore
	bus  Publisher
}

// NewService wires the workflow engine with its dependencies.
func NewService(repo ports.Repository, idem ports.IdempotencyStore, bus Publisher) *Service {
	return &Service{repo: repo, idem: idem, bus: bus}
}

// CreateOrder persists a new order in pending_payment. The price is fixed
// here and reused for every downstream amount calculation.
func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	order, err := domain.NewOrder(uuid.NewString(), input.CustomerID, input.PriceCents, input.Pages, input.KitSKU)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Create(ctx, order)
}

// GetByID loads a single order.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns every order.
func (s *Service) List(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.List(ctx)
}

// ListOpenTasks returns paid, unassigned orders available for claiming.
func (s *Service) ListOpenTasks(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.repo.ListByState(ctx, domain.StatePaid)
	if err != nil {
		return nil, err
	}
	open := orders[:0]
	for _, order := range orders {
		if order.Fulfillment.AssignedWriter == "" {
			open = append(open, order)
		}
	}
	return open, nil
}

// ConfirmPayment moves the order from pending_payment to paid once the
// gateway has verified the charge. Replayed confirmations for the same
// gateway payment id return the current order without re-transitioning.
func (s *Service) ConfirmPayment(ctx context.Context, orderID, gatewayOrderID, gatewayPaymentID string) (*domain.Order, error) {
	gatewayPaymentID = strings.TrimSpace(gatewayPaymentID)
	if gatewayPaymentID == "" {
		return nil, fmt.Errorf("%w: gateway payment id is required", ErrInvalidInput)
	}
	if s.idem != nil {
		record, err := s.idem.Get(ctx, gatewayPaymentID)
		if err != nil {
			return nil, err
		}
		if record != nil {
			if record.OrderID != orderID {
				return nil, fmt.Errorf("%w: payment %s already confirmed order %s", ports.ErrIdempotencyConflict, gatewayPaymentID, record.OrderID)
			}
			return s.repo.GetByID(ctx, orderID)
		}
	}

	now := time.Now().UTC()
	payment := domain.Payment{
		GatewayOrderID:   gatewayOrderID,
		GatewayPaymentID: gatewayPaymentID,
		Status:           domain.PaymentConfirmed,
		PaidAt:           &now,
	}
	order, err := s.transition(ctx, "confirm payment", orderID,
		[]domain.State{domain.StatePendingPayment},
		ports.StateChange{To: domain.StatePaid, Payment: &payment},
	)
	if err != nil {
		return nil, err
	}
	if s.idem != nil {
		if _, err := s.idem.Save(ctx, ports.IdempotencyRecord{Key: gatewayPaymentID, OrderID: orderID, CreatedAt: now}); err != nil && !errors.Is(err, ports.ErrIdempotencyConflict) {
			return nil, err
		}
	}
	s.publish(ctx, events.OrderPaid, order)
	return order, nil
}

// AssignWriter attaches a writer to a paid order (admin-driven assignment,
// also legal as a reassignment while assigned or after QC rejection).
func (s *Service) AssignWriter(ctx context.Context, orderID, writerID string) (*domain.Order, error) {
	writerID = strings.TrimSpace(writerID)
	if writerID == "" {
		return nil, fmt.Errorf("%w: writer id is required", ErrInvalidInput)
	}
	order, err := s.transition(ctx, "assign writer", orderID,
		[]domain.State{domain.StatePaid, domain.StateAssigned, domain.StateChangesRequested},
		ports.StateChange{To: domain.StateAssigned, AssignWriter: &writerID},
	)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.WriterAssigned, order)
	return order, nil
}

// ClaimWriter is the race-free claim used by the writer task pool: the
// update succeeds only while the order is simultaneously paid and
// unassigned, so exactly one of two concurrent claimants wins.
func (s *Service) ClaimWriter(ctx context.Context, orderID, writerID string) (*domain.Order, error) {
	writerID = strings.TrimSpace(writerID)
	if writerID == "" {
		return nil, fmt.Errorf("%w: writer id is required", ErrInvalidInput)
	}
	order, err := s.transition(ctx, "claim task", orderID,
		[]domain.State{domain.StatePaid},
		ports.StateChange{To: domain.StateAssigned, AssignWriter: &writerID, RequireNoWriter: true},
	)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.WriterAssigned, order)
	return order, nil
}

// ReleaseWriter returns a claimed order to the open pool (decline path).
// Only the assigned writer may release.
func (s *Service) ReleaseWriter(ctx context.Context, orderID, writerID string) (*domain.Order, error) {
	return s.transition(ctx, "decline task", orderID,
		[]domain.State{domain.StateAssigned},
		ports.StateChange{To: domain.StatePaid, ClearWriter: true, RequireWriter: writerID},
	)
}

// StartWriting moves an assigned order into writing_in_progress.
func (s *Service) StartWriting(ctx context.Context, orderID, writerID string) (*domain.Order, error) {
	order, err := s.transition(ctx, "start writing", orderID,
		[]domain.State{domain.StateAssigned},
		ports.StateChange{To: domain.StateWritingInProgress, RequireWriter: writerID},
	)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.WritingStarted, order)
	return order, nil
}

// UploadDraft records the writer's submission and queues the order for QC.
// Legal again after changes_requested, closing the rejection loop.
func (s *Service) UploadDraft(ctx context.Context, orderID, submissionURL string) (*domain.Order, error) {
	submissionURL = strings.TrimSpace(submissionURL)
	if submissionURL == "" {
		return nil, fmt.Errorf("%w: submission url is required", ErrInvalidInput)
	}
	order, err := s.transition(ctx, "upload draft", orderID,
		[]domain.State{domain.StateAssigned, domain.StateWritingInProgress, domain.StateChangesRequested},
		ports.StateChange{To: domain.StateQCReview, SubmissionURL: &submissionURL},
	)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.DraftUploaded, order)
	return order, nil
}

// ApproveQC accepts the submitted draft.
func (s *Service) ApproveQC(ctx context.Context, orderID, qcID string) (*domain.Order, error) {
	qcID = strings.TrimSpace(qcID)
	if qcID == "" {
		return nil, fmt.Errorf("%w: qc reviewer id is required", ErrInvalidInput)
	}
	order, err := s.transition(ctx, "qc approve", orderID,
		[]domain.State{domain.StateQCReview},
		ports.StateChange{To: domain.StateApproved, AssignQC: &qcID},
	)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.QCApproved, order)
	return order, nil
}

// RejectQC sends the draft back to the writer with feedback.
func (s *Service) RejectQC(ctx context.Context, orderID, qcID, feedback string) (*domain.Order, error) {
	qcID = strings.TrimSpace(qcID)
	if qcID == "" {
		return nil, fmt.Errorf("%w: qc reviewer id is required", ErrInvalidInput)
	}
	order, err := s.transition(ctx, "qc reject", orderID,
		[]domain.State{domain.StateQCReview},
		ports.StateChange{To: domain.StateChangesRequested, AssignQC: &qcID, QCFeedback: &feedback},
	)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.QCRejected, order)
	return order, nil
}

// MarkPacked records that the letter has been packaged.
func (s *Service) MarkPacked(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.transition(ctx, "mark packed", orderID,
		[]domain.State{domain.StateApproved},
		ports.StateChange{To: domain.StatePacked},
	)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.OrderPacked, order)
	return order, nil
}

// MarkShipped hands the order to the courier.
func (s *Service) MarkShipped(ctx context.Context, orderID, trackingID string) (*domain.Order, error) {
	trackingID = strings.TrimSpace(trackingID)
	if trackingID == "" {
		return nil, fmt.Errorf("%w: tracking id is required", ErrInvalidInput)
	}
	now := time.Now().UTC()
	order, err := s.transition(ctx, "mark shipped", orderID,
		[]domain.State{domain.StateApproved, domain.StatePacked},
		ports.StateChange{To: domain.StateShipped, TrackingID: &trackingID, ShippedAt: &now},
	)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.OrderShipped, order)
	return order, nil
}

// MarkDelivered closes out the order. Terminal.
func (s *Service) MarkDelivered(ctx context.Context, orderID string) (*domain.Order, error) {
	now := time.Now().UTC()
	order, err := s.transition(ctx, "mark delivered", orderID,
		[]domain.State{domain.StateShipped},
		ports.StateChange{To: domain.StateDelivered, DeliveredAt: &now},
	)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.OrderDelivered, order)
	return order, nil
}

// Cancel aborts the order from any pre-shipped state. Cancelled orders are
// retained for audit and refund history.
func (s *Service) Cancel(ctx context.Context, orderID, reason string) (*domain.Order, error) {
	order, err := s.transition(ctx, "cancel", orderID,
		domain.CancellableStates(),
		ports.StateChange{To: domain.StateCancelled, CancelReason: &reason},
	)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.OrderCancelled, order)
	return order, nil
}

// transition runs one guarded update and translates a conditional-update miss
// into a descriptive illegal-transition error naming the actual state.
func (s *Service) transition(ctx context.Context, op, orderID string, from []domain.State, change ports.StateChange) (*domain.Order, error) {
	order, err := s.repo.Transition(ctx, orderID, from, change)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, ports.ErrStateConflict) {
		return nil, err
	}
	current, readErr := s.repo.GetByID(ctx, orderID)
	if readErr != nil {
		return nil, readErr
	}
	if change.RequireNoWriter && current.Fulfillment.AssignedWriter != "" && current.State == domain.StateAssigned {
		return nil, fmt.Errorf("%w: %s rejected, order %s is not available", ErrIllegalTransition, op, orderID)
	}
	return nil, illegalTransition(op, orderID, current.State)
}

func (s *Service) publish(ctx context.Context, name string, order *domain.Order) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.New(name, payloadFor(order)))
}

func payloadFor(order *domain.Order) events.OrderPayload {
	return events.OrderPayload{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		WriterID:   order.Fulfillment.AssignedWriter,
		QCID:       order.Fulfillment.AssignedQC,
		State:      string(order.State),
		KitSKU:     order.KitSKU,
		PriceCents: order.PriceCents,
		Pages:      order.Pages,
		TrackingID: order.Fulfillment.TrackingID,
		Feedback:   order.Fulfillment.QCFeedback,
		Reason:     order.CancelledReason,
	}
}

var _ ports.Service = (*Service)(nil)
