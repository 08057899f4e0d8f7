// Package application implements the QC desk use cases on top of the order
// workflow engine.
package application

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	ordersdomain "github.com/inkwell-letters/fulfillment/internal/domains/orders/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/qc/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/qc/ports"
)

var _ ports.Service = (*Service)(nil)

// Service is the QC desk. Verdicts go through the engine's conditional
// transition first, then the review record is appended; the engine is the
// source of truth for order state, reviews are the audit trail.
type Service struct {
	engine  ports.Engine
	reviews ports.Repository
	logger  *slog.Logger
}

func NewService(engine ports.Engine, reviews ports.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{engine: engine, reviews: reviews, logger: logger}
}

// Queue lists orders waiting for review.
func (s *Service) Queue(ctx context.Context) ([]*ordersdomain.Order, error) {
	orders, err := s.engine.List(ctx)
	if err != nil {
		return nil, err
	}
	queue := orders[:0]
	for _, order := range orders {
		if order.State == ordersdomain.StateQCReview {
			queue = append(queue, order)
		}
	}
	return queue, nil
}

// Approve accepts the draft and records the verdict.
func (s *Service) Approve(ctx context.Context, orderID, reviewerID string, checklist domain.Checklist) (*domain.Review, error) {
	review, err := domain.NewReview(uuid.NewString(), orderID, reviewerID, domain.OutcomeApproved, "", checklist)
	if err != nil {
		return nil, err
	}
	order, err := s.engine.ApproveQC(ctx, orderID, reviewerID)
	if err != nil {
		return nil, err
	}
	review.SubmissionURL = order.Fulfillment.SubmissionURL
	return s.record(ctx, review)
}

// Reject sends the draft back to the writer. Feedback is mandatory.
func (s *Service) Reject(ctx context.Context, orderID, reviewerID, feedback string, checklist domain.Checklist) (*domain.Review, error) {
	review, err := domain.NewReview(uuid.NewString(), orderID, reviewerID, domain.OutcomeChangesRequested, feedback, checklist)
	if err != nil {
		return nil, err
	}
	order, err := s.engine.RejectQC(ctx, orderID, reviewerID, feedback)
	if err != nil {
		return nil, err
	}
	review.SubmissionURL = order.Fulfillment.SubmissionURL
	return s.record(ctx, review)
}

// History returns every verdict recorded for an order, oldest first.
func (s *Service) History(ctx context.Context, orderID string) ([]*domain.Review, error) {
	return s.reviews.ListByOrder(ctx, orderID)
}

func (s *Service) record(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	saved, err := s.reviews.Save(ctx, review)
	if err != nil {
		// the order already transitioned; losing the audit record is
		// worth surfacing loudly
		s.logger.ErrorContext(ctx, "qc review record failed after transition",
			slog.String("order_id", review.OrderID),
			slog.String("outcome", string(review.Outcome)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return saved, nil
}
