// Package application implements the writer portal use cases on top of the
// order workflow engine.
package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	ordersdomain "github.com/inkwell-letters/fulfillment/internal/domains/orders/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/writers/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/writers/ports"
)

// ErrNotAssignedWriter rejects portal actions on orders owned by someone else.
var ErrNotAssignedWriter = errors.New("order is assigned to a different writer")

var _ ports.Service = (*Service)(nil)

// Service is the writer-facing portal. Task claiming and hand-back go
// straight through the engine's conditional transitions, so two writers
// racing for one task resolve to exactly one winner without any locking here.
type Service struct {
	engine  ports.Engine
	payouts ports.Repository
	rates   ports.RateProvider
}

func NewService(engine ports.Engine, payouts ports.Repository, rates ports.RateProvider) *Service {
	return &Service{engine: engine, payouts: payouts, rates: rates}
}

// OpenTasks lists paid, unassigned orders a writer may claim.
func (s *Service) OpenTasks(ctx context.Context) ([]*ordersdomain.Order, error) {
	return s.engine.ListOpenTasks(ctx)
}

// AcceptTask claims an open task for the writer.
func (s *Service) AcceptTask(ctx context.Context, orderID, writerID string) (*ordersdomain.Order, error) {
	return s.engine.ClaimWriter(ctx, orderID, writerID)
}

// DeclineTask hands a claimed task back to the open pool.
func (s *Service) DeclineTask(ctx context.Context, orderID, writerID string) (*ordersdomain.Order, error) {
	return s.engine.ReleaseWriter(ctx, orderID, writerID)
}

// StartWriting marks the claimed task as in progress.
func (s *Service) StartWriting(ctx context.Context, orderID, writerID string) (*ordersdomain.Order, error) {
	return s.engine.StartWriting(ctx, orderID, writerID)
}

// SubmitDraft uploads the writer's draft for QC. The portal checks ownership
// before handing off to the engine so one writer cannot submit on another's
// order.
func (s *Service) SubmitDraft(ctx context.Context, orderID, writerID, submissionURL string) (*ordersdomain.Order, error) {
	order, err := s.engine.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Fulfillment.AssignedWriter != writerID {
		return nil, fmt.Errorf("%w: order %s", ErrNotAssignedWriter, orderID)
	}
	return s.engine.UploadDraft(ctx, orderID, submissionURL)
}

// RecordEarnings books the payout for an approved order: the writer's
// per-page rate at booking time times the order's page count. Booked at most
// once per order; replays return the existing payout.
func (s *Service) RecordEarnings(ctx context.Context, orderID, writerID string, pages int) (*domain.Payout, error) {
	rate := int64(0)
	if s.rates != nil {
		var err error
		rate, err = s.rates.PerPageRateCents(ctx, writerID)
		if err != nil {
			return nil, err
		}
	}
	payout, err := domain.NewPayout(uuid.NewString(), writerID, orderID, pages, rate)
	if err != nil {
		return nil, err
	}
	saved, err := s.payouts.Save(ctx, payout)
	if errors.Is(err, ports.ErrDuplicatePayout) {
		return s.payouts.GetByOrder(ctx, orderID)
	}
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// EarningsFor sums a writer's booked payouts.
func (s *Service) EarningsFor(ctx context.Context, writerID string) (*ports.Earnings, error) {
	payouts, err := s.payouts.ListByWriter(ctx, writerID)
	if err != nil {
		return nil, err
	}
	earnings := &ports.Earnings{WriterID: writerID, Payouts: payouts}
	for _, payout := range payouts {
		earnings.TotalCents += payout.AmountCents
	}
	return earnings, nil
}
