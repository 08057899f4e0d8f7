// Package ports declares the boundary interfaces of the QC context.
package ports

import (
	"context"
	"errors"

	ordersdomain "github.com/inkwell-letters/fulfillment/internal/domains/orders/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/qc/domain"
)

// ErrNotFound indicates no review exists for the query.
var ErrNotFound = errors.New("review not found")

// Repository is the persistence boundary for reviews. Reviews are
// append-only.
type Repository interface {
	Save(ctx context.Context, review *domain.Review) (*domain.Review, error)
	ListByOrder(ctx context.Context, orderID string) ([]*domain.Review, error)
	ListByReviewer(ctx context.Context, reviewerID string) ([]*domain.Review, error)
}

// Engine is the slice of the order workflow the QC desk drives.
type Engine interface {
	List(ctx context.Context) ([]*ordersdomain.Order, error)
	ApproveQC(ctx context.Context, orderID, qcID string) (*ordersdomain.Order, error)
	RejectQC(ctx context.Context, orderID, qcID, feedback string) (*ordersdomain.Order, error)
}

// Service is the application boundary for the QC desk.
type Service interface {
	Queue(ctx context.Context) ([]*ordersdomain.Order, error)
	Approve(ctx context.Context, orderID, reviewerID string, checklist domain.Checklist) (*domain.Review, error)
	Reject(ctx context.Context, orderID, reviewerID, feedback string, checklist domain.Checklist) (*domain.Review, error)
	History(ctx context.Context, orderID string) ([]*domain.Review, error)
}
