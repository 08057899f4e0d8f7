// Package ports declares the boundary interfaces of the writers context.
package ports

import (
	"context"
	"errors"

	ordersdomain "github.com/inkwell-letters/fulfillment/internal/domains/orders/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/writers/domain"
)

var (
	// ErrNotFound indicates the requested payout does not exist.
	ErrNotFound = errors.New("payout not found")
	// ErrDuplicatePayout indicates the order's payout was already booked.
	ErrDuplicatePayout = errors.New("payout already booked for order")
)

// Repository is the persistence boundary for payouts. Save must reject a
// second payout for the same order.
type Repository interface {
	Save(ctx context.Context, payout *domain.Payout) (*domain.Payout, error)
	GetByOrder(ctx context.Context, orderID string) (*domain.Payout, error)
	ListByWriter(ctx context.Context, writerID string) ([]*domain.Payout, error)
}

// Engine is the slice of the order workflow the writer portal drives.
type Engine interface {
	ListOpenTasks(ctx context.Context) ([]*ordersdomain.Order, error)
	GetByID(ctx context.Context, id string) (*ordersdomain.Order, error)
	ClaimWriter(ctx context.Context, orderID, writerID string) (*ordersdomain.Order, error)
	ReleaseWriter(ctx context.Context, orderID, writerID string) (*ordersdomain.Order, error)
	StartWriting(ctx context.Context, orderID, writerID string) (*ordersdomain.Order, error)
	UploadDraft(ctx context.Context, orderID, submissionURL string) (*ordersdomain.Order, error)
}

// RateProvider resolves a writer's per-page rate at booking time.
type RateProvider interface {
	PerPageRateCents(ctx context.Context, writerID string) (int64, error)
}

// Earnings summarizes a writer's booked payouts.
type Earnings struct {
	WriterID   string
	TotalCents int64
	Payouts    []*domain.Payout
}

// Service is the application boundary for the writer portal.
type Service interface {
	OpenTasks(ctx context.Context) ([]*ordersdomain.Order, error)
	AcceptTask(ctx context.Context, orderID, writerID string) (*ordersdomain.Order, error)
	DeclineTask(ctx context.Context, orderID, writerID string) (*ordersdomain.Order, error)
	StartWriting(ctx context.Context, orderID, writerID string) (*ordersdomain.Order, error)
	SubmitDraft(ctx context.Context, orderID, writerID, submissionURL string) (*ordersdomain.Order, error)
	RecordEarnings(ctx context.Context, orderID, writerID string, pages int) (*domain.Payout, error)
	EarningsFor(ctx context.Context, writerID string) (*Earnings, error)
}
