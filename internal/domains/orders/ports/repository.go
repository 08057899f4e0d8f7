package ports

import (
	"context"
	"errors"
	"time"

	"github.com/inkwell-letters/fulfillment/internal/domains/orders/domain"
)

var (
	// ErrNotFound signals the order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrStateConflict signals the conditional transition filter no longer
	// matched at write time (stale caller state or a concurrent transition).
	ErrStateConflict = errors.New("order state conflict")
)

// StateChange describes the mutation applied by a single atomic transition.
// Nil pointer fields leave the corresponding order field untouched.
type StateChange struct {
	To              domain.State
	AssignWriter    *string
	ClearWriter     bool
	AssignQC        *string
	SubmissionURL   *string
	QCFeedback      *string
	TrackingID      *string
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	Payment         *domain.Payment
	CancelReason    *string
	RequireWriter   string // transition only applies if assigned to this writer
	RequireNoWriter bool   // transition only applies while unassigned
}

// Repository persists orders. Transition is the only state mutator: it must
// apply the change in one conditional operation that succeeds only while the
// current state (and writer assignment guards) still match, returning
// ErrStateConflict otherwise. This closes the read-then-write race for every
// workflow operation, not just task claiming.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	ListByState(ctx context.Context, states ...domain.State) ([]*domain.Order, error)
	Transition(ctx context.Context, id string, from []domain.State, change StateChange) (*domain.Order, error)
}
