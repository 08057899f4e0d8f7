package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/inkwell-letters/fulfillment/internal/domains/orders/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter. Transition holds the
// lock across the precondition check and the mutation, giving the same
// conditional-update atomicity the Postgres adapter gets from a filtered
// UPDATE.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewRepository() *Repository {
	return &Repository{orders: map[string]*domain.Order{}}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	clone := *order
	now := time.Now().UTC()
	clone.CreatedAt = now
	clone.UpdatedAt = now
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *order
	return &clone, nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		clone := *order
		list = append(list, &clone)
	}
	return list, nil
}

func (r *Repository) ListByState(_ context.Context, states ...domain.State) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Order
	for _, order := range r.orders {
		for _, state := range states {
			if order.State == state {
				clone := *order
				list = append(list, &clone)
				break
			}
		}
	}
	return list, nil
}

func (r *Repository) Transition(_ context.Context, id string, from []domain.State, change ports.StateChange) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if !stateIn(order.State, from) {
		return nil, ports.ErrStateConflict
	}
	if change.RequireNoWriter && order.Fulfillment.AssignedWriter != "" {
		return nil, ports.ErrStateConflict
	}
	if change.RequireWriter != "" && order.Fulfillment.AssignedWriter != change.RequireWriter {
		return nil, ports.ErrStateConflict
	}

	order.State = change.To
	if change.AssignWriter != nil {
		order.Fulfillment.AssignedWriter = *change.AssignWriter
	}
	if change.ClearWriter {
		order.Fulfillment.AssignedWriter = ""
	}
	if change.AssignQC != nil {
		order.Fulfillment.AssignedQC = *change.AssignQC
	}
	if change.SubmissionURL != nil {
		order.Fulfillment.SubmissionURL = *change.SubmissionURL
	}
	if change.QCFeedback != nil {
		order.Fulfillment.QCFeedback = *change.QCFeedback
	}
	if change.TrackingID != nil {
		order.Fulfillment.TrackingID = *change.TrackingID
	}
	if change.ShippedAt != nil {
		at := *change.ShippedAt
		order.Fulfillment.ShippedAt = &at
	}
	if change.DeliveredAt != nil {
		at := *change.DeliveredAt
		order.Fulfillment.DeliveredAt = &at
	}
	if change.Payment != nil {
		order.Payment = *change.Payment
	}
	if change.CancelReason != nil {
		order.CancelledReason = *change.CancelReason
	}
	order.UpdatedAt = time.Now().UTC()
	clone := *order
	return &clone, nil
}

func stateIn(state domain.State, set []domain.State) bool {
	for _, s := range set {
		if s == state {
			return true
		}
	}
	return false
}
