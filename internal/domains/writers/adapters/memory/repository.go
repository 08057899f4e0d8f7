// Package memory provides the in-memory payout adapter.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/inkwell-letters/fulfillment/internal/domains/writers/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/writers/ports"
)

var _ ports.Repository = (*Repository)(nil)

type Repository struct {
	mu      sync.RWMutex
	byOrder map[string]*domain.Payout
}

func NewRepository() *Repository {
	return &Repository{byOrder: map[string]*domain.Payout{}}
}

func (r *Repository) Save(_ context.Context, payout *domain.Payout) (*domain.Payout, error) {
	if payout == nil {
		return nil, errors.New("payout is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byOrder[payout.OrderID]; exists {
		return nil, ports.ErrDuplicatePayout
	}
	clone := *payout
	r.byOrder[clone.OrderID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetByOrder(_ context.Context, orderID string) (*domain.Payout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	payout, ok := r.byOrder[orderID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *payout
	return &clone, nil
}

func (r *Repository) ListByWriter(_ context.Context, writerID string) ([]*domain.Payout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Payout, 0)
	for _, payout := range r.byOrder {
		if payout.WriterID != writerID {
			continue
		}
		clone := *payout
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].BookedAt.Before(list[j].BookedAt) })
	return list, nil
}
