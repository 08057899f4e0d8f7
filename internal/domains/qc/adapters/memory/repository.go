// Package memory provides the in-memory review adapter.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/inkwell-letters/fulfillment/internal/domains/qc/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/qc/ports"
)

var _ ports.Repository = (*Repository)(nil)

type Repository struct {
	mu      sync.RWMutex
	reviews []*domain.Review
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) Save(_ context.Context, review *domain.Review) (*domain.Review, error) {
	if review == nil {
		return nil, errors.New("review is nil")
	}
	clone := *review
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviews = append(r.reviews, &clone)
	out := clone
	return &out, nil
}

func (r *Repository) ListByOrder(_ context.Context, orderID string) ([]*domain.Review, error) {
	return r.filter(func(review *domain.Review) bool { return review.OrderID == orderID })
}

func (r *Repository) ListByReviewer(_ context.Context, reviewerID string) ([]*domain.Review, error) {
	return r.filter(func(review *domain.Review) bool { return review.ReviewerID == reviewerID })
}

func (r *Repository) filter(keep func(*domain.Review) bool) ([]*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Review, 0)
	for _, review := range r.reviews {
		if !keep(review) {
			continue
		}
		clone := *review
		list = append(list, &clone)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}
