package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/inkwell-letters/fulfillment/internal/domains/inventory/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/inventory/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory inventory adapter. Adjust validates and applies
// under one lock, matching the conditional-update atomicity of the Postgres
// adapter.
type Repository struct {
	mu        sync.RWMutex
	items     map[string]*domain.Item
	movements map[string][]domain.Movement
}

func NewRepository() *Repository {
	return &Repository{
		items:     map[string]*domain.Item{},
		movements: map[string][]domain.Movement{},
	}
}

func (r *Repository) Save(_ context.Context, item *domain.Item) (*domain.Item, error) {
	if item == nil {
		return nil, errors.New("item is nil")
	}
	clone := *item
	now := time.Now().UTC()
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = now
	}
	clone.UpdatedAt = now
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[clone.SKU] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetBySKU(_ context.Context, sku string) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[sku]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Item, 0, len(r.items))
	for _, item := range r.items {
		clone := *item
		list = append(list, &clone)
	}
	return list, nil
}

func (r *Repository) Adjust(_ context.Context, sku string, op domain.Op, qty int) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[sku]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if err := item.Apply(op, qty); err != nil {
		return nil, err
	}
	item.UpdatedAt = time.Now().UTC()
	clone := *item
	return &clone, nil
}

func (r *Repository) RecordMovement(_ context.Context, movement domain.Movement) error {
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements[movement.SKU] = append(r.movements[movement.SKU], movement)
	return nil
}

func (r *Repository) Movements(_ context.Context, sku string) ([]domain.Movement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]domain.Movement, len(r.movements[sku]))
	copy(list, r.movements[sku])
	return list, nil
}
