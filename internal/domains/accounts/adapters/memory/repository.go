// Package memory provides the in-memory accounts adapter used by tests and
// the no-database fallback wiring.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/inkwell-letters/fulfillment/internal/domains/accounts/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/accounts/ports"
)

var _ ports.Repository = (*Repository)(nil)

type Repository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
}

func NewRepository() *Repository {
	return &Repository{accounts: map[string]*domain.Account{}}
}

func (r *Repository) Save(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if account == nil {
		return nil, errors.New("account is nil")
	}
	clone := *account
	now := time.Now().UTC()
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = now
	}
	clone.UpdatedAt = now
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *account
	return &clone, nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		clone := *account
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *Repository) ListByRole(_ context.Context, role domain.Role) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Account, 0)
	for _, account := range r.accounts {
		if account.Role != role {
			continue
		}
		clone := *account
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}
