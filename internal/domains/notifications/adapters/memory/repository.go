// Package memory provides the in-memory notification log adapter.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/inkwell-letters/fulfillment/internal/domains/notifications/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/notifications/ports"
)

var _ ports.Repository = (*Repository)(nil)

type Repository struct {
	mu            sync.RWMutex
	notifications []*domain.Notification
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) Save(_ context.Context, notification *domain.Notification) (*domain.Notification, error) {
	if notification == nil {
		return nil, errors.New("notification is nil")
	}
	clone := *notification
	clone.Channels = append([]domain.Channel(nil), notification.Channels...)
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, &clone)
	out := clone
	return &out, nil
}

func (r *Repository) ListByRecipient(_ context.Context, recipientID string) ([]*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Notification, 0)
	for _, notification := range r.notifications {
		if notification.RecipientID != recipientID {
			continue
		}
		clone := *notification
		list = append(list, &clone)
	}
	return list, nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Notification, 0, len(r.notifications))
	for _, notification := range r.notifications {
		clone := *notification
		list = append(list, &clone)
	}
	return list, nil
}
