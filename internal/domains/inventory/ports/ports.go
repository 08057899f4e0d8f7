package ports

import (
	"context"
	"errors"

	"github.com/inkwell-letters/fulfillment/internal/domains/inventory/domain"
)

var ErrNotFound = errors.New("inventory item not found")

// Repository persists inventory items and their movement trail. Adjust must
// validate and apply the operation atomically with respect to concurrent
// adjustments on the same SKU.
type Repository interface {
	Save(ctx context.Context, item *domain.Item) (*domain.Item, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Item, error)
	List(ctx context.Context) ([]*domain.Item, error)
	Adjust(ctx context.Context, sku string, op domain.Op, qty int) (*domain.Item, error)
	RecordMovement(ctx context.Context, movement domain.Movement) error
	Movements(ctx context.Context, sku string) ([]domain.Movement, error)
}

// Service defines the inventory use cases (inbound/driving port).
type Service interface {
	CreateItem(ctx context.Context, sku, name string, stock, threshold int) (*domain.Item, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Item, error)
	List(ctx context.Context) ([]*domain.Item, error)
	AdjustStock(ctx context.Context, sku string, qty int, reason, orderID string, op domain.Op) (*domain.Item, error)
	Movements(ctx context.Context, sku string) ([]domain.Movement, error)
}
