package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/inkwell-letters/fulfillment/internal/domains/inventory/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/inventory/ports"
	"github.com/inkwell-letters/fulfillment/internal/events"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid inventory input")

// Publisher is the outbound port for stock alerts.
type Publisher interface {
	Publish(ctx context.Context, evt events.Event)
}

// Service is the sole mutator of stock counters. Every adjustment is typed,
// validated before mutation, and leaves an immutable movement record. After
// remove/reserve it publishes a low-stock advisory when the threshold is
// crossed; the advisory does not trigger any automatic reordering.
type Service struct {
	repo ports.Repository
	bus  Publisher
}

func NewService(repo ports.Repository, bus Publisher) *Service {
	return &Service{repo: repo, bus: bus}
}

func (s *Service) CreateItem(ctx context.Context, sku, name string, stock, threshold int) (*domain.Item, error) {
	item, err := domain.NewItem(uuid.NewString(), sku, name, stock, threshold)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, item)
}

func (s *Service) GetBySKU(ctx context.Context, sku string) (*domain.Item, error) {
	return s.repo.GetBySKU(ctx, strings.TrimSpace(sku))
}

func (s *Service) List(ctx context.Context) ([]*domain.Item, error) {
	return s.repo.List(ctx)
}

func (s *Service) Movements(ctx context.Context, sku string) ([]domain.Movement, error) {
	return s.repo.Movements(ctx, strings.TrimSpace(sku))
}

// AdjustStock applies one typed operation. Invariant failures reject the
// call before any write; nothing is partially applied.
func (s *Service) AdjustStock(ctx context.Context, sku string, qty int, reason, orderID string, op domain.Op) (*domain.Item, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, fmt.Errorf("%w: sku is required", ErrInvalidInput)
	}
	item, err := s.repo.Adjust(ctx, sku, op, qty)
	if err != nil {
		return nil, mapError(err)
	}
	movement := domain.Movement{
		ID:       uuid.NewString(),
		SKU:      sku,
		Op:       op,
		Quantity: qty,
		Reason:   reason,
		OrderID:  orderID,
	}
	if err := s.repo.RecordMovement(ctx, movement); err != nil {
		return nil, err
	}
	if (op == domain.OpRemove || op == domain.OpReserve) && item.LowStock() {
		s.alertLowStock(ctx, item)
	}
	return item, nil
}

func (s *Service) alertLowStock(ctx context.Context, item *domain.Item) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.New(events.LowStock, events.StockPayload{
		SKU:       item.SKU,
		Stock:     item.Stock,
		Reserved:  item.Reserved,
		Available: item.Available(),
		Threshold: item.Threshold,
	}))
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptySKU) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInsufficientStock) ||
		errors.Is(err, domain.ErrOverRelease) ||
		errors.Is(err, domain.ErrUnknownOp) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

var _ ports.Service = (*Service)(nil)
