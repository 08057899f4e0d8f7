package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptySKU          = errors.New("sku is required")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInsufficientStock = errors.New("insufficient available stock")
	ErrOverRelease       = errors.New("release exceeds reserved quantity")
	ErrUnknownOp         = errors.New("unknown stock operation")
)

// Op enumerates the typed stock adjustments. These are the only mutations
// allowed on an item's counters.
type Op string

const (
	OpAdd     Op = "add"
	OpRemove  Op = "remove"
	OpReserve Op = "reserve"
	OpRelease Op = "release"
)

// Item tracks physical stock for one stationery SKU. Invariant: reserved
// never exceeds stock, so Available is never negative.
type Item struct {
	ID        string
	SKU       string
	Name      string
	Stock     int
	Reserved  int
	Threshold int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewItem validates and constructs an inventory item.
func NewItem(id, sku, name string, stock, threshold int) (*Item, error) {
	item := &Item{
		ID:        id,
		SKU:       strings.TrimSpace(sku),
		Name:      strings.TrimSpace(name),
		Stock:     stock,
		Threshold: threshold,
	}
	if item.SKU == "" {
		return nil, ErrEmptySKU
	}
	if item.Stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot start negative", ErrInvalidQuantity)
	}
	return item, nil
}

// Available is the uncommitted quantity on hand.
func (i *Item) Available() int {
	return i.Stock - i.Reserved
}

// LowStock reports whether the item has crossed its alert threshold.
func (i *Item) LowStock() bool {
	return i.Available() <= i.Threshold
}

// Apply mutates the counters for one typed operation, validating the
// relevant invariant before touching anything. Remove and reserve are both
// bounded by the available (unreserved) quantity.
func (i *Item) Apply(op Op, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	switch op {
	case OpAdd:
		i.Stock += qty
	case OpRemove:
		if qty > i.Available() {
			return fmt.Errorf("%w: remove %d exceeds available %d for %s", ErrInsufficientStock, qty, i.Available(), i.SKU)
		}
		i.Stock -= qty
	case OpReserve:
		if qty > i.Available() {
			return fmt.Errorf("%w: reserve %d exceeds available %d for %s", ErrInsufficientStock, qty, i.Available(), i.SKU)
		}
		i.Reserved += qty
	case OpRelease:
		if qty > i.Reserved {
			return fmt.Errorf("%w: release %d exceeds reserved %d for %s", ErrOverRelease, qty, i.Reserved, i.SKU)
		}
		i.Reserved -= qty
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, op)
	}
	return nil
}

// Movement is the immutable audit record of one applied adjustment.
type Movement struct {
	ID        string
	SKU       string
	Op        Op
	Quantity  int
	Reason    string
	OrderID   string
	CreatedAt time.Time
}
