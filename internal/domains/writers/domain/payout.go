// Package domain holds the writer payout model.
package domain

import (
	"errors"
	"time"
)

var (
	ErrEmptyWriter  = errors.New("payout writer id is required")
	ErrEmptyOrder   = errors.New("payout order id is required")
	ErrInvalidPages = errors.New("payout pages must be positive")
	ErrInvalidRate  = errors.New("payout rate must not be negative")
)

// Payout is one booked earning for a writer: the per-page rate at approval
// time multiplied by the order's page count. Booked once per order.
type Payout struct {
	ID          string
	WriterID    string
	OrderID     string
	Pages       int
	RateCents   int64
	AmountCents int64
	BookedAt    time.Time
}

// NewPayout computes and validates a payout.
func NewPayout(id, writerID, orderID string, pages int, rateCents int64) (*Payout, error) {
	switch {
	case writerID == "":
		return nil, ErrEmptyWriter
	case orderID == "":
		return nil, ErrEmptyOrder
	case pages <= 0:
		return nil, ErrInvalidPages
	case rateCents < 0:
		return nil, ErrInvalidRate
	}
	return &Payout{
		ID:          id,
		WriterID:    writerID,
		OrderID:     orderID,
		Pages:       pages,
		RateCents:   rateCents,
		AmountCents: int64(pages) * rateCents,
		BookedAt:    time.Now().UTC(),
	}, nil
}
