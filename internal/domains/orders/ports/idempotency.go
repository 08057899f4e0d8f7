package ports

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyConflict indicates the same gateway payment id was already
// recorded against a different order.
var ErrIdempotencyConflict = errors.New("idempotency conflict")

// IdempotencyRecord associates a gateway payment id with the order it
// confirmed so replayed webhooks can be answered without re-transitioning.
type IdempotencyRecord struct {
	Key       string
	OrderID   string
	CreatedAt time.Time
}

// IdempotencyStore persists payment confirmation keys.
type IdempotencyStore interface {
	// Get returns the stored record for the key, or nil when unknown.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Save persists the record. If the key exists for the same order the
	// stored record is returned; if it points at a different order,
	// ErrIdempotencyConflict is returned with the stored record.
	Save(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
}
