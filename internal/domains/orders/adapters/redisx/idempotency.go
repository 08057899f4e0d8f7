package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/inkwell-letters/fulfillment/internal/domains/orders/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

const keyPrefix = "fulfillment:payment:"

// IdempotencyStore persists payment confirmation keys in Redis so replayed
// gateway webhooks are answered consistently across API instances.
type IdempotencyStore struct {
	client *redis.Client
}

func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

type storedRecord struct {
	OrderID   string `json:"order_id"`
	CreatedAt string `json:"created_at"`
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("redis idempotency store not configured")
	}
	raw, err := s.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return decode(key, raw)
}

func (s *IdempotencyStore) Save(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("redis idempotency store not configured")
	}
	payload, err := json.Marshal(storedRecord{OrderID: record.OrderID, CreatedAt: record.CreatedAt.Format(time.RFC3339Nano)})
	if err != nil {
		return nil, err
	}
	set, err := s.client.SetNX(ctx, keyPrefix+record.Key, payload, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("redis setnx %s: %w", record.Key, err)
	}
	if set {
		clone := record
		return &clone, nil
	}
	existing, err := s.Get(ctx, record.Key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		// Key expired between SetNX and Get; treat as fresh write.
		clone := record
		return &clone, nil
	}
	if existing.OrderID != record.OrderID {
		return existing, ports.ErrIdempotencyConflict
	}
	return existing, nil
}

func decode(key, raw string) (*ports.IdempotencyRecord, error) {
	var stored storedRecord
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("redis decode %s: %w", key, err)
	}
	return &ports.IdempotencyRecord{Key: key, OrderID: stored.OrderID}, nil
}
