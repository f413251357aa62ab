package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	redisclient "github.com/aurylabs/aury-backend/pkg/redis"
)

type cartBackend interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(storeID, sessionID string) string
}

// Store persists session carts in Redis with a rolling TTL.
type Store struct {
	backend cartBackend
	ttl     time.Duration
}

// NewStore wires the cart store to the shared Redis client.
func NewStore(client *redisclient.Client, ttl time.Duration) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &Store{backend: client, ttl: ttl}, nil
}

// Load returns the session's cart, or an empty cart when none is stored.
func (s *Store) Load(ctx context.Context, storeID, sessionID string) (*Cart, error) {
	raw, err := s.backend.Get(ctx, s.backend.CartKey(storeID, sessionID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return &Cart{}, nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return &cart, nil
}

// Save writes the cart back, refreshing the TTL. An empty cart is deleted
// instead of stored.
func (s *Store) Save(ctx context.Context, storeID, sessionID string, cart *Cart) error {
	key := s.backend.CartKey(storeID, sessionID)
	if cart == nil || len(cart.Lines) == 0 {
		return s.backend.Del(ctx, key)
	}

	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return s.backend.Set(ctx, key, string(payload), s.ttl)
}

// Clear removes the session's cart.
func (s *Store) Clear(ctx context.Context, storeID, sessionID string) error {
	return s.backend.Del(ctx, s.backend.CartKey(storeID, sessionID))
}
