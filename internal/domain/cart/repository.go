// internal/domain/cart/repository.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Repository persists a device's cart in the durable local cache.
// The whole cart is written as one JSON value: carts are small and a blob
// write survives a reload without any merge logic.
type Repository interface {
	Load(ctx context.Context, deviceID string) (*Cart, error)
	Save(ctx context.Context, deviceID string, c *Cart) error
	Delete(ctx context.Context, deviceID string) error
}

type redisRepository struct {
	client *redis.Client
}

// NewRedisRepository creates a Redis-backed cart repository
func NewRedisRepository(client *redis.Client) Repository {
	return &redisRepository{client: client}
}

func cartKey(deviceID string) string {
	return fmt.Sprintf("cart:device:%s", deviceID)
}

// Load reads the cart for a device, returning an empty cart when none exists
func (r *redisRepository) Load(ctx context.Context, deviceID string) (*Cart, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("device ID required for cart access")
	}

	data, err := r.client.Get(ctx, cartKey(deviceID)).Result()
	if errors.Is(err, redis.Nil) {
		now := time.Now().UTC()
		return &Cart{
			Items:       []LineItem{},
			SelectedIDs: []uint{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var c Cart
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("failed to decode cached cart: %w", err)
	}

	return &c, nil
}

// Save writes the full cart. No TTL: the device cache is durable until an
// explicit clear.
func (r *redisRepository) Save(ctx context.Context, deviceID string, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	return r.client.Set(ctx, cartKey(deviceID), data, 0).Err()
}

// Delete removes the cached cart for a device
func (r *redisRepository) Delete(ctx context.Context, deviceID string) error {
	return r.client.Del(ctx, cartKey(deviceID)).Err()
}
