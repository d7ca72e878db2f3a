// internal/domain/wishlist/repository.go
package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// LocalRepository is the durable device cache holding product snapshots.
// It is readable offline and mirrors every wishlist change regardless of
// auth state.
type LocalRepository interface {
	Load(ctx context.Context, deviceID string) ([]Entry, error)
	Save(ctx context.Context, deviceID string, entries []Entry) error
}

// RemoteRepository is the authoritative store: a normalized id list per
// signed-in user.
type RemoteRepository interface {
	IDs(ctx context.Context, userID uint) ([]uint, error)
	Replace(ctx context.Context, userID uint, productIDs []uint) error
}

type redisLocalRepository struct {
	client *redis.Client
}

// NewRedisLocalRepository creates a Redis-backed local wishlist cache
func NewRedisLocalRepository(client *redis.Client) LocalRepository {
	return &redisLocalRepository{client: client}
}

func wishlistKey(deviceID string) string {
	return fmt.Sprintf("wishlist:device:%s", deviceID)
}

func (r *redisLocalRepository) Load(ctx context.Context, deviceID string) ([]Entry, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("device ID required for wishlist access")
	}

	data, err := r.client.Get(ctx, wishlistKey(deviceID)).Result()
	if errors.Is(err, redis.Nil) {
		return []Entry{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load wishlist cache: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, fmt.Errorf("failed to decode cached wishlist: %w", err)
	}

	return entries, nil
}

func (r *redisLocalRepository) Save(ctx context.Context, deviceID string, entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode wishlist: %w", err)
	}
	return r.client.Set(ctx, wishlistKey(deviceID), data, 0).Err()
}

type gormRemoteRepository struct {
	db *gorm.DB
}

// NewGormRemoteRepository creates the authoritative wishlist repository
func NewGormRemoteRepository(db *gorm.DB) RemoteRepository {
	return &gormRemoteRepository{db: db}
}

func (r *gormRemoteRepository) IDs(ctx context.Context, userID uint) ([]uint, error) {
	var rows []RemoteEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load remote wishlist: %w", err)
	}

	out := make([]uint, len(rows))
	for i, row := range rows {
		out[i] = row.ProductID
	}
	return out, nil
}

// Replace overwrites the user's remote id list. Whole-list replacement,
// not a merge: a later write supersedes an earlier one.
func (r *gormRemoteRepository) Replace(ctx context.Context, userID uint, productIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&RemoteEntry{}).Error; err != nil {
			return fmt.Errorf("failed to clear remote wishlist: %w", err)
		}

		if len(productIDs) == 0 {
			return nil
		}

		rows := make([]RemoteEntry, len(productIDs))
		for i, id := range productIDs {
			rows[i] = RemoteEntry{
				UserID:    userID,
				ProductID: id,
				Position:  i,
			}
		}

		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to write remote wishlist: %w", err)
		}
		return nil
	})
}
