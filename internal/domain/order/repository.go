// internal/domain/order/repository.go
package order

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when an order does not exist
var ErrNotFound = errors.New("order not found")

// Repository provides order storage access
type Repository interface {
	Persist(ctx context.Context, o *Order) error
	ByID(ctx context.Context, id uint) (*Order, error)
	ByNumber(ctx context.Context, orderNumber string) (*Order, error)
	ListByUser(ctx context.Context, userID uint, page, limit int) ([]Order, int64, error)
	UpdateStatus(ctx context.Context, id uint, status Status, step int) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a GORM-backed order repository
func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Persist writes the order and its items as one database transaction and
// backfills the generated order number.
func (r *gormRepository) Persist(ctx context.Context, o *Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		o.OrderNumber = o.GenerateOrderNumber()
		if err := tx.Model(o).Update("order_number", o.OrderNumber).Error; err != nil {
			return fmt.Errorf("failed to update order number: %w", err)
		}

		return nil
	})
}

func (r *gormRepository) ByID(ctx context.Context, id uint) (*Order, error) {
	var o Order
	result := r.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&o)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}
	return &o, nil
}

func (r *gormRepository) ByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	var o Order
	result := r.db.WithContext(ctx).Preload("Items").Where("order_number = ?", orderNumber).First(&o)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}
	return &o, nil
}

func (r *gormRepository) ListByUser(ctx context.Context, userID uint, page, limit int) ([]Order, int64, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&Order{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	offset := (page - 1) * limit
	err := query.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	return orders, total, nil
}

func (r *gormRepository) UpdateStatus(ctx context.Context, id uint, status Status, step int) error {
	result := r.db.WithContext(ctx).Model(&Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"status_step": step,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
