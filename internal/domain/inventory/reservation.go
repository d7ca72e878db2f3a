// internal/domain/inventory/reservation.go
package inventory

import (
	"context"
	"fmt"

	"github.com/your-org/bookstore-commerce/internal/domain/catalog"
	"gorm.io/gorm"
)

// OutOfStockError names the product whose stock could not cover a
// reservation
type OutOfStockError struct {
	ProductID uint
	Requested int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("product %d is out of stock (requested %d)", e.ProductID, e.Requested)
}

// Repository is the atomic check-and-decrement primitive over one
// product's stock count. Two independent buyers can race for the last
// copy here, so implementations must use the store's own conditional
// write, never an unguarded read-then-write pair.
type Repository interface {
	Reserve(ctx context.Context, productID uint, quantity int) error
	Release(ctx context.Context, productID uint, quantity int) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates the database-backed reservation repository
func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Reserve decrements stock only if enough remains. The quantity guard
// rides in the UPDATE itself, so the database applies check and decrement
// as one step; zero rows affected means another buyer got there first or
// the stock was already short.
func (r *gormRepository) Reserve(ctx context.Context, productID uint, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("reservation quantity must be positive, got %d", quantity)
	}

	result := r.db.WithContext(ctx).Model(&catalog.Book{}).
		Where("id = ? AND quantity >= ?", productID, quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))

	if result.Error != nil {
		return fmt.Errorf("failed to reserve stock for product %d: %w", productID, result.Error)
	}
	if result.RowsAffected == 0 {
		return &OutOfStockError{ProductID: productID, Requested: quantity}
	}
	return nil
}

// Release is the compensating increment for a reservation that will not
// be kept, used when a multi-item order fails partway.
func (r *gormRepository) Release(ctx context.Context, productID uint, quantity int) error {
	result := r.db.WithContext(ctx).Model(&catalog.Book{}).
		Where("id = ?", productID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", quantity))

	if result.Error != nil {
		return fmt.Errorf("failed to release stock for product %d: %w", productID, result.Error)
	}
	return nil
}
