// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"
	"time"

	"github.com/your-org/bookstore-commerce/internal/domain/catalog"
	"github.com/your-org/bookstore-commerce/internal/domain/coupon"
	"github.com/your-org/bookstore-commerce/internal/domain/order"
	"github.com/your-org/bookstore-commerce/internal/domain/wishlist"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Models in dependency order
	models := []interface{}{
		// Catalog - base table, carries the stock quantity
		&catalog.Book{},

		// Coupons
		&coupon.Coupon{},

		// Orders
		&order.Order{},
		&order.OrderItem{},

		// Remote (authoritative) wishlist
		&wishlist.RemoteEntry{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed")
	return nil
}

// CreateIndexes creates additional indexes not covered by model tags
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// Case-insensitive coupon lookup
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_coupons_code_lower ON coupons (LOWER(code))",
		// User order history, newest first
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders (user_id, created_at DESC)",
		// One wishlist row per user/product pair
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_wishlist_user_product ON wishlist_entries (user_id, product_id)",
	}

	for _, idx := range indexes {
		if err := m.db.Exec(idx).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("✅ Database indexes created")
	return nil
}

// SeedInitialData seeds development data
func (m *Migration) SeedInitialData() error {
	log.Println("🔄 Seeding initial data...")

	var bookCount int64
	if err := m.db.Model(&catalog.Book{}).Count(&bookCount).Error; err != nil {
		return fmt.Errorf("failed to count books: %w", err)
	}

	if bookCount == 0 {
		books := []catalog.Book{
			{
				Title:    "The Pragmatic Programmer",
				Author:   "Andrew Hunt, David Thomas",
				Cover:    "/covers/pragmatic-programmer.jpg",
				Price:    250000,
				Quantity: 40,
				IsActive: true,
			},
			{
				Title:    "Designing Data-Intensive Applications",
				Author:   "Martin Kleppmann",
				Cover:    "/covers/ddia.jpg",
				Price:    320000,
				Quantity: 25,
				IsActive: true,
			},
			{
				Title:    "Clean Architecture",
				Author:   "Robert C. Martin",
				Cover:    "/covers/clean-architecture.jpg",
				Price:    180000,
				Quantity: 1,
				IsActive: true,
			},
		}
		if err := m.db.Create(&books).Error; err != nil {
			return fmt.Errorf("failed to seed books: %w", err)
		}
	}

	var couponCount int64
	if err := m.db.Model(&coupon.Coupon{}).Count(&couponCount).Error; err != nil {
		return fmt.Errorf("failed to count coupons: %w", err)
	}

	if couponCount == 0 {
		coupons := []coupon.Coupon{
			{
				Code:          "WELCOME10",
				DiscountType:  coupon.DiscountTypePercentage,
				DiscountValue: 10,
				MinOrderValue: 200000,
				UsageLimit:    100,
				ExpiresAt:     time.Now().UTC().AddDate(1, 0, 0),
				IsActive:      true,
			},
			{
				Code:          "FLAT50K",
				DiscountType:  coupon.DiscountTypeFixed,
				DiscountValue: 50000,
				MinOrderValue: 0,
				UsageLimit:    20,
				ExpiresAt:     time.Now().UTC().AddDate(0, 3, 0),
				IsActive:      true,
			},
		}
		if err := m.db.Create(&coupons).Error; err != nil {
			return fmt.Errorf("failed to seed coupons: %w", err)
		}
	}

	log.Println("✅ Initial data seeded")
	return nil
}
