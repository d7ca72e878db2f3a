// internal/domain/coupon/entity.go
package coupon

import (
	"time"

	"gorm.io/gorm"
)

// DiscountType represents how a coupon discounts an order
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Coupon represents a discount code. Codes are unique case-insensitively.
// UsedCount only grows, mutated by admin edits and by the post-checkout
// usage increment; used_count <= usage_limit is best-effort under
// concurrency because the increment runs outside the order transaction.
type Coupon struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Code          string         `gorm:"not null;size:50" json:"code"`
	DiscountType  DiscountType   `gorm:"not null;size:20" json:"discount_type"`
	DiscountValue int64          `gorm:"not null" json:"discount_value"` // Percent or fixed amount
	MinOrderValue int64          `gorm:"default:0" json:"min_order_value"`
	UsageLimit    int            `gorm:"not null;default:0" json:"usage_limit"`
	UsedCount     int            `gorm:"not null;default:0" json:"used_count"`
	ExpiresAt     time.Time      `json:"expires_at"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Coupon) TableName() string {
	return "coupons"
}

// Applied represents a coupon accepted for a given subtotal
type Applied struct {
	Code          string       `json:"code"`
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue int64        `json:"discount_value"`
	Discount      int64        `json:"discount"` // Amount taken off the subtotal
}

// ComputeDiscount calculates the discount a coupon grants on a subtotal.
// A fixed discount is returned verbatim, even above the subtotal; the
// downstream total may go negative. Clamping is a pending product
// decision, so current behavior is kept.
func ComputeDiscount(c *Coupon, subtotal int64) int64 {
	if c.DiscountType == DiscountTypePercentage {
		return subtotal * c.DiscountValue / 100
	}
	return c.DiscountValue
}
